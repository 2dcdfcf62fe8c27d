package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/craftlink/auth-server/internal/model"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var _ model.IdentityResolver = (*Google)(nil)

// Google resolves authorization codes against Google's OAuth2 endpoints
// into normalized external identities.
type Google struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	return &Google{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (g *Google) AuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (g *Google) Exchange(ctx context.Context, code string) (model.ExternalIdentity, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("failed to exchange code: %w", err)
	}

	client := g.config.Client(ctx, token)
	resp, err := client.Get(g.userInfoURL)
	if err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return model.ExternalIdentity{}, fmt.Errorf("user info request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var info struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("failed to decode user info: %w", err)
	}
	if info.ID == "" {
		return model.ExternalIdentity{}, fmt.Errorf("user info missing subject id")
	}

	return model.ExternalIdentity{
		Provider:     "google",
		ProviderID:   info.ID,
		Email:        info.Email,
		Name:         info.Name,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}, nil
}
