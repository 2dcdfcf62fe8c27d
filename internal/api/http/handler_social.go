package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
	"github.com/craftlink/auth-server/internal/service"
)

const stateCookieName = "oauth_state"

// SocialHandler serves the Google sign-on flow.
type SocialHandler struct {
	social *service.Social
	logger *logger.Logger
}

func NewSocialHandler(social *service.Social, logger *logger.Logger) *SocialHandler {
	return &SocialHandler{
		social: social,
		logger: logger,
	}
}

// Redirect handles GET /api/auth/google. It sets the state cookie and
// sends the client to the provider consent page.
func (h *SocialHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   300,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.social.AuthURL(state), http.StatusFound)
}

type socialLoginResponse struct {
	Token                 string           `json:"token"`
	Account               model.Projection `json:"account"`
	RequiresProfileUpdate bool             `json:"requires_profile_update"`
}

// Callback handles GET /api/auth/google/callback. The state parameter
// must match the cookie set at redirect time.
func (h *SocialHandler) Callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookieName)
	if err != nil || state == "" || cookie.Value != state {
		writeError(w, h.logger, model.NewValidationError("state", "mismatch"))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, h.logger, model.NewValidationError("code", "required"))
		return
	}

	result, err := h.social.LinkOrCreate(r.Context(), code)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, socialLoginResponse{
		Token:                 result.Token,
		Account:               result.Account.Projection(),
		RequiresProfileUpdate: result.RequiresProfileUpdate,
	})
}
