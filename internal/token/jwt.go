package token

import (
	"fmt"
	"time"

	"github.com/craftlink/auth-server/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents JWT claims carrying the account ID. The registered
// ID (jti) ties the token to one session row so revocation works
// per-token.
type Claims struct {
	jwt.RegisteredClaims
	AccountID uuid.UUID `json:"account_id"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) model.TokenManager {
	return &JWT{secretKey: secretKey}
}

// GenerateAccessToken creates a bearer token bound to the session jti.
func (j *JWT) GenerateAccessToken(accountID uuid.UUID, jti string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: accountID,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken validates the token and extracts the account ID and
// session jti.
func (j *JWT) ParseAccessToken(tokenString string) (uuid.UUID, string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to parse access token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, "", fmt.Errorf("access token is invalid")
	}
	if claims.ID == "" {
		return uuid.Nil, "", fmt.Errorf("access token has no session id")
	}
	return claims.AccountID, claims.ID, nil
}
