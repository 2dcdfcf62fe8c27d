package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
	"github.com/craftlink/auth-server/internal/service"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	registration   *service.Registration
	auth           *service.Auth
	contextManager model.ContextManager
	validate       *validator.Validate
	logger         *logger.Logger
}

func NewAuthHandler(
	registration *service.Registration,
	auth *service.Auth,
	contextManager model.ContextManager,
	validate *validator.Validate,
	logger *logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		registration:   registration,
		auth:           auth,
		contextManager: contextManager,
		validate:       validate,
		logger:         logger,
	}
}

type registerRequest struct {
	Name        string  `json:"name" validate:"required"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,e164"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=8"`
	Role        *string `json:"role,omitempty"`
}

type registerResponse struct {
	Account              model.Projection `json:"account"`
	VerificationRequired bool             `json:"verification_required"`
	VerificationMethod   string           `json:"verification_method"`
	Warning              string           `json:"warning,omitempty"`
}

// Register handles POST /api/auth/register. No session is issued; the
// client must verify the registered channel first.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.registration.Register(r.Context(), service.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        req.Role,
	})
	if err != nil && !result.VerificationRequired {
		writeError(w, h.logger, err)
		return
	}

	resp := registerResponse{
		Account:              result.Account.Projection(),
		VerificationRequired: result.VerificationRequired,
		VerificationMethod:   result.VerificationMethod,
	}

	// a delivery failure still created the account: report it with the
	// created resource so the client can drive a resend
	if err != nil {
		h.logger.Error("Auth handler: verification delivery failed",
			"account_id", result.Account.ID,
			"error", err.Error())
		resp.Warning = "verification delivery failed, request a new token via the resend endpoint"
	}

	writeJSON(w, http.StatusCreated, resp)
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token   string           `json:"token"`
	Account model.Projection `json:"account"`
}

// Login handles POST /api/auth/login. The identifier field takes an
// email address or an E.164 phone number.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:   result.Token,
		Account: result.Account.Projection(),
	})
}

// Logout handles POST /api/auth/logout. It revokes only the presented
// session; other sessions of the account stay valid.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	jti, ok := h.contextManager.GetSessionJTIFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrUnauthenticated)
		return
	}

	if err := h.auth.Logout(r.Context(), jti); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
