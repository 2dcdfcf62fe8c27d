package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
	"github.com/craftlink/auth-server/internal/service"
)

// VerificationHandler serves the email and phone verification flows.
type VerificationHandler struct {
	verification *service.Verification
	validate     *validator.Validate
	logger       *logger.Logger
}

func NewVerificationHandler(
	verification *service.Verification,
	validate *validator.Validate,
	logger *logger.Logger,
) *VerificationHandler {
	return &VerificationHandler{
		verification: verification,
		validate:     validate,
		logger:       logger,
	}
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestEmail handles POST /api/verification/email/request. Also the
// resend endpoint: a fresh token replaces any pending one.
func (h *VerificationHandler) RequestEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.verification.RequestEmail(r.Context(), req.Email); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

type confirmEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
}

type confirmResponse struct {
	Token   string           `json:"token"`
	Account model.Projection `json:"account"`
}

// ConfirmEmail handles POST /api/verification/email/confirm. A
// successful confirm logs the client in.
func (h *VerificationHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req confirmEmailRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.verification.ConfirmEmail(r.Context(), req.Email, req.Token)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, confirmResponse{
		Token:   result.Token,
		Account: result.Account.Projection(),
	})
}

type phoneRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
}

// RequestPhoneCode handles POST /api/verification/phone/request.
func (h *VerificationHandler) RequestPhoneCode(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.verification.RequestPhoneCode(r.Context(), req.PhoneNumber); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// ResendPhoneCode handles POST /api/verification/phone/resend. Same
// cooldown as the initial request.
func (h *VerificationHandler) ResendPhoneCode(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.verification.ResendPhoneCode(r.Context(), req.PhoneNumber); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

type confirmPhoneRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
	Code        string `json:"code" validate:"required,len=6"`
}

// ConfirmPhoneCode handles POST /api/verification/phone/confirm. A
// successful confirm logs the client in.
func (h *VerificationHandler) ConfirmPhoneCode(w http.ResponseWriter, r *http.Request) {
	var req confirmPhoneRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.verification.ConfirmPhoneCode(r.Context(), req.PhoneNumber, req.Code)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, confirmResponse{
		Token:   result.Token,
		Account: result.Account.Projection(),
	})
}
