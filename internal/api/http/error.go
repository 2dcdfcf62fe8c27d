package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeError maps a model error to an HTTP status and JSON body. The
// internal error text never reaches the client for unexpected errors.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	if ve, ok := model.AsValidationError(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "validation failed",
			Fields: ve.Fields,
		})
		return
	}

	var status int
	var message string

	switch {
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrUnauthenticated):
		status, message = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, model.ErrEmailNotVerified):
		status, message = http.StatusForbidden, "email not verified"
	case errors.Is(err, model.ErrPhoneNotVerified):
		status, message = http.StatusForbidden, "phone number not verified"
	case errors.Is(err, model.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, model.ErrEmailTaken):
		status, message = http.StatusConflict, "email already taken"
	case errors.Is(err, model.ErrPhoneTaken):
		status, message = http.StatusConflict, "phone number already taken"
	case errors.Is(err, model.ErrAlreadyVerified):
		status, message = http.StatusConflict, "already verified"
	case errors.Is(err, model.ErrRoleAlreadyAssigned):
		status, message = http.StatusConflict, "role already assigned"
	case errors.Is(err, model.ErrInvalidToken):
		status, message = http.StatusBadRequest, "invalid or expired token"
	case errors.Is(err, model.ErrMissingEmail):
		status, message = http.StatusUnprocessableEntity, "external identity has no email"
	case errors.Is(err, model.ErrRateLimited):
		status, message = http.StatusTooManyRequests, "too many requests"
	case errors.Is(err, model.ErrDeliveryFailed):
		status, message = http.StatusBadGateway, "delivery failed"
	case errors.Is(err, model.ErrTransient),
		errors.Is(err, context.DeadlineExceeded):
		status, message = http.StatusServiceUnavailable, "temporarily unavailable"
	default:
		log.Error("handler: internal error", "error", err.Error())
		status, message = http.StatusInternalServerError, "internal server error"
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
