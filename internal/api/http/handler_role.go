package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
	"github.com/craftlink/auth-server/internal/service"
)

// RoleHandler serves the role transition and profile completion.
type RoleHandler struct {
	role           *service.Role
	contextManager model.ContextManager
	validate       *validator.Validate
	logger         *logger.Logger
}

func NewRoleHandler(
	role *service.Role,
	contextManager model.ContextManager,
	validate *validator.Validate,
	logger *logger.Logger,
) *RoleHandler {
	return &RoleHandler{
		role:           role,
		contextManager: contextManager,
		validate:       validate,
		logger:         logger,
	}
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=buyer artisan marketer"`
}

type accountResponse struct {
	Account model.Projection `json:"account"`
}

// UpdateRole handles PATCH /api/account/role. The transition succeeds
// at most once per account.
func (h *RoleHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.contextManager.GetAccountIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrUnauthenticated)
		return
	}

	var req updateRoleRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	account, err := h.role.UpdateRole(r.Context(), accountID, req.Role)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{Account: account.Projection()})
}

type completeProfileRequest struct {
	Role        string  `json:"role" validate:"required,oneof=buyer artisan marketer"`
	Age         int     `json:"age" validate:"required"`
	Gender      string  `json:"gender" validate:"required,oneof=male female other"`
	Location    string  `json:"location" validate:"required"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,e164"`
}

// CompleteProfile handles POST /api/account/profile.
func (h *RoleHandler) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.contextManager.GetAccountIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrUnauthenticated)
		return
	}

	var req completeProfileRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	account, err := h.role.CompleteProfile(r.Context(), accountID, service.ProfileInput{
		Role:        req.Role,
		Age:         req.Age,
		Gender:      req.Gender,
		Location:    req.Location,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{Account: account.Projection()})
}
