package http

import (
	"net/http"

	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
	"github.com/craftlink/auth-server/internal/service"
)

// 5 MiB is plenty for a profile photo.
const maxAvatarSize = 5 << 20

// AccountHandler serves the authenticated account view and avatar
// uploads.
type AccountHandler struct {
	accounts       *service.AccountService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAccountHandler(
	accounts *service.AccountService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *AccountHandler {
	return &AccountHandler{
		accounts:       accounts,
		contextManager: contextManager,
		logger:         logger,
	}
}

// GetSelf handles GET /api/account/me.
func (h *AccountHandler) GetSelf(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.contextManager.GetAccountIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrUnauthenticated)
		return
	}

	projection, err := h.accounts.GetSelf(r.Context(), accountID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{Account: projection})
}

type avatarResponse struct {
	AvatarKey string `json:"avatar_key"`
}

// UploadAvatar handles POST /api/account/avatar with a multipart form
// carrying the image in the "avatar" field.
func (h *AccountHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.contextManager.GetAccountIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrUnauthenticated)
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeError(w, h.logger, model.NewValidationError("avatar", "malformed multipart form"))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, h.logger, model.NewValidationError("avatar", "file required"))
		return
	}
	defer file.Close()

	if header.Size > maxAvatarSize {
		writeError(w, h.logger, model.NewValidationError("avatar", "file too large"))
		return
	}

	key, err := h.accounts.UploadAvatar(r.Context(), accountID, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, avatarResponse{AvatarKey: key})
}
