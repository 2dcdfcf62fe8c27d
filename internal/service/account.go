package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
)

// AccountService serves the outward-facing account view and avatar
// uploads.
type AccountService struct {
	accountStore model.AccountStore
	storage      model.Storage
	logger       *logger.Logger
}

func NewAccountService(
	accountStore model.AccountStore,
	storage model.Storage,
	logger *logger.Logger,
) *AccountService {
	return &AccountService{
		accountStore: accountStore,
		storage:      storage,
		logger:       logger,
	}
}

// GetSelf returns the projection of the authenticated account. Secrets
// never leave the store layer through this path.
func (s *AccountService) GetSelf(ctx context.Context, accountID uuid.UUID) (model.Projection, error) {
	account, err := s.accountStore.GetByID(ctx, accountID)
	if err != nil {
		return model.Projection{}, fmt.Errorf("failed to get account: %w", err)
	}

	return account.Projection(), nil
}

var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// UploadAvatar stores the profile photo in object storage and records
// its key on the account, replacing the previous photo.
func (s *AccountService) UploadAvatar(ctx context.Context, accountID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	s.logger.Debug("Account service: avatar upload",
		"account_id", accountID,
		"content_type", contentType)

	ext, ok := avatarExtensions[contentType]
	if !ok {
		return "", model.NewValidationError("avatar", "unsupported content type")
	}

	key := fmt.Sprintf("avatars/%s%s", accountID, ext)

	if err := s.storage.Upload(ctx, key, reader, size, contentType); err != nil {
		s.logger.Error("Account service: failed to upload avatar",
			"account_id", accountID,
			"error", err.Error())
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.accountStore.SetAvatarKey(ctx, accountID, key); err != nil {
		s.logger.Error("Account service: failed to record avatar key",
			"account_id", accountID,
			"error", err.Error())
		return "", fmt.Errorf("failed to record avatar key: %w", err)
	}

	s.logger.Info("Account service: avatar uploaded",
		"account_id", accountID,
		"key", key)

	return key, nil
}
