package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/craftlink/auth-server/internal/mocks"
	"github.com/craftlink/auth-server/internal/model"
	"github.com/craftlink/auth-server/internal/testutil"
)

func TestSessionService_Issue(t *testing.T) {
	ctx := context.Background()
	tokMan := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	accountID := uuid.New()

	tokMan.On("GenerateAccessToken", accountID, mock.Anything, time.Hour).Return("signed-token", nil)
	store.On("Create", mock.Anything, mock.MatchedBy(func(s model.Session) bool {
		digest := sha256.Sum256([]byte("signed-token"))
		return s.AccountID == accountID && string(s.TokenHash) == string(digest[:])
	})).Return(nil)

	svc := NewSessionService(tokMan, store, time.Hour, testutil.MakeNoopLogger())

	token, err := svc.Issue(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
	store.AssertExpectations(t)
}

func TestSessionService_Issue_StoreError(t *testing.T) {
	ctx := context.Background()
	tokMan := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	accountID := uuid.New()

	tokMan.On("GenerateAccessToken", accountID, mock.Anything, time.Hour).Return("signed-token", nil)
	store.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	svc := NewSessionService(tokMan, store, time.Hour, testutil.MakeNoopLogger())

	_, err := svc.Issue(ctx, accountID)
	require.Error(t, err)
}

func validSession(token string, accountID uuid.UUID, jti string) model.Session {
	digest := sha256.Sum256([]byte(token))
	now := time.Now()
	return model.Session{
		ID:        uuid.New(),
		JTI:       jti,
		AccountID: accountID,
		TokenHash: digest[:],
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSessionService_Authenticate(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	jti := uuid.NewString()

	tokMan := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	tokMan.On("ParseAccessToken", "tok").Return(accountID, jti, nil)
	store.On("GetByJTI", mock.Anything, jti).Return(validSession("tok", accountID, jti), nil)

	svc := NewSessionService(tokMan, store, time.Hour, testutil.MakeNoopLogger())

	gotID, gotJTI, err := svc.Authenticate(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, accountID, gotID)
	assert.Equal(t, jti, gotJTI)
}

func TestSessionService_Authenticate_Revoked(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	jti := uuid.NewString()

	session := validSession("tok", accountID, jti)
	revokedAt := time.Now()
	session.RevokedAt = &revokedAt

	tokMan := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	tokMan.On("ParseAccessToken", "tok").Return(accountID, jti, nil)
	store.On("GetByJTI", mock.Anything, jti).Return(session, nil)

	svc := NewSessionService(tokMan, store, time.Hour, testutil.MakeNoopLogger())

	_, _, err := svc.Authenticate(ctx, "tok")
	require.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestSessionService_Authenticate_Expired(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	jti := uuid.NewString()

	session := validSession("tok", accountID, jti)
	session.ExpiresAt = time.Now().Add(-time.Minute)

	tokMan := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	tokMan.On("ParseAccessToken", "tok").Return(accountID, jti, nil)
	store.On("GetByJTI", mock.Anything, jti).Return(session, nil)

	svc := NewSessionService(tokMan, store, time.Hour, testutil.MakeNoopLogger())

	_, _, err := svc.Authenticate(ctx, "tok")
	require.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestSessionService_Authenticate_HashMismatch(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	jti := uuid.NewString()

	// session row stores the hash of a different token
	session := validSession("other-token", accountID, jti)

	tokMan := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	tokMan.On("ParseAccessToken", "tok").Return(accountID, jti, nil)
	store.On("GetByJTI", mock.Anything, jti).Return(session, nil)

	svc := NewSessionService(tokMan, store, time.Hour, testutil.MakeNoopLogger())

	_, _, err := svc.Authenticate(ctx, "tok")
	require.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestSessionService_Authenticate_UnknownJTI(t *testing.T) {
	ctx := context.Background()

	tokMan := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	tokMan.On("ParseAccessToken", "tok").Return(uuid.New(), "missing", nil)
	store.On("GetByJTI", mock.Anything, "missing").Return(model.Session{}, model.ErrNotFound)

	svc := NewSessionService(tokMan, store, time.Hour, testutil.MakeNoopLogger())

	_, _, err := svc.Authenticate(ctx, "tok")
	require.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestSessionService_Authenticate_BadToken(t *testing.T) {
	ctx := context.Background()

	tokMan := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	tokMan.On("ParseAccessToken", "garbage").Return(uuid.Nil, "", errors.New("malformed"))

	svc := NewSessionService(tokMan, store, time.Hour, testutil.MakeNoopLogger())

	_, _, err := svc.Authenticate(ctx, "garbage")
	require.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestSessionService_Revoke(t *testing.T) {
	ctx := context.Background()
	jti := uuid.NewString()

	store := &mocks.SessionStore{}
	store.On("RevokeByJTI", mock.Anything, jti).Return(nil)

	svc := NewSessionService(&mocks.TokenManager{}, store, time.Hour, testutil.MakeNoopLogger())

	require.NoError(t, svc.Revoke(ctx, jti))
	store.AssertExpectations(t)
}

func TestSessionService_Revoke_Unknown(t *testing.T) {
	ctx := context.Background()

	store := &mocks.SessionStore{}
	store.On("RevokeByJTI", mock.Anything, "missing").Return(model.ErrNotFound)

	svc := NewSessionService(&mocks.TokenManager{}, store, time.Hour, testutil.MakeNoopLogger())

	require.ErrorIs(t, svc.Revoke(ctx, "missing"), model.ErrUnauthenticated)
}
