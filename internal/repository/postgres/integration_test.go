//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/craftlink/auth-server/internal/model"
	repo "github.com/craftlink/auth-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "auth_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/auth_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func strptr(s string) *string { return &s }

func newAccount(email string) model.Account {
	now := time.Now()
	return model.Account{
		ID:           uuid.New(),
		Email:        strptr(email),
		PasswordHash: strptr("$2a$10$hash"),
		Roles:        []string{model.RoleUnverified},
		Name:         "Test Account",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ar := repo.NewAccountRepository(conn)

	t.Run("create_and_get", func(t *testing.T) {
		a := newAccount("create@example.com")
		saved, err := ar.Create(ctx, a)
		require.NoError(t, err)
		require.Equal(t, a.ID, saved.ID)
		require.Equal(t, []string{model.RoleUnverified}, saved.Roles)

		byEmail, err := ar.GetByEmail(ctx, *a.Email)
		require.NoError(t, err)
		require.Equal(t, a.ID, byEmail.ID)

		byID, err := ar.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, *a.Email, *byID.Email)
	})

	t.Run("duplicate_email", func(t *testing.T) {
		a := newAccount("dup@example.com")
		_, err := ar.Create(ctx, a)
		require.NoError(t, err)

		b := newAccount("dup@example.com")
		_, err = ar.Create(ctx, b)
		require.ErrorIs(t, err, model.ErrEmailTaken)
	})

	t.Run("duplicate_phone", func(t *testing.T) {
		a := newAccount("phone1@example.com")
		a.PhoneNumber = strptr("+15550001111")
		_, err := ar.Create(ctx, a)
		require.NoError(t, err)

		b := newAccount("phone2@example.com")
		b.PhoneNumber = strptr("+15550001111")
		_, err = ar.Create(ctx, b)
		require.ErrorIs(t, err, model.ErrPhoneTaken)
	})

	t.Run("get_missing", func(t *testing.T) {
		_, err := ar.GetByID(ctx, uuid.New())
		require.ErrorIs(t, err, model.ErrNotFound)

		_, err = ar.GetByEmail(ctx, "missing@example.com")
		require.ErrorIs(t, err, model.ErrNotFound)

		_, err = ar.GetByPhone(ctx, "+10000000000")
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("confirm_email_single_use", func(t *testing.T) {
		a := newAccount("confirm@example.com")
		_, err := ar.Create(ctx, a)
		require.NoError(t, err)

		hash := "tokenhash"
		require.NoError(t, ar.SetPendingVerification(ctx, a.ID, hash, time.Now().Add(time.Hour)))

		ok, err := ar.ConfirmEmail(ctx, a.ID, hash, time.Now())
		require.NoError(t, err)
		require.True(t, ok)

		// second confirm finds the hash cleared
		ok, err = ar.ConfirmEmail(ctx, a.ID, hash, time.Now())
		require.NoError(t, err)
		require.False(t, ok)

		got, err := ar.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.NotNil(t, got.EmailVerifiedAt)
		require.Nil(t, got.PendingTokenHash)
	})

	t.Run("replace_sentinel_role_once", func(t *testing.T) {
		a := newAccount("role@example.com")
		_, err := ar.Create(ctx, a)
		require.NoError(t, err)

		ok, err := ar.ReplaceSentinelRole(ctx, a.ID, model.RoleBuyer)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = ar.ReplaceSentinelRole(ctx, a.ID, model.RoleArtisan)
		require.NoError(t, err)
		require.False(t, ok)

		got, err := ar.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, []string{model.RoleBuyer}, got.Roles)
	})

	t.Run("complete_profile", func(t *testing.T) {
		a := newAccount("profile@example.com")
		_, err := ar.Create(ctx, a)
		require.NoError(t, err)

		profile := model.Profile{
			Age:         30,
			Gender:      "female",
			Location:    "Lagos",
			PhoneNumber: strptr("+15550002222"),
		}
		ok, err := ar.CompleteProfile(ctx, a.ID, profile, model.RoleArtisan)
		require.NoError(t, err)
		require.True(t, ok)

		got, err := ar.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, []string{model.RoleArtisan}, got.Roles)
		require.Equal(t, 30, *got.Age)
		require.Equal(t, "+15550002222", *got.PhoneNumber)
	})

	t.Run("provider_link_and_avatar", func(t *testing.T) {
		a := newAccount("provider@example.com")
		_, err := ar.Create(ctx, a)
		require.NoError(t, err)

		link := model.ProviderLink{
			Provider:    "google",
			ProviderID:  "g-123",
			AccessToken: strptr("at"),
		}
		require.NoError(t, ar.UpdateProviderLink(ctx, a.ID, link))
		require.NoError(t, ar.ConfirmPhone(ctx, a.ID, time.Now()))
		require.NoError(t, ar.SetAvatarKey(ctx, a.ID, "avatars/x.png"))

		got, err := ar.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, "google", *got.Provider)
		require.NotNil(t, got.PhoneVerifiedAt)
		require.Equal(t, "avatars/x.png", *got.AvatarKey)
	})
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ar := repo.NewAccountRepository(conn)
	sr := repo.NewSessionRepository(conn)

	owner := newAccount("sessions@example.com")
	_, err = ar.Create(ctx, owner)
	require.NoError(t, err)

	now := time.Now()
	s := model.Session{
		ID:        uuid.New(),
		JTI:       uuid.NewString(),
		AccountID: owner.ID,
		TokenHash: []byte("hash"),
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, sr.Create(ctx, s))

	got, err := sr.GetByJTI(ctx, s.JTI)
	require.NoError(t, err)
	require.Equal(t, s.ID, got.ID)
	require.Nil(t, got.RevokedAt)

	require.NoError(t, sr.RevokeByJTI(ctx, s.JTI))

	got, err = sr.GetByJTI(ctx, s.JTI)
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)

	// revoking twice or revoking an unknown jti reports not found
	require.ErrorIs(t, sr.RevokeByJTI(ctx, s.JTI), model.ErrNotFound)
	require.ErrorIs(t, sr.RevokeByJTI(ctx, uuid.NewString()), model.ErrNotFound)

	_, err = sr.GetByJTI(ctx, uuid.NewString())
	require.ErrorIs(t, err, model.ErrNotFound)
}
