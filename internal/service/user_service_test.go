package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"auth-portal/internal/auth"
	"auth-portal/internal/repository"
	"auth-portal/internal/repository/memory"
)

func newTestService() (UserService, *memory.UserRepository) {
	repo := memory.NewUserRepository()
	return NewUserService(repo, auth.NewPasswordHasherWithCost(bcrypt.MinCost)), repo
}

func TestRegisterReturnsSanitizedUser(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@b.com", "Abcd123!", "A", "B")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.False(t, user.CreatedAt.IsZero())

	// the stored row carries a hash that is not the plaintext
	stored, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "Abcd123!", stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@b.com", "Abcd123!", "A", "B")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@b.com", "Efgh456?", "C", "D")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "a@b.com", "Abcd123!", "A", "B")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "a@b.com", "Abcd123!")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@b.com", "Abcd123!", "A", "B")
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(ctx, "a@b.com", "Wrong123!")
	_, unknownEmail := svc.Authenticate(ctx, "nobody@example.com", "Abcd123!")
	_, emptyFields := svc.Authenticate(ctx, "", "")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.ErrorIs(t, emptyFields, ErrInvalidCredentials)
}

func TestGetByIDSanitizes(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "a@b.com", "Abcd123!", "A", "B")
	require.NoError(t, err)

	user, err := svc.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, "A", user.FirstName)

	_, err = svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
