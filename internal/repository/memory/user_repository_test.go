package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth-portal/internal/domain"
	"auth-portal/internal/repository"
)

func testUser(id, email string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "A",
		LastName:     "B",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.Init(ctx))

	require.NoError(t, repo.Create(ctx, testUser("u1", "a@b.com")))

	byEmail, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	byID, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", byID.Email)
}

func TestDuplicateEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("u1", "a@b.com")))
	err := repo.Create(ctx, testUser("u2", "a@b.com"))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestNotFound(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	_, err := repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReturnsCopies(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("u1", "a@b.com")))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	got.Email = "mutated@example.com"

	again, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", again.Email)
}
