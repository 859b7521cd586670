package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth-portal/internal/domain"
	"auth-portal/internal/repository"
)

func newTestRepo(t *testing.T) repository.UserRepository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func testUser(email string) *domain.User {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.User{
		ID:           "id-" + email,
		Email:        email,
		PasswordHash: "$2a$04$fakehashfakehashfakehash",
		FirstName:    "A",
		LastName:     "B",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreateAndGetByEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := testUser("a@b.com")
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
	assert.Equal(t, user.FirstName, got.FirstName)
	assert.Equal(t, user.LastName, got.LastName)
	assert.True(t, user.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, user.UpdatedAt.Equal(got.UpdatedAt))
}

func TestGetByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := testUser("a@b.com")
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
}

func TestGetNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("a@b.com")))

	dup := testUser("a@b.com")
	dup.ID = "another-id"
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	// only one row persists
	got, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "id-a@b.com", got.ID)
}

func TestEmailIsCaseSensitiveAsStored(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("a@b.com")))

	_, err := repo.GetByEmail(ctx, "A@B.COM")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
