package repository

import (
	"testing"
	"time"

	"github.com/ryanwills/accounts-backend/internal/app/model"
	"github.com/ryanwills/accounts-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserRepoTest(t *testing.T) UserRepository {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)
	return NewUserRepository(testDB)
}

func createTestUser(t *testing.T, repo UserRepository, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$2a$12$fakehashfakehashfakehash",
	}
	require.NoError(t, repo.Create(user))
	return user
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := setupUserRepoTest(t)

	user := createTestUser(t, repo, "test@example.com")
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	byEmail, err := repo.FindByEmail("test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.FindByEmail("missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := setupUserRepoTest(t)

	createTestUser(t, repo, "test@example.com")

	dup := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
	}
	assert.Error(t, repo.Create(dup))
}

func TestUserRepository_Delete(t *testing.T) {
	repo := setupUserRepoTest(t)

	user := createTestUser(t, repo, "test@example.com")
	require.NoError(t, repo.Delete(user.ID))

	_, err := repo.FindByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Hard delete: the row is gone, not hidden
	all, err := repo.FindAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUserRepository_SetResetCode(t *testing.T) {
	repo := setupUserRepoTest(t)

	user := createTestUser(t, repo, "test@example.com")
	expiresAt := time.Now().Add(15 * time.Minute)

	require.NoError(t, repo.SetResetCode(user.ID, "123456", expiresAt))

	stored, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	require.True(t, stored.HasPendingReset())
	assert.Equal(t, "123456", *stored.ResetCode)

	// A second request overwrites the pending code
	require.NoError(t, repo.SetResetCode(user.ID, "654321", expiresAt))
	stored, err = repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "654321", *stored.ResetCode)
}

func TestUserRepository_ConsumeResetCode(t *testing.T) {
	repo := setupUserRepoTest(t)

	user := createTestUser(t, repo, "test@example.com")
	require.NoError(t, repo.SetResetCode(user.ID, "123456", time.Now().Add(15*time.Minute)))

	// Wrong code consumes nothing
	consumed, err := repo.ConsumeResetCode("test@example.com", "000000", "newhash", time.Now())
	require.NoError(t, err)
	assert.False(t, consumed)

	// Correct code consumes once
	consumed, err = repo.ConsumeResetCode("test@example.com", "123456", "newhash", time.Now())
	require.NoError(t, err)
	assert.True(t, consumed)

	stored, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", stored.PasswordHash)
	assert.False(t, stored.HasPendingReset())

	// The same code can never be consumed twice
	consumed, err = repo.ConsumeResetCode("test@example.com", "123456", "otherhash", time.Now())
	require.NoError(t, err)
	assert.False(t, consumed)
}

func TestUserRepository_ConsumeResetCode_Expired(t *testing.T) {
	repo := setupUserRepoTest(t)

	user := createTestUser(t, repo, "test@example.com")
	require.NoError(t, repo.SetResetCode(user.ID, "123456", time.Now().Add(-time.Minute)))

	consumed, err := repo.ConsumeResetCode("test@example.com", "123456", "newhash", time.Now())
	require.NoError(t, err)
	assert.False(t, consumed)

	// The expired code stays stored; expiry is checked, not relied on for cleanup
	stored, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasPendingReset())
}

func TestUserRepository_ClearExpiredResetCodes(t *testing.T) {
	repo := setupUserRepoTest(t)

	expired := createTestUser(t, repo, "expired@example.com")
	require.NoError(t, repo.SetResetCode(expired.ID, "111111", time.Now().Add(-time.Minute)))

	pending := createTestUser(t, repo, "pending@example.com")
	require.NoError(t, repo.SetResetCode(pending.ID, "222222", time.Now().Add(15*time.Minute)))

	cleared, err := repo.ClearExpiredResetCodes(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	stored, err := repo.FindByID(expired.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasPendingReset())

	stored, err = repo.FindByID(pending.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasPendingReset())
}
