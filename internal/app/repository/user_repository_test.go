package repository

import (
	"testing"

	"github.com/prideatlas/prideatlas-backend/internal/app/model"
	"github.com/prideatlas/prideatlas-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) UserRepository {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewUserRepository(testDB)
}

func TestUserRepository_Create(t *testing.T) {
	repo := setupUserTest(t)

	user := &model.User{
		Email:        "newuser@example.com",
		PasswordHash: "hashed",
		DisplayName:  "New User",
	}
	err := repo.Create(user)
	assert.NoError(t, err)
	assert.NotZero(t, user.ID)

	found, err := repo.FindByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.RoleUser, found.Role)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo := setupUserTest(t)

	first := &model.User{
		Email:        "dup@example.com",
		PasswordHash: "hashed",
		DisplayName:  "First",
	}
	require.NoError(t, repo.Create(first))

	second := &model.User{
		Email:        "dup@example.com",
		PasswordHash: "hashed",
		DisplayName:  "Second",
	}
	err := repo.Create(second)
	assert.Error(t, err)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	repo := setupUserTest(t)

	created := &model.User{
		Email:        "lookup@example.com",
		PasswordHash: "hashed",
		DisplayName:  "Lookup",
	}
	require.NoError(t, repo.Create(created))

	found, err := repo.FindByEmail("lookup@example.com")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindByEmail("missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	repo := setupUserTest(t)

	user := &model.User{
		Email:        "update@example.com",
		PasswordHash: "hashed",
		DisplayName:  "Before",
	}
	require.NoError(t, repo.Create(user))

	user.DisplayName = "After"
	user.Pronouns = "they/them"
	require.NoError(t, repo.Update(user))

	found, err := repo.FindByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "After", found.DisplayName)
	assert.Equal(t, "they/them", found.Pronouns)
}

func TestUserRepository_Delete(t *testing.T) {
	repo := setupUserTest(t)

	user := &model.User{
		Email:        "delete@example.com",
		PasswordHash: "hashed",
		DisplayName:  "Gone",
	}
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.Delete(user.ID))

	_, err := repo.FindByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
