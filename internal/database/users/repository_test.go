package users

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/pagination"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	t.Helper()
	dbPath := "./test_users_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := database.NewDatabase(config.Database{
		Driver:   config.DriverSQLite,
		Path:     dbPath,
		LogLevel: "silent",
	})
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}
	return NewRepository(db.DB), db.DB, cleanup
}

func TestRepository_CreateUser(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.CreateUser(NewUser{Email: "jane.doe@example.com", PasswordHash: "hash"})

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "jane.doe@example.com", user.Email)
	assert.Equal(t, "jane.doe", user.DisplayName) // Defaults to the local part
	assert.Equal(t, entities.UserRoleUser, user.Role)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRepository_CreateUser_KeepsDisplayNameAndRole(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.CreateUser(NewUser{
		Email:        "admin@example.com",
		PasswordHash: "hash",
		DisplayName:  "The Admin",
		Role:         entities.UserRoleAdmin,
	})

	require.NoError(t, err)
	assert.Equal(t, "The Admin", user.DisplayName)
	assert.True(t, user.IsAdmin())
}

func TestRepository_CreateUser_Errors(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreateUser(NewUser{Email: "taken@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = repo.CreateUser(NewUser{Email: "taken@example.com", PasswordHash: "other"})
	assert.True(t, apperrors.IsConflict(err))

	_, err = repo.CreateUser(NewUser{Email: "not-an-email", PasswordHash: "hash"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = repo.CreateUser(NewUser{Email: "nopass@example.com"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = repo.CreateUser(NewUser{Email: "role@example.com", PasswordHash: "hash", Role: "ROOT"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestRepository_GetUserByEmail(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := repo.CreateUser(NewUser{Email: "reader@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	user, err := repo.GetUserByEmail("reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = repo.GetUserByEmail("missing@example.com")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRepository_GetUserByID_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetUserByID(999)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRepository_UpdateUser(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.CreateUser(NewUser{Email: "old@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	_, err = repo.CreateUser(NewUser{Email: "other@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	updated, err := repo.UpdateUser(user.ID, UserUpdate{Email: "new@example.com", DisplayName: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "Renamed", updated.DisplayName)
	assert.Equal(t, "hash", updated.PasswordHash)

	rehashed, err := repo.UpdateUser(user.ID, UserUpdate{Email: "new@example.com", PasswordHash: "hash2"})
	require.NoError(t, err)
	assert.Equal(t, "hash2", rehashed.PasswordHash)
	assert.Equal(t, "new", rehashed.DisplayName)

	_, err = repo.UpdateUser(user.ID, UserUpdate{Email: "other@example.com"})
	assert.True(t, apperrors.IsConflict(err))

	_, err = repo.UpdateUser(12345, UserUpdate{Email: "ghost@example.com"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRepository_DeleteUser_Guarded(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.CreateUser(NewUser{Email: "reader@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	book := entities.Book{Title: "Book", ISBN: "1"}
	require.NoError(t, db.Create(&book).Error)
	entry := entities.ReadingListEntry{UserID: user.ID, BookID: book.ID, Status: entities.ReadingStatusReading}
	require.NoError(t, db.Omit("User", "Book").Create(&entry).Error)

	err = repo.DeleteUser(user.ID)
	var conflict *apperrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(1), conflict.Dependents)

	_, err = repo.GetUserByID(user.ID)
	require.NoError(t, err)

	require.NoError(t, db.Where("user_id = ?", user.ID).Delete(&entities.ReadingListEntry{}).Error)
	require.NoError(t, repo.DeleteUser(user.ID))

	err = repo.DeleteUser(user.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRepository_ListAndCountUsers(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := repo.CreateUser(NewUser{Email: email, PasswordHash: "hash"})
		require.NoError(t, err)
	}

	page, err := repo.ListUsers(pagination.Params{Skip: 1, Limit: 5})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b@example.com", page[0].Email)

	count, err := repo.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
