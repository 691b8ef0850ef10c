package authors

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
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/pagination"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	t.Helper()
	dbPath := "./test_authors_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

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

func TestRepository_CreateAuthor(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	author, err := repo.CreateAuthor("  Ursula K. Le Guin ")
	require.NoError(t, err)
	assert.NotZero(t, author.ID)
	assert.Equal(t, "Ursula K. Le Guin", author.Name)

	_, err = repo.CreateAuthor("Ursula K. Le Guin")
	var conflict *apperrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "name", conflict.Field)

	_, err = repo.CreateAuthor("   ")
	assert.True(t, apperrors.IsValidation(err))
}

func TestRepository_GetAuthorByID_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetAuthorByID(42)
	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "author", notFound.Entity)
	assert.Equal(t, "42", notFound.Key)
}

func TestRepository_ListAuthors(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	for _, name := range []string{"Neil Gaiman", "Terry Pratchett", "Neal Stephenson"} {
		_, err := repo.CreateAuthor(name)
		require.NoError(t, err)
	}

	all, err := repo.ListAuthors("", pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	matched, err := repo.ListAuthors("NE", pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "Neil Gaiman", matched[0].Name)
	assert.Equal(t, "Neal Stephenson", matched[1].Name)

	window, err := repo.ListAuthors("", pagination.Params{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "Terry Pratchett", window[0].Name)

	empty, err := repo.ListAuthors("", pagination.Params{Limit: 0})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepository_UpdateAuthor(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	a, err := repo.CreateAuthor("A")
	require.NoError(t, err)
	_, err = repo.CreateAuthor("B")
	require.NoError(t, err)

	renamed, err := repo.UpdateAuthor(a.ID, "A2")
	require.NoError(t, err)
	assert.Equal(t, "A2", renamed.Name)

	same, err := repo.UpdateAuthor(a.ID, "A2")
	require.NoError(t, err)
	assert.Equal(t, a.ID, same.ID)

	_, err = repo.UpdateAuthor(a.ID, "B")
	assert.True(t, apperrors.IsConflict(err))

	_, err = repo.UpdateAuthor(999, "C")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRepository_DeleteAuthor_Guarded(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	bookRepo := books.NewRepository(db)
	book, err := bookRepo.CreateBook(books.BookInput{Title: "Book", ISBN: "1", Authors: []string{"Guarded"}})
	require.NoError(t, err)
	authorID := book.Authors[0].ID

	err = repo.DeleteAuthor(authorID)
	var conflict *apperrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(1), conflict.Dependents)
	assert.Contains(t, conflict.Error(), "1 associated books")

	// Still there, still linked.
	_, err = repo.GetAuthorByID(authorID)
	require.NoError(t, err)
	var links int64
	db.Model(&entities.BookAuthor{}).Where("author_id = ?", authorID).Count(&links)
	assert.Equal(t, int64(1), links)

	// Drop the association, then deletion succeeds.
	_, err = bookRepo.UpdateBook(book.ID, books.BookInput{Title: "Book", ISBN: "1"})
	require.NoError(t, err)
	require.NoError(t, repo.DeleteAuthor(authorID))

	_, err = repo.GetAuthorByID(authorID)
	assert.True(t, apperrors.IsNotFound(err))

	err = repo.DeleteAuthor(authorID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRepository_CountAndDeleteOrphans(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := books.NewRepository(db).CreateBook(books.BookInput{Title: "Book", ISBN: "1", Authors: []string{"Linked"}})
	require.NoError(t, err)
	_, err = repo.CreateAuthor("Orphan One")
	require.NoError(t, err)
	_, err = repo.CreateAuthor("Orphan Two")
	require.NoError(t, err)

	count, err := repo.CountAuthors()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	deleted, err := repo.DeleteOrphanAuthors()
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repo.ListAuthors("", pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Linked", remaining[0].Name)
}

func TestRepository_CreateAuthor_LengthCountsCharacters(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	name := strings.Repeat("Ж", 255)
	author, err := repo.CreateAuthor(name)
	require.NoError(t, err)
	assert.Equal(t, name, author.Name)

	_, err = repo.CreateAuthor(name + "Ж")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}
