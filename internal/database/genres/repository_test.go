package genres

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
	"github.com/mrlokans/bookshelf/internal/pagination"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	t.Helper()
	dbPath := "./test_genres_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

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

func TestRepository_CreateGenre(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	genre, err := repo.CreateGenre("Fantasy")
	require.NoError(t, err)
	assert.NotZero(t, genre.ID)

	_, err = repo.CreateGenre("Fantasy")
	assert.True(t, apperrors.IsConflict(err))

	// Exact match only: a different case is a different genre.
	_, err = repo.CreateGenre("fantasy")
	assert.NoError(t, err)
}

func TestRepository_DeleteGenre_Guarded(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	bookRepo := books.NewRepository(db)
	first, err := bookRepo.CreateBook(books.BookInput{Title: "One", ISBN: "1", Genres: []string{"Horror"}})
	require.NoError(t, err)
	second, err := bookRepo.CreateBook(books.BookInput{Title: "Two", ISBN: "2", Genres: []string{"Horror"}})
	require.NoError(t, err)
	genreID := first.Genres[0].ID

	err = repo.DeleteGenre(genreID)
	var conflict *apperrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(2), conflict.Dependents)

	require.NoError(t, bookRepo.DeleteBook(first.ID))
	require.NoError(t, bookRepo.DeleteBook(second.ID))
	require.NoError(t, repo.DeleteGenre(genreID))
}

func TestRepository_TopGenres(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	bookRepo := books.NewRepository(db)
	seed := []books.BookInput{
		{Title: "One", ISBN: "1", Genres: []string{"Fantasy", "Comedy"}},
		{Title: "Two", ISBN: "2", Genres: []string{"Fantasy"}},
		{Title: "Three", ISBN: "3", Genres: []string{"Fantasy", "Horror"}},
		{Title: "Four", ISBN: "4", Genres: []string{"Horror"}},
	}
	for _, in := range seed {
		_, err := bookRepo.CreateBook(in)
		require.NoError(t, err)
	}
	_, err := repo.CreateGenre("Empty")
	require.NoError(t, err)

	top, err := repo.TopGenres(10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "Fantasy", top[0].Name)
	assert.Equal(t, int64(3), top[0].BookCount)
	assert.Equal(t, "Horror", top[1].Name)
	assert.Equal(t, int64(2), top[1].BookCount)
	assert.Equal(t, "Comedy", top[2].Name)

	limited, err := repo.TopGenres(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRepository_ListAndCountGenres(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	for _, name := range []string{"Science Fiction", "Fantasy", "Non-fiction"} {
		_, err := repo.CreateGenre(name)
		require.NoError(t, err)
	}

	fiction, err := repo.ListGenres("fiction", pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, fiction, 2)

	count, err := repo.CountGenres()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	deleted, err := repo.DeleteOrphanGenres()
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}

func TestRepository_CreateGenre_LengthCountsCharacters(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	name := strings.Repeat("ñ", 100)
	_, err := repo.CreateGenre(name)
	require.NoError(t, err)

	_, err = repo.CreateGenre(name + "ñ")
	assert.True(t, apperrors.IsValidation(err))
}
