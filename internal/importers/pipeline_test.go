package importers

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/pagination"
)

type mockWriter struct {
	existing  map[string]bool
	created   []books.BookInput
	createErr error
	findErr   error
}

func (m *mockWriter) FindBookByISBN(isbn string) (*entities.Book, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.existing[isbn] {
		return &entities.Book{ISBN: isbn}, nil
	}
	return nil, nil
}

func (m *mockWriter) CreateBook(in books.BookInput) (*entities.Book, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, in)
	return &entities.Book{Title: in.Title, ISBN: in.ISBN}, nil
}

func row(line int, title, isbn string) BookRow {
	return BookRow{Line: line, Input: books.BookInput{Title: title, ISBN: isbn}}
}

func TestPipeline_ImportBooks_SkipsExisting(t *testing.T) {
	writer := &mockWriter{existing: map[string]bool{"111": true}}
	pipeline := NewPipeline(writer)

	result := pipeline.ImportBooks([]BookRow{
		row(2, "Old", "111"),
		row(3, "New", "222"),
	})

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, writer.created, 1)
	assert.Equal(t, "New", writer.created[0].Title)
}

func TestPipeline_ImportBooks_RecordsFailures(t *testing.T) {
	writer := &mockWriter{createErr: errors.New("write failed")}
	pipeline := NewPipeline(writer)

	result := pipeline.ImportBooks([]BookRow{row(7, "Broken", "333")})

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Line 7: write failed", result.Errors[0])
}

func TestPipeline_ImportBooks_LookupFailure(t *testing.T) {
	writer := &mockWriter{findErr: errors.New("db down")}
	pipeline := NewPipeline(writer)

	result := pipeline.ImportBooks([]BookRow{row(2, "Any", "444")})

	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, writer.created)
}

func TestPipeline_ImportBooks_Empty(t *testing.T) {
	pipeline := NewPipeline(&mockWriter{})

	result := pipeline.ImportBooks(nil)

	assert.Equal(t, ImportResult{}, result)
}

func TestPipeline_ImportBooks_Repository(t *testing.T) {
	dbPath := "./test_import_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(config.Database{
		Driver:   config.DriverSQLite,
		Path:     dbPath,
		LogLevel: "silent",
	})
	require.NoError(t, err)
	defer func() {
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}()

	repo := books.NewRepository(db.DB)
	csvData := `title,authors,genres,isbn
Good Omens,Terry Pratchett|Neil Gaiman,Fantasy,0060853980
Mort,Terry Pratchett,Fantasy,0552131067
Mort again,Terry Pratchett,Fantasy,0552131067`

	rows, parseErrors, err := ParseBooksCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Empty(t, parseErrors)

	result := NewPipeline(repo).ImportBooks(rows)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)

	params, err := pagination.NewParams(0, 10, pagination.MaxLimit)
	require.NoError(t, err)
	page, err := repo.ListBooks(books.Filter{Authors: []string{"Terry Pratchett"}}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	// A second run changes nothing.
	again := NewPipeline(repo).ImportBooks(rows)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 3, again.Skipped)
}
