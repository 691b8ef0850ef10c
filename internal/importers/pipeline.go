package importers

import (
	"fmt"
	"log"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// BookWriter persists catalog rows. books.Repository satisfies it.
type BookWriter interface {
	FindBookByISBN(isbn string) (*entities.Book, error)
	CreateBook(in books.BookInput) (*entities.Book, error)
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Pipeline feeds parsed rows through the book create path.
// Rows whose ISBN is already catalogued are skipped, so re-running an
// import is safe.
type Pipeline struct {
	writer BookWriter
}

// NewPipeline creates a new import pipeline with the given writer.
func NewPipeline(writer BookWriter) *Pipeline {
	return &Pipeline{writer: writer}
}

// ImportBooks creates a book for every row. A failing row is recorded and
// does not stop the rest of the import.
func (p *Pipeline) ImportBooks(rows []BookRow) ImportResult {
	var result ImportResult

	for _, row := range rows {
		existing, err := p.writer.FindBookByISBN(row.Input.ISBN)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: %v", row.Line, err))
			continue
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		if _, err := p.writer.CreateBook(row.Input); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: %v", row.Line, err))
			continue
		}
		result.Created++
	}

	log.Printf("Import finished: %d created, %d skipped, %d failed", result.Created, result.Skipped, result.Failed)
	return result
}
