package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/importers"
)

// maxImportSize bounds an uploaded catalog file.
const maxImportSize = 10 << 20

type ImportController struct {
	pipeline *importers.Pipeline
}

func NewImportController(writer importers.BookWriter) *ImportController {
	return &ImportController{pipeline: importers.NewPipeline(writer)}
}

// ImportBooksResult reports a catalog CSV upload.
type ImportBooksResult struct {
	TotalRows    int      `json:"total_rows"`
	Created      int      `json:"created"`
	Skipped      int      `json:"skipped"`
	Failed       int      `json:"failed"`
	ParseErrors  []string `json:"parse_errors,omitempty"`
	ImportErrors []string `json:"import_errors,omitempty"`
}

// ImportBooks loads a catalog CSV uploaded as the csv_file form field.
// POST /admin/import/books
func (ic *ImportController) ImportBooks(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	file, _, err := c.Request.FormFile("csv_file")
	if err != nil {
		respondBadRequest(c, "no CSV file provided")
		return
	}
	defer file.Close()

	rows, parseErrors, err := importers.ParseBooksCSV(file)
	if err != nil {
		respondBadRequest(c, fmt.Sprintf("failed to parse CSV: %v", err))
		return
	}

	result := ic.pipeline.ImportBooks(rows)

	c.JSON(http.StatusOK, ImportBooksResult{
		TotalRows:    len(rows) + len(parseErrors),
		Created:      result.Created,
		Skipped:      result.Skipped,
		Failed:       result.Failed,
		ParseErrors:  parseErrors,
		ImportErrors: result.Errors,
	})
}
