package importers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mrlokans/bookshelf/internal/database/books"
)

// ListSeparator splits multi-valued author and genre columns.
const ListSeparator = "|"

// BookRow is one parsed catalog line.
type BookRow struct {
	Line  int
	Input books.BookInput
}

// ParseBooksCSV parses a catalog CSV export.
// Returns the parsed rows, any per-line problems, and a fatal error if the
// header cannot be read or lacks a required column.
func ParseBooksCSV(r io.Reader) ([]BookRow, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	requiredHeaders := []string{"title", "isbn"}
	for _, h := range requiredHeaders {
		if _, ok := headerIndex[h]; !ok {
			return nil, nil, fmt.Errorf("missing required header: %s", h)
		}
	}

	var rows []BookRow
	var errors []string
	lineNum := 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errors = append(errors, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}

		in := books.BookInput{
			Title:         getCSVValue(record, headerIndex, "title"),
			ISBN:          getCSVValue(record, headerIndex, "isbn"),
			Authors:       splitList(getCSVValue(record, headerIndex, "authors")),
			Genres:        splitList(getCSVValue(record, headerIndex, "genres")),
			ISBN13:        optionalString(record, headerIndex, "isbn13"),
			Description:   optionalString(record, headerIndex, "description"),
			Format:        optionalString(record, headerIndex, "format"),
			ImageURL:      optionalString(record, headerIndex, "image_url"),
			GoodreadsLink: optionalString(record, headerIndex, "goodreads_link"),
		}

		if in.Title == "" || in.ISBN == "" {
			errors = append(errors, fmt.Sprintf("Line %d: skipped - missing title or isbn", lineNum))
			continue
		}

		if in.Pages, err = optionalInt(record, headerIndex, "pages"); err != nil {
			errors = append(errors, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}
		if in.TotalRatings, err = optionalInt(record, headerIndex, "total_ratings"); err != nil {
			errors = append(errors, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}
		if in.ReviewsCount, err = optionalInt(record, headerIndex, "reviews_count"); err != nil {
			errors = append(errors, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}
		if in.AverageRating, err = optionalFloat(record, headerIndex, "average_rating"); err != nil {
			errors = append(errors, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}

		rows = append(rows, BookRow{Line: lineNum, Input: in})
	}

	return rows, errors, nil
}

func getCSVValue(record []string, headerIndex map[string]int, header string) string {
	if idx, ok := headerIndex[header]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

func optionalString(record []string, headerIndex map[string]int, header string) *string {
	v := getCSVValue(record, headerIndex, header)
	if v == "" {
		return nil
	}
	return &v
}

func optionalInt(record []string, headerIndex map[string]int, header string) (*int, error) {
	v := getCSVValue(record, headerIndex, header)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", header, v)
	}
	return &n, nil
}

func optionalFloat(record []string, headerIndex map[string]int, header string) (*float64, error) {
	v := getCSVValue(record, headerIndex, header)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", header, v)
	}
	return &f, nil
}

// splitList splits a "|"-separated cell, dropping blanks and repeats.
func splitList(cell string) []string {
	if cell == "" {
		return nil
	}
	seen := make(map[string]bool)
	var names []string
	for _, part := range strings.Split(cell, ListSeparator) {
		name := strings.TrimSpace(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
