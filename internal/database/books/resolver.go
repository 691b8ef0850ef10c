package books

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// ResolveAuthors upserts every name and returns the rows in input order,
// with duplicate names collapsed. Matching is exact and case-sensitive.
func ResolveAuthors(tx *gorm.DB, names []string) ([]entities.Author, error) {
	return resolveByName(tx, "authors", names,
		func(name string) entities.Author { return entities.Author{Name: name} },
		func(a entities.Author) string { return a.Name })
}

// ResolveGenres is ResolveAuthors for genres.
func ResolveGenres(tx *gorm.DB, names []string) ([]entities.Genre, error) {
	return resolveByName(tx, "genres", names,
		func(name string) entities.Genre { return entities.Genre{Name: name} },
		func(g entities.Genre) string { return g.Name })
}

// linkBook inserts the join rows for a book whose previous links, if any,
// have already been removed.
func linkBook(tx *gorm.DB, bookID uint, authors []entities.Author, genres []entities.Genre) error {
	if len(authors) > 0 {
		rows := make([]entities.BookAuthor, 0, len(authors))
		for _, a := range authors {
			rows = append(rows, entities.BookAuthor{BookID: bookID, AuthorID: a.ID})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("link authors: %w", err)
		}
	}
	if len(genres) > 0 {
		rows := make([]entities.BookGenre, 0, len(genres))
		for _, g := range genres {
			rows = append(rows, entities.BookGenre{BookID: bookID, GenreID: g.ID})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("link genres: %w", err)
		}
	}
	return nil
}

func unlinkBook(tx *gorm.DB, bookID uint) error {
	if err := tx.Where("book_id = ?", bookID).Delete(&entities.BookAuthor{}).Error; err != nil {
		return fmt.Errorf("unlink authors: %w", err)
	}
	if err := tx.Where("book_id = ?", bookID).Delete(&entities.BookGenre{}).Error; err != nil {
		return fmt.Errorf("unlink genres: %w", err)
	}
	return nil
}

// resolveByName inserts missing names with ON CONFLICT DO NOTHING and then
// reads every row back, so two writers creating the same name both end up
// with the single stored row.
func resolveByName[T any](tx *gorm.DB, field string, names []string, newRow func(string) T, nameOf func(T) string) ([]T, error) {
	names, err := collapseNames(field, names)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []T{}, nil
	}

	for _, name := range names {
		row := newRow(name)
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&row).Error
		if err != nil {
			return nil, fmt.Errorf("upsert %s %q: %w", field, name, err)
		}
	}

	var found []T
	if err := tx.Where("name IN ?", names).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("load %s: %w", field, err)
	}

	byName := make(map[string]T, len(found))
	for _, row := range found {
		byName[nameOf(row)] = row
	}

	resolved := make([]T, 0, len(names))
	for _, name := range names {
		row, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%s %q missing after upsert", field, name)
		}
		resolved = append(resolved, row)
	}
	return resolved, nil
}

// collapseNames trims surrounding whitespace from each name, rejects empty
// ones and drops repeats, keeping first-seen order. Trimmed names match the
// stored rows exactly.
func collapseNames(field string, names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, apperrors.Validation(field, raw, "names must not be empty")
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}
