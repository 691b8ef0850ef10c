// Package authors provides database operations for author management.
//
// Authors are normally created as a side effect of writing a book (see
// package books); this repository covers the explicit management surface
// and the delete guard.
//
// # Usage
//
//	repo := authors.NewRepository(db)
//	author, err := repo.CreateAuthor("Ursula K. Le Guin")
//	err = repo.DeleteAuthor(author.ID) // ConflictError while books reference it
package authors

import (
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/pagination"
)

const maxNameLength = 255

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateAuthor creates an author. The name must not be taken.
func (r *Repository) CreateAuthor(name string) (*entities.Author, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	author := entities.Author{Name: name}
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureNameFree(tx, name, 0); err != nil {
			return err
		}
		return tx.Create(&author).Error
	})
	if err != nil {
		return nil, database.ClassifyError("create author", "author", err)
	}
	return &author, nil
}

// GetAuthorByID retrieves an author by ID.
func (r *Repository) GetAuthorByID(id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.First(&author, id).Error
	if database.IsRecordNotFound(err) {
		return nil, apperrors.NotFound("author", id)
	}
	if err != nil {
		return nil, apperrors.Store("get author", err)
	}
	return &author, nil
}

// ListAuthors returns authors in id order, optionally narrowed to names
// containing query (case-insensitive).
func (r *Repository) ListAuthors(query string, params pagination.Params) ([]entities.Author, error) {
	authors := []entities.Author{}
	if params.Limit == 0 {
		return authors, nil
	}

	q := r.db.Model(&entities.Author{})
	if query = strings.TrimSpace(query); query != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?) "+database.LikeEscape, database.ContainsPattern(query))
	}
	err := q.Order("id ASC").Offset(params.Skip).Limit(params.Limit).Find(&authors).Error
	if err != nil {
		return nil, apperrors.Store("list authors", err)
	}
	return authors, nil
}

// UpdateAuthor renames an author. Renaming to a name held by another
// author is a conflict; renaming to the current name is a no-op.
func (r *Repository) UpdateAuthor(id uint, name string) (*entities.Author, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	var author entities.Author
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&author, id).Error; err != nil {
			if database.IsRecordNotFound(err) {
				return apperrors.NotFound("author", id)
			}
			return err
		}
		if author.Name == name {
			return nil
		}
		if err := ensureNameFree(tx, name, id); err != nil {
			return err
		}
		author.Name = name
		return tx.Save(&author).Error
	})
	if err != nil {
		return nil, database.ClassifyError("update author", "author", err)
	}
	return &author, nil
}

// DeleteAuthor deletes an author that no book references. The count
// check and the delete share one transaction.
func (r *Repository) DeleteAuthor(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var author entities.Author
		if err := tx.First(&author, id).Error; err != nil {
			if database.IsRecordNotFound(err) {
				return apperrors.NotFound("author", id)
			}
			return err
		}

		var linked int64
		if err := tx.Model(&entities.BookAuthor{}).Where("author_id = ?", id).Count(&linked).Error; err != nil {
			return err
		}
		if linked > 0 {
			return apperrors.Blocked("author", linked, "books")
		}

		return tx.Delete(&author).Error
	})
	return database.ClassifyError("delete author", "author", err)
}

// CountAuthors returns the total number of authors.
func (r *Repository) CountAuthors() (int64, error) {
	var count int64
	if err := r.db.Model(&entities.Author{}).Count(&count).Error; err != nil {
		return 0, apperrors.Store("count authors", err)
	}
	return count, nil
}

// DeleteOrphanAuthors removes authors that no book references and
// returns how many were deleted.
func (r *Repository) DeleteOrphanAuthors() (int64, error) {
	linked := r.db.Table("book_authors").Select("author_id")
	result := r.db.Where("id NOT IN (?)", linked).Delete(&entities.Author{})
	if result.Error != nil {
		return 0, apperrors.Store("delete orphan authors", result.Error)
	}
	return result.RowsAffected, nil
}

func ensureNameFree(tx *gorm.DB, name string, exceptID uint) error {
	var count int64
	q := tx.Model(&entities.Author{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Duplicate("author", "name", name)
	}
	return nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.Validation("name", nil, "must not be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", apperrors.Validation("name", nil, "must be at most 255 characters")
	}
	return name, nil
}
