// Package genres provides database operations for genre management,
// including the book-count ranking behind /genres/top.
package genres

import (
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/pagination"
)

const maxNameLength = 100

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateGenre creates a genre. The name must not be taken.
func (r *Repository) CreateGenre(name string) (*entities.Genre, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	genre := entities.Genre{Name: name}
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureNameFree(tx, name, 0); err != nil {
			return err
		}
		return tx.Create(&genre).Error
	})
	if err != nil {
		return nil, database.ClassifyError("create genre", "genre", err)
	}
	return &genre, nil
}

// GetGenreByID retrieves a genre by ID.
func (r *Repository) GetGenreByID(id uint) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.First(&genre, id).Error
	if database.IsRecordNotFound(err) {
		return nil, apperrors.NotFound("genre", id)
	}
	if err != nil {
		return nil, apperrors.Store("get genre", err)
	}
	return &genre, nil
}

// ListGenres returns genres in id order, optionally narrowed to names
// containing query (case-insensitive).
func (r *Repository) ListGenres(query string, params pagination.Params) ([]entities.Genre, error) {
	genres := []entities.Genre{}
	if params.Limit == 0 {
		return genres, nil
	}

	q := r.db.Model(&entities.Genre{})
	if query = strings.TrimSpace(query); query != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?) "+database.LikeEscape, database.ContainsPattern(query))
	}
	err := q.Order("id ASC").Offset(params.Skip).Limit(params.Limit).Find(&genres).Error
	if err != nil {
		return nil, apperrors.Store("list genres", err)
	}
	return genres, nil
}

// UpdateGenre renames a genre. Renaming to a name held by another
// genre is a conflict; renaming to the current name is a no-op.
func (r *Repository) UpdateGenre(id uint, name string) (*entities.Genre, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	var genre entities.Genre
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&genre, id).Error; err != nil {
			if database.IsRecordNotFound(err) {
				return apperrors.NotFound("genre", id)
			}
			return err
		}
		if genre.Name == name {
			return nil
		}
		if err := ensureNameFree(tx, name, id); err != nil {
			return err
		}
		genre.Name = name
		return tx.Save(&genre).Error
	})
	if err != nil {
		return nil, database.ClassifyError("update genre", "genre", err)
	}
	return &genre, nil
}

// DeleteGenre deletes a genre that no book references. The count
// check and the delete share one transaction.
func (r *Repository) DeleteGenre(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var genre entities.Genre
		if err := tx.First(&genre, id).Error; err != nil {
			if database.IsRecordNotFound(err) {
				return apperrors.NotFound("genre", id)
			}
			return err
		}

		var linked int64
		if err := tx.Model(&entities.BookGenre{}).Where("genre_id = ?", id).Count(&linked).Error; err != nil {
			return err
		}
		if linked > 0 {
			return apperrors.Blocked("genre", linked, "books")
		}

		return tx.Delete(&genre).Error
	})
	return database.ClassifyError("delete genre", "genre", err)
}

// CountGenres returns the total number of genres.
func (r *Repository) CountGenres() (int64, error) {
	var count int64
	if err := r.db.Model(&entities.Genre{}).Count(&count).Error; err != nil {
		return 0, apperrors.Store("count genres", err)
	}
	return count, nil
}

// DeleteOrphanGenres removes genres that no book references and
// returns how many were deleted.
func (r *Repository) DeleteOrphanGenres() (int64, error) {
	linked := r.db.Table("book_genres").Select("genre_id")
	result := r.db.Where("id NOT IN (?)", linked).Delete(&entities.Genre{})
	if result.Error != nil {
		return 0, apperrors.Store("delete orpha genres", result.Error)
	}
	return result.RowsAffected, nil
}

func ensureNameFree(tx *gorm.DB, name string, exceptID uint) error {
	var count int64
	q := tx.Model(&entities.Genre{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Duplicate("genre", "name", name)
	}
	return nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.Validation("name", nil, "must not be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", apperrors.Validation("name", nil, "must be at most 100 characters")
	}
	return name, nil
}

// TopGenres returns up to limit genres ordered by how many books they
// hold, most first. Ties break on genre id; genres without books are left out.
func (r *Repository) TopGenres(limit int) ([]entities.GenreBookCount, error) {
	top := []entities.GenreBookCount{}
	if limit <= 0 {
		return top, nil
	}

	err := r.db.Model(&entities.Genre{}).
		Select("genres.id AS id, genres.name AS name, COUNT(book_genres.book_id) AS book_count").
		Joins("JOIN book_genres ON book_genres.genre_id = genres.id").
		Group("genres.id, genres.name").
		Order("book_count DESC, genres.id ASC").
		Limit(limit).
		Scan(&top).Error
	if err != nil {
		return nil, apperrors.Store("top genres", err)
	}
	return top, nil
}
