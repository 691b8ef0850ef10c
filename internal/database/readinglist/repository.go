// Package readinglist tracks each user's per-book reading state.
//
// An entry is keyed by (user, book). Status moves freely between WANT,
// READING, COMPLETED and DROPPED; progress must be non-negative and the
// user's rating must lie in [0, 5]. Those bounds are checked here and
// again by CHECK constraints on the table.
package readinglist

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/pagination"
)

// Repository handles reading-list database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reading-list repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func withBook(db *gorm.DB) *gorm.DB {
	return db.Preload("Book.Authors").Preload("Book.Genres")
}

// AddEntry puts a book on the user's list. Both must exist and the pair
// must not be on the list already.
func (r *Repository) AddEntry(userID uint, in AddEntryInput) (*entities.ReadingListEntry, error) {
	status, err := ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if err := validateProgress(in.ProgressPages); err != nil {
		return nil, err
	}
	if err := validateRating(in.UserRating); err != nil {
		return nil, err
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &entities.User{}, "user", userID); err != nil {
			return err
		}
		if err := mustExist(tx, &entities.Book{}, "book", in.BookID); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&entities.ReadingListEntry{}).
			Where("user_id = ? AND book_id = ?", userID, in.BookID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return &apperrors.ConflictError{
				Entity: "reading list entry",
				Reason: "book is already in the user's reading list",
			}
		}

		entry := entities.ReadingListEntry{
			UserID:        userID,
			BookID:        in.BookID,
			Status:        status,
			ProgressPages: in.ProgressPages,
			UserRating:    in.UserRating,
			Note:          in.Note,
		}
		return tx.Omit(clause.Associations).Create(&entry).Error
	})
	if err != nil {
		return nil, database.ClassifyError("add reading list entry", "reading list entry", err)
	}

	return r.GetEntry(userID, in.BookID)
}

// GetEntry returns one entry with its book, authors and genres.
func (r *Repository) GetEntry(userID, bookID uint) (*entities.ReadingListEntry, error) {
	var entry entities.ReadingListEntry
	err := withBook(r.db).Where("user_id = ? AND book_id = ?", userID, bookID).First(&entry).Error
	if database.IsRecordNotFound(err) {
		return nil, entryNotFound(userID, bookID)
	}
	if err != nil {
		return nil, apperrors.Store("get reading list entry", err)
	}
	return &entry, nil
}

// ListEntries returns the user's entries in the order they were added,
// optionally restricted to one status.
func (r *Repository) ListEntries(userID uint, status string, params pagination.Params) ([]entities.ReadingListEntry, error) {
	if err := mustExist(r.db, &entities.User{}, "user", userID); err != nil {
		return nil, database.ClassifyError("list reading list", "user", err)
	}

	q := r.db.Model(&entities.ReadingListEntry{}).Where("user_id = ?", userID)
	if status != "" {
		parsed, err := ParseStatus(status)
		if err != nil {
			return nil, err
		}
		q = q.Where("status = ?", parsed)
	}

	entries := []entities.ReadingListEntry{}
	if params.Limit == 0 {
		return entries, nil
	}
	err := withBook(q).
		Order("added_at ASC, book_id ASC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Store("list reading list", err)
	}
	return entries, nil
}

// UpdateEntry applies a partial update to an existing entry.
func (r *Repository) UpdateEntry(userID, bookID uint, in UpdateEntryInput) (*entities.ReadingListEntry, error) {
	updates := map[string]any{}

	if in.Status.Set {
		if in.Status.Null {
			return nil, apperrors.Validation("status", nil, "must not be null")
		}
		status, err := ParseStatus(in.Status.Value)
		if err != nil {
			return nil, err
		}
		updates["status"] = status
	}
	if in.ProgressPages.Set {
		pages := in.ProgressPages.Ptr()
		if err := validateProgress(pages); err != nil {
			return nil, err
		}
		updates["progress_pages"] = pages
	}
	if in.UserRating.Set {
		rating := in.UserRating.Ptr()
		if err := validateRating(rating); err != nil {
			return nil, err
		}
		updates["user_rating"] = rating
	}
	if in.Note.Set {
		updates["note"] = in.Note.Ptr()
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.ReadingListEntry{}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return entryNotFound(userID, bookID)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&entities.ReadingListEntry{}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Updates(updates).Error
	})
	if err != nil {
		return nil, database.ClassifyError("update reading list entry", "reading list entry", err)
	}

	return r.GetEntry(userID, bookID)
}

// RemoveEntry deletes the entry. Removing a missing entry is NotFound.
func (r *Repository) RemoveEntry(userID, bookID uint) error {
	result := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&entities.ReadingListEntry{})
	if result.Error != nil {
		return database.ClassifyError("remove reading list entry", "reading list entry", result.Error)
	}
	if result.RowsAffected == 0 {
		return entryNotFound(userID, bookID)
	}
	return nil
}

// Stats counts the user's entries per status and averages the ratings
// they gave. Every status key is present; AverageRating is nil when no
// entry has a rating.
func (r *Repository) Stats(userID uint) (*entities.ReadingStats, error) {
	if err := mustExist(r.db, &entities.User{}, "user", userID); err != nil {
		return nil, database.ClassifyError("reading stats", "user", err)
	}

	stats := &entities.ReadingStats{StatusCounts: make(map[string]int64, len(entities.ReadingStatuses))}
	for _, s := range entities.ReadingStatuses {
		stats.StatusCounts[s.StatusKey()] = 0
	}

	var rows []struct {
		Status entities.ReadingStatus
		Count  int64
	}
	err := r.db.Model(&entities.ReadingListEntry{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Store("reading stats", err)
	}
	for _, row := range rows {
		stats.StatusCounts[row.Status.StatusKey()] = row.Count
		stats.TotalBooks += row.Count
	}

	var avg struct {
		Average *float64
	}
	err = r.db.Model(&entities.ReadingListEntry{}).
		Select("AVG(user_rating) AS average").
		Where("user_id = ? AND user_rating IS NOT NULL", userID).
		Scan(&avg).Error
	if err != nil {
		return nil, apperrors.Store("reading stats", err)
	}
	stats.AverageRating = avg.Average

	return stats, nil
}

func mustExist(tx *gorm.DB, model any, entity string, id uint) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperrors.NotFound(entity, id)
	}
	return nil
}

func entryNotFound(userID, bookID uint) error {
	return &apperrors.NotFoundError{
		Entity: "reading list entry",
		Key:    fmt.Sprintf("(user %d, book %d)", userID, bookID),
	}
}
