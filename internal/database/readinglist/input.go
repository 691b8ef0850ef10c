package readinglist

import (
	"strings"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// AddEntryInput places a book on a user's reading list.
type AddEntryInput struct {
	BookID        uint     `json:"book_id" binding:"required"`
	Status        string   `json:"status" binding:"required"`
	ProgressPages *int     `json:"progress_pages"`
	UserRating    *float64 `json:"user_rating"`
	Note          *string  `json:"note"`
}

// UpdateEntryInput is a partial update. Absent fields are left alone;
// an explicit null clears progress, rating or note. Status can be
// replaced but never cleared.
type UpdateEntryInput struct {
	Status        entities.Optional[string]  `json:"status"`
	ProgressPages entities.Optional[int]     `json:"progress_pages"`
	UserRating    entities.Optional[float64] `json:"user_rating"`
	Note          entities.Optional[string]  `json:"note"`
}

// ParseStatus normalises s to one of the four statuses.
func ParseStatus(s string) (entities.ReadingStatus, error) {
	status, ok := entities.ParseReadingStatus(s)
	if !ok {
		return "", apperrors.Validation("status", s, "must be one of: "+statusList())
	}
	return status, nil
}

func validateProgress(pages *int) error {
	if pages != nil && *pages < 0 {
		return apperrors.Validation("progress_pages", *pages, "must be greater than or equal to 0")
	}
	return nil
}

func validateRating(rating *float64) error {
	if rating != nil && (*rating < entities.MinUserRating || *rating > entities.MaxUserRating) {
		return apperrors.Validation("user_rating", *rating, "must be between 0 and 5")
	}
	return nil
}

func statusList() string {
	keys := make([]string, 0, len(entities.ReadingStatuses))
	for _, s := range entities.ReadingStatuses {
		keys = append(keys, s.StatusKey())
	}
	return strings.Join(keys, ", ")
}
