package database

import (
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/apperrors"
)

var checkConstraintName = regexp.MustCompile(`(chk_[a-z_]+)`)

// checkFields maps CHECK constraint names to the field they guard.
var checkFields = map[string]string{
	"chk_reading_list_status":   "status",
	"chk_reading_list_progress": "progress_pages",
	"chk_reading_list_rating":   "user_rating",
}

// ClassifyError turns a raw store error into one of the apperrors kinds.
// Constraint violations that slipped past the repository checks become
// Conflict or Validation errors; anything else becomes a StoreError for op.
func ClassifyError(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsKnown(err) {
		return err
	}

	msg := err.Error()
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "duplicate key value"):
		return &apperrors.ConflictError{Entity: entity, Reason: "a row with the same unique key already exists"}

	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "violates foreign key constraint"):
		return &apperrors.ConflictError{Entity: entity, Reason: "referenced row is missing or still referenced"}

	case strings.Contains(msg, "CHECK constraint failed"),
		strings.Contains(msg, "violates check constraint"):
		field := "value"
		if name := checkConstraintName.FindString(msg); name != "" {
			if mapped, ok := checkFields[name]; ok {
				field = mapped
			}
		}
		return apperrors.Validation(field, nil, "violates a check constraint")
	}

	return apperrors.Store(op, err)
}

// IsRecordNotFound reports whether err is gorm's not-found sentinel.
func IsRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
