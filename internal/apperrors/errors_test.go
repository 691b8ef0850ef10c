package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		validation bool
		notFound   bool
		conflict   bool
		store      bool
	}{
		{"validation", Validation("user_rating", 5.5, "must be between 0 and 5"), true, false, false, false},
		{"not found", NotFound("book", 42), false, true, false, false},
		{"duplicate", Duplicate("author", "name", "Jane Doe"), false, false, true, false},
		{"blocked", Blocked("genre", 3, "books"), false, false, true, false},
		{"store", Store("list books", errors.New("disk I/O error")), false, false, false, true},
		{"wrapped", fmt.Errorf("create book: %w", NotFound("user", 7)), false, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.validation, IsValidation(tt.err))
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.conflict, IsConflict(tt.err))
			assert.Equal(t, tt.store, IsStore(tt.err))
			assert.True(t, IsKnown(tt.err))
		})
	}
}

func TestStore_KeepsKnownKinds(t *testing.T) {
	original := Duplicate("book", "isbn", "123")

	assert.Same(t, original, Store("create book", original))
	assert.Nil(t, Store("noop", nil))
}

func TestStoreError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Store("get book", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "get book")
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "invalid progress_pages -1: must be non-negative",
		Validation("progress_pages", -1, "must be non-negative").Error())
	assert.Equal(t, "invalid title: is required", Validation("title", nil, "is required").Error())
	assert.Equal(t, "book 9 not found", NotFound("book", 9).Error())
	assert.Equal(t, "author with name Jane Doe already exists", Duplicate("author", "name", "Jane Doe").Error())

	var conflict *ConflictError
	err := Blocked("author", 2, "books")
	assert.True(t, errors.As(err, &conflict))
	assert.Equal(t, int64(2), conflict.Dependents)
	assert.Contains(t, err.Error(), "2 associated books")
}
