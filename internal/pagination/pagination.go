// Package pagination holds the skip/limit arithmetic shared by every list
// operation.
package pagination

import (
	"fmt"

	"github.com/mrlokans/bookshelf/internal/apperrors"
)

const (
	DefaultLimit = 12
	MaxLimit     = 100
)

// Params is a validated offset window.
type Params struct {
	Skip  int
	Limit int
}

// NewParams validates skip and limit against maxLimit.
// A zero limit is allowed and yields an empty page.
func NewParams(skip, limit, maxLimit int) (Params, error) {
	if skip < 0 {
		return Params{}, apperrors.Validation("skip", skip, "must be greater than or equal to 0")
	}
	if limit < 0 {
		return Params{}, apperrors.Validation("limit", limit, "must be greater than or equal to 0")
	}
	if maxLimit > 0 && limit > maxLimit {
		return Params{}, apperrors.Validation("limit", limit, fmt.Sprintf("must be less than or equal to %d", maxLimit))
	}
	return Params{Skip: skip, Limit: limit}, nil
}

// Page is one window of a filtered result set.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// NewPage builds the envelope for items fetched with p out of total matches.
func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Total: total,
		Page:  PageNumber(p.Skip, p.Limit),
		Limit: p.Limit,
		Pages: PageCount(total, p.Limit),
	}
}

// PageNumber is floor(skip/limit)+1, or 1 when limit is zero.
func PageNumber(skip, limit int) int {
	if limit <= 0 {
		return 1
	}
	return skip/limit + 1
}

// PageCount is ceil(total/limit), or 0 when limit is zero.
func PageCount(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	l := int64(limit)
	return int((total + l - 1) / l)
}
