package books

import (
	"strings"
	"unicode/utf8"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// BookInput is the payload for creating or fully replacing a book.
// Authors and Genres are names; they are resolved to rows on write.
type BookInput struct {
	Title         string   `json:"title" binding:"required"`
	Description   *string  `json:"description"`
	Format        *string  `json:"format"`
	Pages         *int     `json:"pages"`
	AverageRating *float64 `json:"average_rating"`
	TotalRatings  *int     `json:"total_ratings"`
	ReviewsCount  *int     `json:"reviews_count"`
	ISBN          string   `json:"isbn" binding:"required"`
	ISBN13        *string  `json:"isbn13"`
	ImageURL      *string  `json:"image_url"`
	GoodreadsLink *string  `json:"goodreads_link"`
	Authors       []string `json:"authors"`
	Genres        []string `json:"genres"`
}

// Validate trims the required strings and checks the numeric fields.
func (in *BookInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.ISBN = strings.TrimSpace(in.ISBN)

	if in.Title == "" {
		return apperrors.Validation("title", nil, "must not be empty")
	}
	if utf8.RuneCountInString(in.Title) > 500 {
		return apperrors.Validation("title", nil, "must be at most 500 characters")
	}
	if in.ISBN == "" {
		return apperrors.Validation("isbn", nil, "must not be empty")
	}
	if utf8.RuneCountInString(in.ISBN) > 20 {
		return apperrors.Validation("isbn", in.ISBN, "must be at most 20 characters")
	}
	if err := nonNegative("pages", in.Pages); err != nil {
		return err
	}
	if err := nonNegative("total_ratings", in.TotalRatings); err != nil {
		return err
	}
	if err := nonNegative("reviews_count", in.ReviewsCount); err != nil {
		return err
	}
	return nil
}

func (in *BookInput) book() entities.Book {
	return entities.Book{
		Title:         in.Title,
		Description:   in.Description,
		Format:        in.Format,
		Pages:         in.Pages,
		AverageRating: in.AverageRating,
		TotalRatings:  in.TotalRatings,
		ReviewsCount:  in.ReviewsCount,
		ISBN:          in.ISBN,
		ISBN13:        in.ISBN13,
		ImageURL:      in.ImageURL,
		GoodreadsLink: in.GoodreadsLink,
	}
}

func nonNegative(field string, v *int) error {
	if v != nil && *v < 0 {
		return apperrors.Validation(field, *v, "must be greater than or equal to 0")
	}
	return nil
}

// Filter narrows a book listing. Every field is optional and the
// filters combine with AND. Authors and Genres match any of the names.
type Filter struct {
	Title     string
	Authors   []string
	Genres    []string
	MinRating *float64
	MaxRating *float64

	// AuthorID and GenreID restrict to books linked to that row; zero means unset.
	AuthorID uint
	GenreID  uint
}

func (f Filter) Validate() error {
	if f.MinRating != nil && f.MaxRating != nil && *f.MinRating > *f.MaxRating {
		return apperrors.Validation("min_rating", *f.MinRating, "must not exceed max_rating")
	}
	return nil
}
