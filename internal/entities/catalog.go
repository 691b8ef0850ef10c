package entities

import (
	"strings"

	"gorm.io/gorm"
)

type Book struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	Title         string   `gorm:"size:500;not null" json:"title"`
	TitleFolded   string   `gorm:"size:500;not null;default:'';index" json:"-"`
	Description   *string  `gorm:"type:text" json:"description"`
	Format        *string  `gorm:"size:50" json:"format"`
	Pages         *int     `json:"pages"`
	AverageRating *float64 `gorm:"index" json:"average_rating"`
	TotalRatings  *int     `json:"total_ratings"`
	ReviewsCount  *int     `json:"reviews_count"`
	ISBN          string   `gorm:"uniqueIndex;size:20;not null" json:"isbn"`
	ISBN13        *string  `gorm:"size:30" json:"isbn13"`
	ImageURL      *string  `gorm:"type:text" json:"image_url"`
	GoodreadsLink *string  `gorm:"type:text" json:"goodreads_link"`
	Authors       []Author `gorm:"many2many:book_authors;constraint:OnDelete:CASCADE" json:"authors"`
	Genres        []Genre  `gorm:"many2many:book_genres;constraint:OnDelete:CASCADE" json:"genres"`
}

type Author struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:255;not null" json:"name"`
}

type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

// BookAuthor is the join row between a book and one of its authors.
type BookAuthor struct {
	BookID   uint `gorm:"primaryKey;autoIncrement:false"`
	AuthorID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

// BookGenre is the join row between a book and one of its genres.
type BookGenre struct {
	BookID  uint `gorm:"primaryKey;autoIncrement:false"`
	GenreID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

// GenreBookCount is a genre together with the number of books filed under it.
type GenreBookCount struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	BookCount int64  `json:"book_count"`
}

func (Book) TableName() string {
	return "books"
}

// FoldTitle is the lower-cased form stored in TitleFolded. Title search
// compares against it because SQLite's LOWER only folds ASCII.
func FoldTitle(title string) string {
	return strings.ToLower(title)
}

func (b *Book) BeforeSave(tx *gorm.DB) error {
	b.TitleFolded = FoldTitle(b.Title)
	return nil
}

func (Author) TableName() string {
	return "authors"
}

func (Genre) TableName() string {
	return "genres"
}

func (BookAuthor) TableName() string {
	return "book_authors"
}

func (BookGenre) TableName() string {
	return "book_genres"
}
