// Package books provides the catalog query engine and book persistence.
//
// Books own their author and genre associations. Writes resolve the given
// names to Author/Genre rows (creating missing ones) and rebuild the join
// rows inside the same transaction as the book row itself.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.CreateBook(books.BookInput{
//		Title:   "Dune",
//		ISBN:    "0441013597",
//		Authors: []string{"Frank Herbert"},
//	})
//	page, err := repo.ListBooks(books.Filter{Authors: []string{"Frank Herbert"}}, params)
package books

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/pagination"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithAssociations preloads a book's authors and genres in id order.
func WithAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Authors", func(db *gorm.DB) *gorm.DB { return db.Order("authors.id ASC") }).
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.id ASC") })
}

// GetBookByID retrieves a book with its authors and genres.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := WithAssociations(r.db).First(&book, id).Error
	if database.IsRecordNotFound(err) {
		return nil, apperrors.NotFound("book", id)
	}
	if err != nil {
		return nil, apperrors.Store("get book", err)
	}
	return &book, nil
}

// FindBookByISBN returns the book with the given ISBN, or nil when none exists.
func (r *Repository) FindBookByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("isbn = ?", strings.TrimSpace(isbn)).First(&book).Error
	if database.IsRecordNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Store("find book by isbn", err)
	}
	return &book, nil
}

// CreateBook stores a new book and links its authors and genres, creating
// any that do not exist yet.
func (r *Repository) CreateBook(in BookInput) (*entities.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var bookID uint
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureISBNFree(tx, in.ISBN, 0); err != nil {
			return err
		}

		book := in.book()
		if err := tx.Omit(clause.Associations).Create(&book).Error; err != nil {
			return err
		}
		bookID = book.ID

		return attach(tx, book.ID, in)
	})
	if err != nil {
		return nil, database.ClassifyError("create book", "book", err)
	}

	return r.GetBookByID(bookID)
}

// UpdateBook replaces every field of the book and its author/genre sets.
// Names left out of the input are unlinked; the Author/Genre rows stay.
func (r *Repository) UpdateBook(id uint, in BookInput) (*entities.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.Book
		if err := tx.First(&existing, id).Error; err != nil {
			if database.IsRecordNotFound(err) {
				return apperrors.NotFound("book", id)
			}
			return err
		}
		if err := ensureISBNFree(tx, in.ISBN, id); err != nil {
			return err
		}

		book := in.book()
		book.ID = id
		if err := tx.Omit(clause.Associations).Save(&book).Error; err != nil {
			return err
		}

		if err := unlinkBook(tx, id); err != nil {
			return err
		}
		return attach(tx, id, in)
	})
	if err != nil {
		return nil, database.ClassifyError("update book", "book", err)
	}

	return r.GetBookByID(id)
}

// DeleteBook removes a book together with its join rows and every
// reading-list entry that references it.
func (r *Repository) DeleteBook(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.NotFound("book", id)
		}

		if err := tx.Where("book_id = ?", id).Delete(&entities.ReadingListEntry{}).Error; err != nil {
			return err
		}
		if err := unlinkBook(tx, id); err != nil {
			return err
		}
		return tx.Delete(&entities.Book{}, id).Error
	})
	return database.ClassifyError("delete book", "book", err)
}

// ListBooks returns one page of books matching filter. The total is
// computed from the same predicate before skip and limit apply.
func (r *Repository) ListBooks(filter Filter, params pagination.Params) (pagination.Page[entities.Book], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[entities.Book]{}, err
	}

	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		return pagination.Page[entities.Book]{}, apperrors.Store("count books", err)
	}

	books := []entities.Book{}
	if params.Limit > 0 && total > int64(params.Skip) {
		err := WithAssociations(r.filtered(filter)).
			Order("books.id ASC").
			Offset(params.Skip).
			Limit(params.Limit).
			Find(&books).Error
		if err != nil {
			return pagination.Page[entities.Book]{}, apperrors.Store("list books", err)
		}
	}

	return pagination.NewPage(books, total, params), nil
}

// CountBooks returns the unfiltered number of books.
func (r *Repository) CountBooks() (int64, error) {
	var count int64
	if err := r.db.Model(&entities.Book{}).Count(&count).Error; err != nil {
		return 0, apperrors.Store("count books", err)
	}
	return count, nil
}

// filtered builds the book predicate. Author and genre filters use an
// IN subquery so a book matching several names is still returned once.
func (r *Repository) filtered(filter Filter) *gorm.DB {
	q := r.db.Model(&entities.Book{})

	if title := strings.TrimSpace(filter.Title); title != "" {
		q = q.Where("books.title_folded LIKE ? "+database.LikeEscape, database.ContainsPattern(entities.FoldTitle(title)))
	}
	if len(filter.Authors) > 0 {
		sub := r.db.Table("book_authors").
			Select("book_authors.book_id").
			Joins("JOIN authors ON authors.id = book_authors.author_id").
			Where("authors.name IN ?", filter.Authors)
		q = q.Where("books.id IN (?)", sub)
	}
	if len(filter.Genres) > 0 {
		sub := r.db.Table("book_genres").
			Select("book_genres.book_id").
			Joins("JOIN genres ON genres.id = book_genres.genre_id").
			Where("genres.name IN ?", filter.Genres)
		q = q.Where("books.id IN (?)", sub)
	}
	if filter.AuthorID != 0 {
		sub := r.db.Table("book_authors").Select("book_id").Where("author_id = ?", filter.AuthorID)
		q = q.Where("books.id IN (?)", sub)
	}
	if filter.GenreID != 0 {
		sub := r.db.Table("book_genres").Select("book_id").Where("genre_id = ?", filter.GenreID)
		q = q.Where("books.id IN (?)", sub)
	}
	if filter.MinRating != nil {
		q = q.Where("books.average_rating >= ?", *filter.MinRating)
	}
	if filter.MaxRating != nil {
		q = q.Where("books.average_rating <= ?", *filter.MaxRating)
	}
	return q
}

func attach(tx *gorm.DB, bookID uint, in BookInput) error {
	authors, err := ResolveAuthors(tx, in.Authors)
	if err != nil {
		return err
	}
	genres, err := ResolveGenres(tx, in.Genres)
	if err != nil {
		return err
	}
	return linkBook(tx, bookID, authors, genres)
}

// ensureISBNFree fails with a conflict when another book already uses isbn.
func ensureISBNFree(tx *gorm.DB, isbn string, exceptID uint) error {
	var count int64
	q := tx.Model(&entities.Book{}).Where("isbn = ?", isbn)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Duplicate("book", "isbn", isbn)
	}
	return nil
}
