package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/pagination"
)

// BookStore defines the catalog operations used by BooksController.
type BookStore interface {
	ListBooks(filter books.Filter, params pagination.Params) (pagination.Page[entities.Book], error)
	CountBooks() (int64, error)
	GetBookByID(id uint) (*entities.Book, error)
	CreateBook(in books.BookInput) (*entities.Book, error)
	UpdateBook(id uint, in books.BookInput) (*entities.Book, error)
	DeleteBook(id uint) error
}

type BooksController struct {
	store  BookStore
	limits PageLimits
}

func NewBooksController(store BookStore, limits PageLimits) *BooksController {
	return &BooksController{store: store, limits: limits}
}

// ListBooks returns a filtered page of books.
// GET /books?title=&author=&genre=&min_rating=&max_rating=&skip=&limit=
func (bc *BooksController) ListBooks(c *gin.Context) {
	params, ok := parsePagination(c, bc.limits)
	if !ok {
		return
	}
	filter, ok := parseBookFilter(c)
	if !ok {
		return
	}

	page, err := bc.store.ListBooks(filter, params)
	if err != nil {
		respondAppError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, page)
}

// CountBooks returns the total number of books.
// GET /books/count
func (bc *BooksController) CountBooks(c *gin.Context) {
	count, err := bc.store.CountBooks()
	if err != nil {
		respondAppError(c, err, "count books")
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: count})
}

// GetBook returns one book with its authors and genres.
// GET /books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBookByID(id)
	if err != nil {
		respondAppError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// CreateBook adds a book, creating any authors and genres it names.
// POST /books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var in books.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	book, err := bc.store.CreateBook(in)
	if err != nil {
		respondAppError(c, err, "create book")
		return
	}
	respondCreated(c, book)
}

// UpdateBook replaces a book and its author and genre sets.
// PUT /books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var in books.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	book, err := bc.store.UpdateBook(id, in)
	if err != nil {
		respondAppError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book and the reading-list entries pointing at it.
// DELETE /books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.store.DeleteBook(id); err != nil {
		respondAppError(c, err, "delete book")
		return
	}
	respondSuccess(c, "book deleted")
}

func parseBookFilter(c *gin.Context) (books.Filter, bool) {
	minRating, ok := queryFloat(c, "min_rating")
	if !ok {
		return books.Filter{}, false
	}
	maxRating, ok := queryFloat(c, "max_rating")
	if !ok {
		return books.Filter{}, false
	}

	return books.Filter{
		Title:     c.Query("title"),
		Authors:   c.QueryArray("author"),
		Genres:    c.QueryArray("genre"),
		MinRating: minRating,
		MaxRating: maxRating,
	}, true
}

// listBooksBy serves the paginated book listing of one author or genre.
// exists is called first so that an unknown id yields 404, not an empty page.
func listBooksBy(c *gin.Context, store BookStore, limits PageLimits, exists func(uint) error, filterFor func(uint) books.Filter, context string) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	params, ok := parsePagination(c, limits)
	if !ok {
		return
	}

	if err := exists(id); err != nil {
		respondAppError(c, err, context)
		return
	}

	page, err := store.ListBooks(filterFor(id), params)
	if err != nil {
		respondAppError(c, err, context)
		return
	}
	c.JSON(http.StatusOK, page)
}
