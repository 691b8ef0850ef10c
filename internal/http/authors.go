package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/pagination"
)

// AuthorStore defines database operations for author management.
type AuthorStore interface {
	CreateAuthor(name string) (*entities.Author, error)
	GetAuthorByID(id uint) (*entities.Author, error)
	ListAuthors(query string, params pagination.Params) ([]entities.Author, error)
	UpdateAuthor(id uint, name string) (*entities.Author, error)
	DeleteAuthor(id uint) error
	CountAuthors() (int64, error)
}

// NameRequest is the body of author and genre create/rename requests.
type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

type AuthorsController struct {
	store  AuthorStore
	books  BookStore
	limits PageLimits
}

func NewAuthorsController(store AuthorStore, bookStore BookStore, limits PageLimits) *AuthorsController {
	return &AuthorsController{store: store, books: bookStore, limits: limits}
}

// ListAuthors returns authors whose name contains ?q, in id order.
// GET /authors
func (ac *AuthorsController) ListAuthors(c *gin.Context) {
	params, ok := parsePagination(c, ac.limits)
	if !ok {
		return
	}

	authors, err := ac.store.ListAuthors(c.Query("q"), params)
	if err != nil {
		respondAppError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, authors)
}

// GET /authors/count
func (ac *AuthorsController) CountAuthors(c *gin.Context) {
	count, err := ac.store.CountAuthors()
	if err != nil {
		respondAppError(c, err, "count authors")
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: count})
}

// GET /authors/:id
func (ac *AuthorsController) GetAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.GetAuthorByID(id)
	if err != nil {
		respondAppError(c, err, "get author")
		return
	}
	c.JSON(http.StatusOK, author)
}

// ListAuthorBooks returns a page of the books written by one author.
// GET /authors/:id/books
func (ac *AuthorsController) ListAuthorBooks(c *gin.Context) {
	listBooksBy(c, ac.books, ac.limits,
		func(id uint) error {
			_, err := ac.store.GetAuthorByID(id)
			return err
		},
		func(id uint) books.Filter { return books.Filter{AuthorID: id} },
		"list author books")
}

// POST /authors
func (ac *AuthorsController) CreateAuthor(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	author, err := ac.store.CreateAuthor(req.Name)
	if err != nil {
		respondAppError(c, err, "create author")
		return
	}
	respondCreated(c, author)
}

// PUT /authors/:id
func (ac *AuthorsController) UpdateAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	author, err := ac.store.UpdateAuthor(id, req.Name)
	if err != nil {
		respondAppError(c, err, "update author")
		return
	}
	c.JSON(http.StatusOK, author)
}

// DeleteAuthor removes an author that no book references.
// DELETE /authors/:id
func (ac *AuthorsController) DeleteAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.store.DeleteAuthor(id); err != nil {
		respondAppError(c, err, "delete author")
		return
	}
	respondSuccess(c, "author deleted")
}
