package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/pagination"
)

// DefaultTopGenres is the size of the /genres/top listing when ?limit is absent.
const DefaultTopGenres = 10

// GenreStore defines database operations for genre management.
type GenreStore interface {
	CreateGenre(name string) (*entities.Genre, error)
	GetGenreByID(id uint) (*entities.Genre, error)
	ListGenres(query string, params pagination.Params) ([]entities.Genre, error)
	UpdateGenre(id uint, name string) (*entities.Genre, error)
	DeleteGenre(id uint) error
	CountGenres() (int64, error)
	TopGenres(limit int) ([]entities.GenreBookCount, error)
}

type GenresController struct {
	store  GenreStore
	books  BookStore
	limits PageLimits
}

func NewGenresController(store GenreStore, bookStore BookStore, limits PageLimits) *GenresController {
	return &GenresController{store: store, books: bookStore, limits: limits}
}

// GET /genres
func (gc *GenresController) ListGenres(c *gin.Context) {
	params, ok := parsePagination(c, gc.limits)
	if !ok {
		return
	}

	genres, err := gc.store.ListGenres(c.Query("q"), params)
	if err != nil {
		respondAppError(c, err, "list genres")
		return
	}
	c.JSON(http.StatusOK, genres)
}

// GET /genres/count
func (gc *GenresController) CountGenres(c *gin.Context) {
	count, err := gc.store.CountGenres()
	if err != nil {
		respondAppError(c, err, "count genres")
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: count})
}

// TopGenres returns the genres with the most books.
// GET /genres/top?limit=10
func (gc *GenresController) TopGenres(c *gin.Context) {
	limit, ok := queryInt(c, "limit", DefaultTopGenres)
	if !ok {
		return
	}
	if limit < 0 || (gc.limits.Max > 0 && limit > gc.limits.Max) {
		respondBadRequest(c, "invalid limit")
		return
	}

	top, err := gc.store.TopGenres(limit)
	if err != nil {
		respondAppError(c, err, "top genres")
		return
	}
	c.JSON(http.StatusOK, top)
}

// GET /genres/:id
func (gc *GenresController) GetGenre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	genre, err := gc.store.GetGenreByID(id)
	if err != nil {
		respondAppError(c, err, "get genre")
		return
	}
	c.JSON(http.StatusOK, genre)
}

// GET /genres/:id/books
func (gc *GenresController) ListGenreBooks(c *gin.Context) {
	listBooksBy(c, gc.books, gc.limits,
		func(id uint) error {
			_, err := gc.store.GetGenreByID(id)
			return err
		},
		func(id uint) books.Filter { return books.Filter{GenreID: id} },
		"list genre books")
}

// POST /genres
func (gc *GenresController) CreateGenre(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	genre, err := gc.store.CreateGenre(req.Name)
	if err != nil {
		respondAppError(c, err, "create genre")
		return
	}
	respondCreated(c, genre)
}

// PUT /genres/:id
func (gc *GenresController) UpdateGenre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	genre, err := gc.store.UpdateGenre(id, req.Name)
	if err != nil {
		respondAppError(c, err, "update genre")
		return
	}
	c.JSON(http.StatusOK, genre)
}

// DELETE /genres/:id
func (gc *GenresController) DeleteGenre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := gc.store.DeleteGenre(id); err != nil {
		respondAppError(c, err, "delete genre")
		return
	}
	respondSuccess(c, "genre deleted")
}
