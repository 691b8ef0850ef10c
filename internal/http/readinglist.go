package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database/readinglist"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/pagination"
)

// ReadingListStore defines the reading-list operations used by ReadingListController.
type ReadingListStore interface {
	AddEntry(userID uint, in readinglist.AddEntryInput) (*entities.ReadingListEntry, error)
	GetEntry(userID, bookID uint) (*entities.ReadingListEntry, error)
	ListEntries(userID uint, status string, params pagination.Params) ([]entities.ReadingListEntry, error)
	UpdateEntry(userID, bookID uint, in readinglist.UpdateEntryInput) (*entities.ReadingListEntry, error)
	RemoveEntry(userID, bookID uint) error
	Stats(userID uint) (*entities.ReadingStats, error)
}

type ReadingListController struct {
	store  ReadingListStore
	limits PageLimits
}

func NewReadingListController(store ReadingListStore, limits PageLimits) *ReadingListController {
	return &ReadingListController{store: store, limits: limits}
}

// ListEntries returns a user's reading list, optionally filtered by status.
// GET /readinglist/:user_id?status=&skip=&limit=
func (rc *ReadingListController) ListEntries(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	params, ok := parsePagination(c, rc.limits)
	if !ok {
		return
	}

	entries, err := rc.store.ListEntries(userID, c.Query("status"), params)
	if err != nil {
		respondAppError(c, err, "list reading list")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GET /readinglist/:user_id/:book_id
func (rc *ReadingListController) GetEntry(c *gin.Context) {
	userID, bookID, ok := entryKey(c)
	if !ok {
		return
	}

	entry, err := rc.store.GetEntry(userID, bookID)
	if err != nil {
		respondAppError(c, err, "get reading list entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// AddEntry puts a book on the user's reading list.
// POST /readinglist?user_id=
func (rc *ReadingListController) AddEntry(c *gin.Context) {
	userID, ok := parseQueryID(c, "user_id")
	if !ok {
		return
	}

	var in readinglist.AddEntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "book_id and status are required")
		return
	}

	entry, err := rc.store.AddEntry(userID, in)
	if err != nil {
		respondAppError(c, err, "add reading list entry")
		return
	}
	respondCreated(c, entry)
}

// UpdateEntry applies a partial update. Fields absent from the body are
// left unchanged; explicit nulls clear them.
// PATCH /readinglist/:user_id/:book_id
func (rc *ReadingListController) UpdateEntry(c *gin.Context) {
	userID, bookID, ok := entryKey(c)
	if !ok {
		return
	}

	var in readinglist.UpdateEntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	entry, err := rc.store.UpdateEntry(userID, bookID, in)
	if err != nil {
		respondAppError(c, err, "update reading list entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DELETE /readinglist/:user_id/:book_id
func (rc *ReadingListController) RemoveEntry(c *gin.Context) {
	userID, bookID, ok := entryKey(c)
	if !ok {
		return
	}

	if err := rc.store.RemoveEntry(userID, bookID); err != nil {
		respondAppError(c, err, "remove reading list entry")
		return
	}
	respondSuccess(c, "reading list entry removed")
}

// Stats returns per-status counts and the average user rating.
// GET /readinglist/stats/:user_id
func (rc *ReadingListController) Stats(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	stats, err := rc.store.Stats(userID)
	if err != nil {
		respondAppError(c, err, "reading list stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func entryKey(c *gin.Context) (userID, bookID uint, ok bool) {
	if userID, ok = parseIDParam(c, "user_id"); !ok {
		return 0, 0, false
	}
	if bookID, ok = parseIDParam(c, "book_id"); !ok {
		return 0, 0, false
	}
	return userID, bookID, true
}
