package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/bookshelf/internal/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseIDParam_Valid(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "123"}}

	id, ok := parseIDParam(c, "id")

	assert.True(t, ok)
	assert.Equal(t, uint(123), id)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseIDParam_Invalid(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	id, ok := parseIDParam(c, "id")

	assert.False(t, ok)
	assert.Equal(t, uint(0), id)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid id")
}

func TestParseIDParam_Negative(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "-1"}}

	id, ok := parseIDParam(c, "id")

	assert.False(t, ok)
	assert.Equal(t, uint(0), id)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseQueryID_Valid(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/?user_id=456", nil)

	id, ok := parseQueryID(c, "user_id")

	assert.True(t, ok)
	assert.Equal(t, uint(456), id)
}

func TestParseQueryID_Missing(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	id, ok := parseQueryID(c, "user_id")

	assert.False(t, ok)
	assert.Equal(t, uint(0), id)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "user_id is required")
}

func TestParsePagination(t *testing.T) {
	limits := PageLimits{Default: 12, Max: 100}

	tests := []struct {
		name      string
		query     string
		wantOK    bool
		wantSkip  int
		wantLimit int
	}{
		{"defaults", "", true, 0, 12},
		{"explicit", "?skip=24&limit=6", true, 24, 6},
		{"zero limit", "?limit=0", true, 0, 0},
		{"max limit", "?limit=100", true, 0, 100},
		{"over max", "?limit=101", false, 0, 0},
		{"negative skip", "?skip=-1", false, 0, 0},
		{"not a number", "?limit=ten", false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/books"+tt.query, nil)

			params, ok := parsePagination(c, limits)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantSkip, params.Skip)
				assert.Equal(t, tt.wantLimit, params.Limit)
			} else {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestRespondAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", apperrors.Validation("title", nil, "must not be empty"), http.StatusBadRequest, CodeValidation},
		{"not found", apperrors.NotFound("book", 7), http.StatusNotFound, "book 7 not found"},
		{"duplicate", apperrors.Duplicate("author", "name", "Jane"), http.StatusConflict, `"field":"name"`},
		{"blocked", apperrors.Blocked("author", 2, "books"), http.StatusConflict, `"dependents":2`},
		{"store", apperrors.Store("list books", errors.New("disk on fire")), http.StatusInternalServerError, "internal server error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondAppError(c, tt.err, "test")

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.NotContains(t, w.Body.String(), "disk on fire")
		})
	}
}
