package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/pagination"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeConflict   = "conflict"
	CodeInternal   = "internal_error"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// CountResponse is returned by the /count endpoints.
type CountResponse struct {
	Count int64 `json:"count"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeValidation})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
}

// respondAppError maps an apperrors kind to its status code. Anything
// unrecognised is treated as an internal error.
func respondAppError(c *gin.Context, err error, context string) {
	var (
		validation *apperrors.ValidationError
		notFound   *apperrors.NotFoundError
		conflict   *apperrors.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   err.Error(),
			Code:    CodeValidation,
			Details: gin.H{"field": validation.Field, "reason": validation.Reason},
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: err.Error(),
			Code:  CodeNotFound,
		})
	case errors.As(err, &conflict):
		resp := ErrorResponse{Error: err.Error(), Code: CodeConflict}
		if conflict.Dependents > 0 {
			resp.Details = gin.H{"dependents": conflict.Dependents}
		} else if conflict.Field != "" {
			resp.Details = gin.H{"field": conflict.Field}
		}
		c.JSON(http.StatusConflict, resp)
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parseQueryID extracts and validates an unsigned integer ID from query parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseQueryID(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Query(paramName)
	if idStr == "" {
		respondBadRequest(c, paramName+" is required")
		return 0, false
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return n, true
}

// queryFloat reads an optional float query parameter; nil when absent.
func queryFloat(c *gin.Context, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return nil, false
	}
	return &f, true
}

// PageLimits bounds the skip/limit query parameters of list endpoints.
type PageLimits struct {
	Default int
	Max     int
}

// parsePagination reads skip and limit and validates them against limits.
func parsePagination(c *gin.Context, limits PageLimits) (pagination.Params, bool) {
	if limits.Default <= 0 {
		limits.Default = pagination.DefaultLimit
	}
	if limits.Max <= 0 {
		limits.Max = pagination.MaxLimit
	}

	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return pagination.Params{}, false
	}
	limit, ok := queryInt(c, "limit", limits.Default)
	if !ok {
		return pagination.Params{}, false
	}

	params, err := pagination.NewParams(skip, limit, limits.Max)
	if err != nil {
		respondAppError(c, err, "parse pagination")
		return pagination.Params{}, false
	}
	return params, true
}
