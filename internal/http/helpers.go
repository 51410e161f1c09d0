package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/recipeshare/server/internal/provider"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// --- Error Response Helpers ---

// respondProviderError maps the provider error taxonomy onto HTTP statuses.
// Bodies always go through provider.UserMessage so that ownership failures
// and missing records are indistinguishable to the caller.
func respondProviderError(c *gin.Context, err error, context string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError || status == http.StatusBadGateway {
		log.Printf("Provider error (%s): %v", context, err)
	}

	var verr *provider.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   verr.Message,
			Details: gin.H{"field": verr.Field},
		})
		return
	}

	c.JSON(status, ErrorResponse{Error: provider.UserMessage(err)})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, provider.ErrUnauthenticated),
		errors.Is(err, provider.ErrNoSession),
		errors.Is(err, provider.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, provider.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, provider.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, provider.ErrConflict),
		errors.Is(err, provider.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, provider.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, provider.ErrNetwork):
		return http.StatusBadGateway
	case provider.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondUnauthenticated sends a 401 response for requests with no identity.
func respondUnauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
}

// --- Success Response Helpers ---

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parsePagination reads limit/offset query parameters with sane bounds.
func parsePagination(c *gin.Context) (limit, offset int) {
	limit = 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
