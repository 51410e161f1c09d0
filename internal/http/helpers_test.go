package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipeshare/server/internal/provider"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthenticated", provider.ErrUnauthenticated, http.StatusUnauthorized},
		{"no session", provider.ErrNoSession, http.StatusUnauthorized},
		{"session expired", provider.ErrSessionExpired, http.StatusUnauthorized},
		{"invalid credentials", provider.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", provider.ErrForbidden, http.StatusForbidden},
		{"not found", provider.ErrNotFound, http.StatusNotFound},
		{"conflict", provider.ErrConflict, http.StatusConflict},
		{"account exists", provider.ErrAccountExists, http.StatusConflict},
		{"network", provider.ErrNetwork, http.StatusBadGateway},
		{"validation", provider.NewValidationError("title", "title is required"), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, statusForError(tt.err))
		})
	}
}

func TestRespondProviderError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	respond := func(err error) (int, ErrorResponse) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		respondProviderError(c, err, "test")

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return w.Code, body
	}

	t.Run("forbidden and missing records read the same", func(t *testing.T) {
		forbiddenStatus, forbiddenBody := respond(provider.ErrForbidden)
		notFoundStatus, notFoundBody := respond(provider.ErrNotFound)

		assert.Equal(t, http.StatusForbidden, forbiddenStatus)
		assert.Equal(t, http.StatusNotFound, notFoundStatus)
		assert.Equal(t, "Not found", forbiddenBody.Error)
		assert.Equal(t, forbiddenBody.Error, notFoundBody.Error)
	})

	t.Run("validation errors carry the field", func(t *testing.T) {
		status, body := respond(provider.NewValidationError("username", "username must be 3-64 characters, alphanumeric with underscore/hyphen only"))
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, body.Error, "username")
		assert.NotNil(t, body.Details)
	})

	t.Run("internal errors hide the cause", func(t *testing.T) {
		status, body := respond(errors.New("sqlite disk io failure"))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.NotContains(t, body.Error, "sqlite")
	})
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	parse := func(query string) (int, int) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/api/recipes?"+query, nil)
		return parsePagination(c)
	}

	t.Run("defaults", func(t *testing.T) {
		limit, offset := parse("")
		assert.Equal(t, 20, limit)
		assert.Equal(t, 0, offset)
	})

	t.Run("explicit values", func(t *testing.T) {
		limit, offset := parse("limit=5&offset=30")
		assert.Equal(t, 5, limit)
		assert.Equal(t, 30, offset)
	})

	t.Run("out of bounds fall back", func(t *testing.T) {
		limit, offset := parse("limit=5000&offset=-2")
		assert.Equal(t, 20, limit)
		assert.Equal(t, 0, offset)
	})

	t.Run("garbage falls back", func(t *testing.T) {
		limit, offset := parse("limit=abc&offset=xyz")
		assert.Equal(t, 20, limit)
		assert.Equal(t, 0, offset)
	})
}
