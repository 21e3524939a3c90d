package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"rental-service/internal/services"
)

func TestMapError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", services.NewValidationError("password", "too short"), http.StatusBadRequest},
		{"invalid reference", fmt.Errorf("flat 7: %w", services.ErrInvalidReference), http.StatusBadRequest},
		{"unauthorized", fmt.Errorf("bad credentials: %w", services.ErrUnauthorized), http.StatusUnauthorized},
		{"not found", fmt.Errorf("tenancy 3: %w", services.ErrNotFound), http.StatusNotFound},
		{"conflict", fmt.Errorf("duplicate email: %w", services.ErrConflict), http.StatusConflict},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			MapError(c, tc.err, "something failed")
			assert.Equal(t, tc.want, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestMapErrorHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	MapError(c, fmt.Errorf("dsn=postgres://secret"), "something failed")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret", "internal errors never leak to clients")
	assert.Contains(t, w.Body.String(), "something failed")
}

func TestSuccessResponseEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-123")

	SuccessResponse(c, http.StatusOK, "done", gin.H{"id": 1})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"request_id":"req-123"`)
	assert.Contains(t, w.Body.String(), `"data"`)
}
