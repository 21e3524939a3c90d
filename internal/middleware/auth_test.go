package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-service/internal/config"
	"rental-service/internal/services"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *services.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := services.NewTokenService(config.AuthConfig{
		OwnerSecret:  "test-owner-secret",
		TenantSecret: "test-tenant-secret",
		TokenTTL:     1,
	})
	auth := NewAuth(tokens, nil)

	router := gin.New()
	router.GET("/owner-only", auth.RequireOwner(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"account_id": AccountID(c)})
	})
	router.GET("/tenant-only", auth.RequireTenant(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"account_id": AccountID(c)})
	})
	return router, tokens
}

func TestRequireOwnerMissingToken(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/owner-only", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireOwnerWithCookie(t *testing.T) {
	router, tokens := newAuthTestRouter(t)

	token, _, err := tokens.Issue(services.RoleOwner, 42, "owner@example.com", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/owner-only", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

func TestRequireOwnerWithBearerHeader(t *testing.T) {
	router, tokens := newAuthTestRouter(t)

	token, _, err := tokens.Issue(services.RoleOwner, 7, "owner@example.com", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/owner-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireOwnerRejectsTenantToken(t *testing.T) {
	router, tokens := newAuthTestRouter(t)

	token, _, err := tokens.Issue(services.RoleTenant, 42, "tenant@example.com", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/owner-only", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code, "role domains never cross")
}

func TestRequireTenantRejectsOwnerToken(t *testing.T) {
	router, tokens := newAuthTestRouter(t)

	token, _, err := tokens.Issue(services.RoleOwner, 42, "owner@example.com", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/tenant-only", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireOwnerRejectsGarbageToken(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/owner-only", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-token"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
