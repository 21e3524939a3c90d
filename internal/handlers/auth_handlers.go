package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rental-service/internal/middleware"
	"rental-service/internal/services"
)

// AuthHandler handles signup, login, logout and session introspection for
// both authentication domains.
type AuthHandler struct {
	authService *services.AuthService
	auth        *middleware.Auth
	cookieTTL   int // seconds
	secure      bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, auth *middleware.Auth, tokens *services.TokenService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		auth:        auth,
		cookieTTL:   int(tokens.TTL().Seconds()),
		secure:      secureCookies,
	}
}

// OwnerSignupRequest is the owner registration payload
type OwnerSignupRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// OwnerSignup registers a new owner account
func (h *AuthHandler) OwnerSignup(c *gin.Context) {
	var req OwnerSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	owner, err := h.authService.OwnerSignup(c.Request.Context(), &services.OwnerSignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		MapError(c, err, "Failed to create owner account")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Owner account created", owner)
}

// TenantSignupRequest is the tenant registration payload
type TenantSignupRequest struct {
	Username   string `json:"username" binding:"required,min=2"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Phone      string `json:"phone"`
	Occupation string `json:"occupation"`
}

// TenantSignup registers a new tenant account
func (h *AuthHandler) TenantSignup(c *gin.Context) {
	var req TenantSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	user, err := h.authService.TenantSignup(c.Request.Context(), &services.TenantSignupRequest{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Occupation: req.Occupation,
	})
	if err != nil {
		MapError(c, err, "Failed to create tenant account")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Tenant account created", user)
}

// LoginRequest is the login payload for either role
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// OwnerLogin verifies owner credentials and sets the session cookie
func (h *AuthHandler) OwnerLogin(c *gin.Context) {
	h.login(c, h.authService.OwnerLogin)
}

// TenantLogin verifies tenant credentials and sets the session cookie
func (h *AuthHandler) TenantLogin(c *gin.Context) {
	h.login(c, h.authService.TenantLogin)
}

func (h *AuthHandler) login(c *gin.Context, verify func(ctx context.Context, email, password string) (*services.LoginResult, error)) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	result, err := verify(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		MapError(c, err, "Login failed")
		return
	}

	h.setSessionCookie(c, result.Token, h.cookieTTL)
	SuccessResponse(c, http.StatusOK, "Logged in", gin.H{
		"account_id": result.Claims.AccountID,
		"email":      result.Claims.Email,
		"username":   result.Claims.Username,
		"role":       result.Claims.Role,
		"expires_at": result.Claims.ExpiresAt.Time,
	})
}

// Logout revokes the current token and clears the session cookie. It
// succeeds even without a valid session so clients can always reset.
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims, ok := h.auth.VerifyAny(c); ok {
		h.auth.Revoke(c, claims)
	}
	h.setSessionCookie(c, "", -1)
	SuccessResponse(c, http.StatusOK, "Logged out", nil)
}

// CheckAuth returns the verified claims of the current session. The server
// is the single source of truth for session state; clients re-fetch this
// instead of mirroring it.
func (h *AuthHandler) CheckAuth(c *gin.Context) {
	claims, ok := h.auth.VerifyAny(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}
	SuccessResponse(c, http.StatusOK, "Authenticated", gin.H{
		"account_id": claims.AccountID,
		"email":      claims.Email,
		"username":   claims.Username,
		"role":       claims.Role,
		"expires_at": claims.ExpiresAt.Time,
	})
}

// GetOwnerProfile returns the authenticated owner's profile
func (h *AuthHandler) GetOwnerProfile(c *gin.Context) {
	owner, err := h.authService.GetOwner(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		MapError(c, err, "Failed to load profile")
		return
	}
	SuccessResponse(c, http.StatusOK, "", owner)
}

// OwnerProfileUpdateRequest is the allow-listed owner profile update payload
type OwnerProfileUpdateRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateOwnerProfile applies a partial update to the owner's profile
func (h *AuthHandler) UpdateOwnerProfile(c *gin.Context) {
	var req OwnerProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	owner, err := h.authService.UpdateOwnerProfile(c.Request.Context(), middleware.AccountID(c), &services.OwnerProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		MapError(c, err, "Failed to update profile")
		return
	}
	SuccessResponse(c, http.StatusOK, "Profile updated", owner)
}

// GetTenantProfile returns the authenticated tenant's profile
func (h *AuthHandler) GetTenantProfile(c *gin.Context) {
	user, err := h.authService.GetUser(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		MapError(c, err, "Failed to load profile")
		return
	}
	SuccessResponse(c, http.StatusOK, "", user)
}

// TenantProfileUpdateRequest is the allow-listed tenant profile update payload
type TenantProfileUpdateRequest struct {
	Username   *string `json:"username"`
	Phone      *string `json:"phone"`
	Occupation *string `json:"occupation"`
}

// UpdateTenantProfile applies a partial update to the tenant's profile
func (h *AuthHandler) UpdateTenantProfile(c *gin.Context) {
	var req TenantProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	user, err := h.authService.UpdateUserProfile(c.Request.Context(), middleware.AccountID(c), &services.UserProfileUpdate{
		Username:   req.Username,
		Phone:      req.Phone,
		Occupation: req.Occupation,
	})
	if err != nil {
		MapError(c, err, "Failed to update profile")
		return
	}
	SuccessResponse(c, http.StatusOK, "Profile updated", user)
}

// SearchTenants finds tenants visible to the authenticated owner
func (h *AuthHandler) SearchTenants(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		ErrorResponse(c, http.StatusBadRequest, "Query parameter 'q' is required", nil)
		return
	}

	users, err := h.authService.SearchTenants(c.Request.Context(), middleware.AccountID(c), term)
	if err != nil {
		MapError(c, err, "Search failed")
		return
	}
	SuccessResponse(c, http.StatusOK, "", users)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", h.secure, true)
}
