package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"rental-service/internal/config"
)

// Roles carried inside token claims. Owners and tenants are separate
// authentication domains.
const (
	RoleOwner  = "owner"
	RoleTenant = "tenant"
)

// Claims is the single claim schema shared by both roles. The role is an
// explicit field and each role has its own signing secret, so an owner
// token can never verify as a tenant token or vice versa.
type Claims struct {
	AccountID uint   `json:"account_id"`
	Email     string `json:"email"`
	Username  string `json:"username,omitempty"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies role-scoped session tokens
type TokenService struct {
	ownerSecret  []byte
	tenantSecret []byte
	ttl          time.Duration
}

// NewTokenService creates a new token service
func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{
		ownerSecret:  []byte(cfg.OwnerSecret),
		tenantSecret: []byte(cfg.TenantSecret),
		ttl:          time.Duration(cfg.TokenTTL) * time.Hour,
	}
}

// TTL returns the token lifetime, used for cookie max-age
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

func (s *TokenService) secretFor(role string) ([]byte, error) {
	switch role {
	case RoleOwner:
		return s.ownerSecret, nil
	case RoleTenant:
		return s.tenantSecret, nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// Issue signs a token for the given identity with a fixed expiry and a
// unique token ID (used for revocation on logout).
func (s *TokenService) Issue(role string, accountID uint, email, username string) (string, *Claims, error) {
	secret, err := s.secretFor(role)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	claims := &Claims{
		AccountID: accountID,
		Email:     email,
		Username:  username,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "rental-service",
			Subject:   fmt.Sprintf("%d", accountID),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify parses a token under the given role's signing context. It fails on
// a bad signature, expiry, or a role mismatch between the claim and the
// secret that verified it.
func (s *TokenService) Verify(tokenString, role string) (*Claims, error) {
	secret, err := s.secretFor(role)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Role != role {
		return nil, fmt.Errorf("token role %q not accepted here", claims.Role)
	}
	return claims, nil
}
