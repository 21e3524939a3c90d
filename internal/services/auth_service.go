package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rental-service/internal/models"
	"rental-service/internal/repository"
)

const bcryptCost = 12

// AuthService handles signup, login and profile management for both
// authentication domains (owners and tenants).
type AuthService struct {
	owners *repository.OwnerRepository
	users  *repository.UserRepository
	tokens *TokenService
	log    *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(owners *repository.OwnerRepository, users *repository.UserRepository, tokens *TokenService, log *logrus.Logger) *AuthService {
	return &AuthService{owners: owners, users: users, tokens: tokens, log: log}
}

// OwnerSignupRequest carries the fields required to register an owner
type OwnerSignupRequest struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// TenantSignupRequest carries the fields required to register a tenant
type TenantSignupRequest struct {
	Username   string
	Email      string
	Password   string
	Phone      string
	Occupation string
}

// LoginResult is a signed session token plus its verified claims
type LoginResult struct {
	Token  string
	Claims *Claims
}

// OwnerSignup registers a new owner account. A duplicate email fails with
// ErrConflict and creates no row.
func (s *AuthService) OwnerSignup(ctx context.Context, req *OwnerSignupRequest) (*models.Owner, error) {
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	owner := &models.Owner{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	owner.Stamp(req.Email)

	if err := s.owners.Create(ctx, owner); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("email already registered: %w", ErrConflict)
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"owner_id": owner.ID, "email": owner.Email}).Info("owner registered")
	return owner, nil
}

// OwnerLogin verifies owner credentials and issues an owner-scoped token
func (s *AuthService) OwnerLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	owner, err := s.owners.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(owner.Password), []byte(password)) != nil {
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	token, claims, err := s.tokens.Issue(RoleOwner, owner.ID, owner.Email, owner.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &LoginResult{Token: token, Claims: claims}, nil
}

// TenantSignup registers a new tenant account. A duplicate email fails with
// ErrConflict and creates no row.
func (s *AuthService) TenantSignup(ctx context.Context, req *TenantSignupRequest) (*models.User, error) {
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:   req.Username,
		Email:      req.Email,
		Password:   hash,
		Phone:      req.Phone,
		Occupation: req.Occupation,
	}
	user.Stamp(req.Email)

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("email already registered: %w", ErrConflict)
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("tenant registered")
	return user, nil
}

// TenantLogin verifies tenant credentials and issues a tenant-scoped token
func (s *AuthService) TenantLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	token, claims, err := s.tokens.Issue(RoleTenant, user.ID, user.Email, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &LoginResult{Token: token, Claims: claims}, nil
}

// GetOwner fetches an owner profile
func (s *AuthService) GetOwner(ctx context.Context, id uint) (*models.Owner, error) {
	owner, err := s.owners.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return owner, nil
}

// GetUser fetches a tenant profile
func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return user, nil
}

// OwnerProfileUpdate is the allow-listed set of owner fields a profile
// update may touch. Nil means "leave unchanged".
type OwnerProfileUpdate struct {
	Name    *string
	Phone   *string
	Address *string
}

// UpdateOwnerProfile applies an allow-listed partial update to an owner
func (s *AuthService) UpdateOwnerProfile(ctx context.Context, id uint, upd *OwnerProfileUpdate) (*models.Owner, error) {
	owner, err := s.owners.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if upd.Name != nil {
		owner.Name = *upd.Name
	}
	if upd.Phone != nil {
		owner.Phone = *upd.Phone
	}
	if upd.Address != nil {
		owner.Address = *upd.Address
	}
	owner.Stamp(owner.Email)
	if err := s.owners.Save(ctx, owner); err != nil {
		return nil, err
	}
	return owner, nil
}

// UserProfileUpdate is the allow-listed set of tenant profile fields
type UserProfileUpdate struct {
	Username   *string
	Phone      *string
	Occupation *string
}

// UpdateUserProfile applies an allow-listed partial update to a tenant
func (s *AuthService) UpdateUserProfile(ctx context.Context, id uint, upd *UserProfileUpdate) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if upd.Username != nil {
		user.Username = *upd.Username
	}
	if upd.Phone != nil {
		user.Phone = *upd.Phone
	}
	if upd.Occupation != nil {
		user.Occupation = *upd.Occupation
	}
	user.Stamp(user.Email)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SearchTenants finds tenants visible to one owner by name, email or occupation
func (s *AuthService) SearchTenants(ctx context.Context, ownerID uint, term string) ([]models.User, error) {
	return s.users.Search(ctx, ownerID, term)
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", NewValidationError("password", "must be at least 8 characters long")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// translateNotFound maps a missing row to the service-level sentinel
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", err.Error(), ErrNotFound)
	}
	return err
}
