package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"

	"rental-service/internal/models"
	"rental-service/internal/repository"
)

func newAuthFixture(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewAuthService(
		repository.NewOwnerRepository(db),
		repository.NewUserRepository(db),
		newTestTokenService(1),
		newTestLogger(),
	)
	return svc, db
}

func TestOwnerSignupAndLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	owner, err := svc.OwnerSignup(ctx, &OwnerSignupRequest{
		Name:     "Olive Owner",
		Email:    "olive@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	require.NotZero(t, owner.ID)
	assert.NotEqual(t, "s3cret-password", owner.Password, "password must be stored hashed")

	result, err := svc.OwnerLogin(ctx, "olive@example.com", "s3cret-password")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, result.Claims.AccountID)
	assert.Equal(t, RoleOwner, result.Claims.Role)

	_, err = svc.OwnerLogin(ctx, "olive@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.OwnerLogin(ctx, "nobody@example.com", "s3cret-password")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestOwnerSignupDuplicateEmail(t *testing.T) {
	svc, db := newAuthFixture(t)
	ctx := context.Background()

	req := &OwnerSignupRequest{Name: "First", Email: "dup@example.com", Password: "s3cret-password"}
	_, err := svc.OwnerSignup(ctx, req)
	require.NoError(t, err)

	_, err = svc.OwnerSignup(ctx, &OwnerSignupRequest{Name: "Second", Email: "dup@example.com", Password: "s3cret-password"})
	require.ErrorIs(t, err, ErrConflict)

	var count int64
	require.NoError(t, db.Model(&models.Owner{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "the failed signup must not create a row")
}

func TestTenantSignupAndLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.TenantSignup(ctx, &TenantSignupRequest{
		Username:   "terry",
		Email:      "terry@example.com",
		Password:   "s3cret-password",
		Occupation: "engineer",
	})
	require.NoError(t, err)

	result, err := svc.TenantLogin(ctx, "terry@example.com", "s3cret-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.Claims.AccountID)
	assert.Equal(t, RoleTenant, result.Claims.Role)
}

func TestSignupShortPasswordRejected(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.OwnerSignup(context.Background(), &OwnerSignupRequest{
		Name: "Short", Email: "short@example.com", Password: "short",
	})
	require.Error(t, err)
	_, ok := IsValidationError(err)
	assert.True(t, ok)
}

func TestUpdateOwnerProfileAllowList(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	owner, err := svc.OwnerSignup(ctx, &OwnerSignupRequest{
		Name: "Before", Email: "before@example.com", Password: "s3cret-password", Phone: "111",
	})
	require.NoError(t, err)

	name := "After"
	updated, err := svc.UpdateOwnerProfile(ctx, owner.ID, &OwnerProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, "111", updated.Phone, "omitted fields stay unchanged")
	assert.Equal(t, "before@example.com", updated.Email, "email is not updatable")
	assert.Greater(t, updated.ChangeNumber, owner.ChangeNumber)

	_, err = svc.UpdateOwnerProfile(ctx, owner.ID+100, &OwnerProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUserProfileAllowList(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.TenantSignup(ctx, &TenantSignupRequest{
		Username: "before", Email: "tenant@example.com", Password: "s3cret-password",
	})
	require.NoError(t, err)

	occupation := "plumber"
	updated, err := svc.UpdateUserProfile(ctx, user.ID, &UserProfileUpdate{Occupation: &occupation})
	require.NoError(t, err)
	assert.Equal(t, "plumber", updated.Occupation)
	assert.Equal(t, "before", updated.Username)
	assert.Equal(t, "tenant@example.com", updated.Email)
}
