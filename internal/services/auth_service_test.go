// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekeza/sacco-backend/internal/apperr"
	"github.com/wekeza/sacco-backend/internal/models"
	"github.com/wekeza/sacco-backend/internal/utils"
)

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, 24)

	staff := &models.StaffUser{
		Username: "jwambui",
		Email:    "jwambui@wekezasacco.co.ke",
		FullName: "Jane Wambui",
		Role:     models.StaffRoleOfficer,
		Status:   models.StaffStatusActive,
	}
	require.NoError(t, staff.SetPassword("S3cure!pass"))
	require.NoError(t, db.Create(staff).Error)

	t.Run("valid credentials return a token", func(t *testing.T) {
		resp, err := svc.Login(&LoginRequest{Username: "jwambui", Password: "S3cure!pass"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Empty(t, resp.Staff.PasswordHash)

		claims, err := utils.ValidateJWT(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "jwambui", claims.Username)
		assert.Equal(t, string(models.StaffRoleOfficer), claims.Role)
	})

	t.Run("login by email works", func(t *testing.T) {
		_, err := svc.Login(&LoginRequest{Username: "jwambui@wekezasacco.co.ke", Password: "S3cure!pass"})
		require.NoError(t, err)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, err := svc.Login(&LoginRequest{Username: "jwambui", Password: "nope"})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		_, err := svc.Login(&LoginRequest{Username: "ghost", Password: "whatever"})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("suspended staff cannot log in", func(t *testing.T) {
		suspended := &models.StaffUser{
			Username: "suspended",
			Email:    "suspended@wekezasacco.co.ke",
			Status:   models.StaffStatusSuspended,
		}
		require.NoError(t, suspended.SetPassword("S3cure!pass"))
		require.NoError(t, db.Create(suspended).Error)

		_, err := svc.Login(&LoginRequest{Username: "suspended", Password: "S3cure!pass"})
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestGetProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, 24)

	staff := &models.StaffUser{
		Username: "profile",
		Email:    "profile@wekezasacco.co.ke",
		Status:   models.StaffStatusActive,
	}
	require.NoError(t, staff.SetPassword("S3cure!pass"))
	require.NoError(t, db.Create(staff).Error)

	got, err := svc.GetProfile(staff.ID)
	require.NoError(t, err)
	assert.Equal(t, "profile", got.Username)
	assert.Empty(t, got.PasswordHash)

	_, err = svc.GetProfile(newUUID(t))
	assert.True(t, apperr.IsNotFound(err))
}
