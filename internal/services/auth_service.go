// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wekeza/sacco-backend/internal/apperr"
	"github.com/wekeza/sacco-backend/internal/models"
	"github.com/wekeza/sacco-backend/internal/utils"
)

type AuthService struct {
	db       *gorm.DB
	tokenTTL int // hours
}

func NewAuthService(db *gorm.DB, tokenTTLHours int) *AuthService {
	return &AuthService{db: db, tokenTTL: tokenTTLHours}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string            `json:"token"`
	Staff *models.StaffUser `json:"staff"`
}

// Login authenticates by username or email and issues a JWT.
func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	var staff models.StaffUser
	err := s.db.Where("username = ? OR email = ?", req.Username, req.Username).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("username", "invalid credentials")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if staff.Status != models.StaffStatusActive {
		return nil, apperr.Validation("username", "account is suspended")
	}
	if err := staff.CheckPassword(req.Password); err != nil {
		return nil, apperr.Validation("username", "invalid credentials")
	}

	token, err := utils.GenerateJWT(staff.ID, staff.Username, string(staff.Role), s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now().UTC()
	staff.LastLoginAt = &now
	if err := s.db.Model(&staff).Update("last_login_at", now).Error; err != nil {
		logrus.WithError(err).Warn("Failed to record last login time")
	}

	logrus.WithFields(logrus.Fields{
		"staff_id": staff.ID,
		"username": staff.Username,
	}).Info("Staff logged in")

	staff.PasswordHash = ""
	return &LoginResponse{Token: token, Staff: &staff}, nil
}

// GetProfile returns the authenticated staff member.
func (s *AuthService) GetProfile(staffID uuid.UUID) (*models.StaffUser, error) {
	var staff models.StaffUser
	if err := s.db.First(&staff, "id = ?", staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("staff user", staffID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	staff.PasswordHash = ""
	return &staff, nil
}
