// internal/services/collateral_type_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wekeza/sacco-backend/internal/apperr"
	"github.com/wekeza/sacco-backend/internal/models"
	"github.com/wekeza/sacco-backend/internal/utils"
)

type CollateralTypeService struct {
	db *gorm.DB
}

func NewCollateralTypeService(db *gorm.DB) *CollateralTypeService {
	return &CollateralTypeService{db: db}
}

type CreateTypeRequest struct {
	Name              string  `json:"name" validate:"required,notblank,max=100"`
	LTVPercent        float64 `json:"ltv_percent" validate:"required,ltv_percent"`
	RevaluationMonths *int    `json:"revaluation_months,omitempty" validate:"omitempty,gt=0"`
	RequiresInsurance bool    `json:"requires_insurance"`
	Description       string  `json:"description,omitempty"`
}

type UpdateTypeRequest struct {
	Name              *string  `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	LTVPercent        *float64 `json:"ltv_percent,omitempty" validate:"omitempty,ltv_percent"`
	RevaluationMonths *int     `json:"revaluation_months,omitempty" validate:"omitempty,gt=0"`
	RequiresInsurance *bool    `json:"requires_insurance,omitempty"`
	Description       *string  `json:"description,omitempty"`
	IsActive          *bool    `json:"is_active,omitempty"`
}

func (s *CollateralTypeService) CreateType(req *CreateTypeRequest) (*models.CollateralType, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	var count int64
	s.db.Model(&models.CollateralType{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		return nil, apperr.Conflict(fmt.Sprintf("collateral type %q already exists", req.Name))
	}

	ct := &models.CollateralType{
		Name:              req.Name,
		LTVPercent:        req.LTVPercent,
		RevaluationMonths: req.RevaluationMonths,
		RequiresInsurance: req.RequiresInsurance,
		Description:       req.Description,
		IsSystem:          false,
		IsActive:          true,
	}

	if err := s.db.Create(ct).Error; err != nil {
		return nil, fmt.Errorf("failed to create collateral type: %w", err)
	}

	return ct, nil
}

func (s *CollateralTypeService) UpdateType(id uuid.UUID, req *UpdateTypeRequest) (*models.CollateralType, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	var ct models.CollateralType
	if err := s.db.First(&ct, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("collateral type", id.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Seeded types keep their identity; only lending parameters may change.
	if ct.IsSystem {
		if req.Name != nil {
			return nil, apperr.ImmutableField("name")
		}
		if req.Description != nil {
			return nil, apperr.ImmutableField("description")
		}
	}

	if req.Name != nil && *req.Name != ct.Name {
		var count int64
		s.db.Model(&models.CollateralType{}).
			Where("name = ? AND id <> ?", *req.Name, id).Count(&count)
		if count > 0 {
			return nil, apperr.Conflict(fmt.Sprintf("collateral type %q already exists", *req.Name))
		}
		ct.Name = *req.Name
	}
	if req.LTVPercent != nil {
		ct.LTVPercent = *req.LTVPercent
	}
	if req.RevaluationMonths != nil {
		ct.RevaluationMonths = req.RevaluationMonths
	}
	if req.RequiresInsurance != nil {
		ct.RequiresInsurance = *req.RequiresInsurance
	}
	if req.Description != nil {
		ct.Description = *req.Description
	}
	if req.IsActive != nil {
		ct.IsActive = *req.IsActive
	}

	if err := s.db.Save(&ct).Error; err != nil {
		return nil, fmt.Errorf("failed to update collateral type: %w", err)
	}

	return &ct, nil
}

// DeactivateType soft-disables a type. Existing items keep using it; only
// new lien placements are blocked.
func (s *CollateralTypeService) DeactivateType(id uuid.UUID) (*models.CollateralType, error) {
	var ct models.CollateralType
	if err := s.db.First(&ct, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("collateral type", id.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	ct.IsActive = false
	if err := s.db.Save(&ct).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate collateral type: %w", err)
	}

	return &ct, nil
}

func (s *CollateralTypeService) DeleteType(id uuid.UUID) error {
	var ct models.CollateralType
	if err := s.db.First(&ct, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("collateral type", id.String())
		}
		return fmt.Errorf("database error: %w", err)
	}

	if ct.IsSystem {
		return apperr.Conflict("system collateral types cannot be deleted")
	}

	var refCount int64
	if err := s.db.Model(&models.CollateralItem{}).
		Where("collateral_type_id = ?", id).Count(&refCount).Error; err != nil {
		return fmt.Errorf("failed to count references: %w", err)
	}
	if refCount > 0 {
		return apperr.Conflict(fmt.Sprintf("collateral type is referenced by %d item(s); deactivate it instead", refCount))
	}

	if err := s.db.Delete(&ct).Error; err != nil {
		return fmt.Errorf("failed to delete collateral type: %w", err)
	}

	return nil
}

func (s *CollateralTypeService) GetType(id uuid.UUID) (*models.CollateralType, error) {
	var ct models.CollateralType
	if err := s.db.First(&ct, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("collateral type", id.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &ct, nil
}

func (s *CollateralTypeService) ListTypes(includeInactive bool) ([]models.CollateralType, error) {
	var types []models.CollateralType
	query := s.db.Order("name asc")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list collateral types: %w", err)
	}
	return types, nil
}
