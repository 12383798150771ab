// internal/services/insurance_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wekeza/sacco-backend/internal/apperr"
	"github.com/wekeza/sacco-backend/internal/models"
	"github.com/wekeza/sacco-backend/internal/utils"
	"github.com/wekeza/sacco-backend/internal/valuation"
)

type InsuranceService struct {
	db *gorm.DB
}

func NewInsuranceService(db *gorm.DB) *InsuranceService {
	return &InsuranceService{db: db}
}

type AddPolicyRequest struct {
	PolicyNumber     string                  `json:"policy_number" validate:"required,notblank,max=100"`
	InsurerName      string                  `json:"insurer_name" validate:"required,notblank,max=255"`
	StartDate        time.Time               `json:"start_date" validate:"required"`
	ExpiryDate       time.Time               `json:"expiry_date" validate:"required"`
	PolicyType       models.PolicyType       `json:"policy_type,omitempty" validate:"omitempty,oneof=comprehensive third_party fire property life other"`
	SumInsured       *float64                `json:"sum_insured,omitempty" validate:"omitempty,gt=0"`
	PremiumAmount    *float64                `json:"premium_amount,omitempty" validate:"omitempty,gt=0"`
	PremiumFrequency models.PremiumFrequency `json:"premium_frequency,omitempty" validate:"omitempty,oneof=monthly quarterly semi_annual annual single"`
	Notes            string                  `json:"notes,omitempty"`
}

type SetPolicyStatusRequest struct {
	Status models.PolicyStatus `json:"status" validate:"required,oneof=cancelled lapsed"`
}

type PolicySearchParams struct {
	utils.PaginationParams
	Insurer string               `json:"insurer,omitempty"`
	Status  *models.PolicyStatus `json:"status,omitempty"`
}

// InsurancePolicyView is the stored policy plus its derived status.
type InsurancePolicyView struct {
	models.InsurancePolicy
	Status models.PolicyStatus `json:"status"`
}

// AddPolicy attaches a policy to a collateral item. A missing policy on a
// type that requires insurance never blocks lien operations — collateral
// records predate their policies in onboarding, so the gap is surfaced via
// alerts instead of a hard error here.
func (s *InsuranceService) AddPolicy(itemID uuid.UUID, req *AddPolicyRequest) (*InsurancePolicyView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}
	if req.ExpiryDate.Before(req.StartDate) {
		return nil, apperr.Validation("expiry_date", "expiry date must not be before start date")
	}
	if !utils.ValidPolicyNumber(req.PolicyNumber) {
		return nil, apperr.Validation("policy_number", "policy number may only contain letters, digits, '/' and '-'")
	}

	var item models.CollateralItem
	if err := s.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("collateral item", itemID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	policyNumber := strings.TrimSpace(req.PolicyNumber)
	insurer := strings.TrimSpace(req.InsurerName)

	// Policy numbers are unique within an insurer.
	var count int64
	s.db.Model(&models.InsurancePolicy{}).
		Where("insurer_name = ? AND policy_number = ?", insurer, policyNumber).
		Count(&count)
	if count > 0 {
		return nil, apperr.Conflict(fmt.Sprintf("policy %s already exists for insurer %s", policyNumber, insurer))
	}

	policyType := req.PolicyType
	if policyType == "" {
		policyType = models.PolicyTypeOther
	}

	policy := &models.InsurancePolicy{
		CollateralItemID: itemID,
		PolicyNumber:     policyNumber,
		InsurerName:      insurer,
		PolicyType:       policyType,
		SumInsured:       req.SumInsured,
		PremiumAmount:    req.PremiumAmount,
		PremiumFrequency: req.PremiumFrequency,
		StartDate:        req.StartDate.UTC(),
		ExpiryDate:       req.ExpiryDate.UTC(),
		Notes:            req.Notes,
	}

	if err := s.db.Create(policy).Error; err != nil {
		return nil, fmt.Errorf("failed to add insurance policy: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"policy_id": policy.ID,
		"item_id":   itemID,
		"insurer":   insurer,
	}).Info("Insurance policy added")

	return s.toView(policy, time.Now()), nil
}

// DeletePolicy removes a policy regardless of the item's status.
func (s *InsuranceService) DeletePolicy(policyID uuid.UUID) error {
	var policy models.InsurancePolicy
	if err := s.db.First(&policy, "id = ?", policyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("insurance policy", policyID.String())
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&policy).Error; err != nil {
		return fmt.Errorf("failed to delete insurance policy: %w", err)
	}

	logrus.WithField("policy_id", policyID).Info("Insurance policy deleted")
	return nil
}

// SetPolicyStatus records the operator-set terminal flags. Expiry is never
// stored; only cancellation and lapse are, since they cannot be derived.
func (s *InsuranceService) SetPolicyStatus(policyID uuid.UUID, req *SetPolicyStatusRequest) (*InsurancePolicyView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	var policy models.InsurancePolicy
	if err := s.db.First(&policy, "id = ?", policyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("insurance policy", policyID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	policy.TerminalStatus = req.Status
	if err := s.db.Save(&policy).Error; err != nil {
		return nil, fmt.Errorf("failed to update insurance policy: %w", err)
	}

	return s.toView(&policy, time.Now()), nil
}

func (s *InsuranceService) GetPolicy(policyID uuid.UUID) (*InsurancePolicyView, error) {
	var policy models.InsurancePolicy
	if err := s.db.Preload("CollateralItem").First(&policy, "id = ?", policyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("insurance policy", policyID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return s.toView(&policy, time.Now()), nil
}

// ListForItem returns the policies attached to one collateral item.
func (s *InsuranceService) ListForItem(itemID uuid.UUID) ([]InsurancePolicyView, error) {
	var item models.CollateralItem
	if err := s.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("collateral item", itemID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var policies []models.InsurancePolicy
	if err := s.db.Where("collateral_item_id = ?", itemID).
		Order("expiry_date asc").Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}

	now := time.Now()
	views := make([]InsurancePolicyView, 0, len(policies))
	for i := range policies {
		views = append(views, *s.toView(&policies[i], now))
	}
	return views, nil
}

// Search lists policies across all items, optionally filtered by insurer
// and derived status.
func (s *InsuranceService) Search(params *PolicySearchParams) (*utils.PaginationResult, error) {
	params.Normalize()
	query := s.db.Model(&models.InsurancePolicy{}).Preload("CollateralItem")

	if params.Insurer != "" {
		query = query.Where("LOWER(insurer_name) LIKE ?", "%"+strings.ToLower(params.Insurer)+"%")
	}
	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(policy_number) LIKE ? OR LOWER(insurer_name) LIKE ?", term, term)
	}

	allowedSort := []string{"created_at", "expiry_date", "insurer_name"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSort)

	if params.Status != nil {
		// Derived status is computed, not stored, so the filter has to run
		// over the full candidate set before the page is cut.
		var policies []models.InsurancePolicy
		if err := query.Find(&policies).Error; err != nil {
			return nil, fmt.Errorf("failed to search policies: %w", err)
		}

		now := time.Now()
		views := make([]InsurancePolicyView, 0, len(policies))
		for i := range policies {
			view := s.toView(&policies[i], now)
			if view.Status == *params.Status {
				views = append(views, *view)
			}
		}

		total := int64(len(views))
		start := (params.Page - 1) * params.Limit
		if start > len(views) {
			start = len(views)
		}
		end := start + params.Limit
		if end > len(views) {
			end = len(views)
		}

		result := utils.CreatePaginationResult(views[start:end], total, params.PaginationParams)
		return &result, nil
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count policies: %w", err)
	}

	var policies []models.InsurancePolicy
	query = utils.ApplyPagination(query, params.PaginationParams)
	if err := query.Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to search policies: %w", err)
	}

	now := time.Now()
	views := make([]InsurancePolicyView, 0, len(policies))
	for i := range policies {
		views = append(views, *s.toView(&policies[i], now))
	}

	result := utils.CreatePaginationResult(views, total, params.PaginationParams)
	return &result, nil
}

func (s *InsuranceService) toView(policy *models.InsurancePolicy, asOf time.Time) *InsurancePolicyView {
	return &InsurancePolicyView{
		InsurancePolicy: *policy,
		Status:          valuation.PolicyStatusAt(policy.ExpiryDate, policy.TerminalStatus, asOf),
	}
}
