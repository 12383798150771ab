// internal/services/collateral_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wekeza/sacco-backend/internal/apperr"
	"github.com/wekeza/sacco-backend/internal/database"
	"github.com/wekeza/sacco-backend/internal/models"
	"github.com/wekeza/sacco-backend/internal/utils"
	"github.com/wekeza/sacco-backend/internal/valuation"
)

type CollateralService struct {
	db *gorm.DB
}

func NewCollateralService(db *gorm.DB) *CollateralService {
	return &CollateralService{db: db}
}

type RegisterCollateralRequest struct {
	LoanID           uuid.UUID `json:"loan_id" validate:"required"`
	CollateralTypeID uuid.UUID `json:"collateral_type_id" validate:"required"`
	OwnerName        string    `json:"owner_name" validate:"required,notblank,max=255"`
	Description      string    `json:"description" validate:"required,notblank"`
	OwnerIDNumber    string    `json:"owner_id_number,omitempty" validate:"omitempty,max=50"`
	DocumentRef      string    `json:"document_ref,omitempty" validate:"omitempty,max=100"`
	DocumentURLs     []string  `json:"document_urls,omitempty"`
	DeclaredValue    *float64  `json:"declared_value,omitempty" validate:"omitempty,gt=0"`
}

type RecordValuationRequest struct {
	AppraisedValue      float64    `json:"appraised_value" validate:"required,gt=0"`
	ValuerName          string     `json:"valuer_name" validate:"required,notblank,max=255"`
	ValuationDate       *time.Time `json:"valuation_date,omitempty"`
	NextRevaluationDate *time.Time `json:"next_revaluation_date,omitempty"`
	LTVOverride         *float64   `json:"ltv_override,omitempty" validate:"omitempty,ltv_percent"`
	// ClearLTVOverride drops an existing override so the type default
	// applies again. An absent ltv_override alone leaves the override as is.
	ClearLTVOverride bool `json:"clear_ltv_override,omitempty"`
}

type LiquidateRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
	Notes  string  `json:"notes,omitempty"`
}

type ReleaseRequest struct {
	Notes string `json:"notes,omitempty"`
}

type CollateralSearchParams struct {
	utils.PaginationParams
	Status *models.CollateralStatus `json:"status,omitempty"`
	TypeID *uuid.UUID               `json:"type_id,omitempty"`
	LoanID *uuid.UUID               `json:"loan_id,omitempty"`
}

// CollateralItemView is the read model: the stored item plus the derived
// fields the console renders. Derivation goes through the valuation package
// so it always matches the alert buckets.
type CollateralItemView struct {
	models.CollateralItem
	TypeName          string                   `json:"type_name"`
	LoanNumber        string                   `json:"loan_number"`
	MemberName        string                   `json:"member_name"`
	EffectiveLTV      float64                  `json:"effective_ltv"`
	LendingLimit      *float64                 `json:"lending_limit,omitempty"`
	RevaluationStatus models.RevaluationStatus `json:"revaluation_status"`
}

func (s *CollateralService) Register(req *RegisterCollateralRequest) (*CollateralItemView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	// The loan reference must point at a loan the loan subsystem knows.
	var loan models.Loan
	if err := s.db.First(&loan, "id = ?", req.LoanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("loan", req.LoanID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var ct models.CollateralType
	if err := s.db.First(&ct, "id = ?", req.CollateralTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("collateral type", req.CollateralTypeID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	item := &models.CollateralItem{
		LoanID:           req.LoanID,
		CollateralTypeID: req.CollateralTypeID,
		OwnerName:        strings.TrimSpace(req.OwnerName),
		OwnerIDNumber:    strings.TrimSpace(req.OwnerIDNumber),
		Description:      strings.TrimSpace(req.Description),
		DocumentRef:      strings.TrimSpace(req.DocumentRef),
		DocumentURLs:     req.DocumentURLs,
		DeclaredValue:    req.DeclaredValue,
		Status:           models.CollateralStatusRegistered,
	}

	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to register collateral: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"item_id": item.ID,
		"loan_id": loan.ID,
		"type":    ct.Name,
	}).Info("Collateral item registered")

	item.Loan = loan
	item.CollateralType = ct
	return s.toView(item, time.Now()), nil
}

// RecordValuation sets the appraisal fields and recomputes the derived
// lending limit. Allowed in any non-terminal state; never changes status.
// Calling it twice with identical inputs yields identical results.
func (s *CollateralService) RecordValuation(itemID uuid.UUID, req *RecordValuationRequest) (*CollateralItemView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}
	if req.ClearLTVOverride && req.LTVOverride != nil {
		return nil, apperr.Validation("ltv_override", "cannot both set and clear the LTV override")
	}

	var out *CollateralItemView
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		item, err := s.lockItem(tx, itemID)
		if err != nil {
			return err
		}

		if item.Status.Terminal() {
			return apperr.InvalidTransition(string(item.Status), "recordValuation", "item is in a terminal state")
		}

		var ct models.CollateralType
		if err := tx.First(&ct, "id = ?", item.CollateralTypeID).Error; err != nil {
			return fmt.Errorf("failed to load collateral type: %w", err)
		}

		valuationDate := time.Now().UTC()
		if req.ValuationDate != nil {
			valuationDate = req.ValuationDate.UTC()
		}

		nextDate := req.NextRevaluationDate
		if nextDate == nil {
			nextDate = valuation.NextRevaluationDate(valuationDate, ct.RevaluationMonths)
		}

		appraised := req.AppraisedValue
		item.AppraisedValue = &appraised
		item.ValuerName = strings.TrimSpace(req.ValuerName)
		item.ValuationDate = &valuationDate
		item.NextRevaluationDate = nextDate
		if req.ClearLTVOverride {
			item.LTVOverride = nil
		} else if req.LTVOverride != nil {
			item.LTVOverride = req.LTVOverride
		}

		if err := tx.Save(item).Error; err != nil {
			return fmt.Errorf("failed to record valuation: %w", err)
		}

		item.CollateralType = ct
		out = s.toView(item, time.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, s.loadLoan(out)
}

// PlaceLien locks the item to its loan: registered -> under_lien. The
// item's type must still be active.
func (s *CollateralService) PlaceLien(itemID uuid.UUID) (*CollateralItemView, error) {
	return s.transition(itemID, "placeLien", func(tx *gorm.DB, item *models.CollateralItem) error {
		if item.Status != models.CollateralStatusRegistered {
			return apperr.InvalidTransition(string(item.Status), "placeLien", "lien may only be placed on a registered item")
		}

		var ct models.CollateralType
		if err := tx.First(&ct, "id = ?", item.CollateralTypeID).Error; err != nil {
			return fmt.Errorf("failed to load collateral type: %w", err)
		}
		if !ct.IsActive {
			return apperr.InvalidTransition(string(item.Status), "placeLien", "collateral type is inactive")
		}

		now := time.Now().UTC()
		item.Status = models.CollateralStatusUnderLien
		item.LienPlacedAt = &now
		return nil
	})
}

// Release settles the lien: under_lien -> released (terminal).
func (s *CollateralService) Release(itemID uuid.UUID, req *ReleaseRequest) (*CollateralItemView, error) {
	return s.transition(itemID, "release", func(tx *gorm.DB, item *models.CollateralItem) error {
		if item.Status != models.CollateralStatusUnderLien {
			return apperr.InvalidTransition(string(item.Status), "release", "only an item under lien can be released")
		}

		now := time.Now().UTC()
		item.Status = models.CollateralStatusReleased
		item.ReleasedAt = &now
		if req != nil {
			item.ReleaseNotes = strings.TrimSpace(req.Notes)
		}
		return nil
	})
}

// Liquidate disposes of the asset to recover proceeds: under_lien|defaulted
// -> liquidated (terminal).
func (s *CollateralService) Liquidate(itemID uuid.UUID, req *LiquidateRequest) (*CollateralItemView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}
	if req.Amount < 0 {
		return nil, apperr.Validation("amount", "liquidation amount must not be negative")
	}

	return s.transition(itemID, "liquidate", func(tx *gorm.DB, item *models.CollateralItem) error {
		if item.Status != models.CollateralStatusUnderLien && item.Status != models.CollateralStatusDefaulted {
			return apperr.InvalidTransition(string(item.Status), "liquidate", "liquidation is only possible from under_lien or defaulted")
		}

		now := time.Now().UTC()
		amount := valuation.RoundToCents(req.Amount)
		item.Status = models.CollateralStatusLiquidated
		item.LiquidatedAt = &now
		item.LiquidationAmount = &amount
		item.LiquidationNotes = strings.TrimSpace(req.Notes)
		return nil
	})
}

// ExternalDefault is the loan subsystem's callback when a secured loan
// defaults: registered|under_lien -> defaulted.
func (s *CollateralService) ExternalDefault(itemID uuid.UUID) (*CollateralItemView, error) {
	return s.transition(itemID, "externalDefault", func(tx *gorm.DB, item *models.CollateralItem) error {
		if item.Status != models.CollateralStatusRegistered && item.Status != models.CollateralStatusUnderLien {
			return apperr.InvalidTransition(string(item.Status), "externalDefault", "only a registered or under-lien item can default")
		}

		now := time.Now().UTC()
		item.Status = models.CollateralStatusDefaulted
		item.DefaultedAt = &now
		return nil
	})
}

// Delete removes an item unless it currently secures a loan. The check runs
// under the same row lock as the transitions, so a delete cannot race a
// concurrent placeLien.
func (s *CollateralService) Delete(itemID uuid.UUID) error {
	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		item, err := s.lockItem(tx, itemID)
		if err != nil {
			return err
		}

		if item.Status == models.CollateralStatusUnderLien {
			return apperr.Conflict("collateral under lien cannot be deleted; release it first")
		}

		if err := tx.Delete(item).Error; err != nil {
			return fmt.Errorf("failed to delete collateral: %w", err)
		}

		logrus.WithField("item_id", item.ID).Info("Collateral item deleted")
		return nil
	})
}

func (s *CollateralService) GetItem(itemID uuid.UUID) (*CollateralItemView, error) {
	var item models.CollateralItem
	if err := s.db.Preload("Loan").Preload("CollateralType").Preload("Policies").
		First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("collateral item", itemID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.toView(&item, time.Now()), nil
}

func (s *CollateralService) Search(params *CollateralSearchParams) (*utils.PaginationResult, error) {
	params.Normalize()
	query := s.db.Model(&models.CollateralItem{}).
		Preload("Loan").Preload("CollateralType")

	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(description) LIKE ? OR LOWER(owner_name) LIKE ? OR LOWER(document_ref) LIKE ?",
			term, term, term,
		)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.TypeID != nil {
		query = query.Where("collateral_type_id = ?", *params.TypeID)
	}
	if params.LoanID != nil {
		query = query.Where("loan_id = ?", *params.LoanID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count collateral items: %w", err)
	}

	var items []models.CollateralItem
	allowedSort := []string{"created_at", "owner_name", "status", "next_revaluation_date"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSort)
	query = utils.ApplyPagination(query, params.PaginationParams)
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to search collateral items: %w", err)
	}

	now := time.Now()
	views := make([]CollateralItemView, 0, len(items))
	for i := range items {
		views = append(views, *s.toView(&items[i], now))
	}

	result := utils.CreatePaginationResult(views, total, params.PaginationParams)
	return &result, nil
}

// transition applies a guarded status change inside a transaction with the
// item row locked for update, so two concurrent mutations of the same item
// serialize and at most one passes its guard.
func (s *CollateralService) transition(itemID uuid.UUID, event string, apply func(tx *gorm.DB, item *models.CollateralItem) error) (*CollateralItemView, error) {
	var out *CollateralItemView
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		item, err := s.lockItem(tx, itemID)
		if err != nil {
			return err
		}

		if err := apply(tx, item); err != nil {
			return err
		}

		if err := tx.Save(item).Error; err != nil {
			return fmt.Errorf("failed to apply %s: %w", event, err)
		}

		logrus.WithFields(logrus.Fields{
			"item_id": item.ID,
			"event":   event,
			"status":  item.Status,
		}).Info("Collateral status transition")

		if item.CollateralType.ID == uuid.Nil {
			if err := tx.First(&item.CollateralType, "id = ?", item.CollateralTypeID).Error; err != nil {
				return fmt.Errorf("failed to load collateral type: %w", err)
			}
		}
		out = s.toView(item, time.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, s.loadLoan(out)
}

func (s *CollateralService) lockItem(tx *gorm.DB, itemID uuid.UUID) (*models.CollateralItem, error) {
	var item models.CollateralItem
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("collateral item", itemID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &item, nil
}

func (s *CollateralService) loadLoan(view *CollateralItemView) error {
	if view == nil || view.LoanNumber != "" {
		return nil
	}
	var loan models.Loan
	if err := s.db.First(&loan, "id = ?", view.LoanID).Error; err == nil {
		view.LoanNumber = loan.LoanNumber
		view.MemberName = loan.MemberName
	}
	return nil
}

func (s *CollateralService) toView(item *models.CollateralItem, asOf time.Time) *CollateralItemView {
	view := &CollateralItemView{
		CollateralItem:    *item,
		TypeName:          item.CollateralType.Name,
		LoanNumber:        item.Loan.LoanNumber,
		MemberName:        item.Loan.MemberName,
		EffectiveLTV:      item.EffectiveLTV(item.CollateralType.LTVPercent),
		RevaluationStatus: valuation.RevaluationStatusAt(item.NextRevaluationDate, asOf),
	}

	if item.AppraisedValue != nil {
		limit := valuation.LendingLimit(*item.AppraisedValue, item.CollateralType.LTVPercent, item.LTVOverride)
		view.LendingLimit = &limit
	}

	return view
}
