// internal/services/alert_service.go
package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wekeza/sacco-backend/internal/models"
	"github.com/wekeza/sacco-backend/internal/valuation"
)

// AlertService aggregates the portfolio-wide attention lists: collateral
// whose revaluation is overdue or coming due, and insurance cover that has
// expired or is about to. Both use the same derivation as the per-item
// views, so an item never shows one status in a detail response and
// another in an alert bucket.
type AlertService struct {
	db *gorm.DB
}

func NewAlertService(db *gorm.DB) *AlertService {
	return &AlertService{db: db}
}

type AlertsSummary struct {
	AsOf                    time.Time `json:"as_of"`
	OverdueRevaluationCount int       `json:"overdue_revaluation_count"`
	DueSoonRevaluationCount int       `json:"due_soon_revaluation_count"`
	ExpiringInsuranceCount  int       `json:"expiring_insurance_count"`
	ExpiredInsuranceCount   int       `json:"expired_insurance_count"`
}

type RevaluationAlert struct {
	ItemID              string                  `json:"item_id"`
	LoanID              string                  `json:"loan_id"`
	TypeName            string                  `json:"type_name"`
	OwnerName           string                  `json:"owner_name"`
	Status              models.CollateralStatus `json:"status"`
	NextRevaluationDate time.Time               `json:"next_revaluation_date"`
	DaysOverdue         int                     `json:"days_overdue,omitempty"`
	DaysUntilDue        int                     `json:"days_until_due,omitempty"`
}

type InsuranceAlert struct {
	PolicyID     string    `json:"policy_id"`
	ItemID       string    `json:"item_id"`
	PolicyNumber string    `json:"policy_number"`
	InsurerName  string    `json:"insurer_name"`
	ExpiryDate   time.Time `json:"expiry_date"`
	DaysExpired  int       `json:"days_expired,omitempty"`
	DaysToExpiry int       `json:"days_to_expiry,omitempty"`
}

// Summary returns the four alert counts as of the given time.
func (s *AlertService) Summary(asOf time.Time) (*AlertsSummary, error) {
	items, err := s.activeItems()
	if err != nil {
		return nil, err
	}

	summary := &AlertsSummary{AsOf: asOf.UTC()}
	for i := range items {
		switch valuation.RevaluationStatusAt(items[i].NextRevaluationDate, asOf) {
		case models.RevaluationStatusOverdue:
			summary.OverdueRevaluationCount++
		case models.RevaluationStatusDueSoon:
			summary.DueSoonRevaluationCount++
		}
	}

	policies, err := s.activePolicies()
	if err != nil {
		return nil, err
	}
	for i := range policies {
		switch valuation.PolicyStatusAt(policies[i].ExpiryDate, policies[i].TerminalStatus, asOf) {
		case models.PolicyStatusExpired:
			summary.ExpiredInsuranceCount++
		case models.PolicyStatusExpiringSoon:
			summary.ExpiringInsuranceCount++
		}
	}

	return summary, nil
}

// OverdueRevaluations lists items whose next revaluation date has passed.
func (s *AlertService) OverdueRevaluations(asOf time.Time) ([]RevaluationAlert, error) {
	return s.revaluationAlerts(asOf, models.RevaluationStatusOverdue)
}

// DueSoonRevaluations lists items due for revaluation within the window.
func (s *AlertService) DueSoonRevaluations(asOf time.Time) ([]RevaluationAlert, error) {
	return s.revaluationAlerts(asOf, models.RevaluationStatusDueSoon)
}

// ExpiredInsurance lists policies past their expiry date.
func (s *AlertService) ExpiredInsurance(asOf time.Time) ([]InsuranceAlert, error) {
	return s.insuranceAlerts(asOf, models.PolicyStatusExpired)
}

// ExpiringInsurance lists policies expiring within the window.
func (s *AlertService) ExpiringInsurance(asOf time.Time) ([]InsuranceAlert, error) {
	return s.insuranceAlerts(asOf, models.PolicyStatusExpiringSoon)
}

func (s *AlertService) revaluationAlerts(asOf time.Time, want models.RevaluationStatus) ([]RevaluationAlert, error) {
	items, err := s.activeItems()
	if err != nil {
		return nil, err
	}

	alerts := make([]RevaluationAlert, 0)
	for i := range items {
		item := &items[i]
		if valuation.RevaluationStatusAt(item.NextRevaluationDate, asOf) != want {
			continue
		}
		alert := RevaluationAlert{
			ItemID:              item.ID.String(),
			LoanID:              item.LoanID.String(),
			OwnerName:           item.OwnerName,
			Status:              item.Status,
			NextRevaluationDate: *item.NextRevaluationDate,
		}
		alert.TypeName = item.CollateralType.Name
		days := valuation.DaysBetween(*item.NextRevaluationDate, asOf)
		if want == models.RevaluationStatusOverdue {
			alert.DaysOverdue = days
		} else {
			alert.DaysUntilDue = -days
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

func (s *AlertService) insuranceAlerts(asOf time.Time, want models.PolicyStatus) ([]InsuranceAlert, error) {
	policies, err := s.activePolicies()
	if err != nil {
		return nil, err
	}

	alerts := make([]InsuranceAlert, 0)
	for i := range policies {
		p := &policies[i]
		if valuation.PolicyStatusAt(p.ExpiryDate, p.TerminalStatus, asOf) != want {
			continue
		}
		alert := InsuranceAlert{
			PolicyID:     p.ID.String(),
			ItemID:       p.CollateralItemID.String(),
			PolicyNumber: p.PolicyNumber,
			InsurerName:  p.InsurerName,
			ExpiryDate:   p.ExpiryDate,
		}
		days := valuation.DaysBetween(p.ExpiryDate, asOf)
		if want == models.PolicyStatusExpired {
			alert.DaysExpired = days
		} else {
			alert.DaysToExpiry = -days
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// activeItems fetches non-terminal items that have a revaluation schedule.
// Released and liquidated collateral no longer secures a loan, so it never
// raises revaluation alerts.
func (s *AlertService) activeItems() ([]models.CollateralItem, error) {
	var items []models.CollateralItem
	err := s.db.Preload("CollateralType").
		Where("status NOT IN ?", []models.CollateralStatus{models.CollateralStatusReleased, models.CollateralStatusLiquidated}).
		Where("next_revaluation_date IS NOT NULL").
		Order("next_revaluation_date asc").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load collateral items: %w", err)
	}
	return items, nil
}

// activePolicies fetches every policy an operator has not cancelled or
// marked lapsed. Item status does not narrow the scan: cover on a released
// or liquidated item still expires and still warrants attention.
func (s *AlertService) activePolicies() ([]models.InsurancePolicy, error) {
	var policies []models.InsurancePolicy
	err := s.db.
		Joins("JOIN collateral_items ON collateral_items.id = insurance_policies.collateral_item_id").
		Where("collateral_items.deleted_at IS NULL").
		Where("(insurance_policies.terminal_status = '' OR insurance_policies.terminal_status IS NULL)").
		Order("insurance_policies.expiry_date asc").
		Find(&policies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load insurance policies: %w", err)
	}
	return policies, nil
}
