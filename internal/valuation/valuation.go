// internal/valuation/valuation.go
package valuation

import (
	"math"
	"time"

	"github.com/wekeza/sacco-backend/internal/models"
)

// Pure derivation rules shared by the ledger views and the alert rollup.
// Both consumers call the same functions, so a badge on an item detail and
// the bucket it lands in on the alerts dashboard can never disagree.

const (
	// Window within which an upcoming revaluation counts as due soon.
	RevaluationDueSoonDays = 30
	// Window within which an upcoming policy expiry counts as expiring soon.
	InsuranceExpiringDays = 30
)

// LendingLimit computes the maximum lendable amount against an appraisal,
// rounded to the currency's minor unit (cents).
func LendingLimit(appraisedValue, typeLTVPercent float64, ltvOverride *float64) float64 {
	ltv := EffectiveLTV(typeLTVPercent, ltvOverride)
	return RoundToCents(appraisedValue * ltv / 100)
}

// EffectiveLTV is the per-item override when present, the type default otherwise.
func EffectiveLTV(typeLTVPercent float64, ltvOverride *float64) float64 {
	if ltvOverride != nil {
		return *ltvOverride
	}
	return typeLTVPercent
}

func RoundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// NextRevaluationDate returns valuationDate plus the type's revaluation
// interval, or nil when the type defines no periodic revaluation.
func NextRevaluationDate(valuationDate time.Time, revaluationMonths *int) *time.Time {
	if revaluationMonths == nil {
		return nil
	}
	next := valuationDate.AddDate(0, *revaluationMonths, 0)
	return &next
}

// RevaluationStatusAt derives the revaluation state of an item relative to
// asOf, comparing at day granularity in UTC. A nil due date yields "unset";
// a date earlier than asOf is overdue, one within the due-soon window is
// due_soon, anything later is ok. Never fails.
func RevaluationStatusAt(nextRevaluationDate *time.Time, asOf time.Time) models.RevaluationStatus {
	if nextRevaluationDate == nil {
		return models.RevaluationStatusUnset
	}
	due := truncateToDay(*nextRevaluationDate)
	today := truncateToDay(asOf)

	switch {
	case due.Before(today):
		return models.RevaluationStatusOverdue
	case !due.After(today.AddDate(0, 0, RevaluationDueSoonDays)):
		return models.RevaluationStatusDueSoon
	default:
		return models.RevaluationStatusOK
	}
}

// PolicyStatusAt derives the status of a policy relative to asOf. An
// operator-set terminal flag (cancelled/lapsed) always wins; expiry
// transitions are purely derived and never mutate stored state.
func PolicyStatusAt(expiryDate time.Time, terminal models.PolicyStatus, asOf time.Time) models.PolicyStatus {
	if terminal == models.PolicyStatusCancelled || terminal == models.PolicyStatusLapsed {
		return terminal
	}
	expiry := truncateToDay(expiryDate)
	today := truncateToDay(asOf)

	switch {
	case expiry.Before(today):
		return models.PolicyStatusExpired
	case !expiry.After(today.AddDate(0, 0, InsuranceExpiringDays)):
		return models.PolicyStatusExpiringSoon
	default:
		return models.PolicyStatusActive
	}
}

// DaysBetween returns the whole days from date to asOf at day granularity:
// positive when date is in the past, negative when it is in the future.
func DaysBetween(date, asOf time.Time) int {
	return int(truncateToDay(asOf).Sub(truncateToDay(date)).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
