// internal/services/alert_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekeza/sacco-backend/internal/models"
	"github.com/wekeza/sacco-backend/internal/valuation"
)

func TestAlertSummary(t *testing.T) {
	db := newTestDB(t)
	svc := NewAlertService(db)
	loan := seedLoan(t, db)
	ct := seedType(t, db, "Motor Vehicle", 60, monthsPtr(12))

	asOf := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	mkItem := func(next *time.Time, status models.CollateralStatus) *models.CollateralItem {
		item := &models.CollateralItem{
			LoanID:              loan.ID,
			CollateralTypeID:    ct.ID,
			OwnerName:           "Achieng Odhiambo",
			Description:         "test asset",
			NextRevaluationDate: next,
			Status:              status,
		}
		require.NoError(t, db.Create(item).Error)
		return item
	}

	overdueItem := mkItem(timePtr(asOf.AddDate(0, 0, -10)), models.CollateralStatusUnderLien)
	mkItem(timePtr(asOf.AddDate(0, 0, 10)), models.CollateralStatusRegistered) // due soon
	mkItem(timePtr(asOf.AddDate(0, 6, 0)), models.CollateralStatusRegistered)  // ok
	mkItem(nil, models.CollateralStatusRegistered)                             // no schedule
	// Terminal items never alert, however stale their dates.
	mkItem(timePtr(asOf.AddDate(-1, 0, 0)), models.CollateralStatusReleased)
	mkItem(timePtr(asOf.AddDate(-1, 0, 0)), models.CollateralStatusLiquidated)

	mkPolicy := func(item *models.CollateralItem, number string, expiry time.Time, terminal models.PolicyStatus) {
		require.NoError(t, db.Create(&models.InsurancePolicy{
			CollateralItemID: item.ID,
			PolicyNumber:     number,
			InsurerName:      "Jubilee Insurance",
			StartDate:        expiry.AddDate(-1, 0, 0),
			ExpiryDate:       expiry,
			TerminalStatus:   terminal,
		}).Error)
	}

	mkPolicy(overdueItem, "P/1", asOf.AddDate(0, 0, -5), "")  // expired
	mkPolicy(overdueItem, "P/2", asOf.AddDate(0, 0, 20), "")  // expiring soon
	mkPolicy(overdueItem, "P/3", asOf.AddDate(1, 0, 0), "")   // active
	mkPolicy(overdueItem, "P/4", asOf.AddDate(0, 0, -5), models.PolicyStatusCancelled)

	t.Run("counts partition correctly", func(t *testing.T) {
		summary, err := svc.Summary(asOf)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.OverdueRevaluationCount)
		assert.Equal(t, 1, summary.DueSoonRevaluationCount)
		assert.Equal(t, 1, summary.ExpiredInsuranceCount)
		assert.Equal(t, 1, summary.ExpiringInsuranceCount)
	})

	t.Run("lists carry day arithmetic", func(t *testing.T) {
		overdue, err := svc.OverdueRevaluations(asOf)
		require.NoError(t, err)
		require.Len(t, overdue, 1)
		assert.Equal(t, overdueItem.ID.String(), overdue[0].ItemID)
		assert.Equal(t, 10, overdue[0].DaysOverdue)
		assert.Equal(t, "Motor Vehicle", overdue[0].TypeName)

		dueSoon, err := svc.DueSoonRevaluations(asOf)
		require.NoError(t, err)
		require.Len(t, dueSoon, 1)
		assert.Equal(t, 10, dueSoon[0].DaysUntilDue)

		expired, err := svc.ExpiredInsurance(asOf)
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, "P/1", expired[0].PolicyNumber)
		assert.Equal(t, 5, expired[0].DaysExpired)

		expiring, err := svc.ExpiringInsurance(asOf)
		require.NoError(t, err)
		require.Len(t, expiring, 1)
		assert.Equal(t, "P/2", expiring[0].PolicyNumber)
		assert.Equal(t, 20, expiring[0].DaysToExpiry)
	})

	t.Run("policies on terminal items still alert", func(t *testing.T) {
		released := mkItem(nil, models.CollateralStatusReleased)
		mkPolicy(released, "REL/1", asOf.AddDate(0, 0, 15), "")

		expiring, err := svc.ExpiringInsurance(asOf)
		require.NoError(t, err)

		var found bool
		for _, a := range expiring {
			if a.PolicyNumber == "REL/1" {
				found = true
				assert.Equal(t, 15, a.DaysToExpiry)
			}
		}
		assert.True(t, found, "live cover on a released item must stay on the expiring list")

		summary, err := svc.Summary(asOf)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.ExpiringInsuranceCount)

		require.NoError(t, db.Delete(&models.InsurancePolicy{}, "policy_number = ?", "REL/1").Error)
	})

	t.Run("buckets agree with per-item derivation", func(t *testing.T) {
		// Every item in the overdue list must derive as overdue, and every
		// non-terminal scheduled item deriving as overdue must be listed.
		overdue, err := svc.OverdueRevaluations(asOf)
		require.NoError(t, err)

		listed := make(map[string]bool, len(overdue))
		for _, a := range overdue {
			listed[a.ItemID] = true
		}

		var items []models.CollateralItem
		require.NoError(t, db.Find(&items).Error)
		for _, item := range items {
			derived := valuation.RevaluationStatusAt(item.NextRevaluationDate, asOf)
			shouldList := derived == models.RevaluationStatusOverdue && !item.Status.Terminal()
			assert.Equal(t, shouldList, listed[item.ID.String()], "item %s", item.ID)
		}
	})
}
