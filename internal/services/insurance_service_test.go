// internal/services/insurance_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekeza/sacco-backend/internal/apperr"
	"github.com/wekeza/sacco-backend/internal/models"
)

func TestAddPolicy(t *testing.T) {
	db := newTestDB(t)
	svc := NewInsuranceService(db)
	loan := seedLoan(t, db)
	ct := seedType(t, db, "Motor Vehicle", 60, monthsPtr(12))
	item := seedItem(t, db, loan, ct)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	expiry := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("attaches a policy to an item", func(t *testing.T) {
		view, err := svc.AddPolicy(item.ID, &AddPolicyRequest{
			PolicyNumber: "JUB/2026/0042",
			InsurerName:  "Jubilee Insurance",
			StartDate:    start,
			ExpiryDate:   expiry,
			PolicyType:   models.PolicyTypeComprehensive,
			SumInsured:   floatPtr(900000),
		})
		require.NoError(t, err)
		assert.Equal(t, models.PolicyStatusActive, view.Status)
		assert.Equal(t, item.ID, view.CollateralItemID)
	})

	t.Run("duplicate number within an insurer conflicts", func(t *testing.T) {
		_, err := svc.AddPolicy(item.ID, &AddPolicyRequest{
			PolicyNumber: "JUB/2026/0042",
			InsurerName:  "Jubilee Insurance",
			StartDate:    start,
			ExpiryDate:   expiry,
		})
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("same number at a different insurer is fine", func(t *testing.T) {
		_, err := svc.AddPolicy(item.ID, &AddPolicyRequest{
			PolicyNumber: "JUB/2026/0042",
			InsurerName:  "Britam",
			StartDate:    start,
			ExpiryDate:   expiry,
		})
		require.NoError(t, err)
	})

	t.Run("expiry before start is rejected", func(t *testing.T) {
		_, err := svc.AddPolicy(item.ID, &AddPolicyRequest{
			PolicyNumber: "BAD/0001",
			InsurerName:  "Britam",
			StartDate:    expiry,
			ExpiryDate:   start,
		})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("unknown item is not found", func(t *testing.T) {
		_, err := svc.AddPolicy(newUUID(t), &AddPolicyRequest{
			PolicyNumber: "ORPH/0001",
			InsurerName:  "Britam",
			StartDate:    start,
			ExpiryDate:   expiry,
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("policies attach regardless of item status", func(t *testing.T) {
		collateralSvc := NewCollateralService(db)
		_, err := collateralSvc.PlaceLien(item.ID)
		require.NoError(t, err)

		_, err = svc.AddPolicy(item.ID, &AddPolicyRequest{
			PolicyNumber: "LIEN/0001",
			InsurerName:  "CIC Group",
			StartDate:    start,
			ExpiryDate:   expiry,
		})
		require.NoError(t, err)
	})
}

func TestSetPolicyStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewInsuranceService(db)
	loan := seedLoan(t, db)
	ct := seedType(t, db, "Motor Vehicle", 60, monthsPtr(12))
	item := seedItem(t, db, loan, ct)

	view, err := svc.AddPolicy(item.ID, &AddPolicyRequest{
		PolicyNumber: "CIC/2026/7",
		InsurerName:  "CIC Group",
		StartDate:    time.Now().UTC(),
		ExpiryDate:   time.Now().UTC().AddDate(1, 0, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PolicyStatusActive, view.Status)

	t.Run("cancelled overrides derivation", func(t *testing.T) {
		updated, err := svc.SetPolicyStatus(view.ID, &SetPolicyStatusRequest{Status: models.PolicyStatusCancelled})
		require.NoError(t, err)
		assert.Equal(t, models.PolicyStatusCancelled, updated.Status)
	})

	t.Run("only cancelled and lapsed are accepted", func(t *testing.T) {
		_, err := svc.SetPolicyStatus(view.ID, &SetPolicyStatusRequest{Status: models.PolicyStatusExpired})
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestDeletePolicy(t *testing.T) {
	db := newTestDB(t)
	svc := NewInsuranceService(db)
	collateralSvc := NewCollateralService(db)
	loan := seedLoan(t, db)
	ct := seedType(t, db, "Motor Vehicle", 60, monthsPtr(12))
	item := seedItem(t, db, loan, ct)

	view, err := svc.AddPolicy(item.ID, &AddPolicyRequest{
		PolicyNumber: "DEL/0001",
		InsurerName:  "Britam",
		StartDate:    time.Now().UTC(),
		ExpiryDate:   time.Now().UTC().AddDate(1, 0, 0),
	})
	require.NoError(t, err)

	// Deletion works even while the item is under lien.
	_, err = collateralSvc.PlaceLien(item.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeletePolicy(view.ID))

	assert.True(t, apperr.IsNotFound(svc.DeletePolicy(view.ID)))
}

func TestSearchPolicies(t *testing.T) {
	db := newTestDB(t)
	svc := NewInsuranceService(db)
	loan := seedLoan(t, db)
	ct := seedType(t, db, "Motor Vehicle", 60, monthsPtr(12))
	item := seedItem(t, db, loan, ct)

	now := time.Now().UTC()
	add := func(number string, expiry time.Time) {
		_, err := svc.AddPolicy(item.ID, &AddPolicyRequest{
			PolicyNumber: number,
			InsurerName:  "Jubilee Insurance",
			StartDate:    expiry.AddDate(-1, 0, 0),
			ExpiryDate:   expiry,
		})
		require.NoError(t, err)
	}
	add("ACT/1", now.AddDate(1, 0, 0))
	add("ACT/2", now.AddDate(2, 0, 0))
	add("EXP/1", now.AddDate(0, 0, -10))

	t.Run("status filter totals ignore other pages", func(t *testing.T) {
		status := models.PolicyStatusActive
		params := &PolicySearchParams{Status: &status}
		params.Limit = 1
		params.Page = 1

		result, err := svc.Search(params)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Total)
		assert.Len(t, result.Data.([]InsurancePolicyView), 1)

		params.Page = 2
		result, err = svc.Search(params)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Total)
		assert.Len(t, result.Data.([]InsurancePolicyView), 1)

		params.Page = 3
		result, err = svc.Search(params)
		require.NoError(t, err)
		assert.Empty(t, result.Data.([]InsurancePolicyView))
	})

	t.Run("expired filter finds the lapsed cover", func(t *testing.T) {
		status := models.PolicyStatusExpired
		result, err := svc.Search(&PolicySearchParams{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
	})

	t.Run("insurer filter matches case-insensitively", func(t *testing.T) {
		result, err := svc.Search(&PolicySearchParams{Insurer: "jubilee"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Total)
	})
}

func TestListPoliciesForItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewInsuranceService(db)
	loan := seedLoan(t, db)
	ct := seedType(t, db, "Motor Vehicle", 60, monthsPtr(12))
	item := seedItem(t, db, loan, ct)

	now := time.Now().UTC()
	for _, pn := range []string{"A/1", "A/2", "A/3"} {
		_, err := svc.AddPolicy(item.ID, &AddPolicyRequest{
			PolicyNumber: pn,
			InsurerName:  "Jubilee Insurance",
			StartDate:    now,
			ExpiryDate:   now.AddDate(1, 0, 0),
		})
		require.NoError(t, err)
	}

	views, err := svc.ListForItem(item.ID)
	require.NoError(t, err)
	assert.Len(t, views, 3)

	_, err = svc.ListForItem(newUUID(t))
	assert.True(t, apperr.IsNotFound(err))
}
