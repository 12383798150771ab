// internal/services/collateral_type_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekeza/sacco-backend/internal/apperr"
	"github.com/wekeza/sacco-backend/internal/models"
)

func TestCreateType(t *testing.T) {
	db := newTestDB(t)
	svc := NewCollateralTypeService(db)

	t.Run("creates an active non-system type", func(t *testing.T) {
		ct, err := svc.CreateType(&CreateTypeRequest{
			Name:              "Warehouse Stock",
			LTVPercent:        55,
			RevaluationMonths: monthsPtr(6),
		})
		require.NoError(t, err)
		assert.True(t, ct.IsActive)
		assert.False(t, ct.IsSystem)
		assert.Equal(t, 55.0, ct.LTVPercent)
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		_, err := svc.CreateType(&CreateTypeRequest{Name: "Warehouse Stock", LTVPercent: 50})
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("rejects LTV above 100", func(t *testing.T) {
		_, err := svc.CreateType(&CreateTypeRequest{Name: "Bad LTV", LTVPercent: 120})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("rejects zero LTV", func(t *testing.T) {
		_, err := svc.CreateType(&CreateTypeRequest{Name: "Zero LTV", LTVPercent: 0})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := svc.CreateType(&CreateTypeRequest{Name: "   ", LTVPercent: 50})
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestUpdateType(t *testing.T) {
	db := newTestDB(t)
	svc := NewCollateralTypeService(db)

	t.Run("updates lending parameters", func(t *testing.T) {
		ct := seedType(t, db, "Equipment", 50, nil)

		updated, err := svc.UpdateType(ct.ID, &UpdateTypeRequest{
			LTVPercent:        floatPtr(65),
			RevaluationMonths: monthsPtr(18),
		})
		require.NoError(t, err)
		assert.Equal(t, 65.0, updated.LTVPercent)
		require.NotNil(t, updated.RevaluationMonths)
		assert.Equal(t, 18, *updated.RevaluationMonths)
	})

	t.Run("system types keep name and description", func(t *testing.T) {
		ct := &models.CollateralType{Name: "Land & Buildings", LTVPercent: 70, IsSystem: true, IsActive: true}
		require.NoError(t, db.Create(ct).Error)

		name := "Renamed"
		_, err := svc.UpdateType(ct.ID, &UpdateTypeRequest{Name: &name})
		assert.True(t, apperr.IsImmutableField(err))

		// Lending parameters stay adjustable on system types.
		updated, err := svc.UpdateType(ct.ID, &UpdateTypeRequest{LTVPercent: floatPtr(75)})
		require.NoError(t, err)
		assert.Equal(t, 75.0, updated.LTVPercent)
	})

	t.Run("rejects rename onto an existing name", func(t *testing.T) {
		a := seedType(t, db, "Type A", 50, nil)
		seedType(t, db, "Type B", 50, nil)

		name := "Type B"
		_, err := svc.UpdateType(a.ID, &UpdateTypeRequest{Name: &name})
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.UpdateType(newUUID(t), &UpdateTypeRequest{LTVPercent: floatPtr(50)})
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestDeleteType(t *testing.T) {
	db := newTestDB(t)
	svc := NewCollateralTypeService(db)

	t.Run("deletes an unreferenced custom type", func(t *testing.T) {
		ct := seedType(t, db, "Short Lived", 50, nil)
		require.NoError(t, svc.DeleteType(ct.ID))

		_, err := svc.GetType(ct.ID)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("refuses to delete a system type", func(t *testing.T) {
		ct := &models.CollateralType{Name: "Motor Vehicle", LTVPercent: 60, IsSystem: true, IsActive: true}
		require.NoError(t, db.Create(ct).Error)

		err := svc.DeleteType(ct.ID)
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("refuses to delete a referenced type", func(t *testing.T) {
		loan := seedLoan(t, db)
		ct := seedType(t, db, "Referenced", 50, nil)
		seedItem(t, db, loan, ct)

		err := svc.DeleteType(ct.ID)
		assert.True(t, apperr.IsConflict(err))
	})
}

func TestListTypes(t *testing.T) {
	db := newTestDB(t)
	svc := NewCollateralTypeService(db)

	seedType(t, db, "Active One", 50, nil)
	inactive := seedType(t, db, "Inactive One", 50, nil)
	_, err := svc.DeactivateType(inactive.ID)
	require.NoError(t, err)

	active, err := svc.ListTypes(false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.ListTypes(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
