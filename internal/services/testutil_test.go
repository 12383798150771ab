// internal/services/testutil_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wekeza/sacco-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.StaffUser{},
		&models.Loan{},
		&models.CollateralType{},
		&models.CollateralItem{},
		&models.InsurancePolicy{},
		&models.AuditLog{},
	))

	return db
}

func seedLoan(t *testing.T, db *gorm.DB) *models.Loan {
	t.Helper()

	loan := &models.Loan{
		LoanNumber: "LN-2026-0001",
		MemberName: "Achieng Odhiambo",
		MemberNo:   "MB-1042",
		Principal:  500000,
		Status:     models.LoanStatusActive,
	}
	require.NoError(t, db.Create(loan).Error)
	return loan
}

func seedType(t *testing.T, db *gorm.DB, name string, ltv float64, revalMonths *int) *models.CollateralType {
	t.Helper()

	ct := &models.CollateralType{
		Name:              name,
		LTVPercent:        ltv,
		RevaluationMonths: revalMonths,
		IsActive:          true,
	}
	require.NoError(t, db.Create(ct).Error)
	return ct
}

func seedItem(t *testing.T, db *gorm.DB, loan *models.Loan, ct *models.CollateralType) *models.CollateralItem {
	t.Helper()

	item := &models.CollateralItem{
		LoanID:           loan.ID,
		CollateralTypeID: ct.ID,
		OwnerName:        "Achieng Odhiambo",
		Description:      "Toyota Hilux, KDA 123X",
		Status:           models.CollateralStatusRegistered,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func monthsPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }

func floatPtr(v float64) *float64 { return &v }
