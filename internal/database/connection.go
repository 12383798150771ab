// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wekeza/sacco-backend/internal/config"
	"github.com/wekeza/sacco-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.StaffUser{},
		&models.Loan{},
		&models.CollateralType{},
		&models.CollateralItem{},
		&models.InsurancePolicy{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Collateral item indexes
		"CREATE INDEX IF NOT EXISTS idx_collateral_items_loan ON collateral_items(loan_id)",
		"CREATE INDEX IF NOT EXISTS idx_collateral_items_type_status ON collateral_items(collateral_type_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_collateral_items_next_reval ON collateral_items(next_revaluation_date) WHERE next_revaluation_date IS NOT NULL",
		"CREATE INDEX IF NOT EXISTS idx_collateral_items_created_at ON collateral_items(created_at DESC)",

		// Insurance policy indexes
		"CREATE INDEX IF NOT EXISTS idx_insurance_policies_item ON insurance_policies(collateral_item_id)",
		"CREATE INDEX IF NOT EXISTS idx_insurance_policies_expiry ON insurance_policies(expiry_date)",
		"CREATE INDEX IF NOT EXISTS idx_insurance_policies_insurer ON insurance_policies(insurer_name)",

		// Audit log indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_staff_action ON audit_logs(staff_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",

		// Full-text search index over the item search fields
		"CREATE INDEX IF NOT EXISTS idx_collateral_items_search ON collateral_items USING GIN(to_tsvector('english', description || ' ' || owner_name || ' ' || COALESCE(document_ref, '')))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

func intPtr(n int) *int { return &n }

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	logrus.Info("Seeding initial data...")

	// Create default admin user
	var adminCount int64
	db.Model(&models.StaffUser{}).Where("role = ?", models.StaffRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.StaffUser{
			Username: "admin",
			Email:    "admin@wekezasacco.co.ke",
			FullName: "System Administrator",
			Role:     models.StaffRoleAdmin,
			Status:   models.StaffStatusActive,
		}

		if err := admin.SetPassword("ChangeMe123!"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logrus.Info("Default admin user created")
	}

	// Seed the protected collateral types the console ships with. Name and
	// description of system types cannot be edited afterwards.
	systemTypes := []models.CollateralType{
		{
			Name:              "Land & Buildings",
			LTVPercent:        70,
			RevaluationMonths: intPtr(24),
			RequiresInsurance: true,
			Description:       "Titled land and permanent buildings pledged against development loans",
			IsSystem:          true,
			IsActive:          true,
		},
		{
			Name:              "Motor Vehicle",
			LTVPercent:        60,
			RevaluationMonths: intPtr(12),
			RequiresInsurance: true,
			Description:       "Logbook-secured motor vehicles",
			IsSystem:          true,
			IsActive:          true,
		},
		{
			Name:              "Shares & Deposits",
			LTVPercent:        90,
			RequiresInsurance: false,
			Description:       "Member shares and fixed deposits held by the society",
			IsSystem:          true,
			IsActive:          true,
		},
		{
			Name:              "Household Goods",
			LTVPercent:        50,
			RevaluationMonths: intPtr(12),
			RequiresInsurance: false,
			Description:       "Chattels mortgage over movable household property",
			IsSystem:          true,
			IsActive:          true,
		},
		{
			Name:              "Livestock",
			LTVPercent:        40,
			RevaluationMonths: intPtr(6),
			RequiresInsurance: true,
			Description:       "Livestock pledged under agricultural lending",
			IsSystem:          true,
			IsActive:          true,
		},
	}

	for _, ct := range systemTypes {
		var count int64
		db.Model(&models.CollateralType{}).Where("name = ?", ct.Name).Count(&count)

		if count == 0 {
			if err := db.Create(&ct).Error; err != nil {
				logrus.WithError(err).Warnf("Failed to seed collateral type %s", ct.Name)
			}
		}
	}

	logrus.Info("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
