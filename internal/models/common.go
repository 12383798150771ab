// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type StaffRole string

const (
	StaffRoleAdmin   StaffRole = "admin"
	StaffRoleOfficer StaffRole = "officer"
)

type StaffStatus string

const (
	StaffStatusActive    StaffStatus = "active"
	StaffStatusSuspended StaffStatus = "suspended"
)

type CollateralStatus string

const (
	CollateralStatusRegistered CollateralStatus = "registered"
	CollateralStatusUnderLien  CollateralStatus = "under_lien"
	CollateralStatusReleased   CollateralStatus = "released"
	CollateralStatusDefaulted  CollateralStatus = "defaulted"
	CollateralStatusLiquidated CollateralStatus = "liquidated"
)

// Terminal reports whether no further status transitions are possible.
func (s CollateralStatus) Terminal() bool {
	return s == CollateralStatusReleased || s == CollateralStatusLiquidated
}

type RevaluationStatus string

const (
	RevaluationStatusOverdue RevaluationStatus = "overdue"
	RevaluationStatusDueSoon RevaluationStatus = "due_soon"
	RevaluationStatusOK      RevaluationStatus = "ok"
	RevaluationStatusUnset   RevaluationStatus = "unset"
)

type PolicyType string

const (
	PolicyTypeComprehensive PolicyType = "comprehensive"
	PolicyTypeThirdParty    PolicyType = "third_party"
	PolicyTypeFire          PolicyType = "fire"
	PolicyTypeProperty      PolicyType = "property"
	PolicyTypeLife          PolicyType = "life"
	PolicyTypeOther         PolicyType = "other"
)

type PolicyStatus string

const (
	PolicyStatusActive       PolicyStatus = "active"
	PolicyStatusExpiringSoon PolicyStatus = "expiring_soon"
	PolicyStatusExpired      PolicyStatus = "expired"
	PolicyStatusCancelled    PolicyStatus = "cancelled"
	PolicyStatusLapsed       PolicyStatus = "lapsed"
)

type PremiumFrequency string

const (
	PremiumFrequencyMonthly    PremiumFrequency = "monthly"
	PremiumFrequencyQuarterly  PremiumFrequency = "quarterly"
	PremiumFrequencySemiAnnual PremiumFrequency = "semi_annual"
	PremiumFrequencyAnnual     PremiumFrequency = "annual"
	PremiumFrequencySingle     PremiumFrequency = "single"
)

type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusSettled   LoanStatus = "settled"
	LoanStatusDefaulted LoanStatus = "defaulted"
)
