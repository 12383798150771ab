// internal/models/insurance.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type InsurancePolicy struct {
	BaseModel
	CollateralItemID uuid.UUID `json:"collateral_item_id" gorm:"type:uuid;not null;index"`

	PolicyNumber string     `json:"policy_number" gorm:"size:100;not null;uniqueIndex:ux_policies_insurer_number"`
	InsurerName  string     `json:"insurer_name" gorm:"size:255;not null;uniqueIndex:ux_policies_insurer_number"`
	PolicyType   PolicyType `json:"policy_type" gorm:"type:varchar(20);default:'other'"`

	SumInsured       *float64         `json:"sum_insured,omitempty" gorm:"type:decimal(18,2)"`
	PremiumAmount    *float64         `json:"premium_amount,omitempty" gorm:"type:decimal(18,2)"`
	PremiumFrequency PremiumFrequency `json:"premium_frequency,omitempty" gorm:"type:varchar(20)"`

	StartDate  time.Time `json:"start_date" gorm:"not null"`
	ExpiryDate time.Time `json:"expiry_date" gorm:"not null;index"`
	Notes      string    `json:"notes,omitempty" gorm:"type:text"`

	// Operator-set terminal flag (cancelled/lapsed). Empty means the policy
	// status is derived from the expiry date at read time.
	TerminalStatus PolicyStatus `json:"terminal_status,omitempty" gorm:"type:varchar(20)"`

	// Relationships
	CollateralItem CollateralItem `json:"collateral_item,omitempty" gorm:"foreignKey:CollateralItemID"`
}

func (InsurancePolicy) TableName() string { return "insurance_policies" }
