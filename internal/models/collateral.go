// internal/models/collateral.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CollateralItem struct {
	BaseModel
	LoanID           uuid.UUID `json:"loan_id" gorm:"type:uuid;not null;index"`
	CollateralTypeID uuid.UUID `json:"collateral_type_id" gorm:"type:uuid;not null;index"`

	OwnerName     string         `json:"owner_name" gorm:"size:255;not null"`
	OwnerIDNumber string         `json:"owner_id_number,omitempty" gorm:"size:50"`
	Description   string         `json:"description" gorm:"type:text;not null"`
	DocumentRef   string         `json:"document_ref,omitempty" gorm:"size:100"` // ownership document serial
	DocumentURLs  pq.StringArray `json:"document_urls,omitempty" gorm:"type:text[]"`

	DeclaredValue  *float64 `json:"declared_value,omitempty" gorm:"type:decimal(18,2)"` // owner estimate
	AppraisedValue *float64 `json:"appraised_value,omitempty" gorm:"type:decimal(18,2)"`
	LTVOverride    *float64 `json:"ltv_override,omitempty" gorm:"type:decimal(5,2)"`

	ValuerName          string     `json:"valuer_name,omitempty" gorm:"size:255"`
	ValuationDate       *time.Time `json:"valuation_date,omitempty"`
	NextRevaluationDate *time.Time `json:"next_revaluation_date,omitempty" gorm:"index"`

	Status CollateralStatus `json:"status" gorm:"type:varchar(20);default:'registered';index"`

	LienPlacedAt      *time.Time `json:"lien_placed_at,omitempty"`
	ReleasedAt        *time.Time `json:"released_at,omitempty"`
	ReleaseNotes      string     `json:"release_notes,omitempty" gorm:"type:text"`
	DefaultedAt       *time.Time `json:"defaulted_at,omitempty"`
	LiquidatedAt      *time.Time `json:"liquidated_at,omitempty"`
	LiquidationAmount *float64   `json:"liquidation_amount,omitempty" gorm:"type:decimal(18,2)"`
	LiquidationNotes  string     `json:"liquidation_notes,omitempty" gorm:"type:text"`

	// Relationships
	Loan           Loan              `json:"loan,omitempty" gorm:"foreignKey:LoanID"`
	CollateralType CollateralType    `json:"collateral_type,omitempty" gorm:"foreignKey:CollateralTypeID"`
	Policies       []InsurancePolicy `json:"policies,omitempty" gorm:"foreignKey:CollateralItemID"`
}

func (CollateralItem) TableName() string { return "collateral_items" }

// EffectiveLTV is the per-item override when set, the type default otherwise.
func (i *CollateralItem) EffectiveLTV(typeLTV float64) float64 {
	if i.LTVOverride != nil {
		return *i.LTVOverride
	}
	return typeLTV
}
