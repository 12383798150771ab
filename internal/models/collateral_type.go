// internal/models/collateral_type.go
package models

type CollateralType struct {
	BaseModel
	Name              string  `json:"name" gorm:"size:100;not null;uniqueIndex"`
	LTVPercent        float64 `json:"ltv_percent" gorm:"type:decimal(5,2);not null"`
	RevaluationMonths *int    `json:"revaluation_months,omitempty"` // nil = no periodic revaluation
	RequiresInsurance bool    `json:"requires_insurance" gorm:"default:false"`
	Description       string  `json:"description" gorm:"type:text"`
	IsSystem          bool    `json:"is_system" gorm:"default:false"`
	IsActive          bool    `json:"is_active" gorm:"default:true"`

	// Relationships
	Items []CollateralItem `json:"items,omitempty" gorm:"foreignKey:CollateralTypeID"`
}

func (CollateralType) TableName() string { return "collateral_types" }
