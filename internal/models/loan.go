// internal/models/loan.go
package models

// Loan is the boundary view of the loan subsystem's table. The collateral
// engine only reads it: existence checks on registration and display
// enrichment (loan number, member name) on the item views. Loan origination
// and repayment live elsewhere.
type Loan struct {
	BaseModel
	LoanNumber string     `json:"loan_number" gorm:"size:50;not null;uniqueIndex"`
	MemberName string     `json:"member_name" gorm:"size:255;not null"`
	MemberNo   string     `json:"member_no,omitempty" gorm:"size:50"`
	Principal  float64    `json:"principal" gorm:"type:decimal(18,2)"`
	Status     LoanStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
}

func (Loan) TableName() string { return "loans" }
