// internal/models/audit_log.go
package models

import (
	"github.com/google/uuid"
)

type AuditLog struct {
	BaseModel
	StaffID      *uuid.UUID `json:"staff_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	// Relationships
	Staff *StaffUser `json:"staff,omitempty" gorm:"foreignKey:StaffID"`
}

func (AuditLog) TableName() string { return "audit_logs" }
