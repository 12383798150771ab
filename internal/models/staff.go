// internal/models/staff.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type StaffUser struct {
	BaseModel
	Username     string      `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string      `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FullName     string      `json:"full_name" gorm:"size:255"`
	PasswordHash string      `json:"-" gorm:"size:255;not null"`
	Role         StaffRole   `json:"role" gorm:"type:varchar(20);default:'officer'"`
	Status       StaffStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	LastLoginAt  *time.Time  `json:"last_login_at"`
}

func (StaffUser) TableName() string { return "staff_users" }

func (u *StaffUser) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *StaffUser) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
