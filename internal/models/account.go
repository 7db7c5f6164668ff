package models

import (
	"time"

	"gorm.io/gorm"
)

// AccountRole distinguishes the portal's user types
type AccountRole string

const (
	RolePatient    AccountRole = "patient"
	RoleDoctor     AccountRole = "doctor"
	RolePharmacist AccountRole = "pharmacist"
	RoleAdmin      AccountRole = "admin"
)

// Account is the portal user record. Registration and profile management
// happen elsewhere; the reminder core reads accounts to resolve the email
// address a dose reminder is delivered to.
type Account struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName  string         `gorm:"size:100" json:"full_name"`
	Role      AccountRole    `gorm:"size:20;not null;default:patient" json:"role"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook fills in timestamps
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}
	return nil
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "account"
}
