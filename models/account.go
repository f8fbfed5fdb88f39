// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is the authentication identity. A vendor or customer profile
// hangs off an account one-to-one; an account may also have neither.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_accounts_uuid;default:gen_random_uuid()" json:"uuid"`
	Username     string    `gorm:"size:150;not null;uniqueIndex:uk_accounts_username" json:"username"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:uk_accounts_email" json:"email"`
	Phone        *string   `gorm:"size:15;index:idx_accounts_phone" json:"phone,omitempty"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"` // Never serialize password hash

	IsActive *bool `gorm:"default:true;index:idx_accounts_is_active" json:"is_active"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_accounts_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"index:idx_accounts_last_login_at" json:"last_login_at,omitempty"`

	// Relations
	Customer  *Customer        `gorm:"foreignKey:AccountID" json:"customer,omitempty"`
	Vendor    *Vendor          `gorm:"foreignKey:AccountID" json:"vendor,omitempty"`
	Sessions  []AccountSession `gorm:"foreignKey:AccountID" json:"-"`
	AuditLogs []AuditLog       `gorm:"foreignKey:AccountID" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}

// AccountFilter represents filter criteria for account queries
type AccountFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Username      *string
	Email         *string
	Phone         *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *Account) HasCustomerProfile() bool {
	return a.Customer != nil
}

func (a *Account) HasVendorProfile() bool {
	return a.Vendor != nil
}
