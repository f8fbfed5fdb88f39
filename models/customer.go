// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the purchasing profile of an account. Accounts without a
// customer profile cannot carry a cart or buy numbers.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_customers_uuid;default:gen_random_uuid()" json:"uuid"`
	AccountID uint      `gorm:"not null;uniqueIndex:uk_customers_account_id" json:"account_id"`
	Account   Account   `gorm:"foreignKey:AccountID;references:ID" json:"account,omitempty"`

	Address *string `gorm:"size:255" json:"address,omitempty"`
	City    *string `gorm:"size:100" json:"city,omitempty"`
	State   *string `gorm:"size:100" json:"state,omitempty"`
	Pincode *string `gorm:"size:10" json:"pincode,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_customers_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	CartItems []CartItem `gorm:"foreignKey:CustomerID" json:"-"`
	Sales     []Sale     `gorm:"foreignKey:CustomerID" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerFilter represents filter criteria for customer queries
type CustomerFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	AccountID     *uint
	City          *string
	State         *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
