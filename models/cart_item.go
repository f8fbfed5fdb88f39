// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem links a customer to a number they intend to buy. It is a
// reference only: a cart row never reserves the number, and a number
// sold elsewhere stays in carts until purchase-time validation rejects
// it.
type CartItem struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_cart_items_uuid;default:gen_random_uuid()" json:"uuid"`

	CustomerID uint     `gorm:"not null;uniqueIndex:uk_cart_items_customer_number;index:idx_cart_items_customer_id" json:"customer_id"`
	Customer   Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	NumberID   uint     `gorm:"not null;uniqueIndex:uk_cart_items_customer_number;index:idx_cart_items_number_id" json:"number_id"`
	Number     Number   `gorm:"foreignKey:NumberID;references:ID" json:"number,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// CartItemFilter represents filter criteria for cart queries
type CartItemFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	CustomerID    *uint
	NumberID      *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
