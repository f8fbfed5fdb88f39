// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale status lifecycle
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCanceled  = "canceled"
)

// Sale is one purchase of one or more numbers by a customer. VendorID
// is set only when every number in the sale belongs to the same vendor.
// FinalPrice is the discounted sum frozen at purchase time.
type Sale struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_sales_uuid;default:gen_random_uuid()" json:"uuid"`

	CustomerID uint     `gorm:"not null;index:idx_sales_customer_id" json:"customer_id"`
	Customer   Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	VendorID   *uint    `gorm:"index:idx_sales_vendor_id" json:"vendor_id,omitempty"`
	Vendor     *Vendor  `gorm:"foreignKey:VendorID;references:ID" json:"vendor,omitempty"`

	FinalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"final_price"`
	Status     string          `gorm:"size:20;not null;default:'pending';index:idx_sales_status" json:"status"`

	Numbers []Number `gorm:"many2many:sale_numbers" json:"numbers,omitempty"`
	Payment *Payment `gorm:"foreignKey:SaleID" json:"payment,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_sales_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Sale) TableName() string {
	return "sales"
}

// SaleFilter represents filter criteria for sale queries
type SaleFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	CustomerID    *uint
	VendorID      *uint
	Status        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (s *Sale) IsPending() bool {
	return s.Status == SaleStatusPending
}

func (s *Sale) IsFinal() bool {
	return s.Status == SaleStatusCompleted || s.Status == SaleStatusCanceled
}
