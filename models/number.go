// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/numberkart/numberkart/utils"
	"github.com/shopspring/decimal"
)

// Number categories
const (
	NumberCategoryRegular  = "REG"
	NumberCategorySilver   = "SILVER"
	NumberCategoryGold     = "GOLD"
	NumberCategoryPlatinum = "PLATINUM"
)

// Port status of a listed number
const (
	PortStatusRTP    = "RTP" // ready to port
	PortStatusNonRTP = "non-RTP"
)

// Lifecycle status of a listed number. A vendor listing starts in
// pending_approval and moves to available when an admin approves it.
// A purchase places it on hold until the gateway settles, at which
// point it becomes sold.
const (
	NumberStatusAvailable         = "available"
	NumberStatusHold              = "hold"
	NumberStatusSold              = "sold"
	NumberStatusSoldByVendor      = "sold_by_vendor"
	NumberStatusVendorDeactivated = "vendor_deactivated"
	NumberStatusPendingApproval   = "pending_approval"
)

// Number is a VIP mobile number listed for sale. Price is in whole
// rupees; Discount is a percentage off (0-100). A number becomes
// purchasable once an admin approves it and stays listed until sold.
type Number struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_numbers_uuid;default:gen_random_uuid()" json:"uuid"`

	Entry string `gorm:"size:10;not null;uniqueIndex:uk_numbers_entry" json:"entry"`

	PatternID *uint    `gorm:"index:idx_numbers_pattern_id" json:"pattern_id,omitempty"`
	Pattern   *Pattern `gorm:"foreignKey:PatternID;references:ID" json:"pattern,omitempty"`
	VendorID  uint     `gorm:"not null;index:idx_numbers_vendor_id" json:"vendor_id"`
	Vendor    Vendor   `gorm:"foreignKey:VendorID;references:ID" json:"vendor,omitempty"`

	Price         int64   `gorm:"not null;index:idx_numbers_price" json:"price"`
	PurchasePrice int64   `gorm:"not null;default:0" json:"purchase_price"`
	Discount      float64 `gorm:"not null;default:0" json:"discount"`

	CurrentOperator *string `gorm:"size:50;index:idx_numbers_current_operator" json:"current_operator,omitempty"`
	ParentOperator  *string `gorm:"size:50" json:"parent_operator,omitempty"`
	Circle          *string `gorm:"size:100;index:idx_numbers_circle" json:"circle,omitempty"`
	PortStatus      *string `gorm:"size:10" json:"port_status,omitempty"`
	Category        string  `gorm:"size:20;not null;default:'REG';index:idx_numbers_category" json:"category"`

	DealerName    *string `gorm:"size:255" json:"dealer_name,omitempty"`
	DealerContact *string `gorm:"size:15" json:"dealer_contact,omitempty"`

	UploadedByAdmin *bool      `gorm:"default:false" json:"uploaded_by_admin"`
	IsApproved      *bool      `gorm:"default:false;index:idx_numbers_is_approved" json:"is_approved"`
	ApprovalDate    *time.Time `json:"approval_date,omitempty"`
	IsSold          *bool      `gorm:"default:false;index:idx_numbers_is_sold" json:"is_sold"`
	Status          string     `gorm:"size:20;not null;default:'available';index:idx_numbers_status" json:"status"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_numbers_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Number) TableName() string {
	return "numbers"
}

// NumberFilter represents filter criteria for number queries
type NumberFilter struct {
	ID              *uint
	UUID            *uuid.UUID
	Entry           *string
	EntryPrefix     *string
	EntrySuffix     *string
	EntryContains   *string
	PatternID       *uint
	VendorID        *uint
	MinPrice        *int64
	MaxPrice        *int64
	CurrentOperator *string
	Circle          *string
	PortStatus      *string
	Category        *string
	Status          *string
	UploadedByAdmin *bool
	IsApproved      *bool
	IsSold          *bool
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
}

// EffectivePrice is the price after the listed discount is applied.
func (n *Number) EffectivePrice() decimal.Decimal {
	price := decimal.NewFromInt(n.Price)
	if n.Discount <= 0 {
		return price
	}
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(n.Discount).Div(decimal.NewFromInt(100)))
	return price.Mul(factor).Round(2)
}

// IsPurchasable reports whether the number can enter a cart or a sale.
func (n *Number) IsPurchasable() bool {
	return utils.IsTrue(n.IsApproved) && !utils.IsTrue(n.IsSold) && n.Status == NumberStatusAvailable
}
