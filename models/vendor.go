// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/numberkart/numberkart/utils"
)

// Vendor is the selling profile of an account. Listing numbers requires
// admin approval of the vendor first.
type Vendor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_vendors_uuid;default:gen_random_uuid()" json:"uuid"`
	AccountID uint      `gorm:"not null;uniqueIndex:uk_vendors_account_id" json:"account_id"`
	Account   Account   `gorm:"foreignKey:AccountID;references:ID" json:"account,omitempty"`

	BusinessName string  `gorm:"size:255;not null" json:"business_name"`
	GSTNumber    *string `gorm:"size:15" json:"gst_number,omitempty"`
	Address      *string `gorm:"size:255" json:"address,omitempty"`
	City         *string `gorm:"size:100" json:"city,omitempty"`
	State        *string `gorm:"size:100" json:"state,omitempty"`
	Pincode      *string `gorm:"size:10" json:"pincode,omitempty"`

	IsApproved *bool      `gorm:"default:false;index:idx_vendors_is_approved" json:"is_approved"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_vendors_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Numbers []Number `gorm:"foreignKey:VendorID" json:"-"`
	Sales   []Sale   `gorm:"foreignKey:VendorID" json:"-"`
}

func (Vendor) TableName() string {
	return "vendors"
}

// VendorFilter represents filter criteria for vendor queries
type VendorFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	AccountID     *uint
	BusinessName  *string
	IsApproved    *bool
	City          *string
	State         *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (v *Vendor) CanListNumbers() bool {
	return utils.IsTrue(v.IsApproved)
}
