// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryCommission is the markup percentage applied to numbers listed
// under a pattern. Pattern rules win over price-range rules.
type CategoryCommission struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_category_commissions_uuid;default:gen_random_uuid()" json:"uuid"`

	PatternID uint    `gorm:"not null;uniqueIndex:uk_category_commissions_pattern_id" json:"pattern_id"`
	Pattern   Pattern `gorm:"foreignKey:PatternID;references:ID" json:"pattern,omitempty"`

	Commission float64 `gorm:"not null" json:"commission"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (CategoryCommission) TableName() string {
	return "category_commissions"
}

// CategoryCommissionFilter represents filter criteria for category commission queries
type CategoryCommissionFilter struct {
	ID        *uint
	UUID      *uuid.UUID
	PatternID *uint
}

// PriceRangeCommission is the markup percentage applied to numbers
// whose purchase price falls inside [MinPrice, MaxPrice].
type PriceRangeCommission struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_price_range_commissions_uuid;default:gen_random_uuid()" json:"uuid"`

	MinPrice   int64   `gorm:"not null" json:"min_price"`
	MaxPrice   int64   `gorm:"not null" json:"max_price"`
	Commission float64 `gorm:"not null" json:"commission"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (PriceRangeCommission) TableName() string {
	return "price_range_commissions"
}

// PriceRangeCommissionFilter represents filter criteria for price range commission queries
type PriceRangeCommissionFilter struct {
	ID       *uint
	UUID     *uuid.UUID
	MinPrice *int64
	MaxPrice *int64
}

func (c *PriceRangeCommission) Covers(price int64) bool {
	return price >= c.MinPrice && price <= c.MaxPrice
}

// CommissionSettings is a singleton row of toggles controlling when
// commission rules are applied.
type CommissionSettings struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ApplyToNewNumbers      *bool `gorm:"default:false" json:"apply_to_new_numbers"`
	ApplyToExistingNumbers *bool `gorm:"default:false" json:"apply_to_existing_numbers"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (CommissionSettings) TableName() string {
	return "commission_settings"
}

// CommissionSettingsFilter represents filter criteria for commission settings queries
type CommissionSettingsFilter struct {
	ID *uint
}
