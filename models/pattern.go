// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"

	"github.com/google/uuid"
)

// Pattern is a named digit shape numbers are grouped under, e.g. "AAAB"
// or "ABAB". Deleting a pattern detaches its numbers, it never deletes
// them.
type Pattern struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UUID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_patterns_uuid;default:gen_random_uuid()" json:"uuid"`
	Pattern string    `gorm:"size:50;not null;uniqueIndex:uk_patterns_pattern" json:"pattern"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`

	// Relations
	Numbers []Number `gorm:"foreignKey:PatternID" json:"-"`
}

func (Pattern) TableName() string {
	return "patterns"
}

// PatternFilter represents filter criteria for pattern queries
type PatternFilter struct {
	ID      *uint
	UUID    *uuid.UUID
	Pattern *string
}
