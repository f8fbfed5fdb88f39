// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CategoryCommissionDTO represents a per-pattern commission rule
type CategoryCommissionDTO struct {
	UUID       string  `json:"uuid"`
	Pattern    string  `json:"pattern" example:"AAAB"`
	Commission float64 `json:"commission" example:"12.5"`
	CreatedAt  string  `json:"created_at"`
}

// UpsertCategoryCommissionRequest creates or updates a pattern rule
type UpsertCategoryCommissionRequest struct {
	PatternUUID string  `json:"pattern_uuid" validate:"required,uuid"`
	Commission  float64 `json:"commission" validate:"required,gte=0,lte=100"`
}

// PriceRangeCommissionDTO represents a price-range commission rule
type PriceRangeCommissionDTO struct {
	UUID       string  `json:"uuid"`
	MinPrice   int64   `json:"min_price" example:"10000"`
	MaxPrice   int64   `json:"max_price" example:"50000"`
	Commission float64 `json:"commission" example:"8"`
	CreatedAt  string  `json:"created_at"`
}

// CreatePriceRangeCommissionRequest creates a price-range rule
type CreatePriceRangeCommissionRequest struct {
	MinPrice   int64   `json:"min_price" validate:"gte=0"`
	MaxPrice   int64   `json:"max_price" validate:"required,gt=0"`
	Commission float64 `json:"commission" validate:"required,gte=0,lte=100"`
}

// CommissionSettingsDTO represents the application toggles
type CommissionSettingsDTO struct {
	ApplyToNewNumbers      *bool `json:"apply_to_new_numbers"`
	ApplyToExistingNumbers *bool `json:"apply_to_existing_numbers"`
}

// UpdateCommissionSettingsRequest updates the application toggles
type UpdateCommissionSettingsRequest struct {
	ApplyToNewNumbers      *bool `json:"apply_to_new_numbers"`
	ApplyToExistingNumbers *bool `json:"apply_to_existing_numbers"`
}
