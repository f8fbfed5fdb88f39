// Package dto contains Data Transfer Objects for API request and response structures
package dto

// VendorDTO represents a vendor profile in API responses
type VendorDTO struct {
	UUID         string  `json:"uuid"`
	BusinessName string  `json:"business_name" example:"VIP Numbers Delhi"`
	GSTNumber    *string `json:"gst_number,omitempty"`
	Address      *string `json:"address,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	Pincode      *string `json:"pincode,omitempty"`
	IsApproved   *bool   `json:"is_approved"`
	ApprovedAt   *string `json:"approved_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// UpdateVendorRequest carries the vendor-editable profile fields.
// Approval state is never settable here.
type UpdateVendorRequest struct {
	BusinessName *string `json:"business_name" validate:"omitempty,min=2,max=255"`
	GSTNumber    *string `json:"gst_number" validate:"omitempty,len=15"`
	Address      *string `json:"address" validate:"omitempty,max=255"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	State        *string `json:"state" validate:"omitempty,max=100"`
	Pincode      *string `json:"pincode" validate:"omitempty,len=6,numeric"`
}

// ListVendorsResponse represents a paginated vendor listing
type ListVendorsResponse struct {
	Items      []VendorDTO    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}
