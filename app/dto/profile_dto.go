package dto

// ProfileResponse represents the caller's account with attached profiles
type ProfileResponse struct {
	Account  AccountDTO   `json:"account"`
	Customer *CustomerDTO `json:"customer,omitempty"`
	Vendor   *VendorDTO   `json:"vendor,omitempty"`
}

// CustomerDTO represents a customer profile in API responses
type CustomerDTO struct {
	UUID    string  `json:"uuid"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Pincode *string `json:"pincode,omitempty"`
}

// UpdateProfileRequest carries the editable account and address fields
type UpdateProfileRequest struct {
	Phone   *string `json:"phone" validate:"omitempty,mobile_format"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	City    *string `json:"city" validate:"omitempty,max=100"`
	State   *string `json:"state" validate:"omitempty,max=100"`
	Pincode *string `json:"pincode" validate:"omitempty,len=6,numeric"`
}
