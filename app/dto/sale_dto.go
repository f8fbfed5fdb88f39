// Package dto contains Data Transfer Objects for API request and response structures
package dto

// PurchaseRequest represents the payload for purchasing numbers
type PurchaseRequest struct {
	NumberUUIDs []string `json:"number_uuids" validate:"required,min=1,max=50,dive,uuid"`
}

// SaleDTO represents a sale in API responses
type SaleDTO struct {
	UUID       string      `json:"uuid"`
	FinalPrice string      `json:"final_price" example:"285000.00"`
	Status     string      `json:"status" example:"pending"`
	VendorUUID *string     `json:"vendor_uuid,omitempty"`
	Numbers    []NumberDTO `json:"numbers"`
	Payment    *PaymentDTO `json:"payment,omitempty"`
	CreatedAt  string      `json:"created_at"`
}

// ListSalesResponse represents a paginated sale listing
type ListSalesResponse struct {
	Items      []SaleDTO      `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}
