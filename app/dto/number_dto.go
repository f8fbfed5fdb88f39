// Package dto contains Data Transfer Objects for API request and response structures
package dto

// NumberDTO represents a listed number in API responses
type NumberDTO struct {
	UUID            string  `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Entry           string  `json:"entry" example:"9999999999"`
	Price           int64   `json:"price" example:"150000"`
	Discount        float64 `json:"discount" example:"10"`
	EffectivePrice  string  `json:"effective_price" example:"135000.00"`
	Pattern         *string `json:"pattern,omitempty" example:"AAAA"`
	Category        string  `json:"category" example:"PLATINUM"`
	CurrentOperator *string `json:"current_operator,omitempty" example:"Airtel"`
	ParentOperator  *string `json:"parent_operator,omitempty"`
	Circle          *string `json:"circle,omitempty" example:"Delhi NCR"`
	PortStatus      *string `json:"port_status,omitempty" example:"RTP"`
	IsApproved      *bool   `json:"is_approved,omitempty"`
	IsSold          *bool   `json:"is_sold,omitempty"`
	Status          string  `json:"status" example:"available"`
	CreatedAt       string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// CreateNumberRequest represents the payload for listing a new number
type CreateNumberRequest struct {
	Entry           string  `json:"entry" validate:"required,len=10,numeric" example:"9999999999"`
	Price           int64   `json:"price" validate:"required,gt=0" example:"150000"`
	Discount        float64 `json:"discount" validate:"omitempty,gte=0,lte=100" example:"10"`
	PatternUUID     string  `json:"pattern_uuid" validate:"omitempty,uuid"`
	Category        string  `json:"category" validate:"omitempty,oneof=REG SILVER GOLD PLATINUM"`
	CurrentOperator string  `json:"current_operator" validate:"omitempty,max=50"`
	ParentOperator  string  `json:"parent_operator" validate:"omitempty,max=50"`
	Circle          string  `json:"circle" validate:"omitempty,max=100"`
	PortStatus      string  `json:"port_status" validate:"omitempty,oneof=RTP non-RTP"`
	DealerName      string  `json:"dealer_name" validate:"omitempty,max=255"`
	DealerContact   string  `json:"dealer_contact" validate:"omitempty,mobile_format"`
}

// AdminCreateNumberRequest adds the fields only admins may set
type AdminCreateNumberRequest struct {
	CreateNumberRequest
	VendorUUID    string `json:"vendor_uuid" validate:"required,uuid"`
	PurchasePrice int64  `json:"purchase_price" validate:"omitempty,gte=0"`
}

// UpdateNumberRequest carries the editable fields of a listing. Only
// provided fields are changed; ownership and sale state never are.
type UpdateNumberRequest struct {
	Price           *int64   `json:"price" validate:"omitempty,gt=0"`
	Discount        *float64 `json:"discount" validate:"omitempty,gte=0,lte=100"`
	PatternUUID     *string  `json:"pattern_uuid" validate:"omitempty,uuid"`
	Category        *string  `json:"category" validate:"omitempty,oneof=REG SILVER GOLD PLATINUM"`
	CurrentOperator *string  `json:"current_operator" validate:"omitempty,max=50"`
	ParentOperator  *string  `json:"parent_operator" validate:"omitempty,max=50"`
	Circle          *string  `json:"circle" validate:"omitempty,max=100"`
	PortStatus      *string  `json:"port_status" validate:"omitempty,oneof=RTP non-RTP"`
	DealerName      *string  `json:"dealer_name" validate:"omitempty,max=255"`
	DealerContact   *string  `json:"dealer_contact" validate:"omitempty,mobile_format"`
}

// ListNumbersRequest represents public browse filters
type ListNumbersRequest struct {
	Prefix     string `json:"prefix" validate:"omitempty,max=10,numeric"`
	Suffix     string `json:"suffix" validate:"omitempty,max=10,numeric"`
	Contains   string `json:"contains" validate:"omitempty,max=10,numeric"`
	MinPrice   int64  `json:"min_price" validate:"omitempty,gte=0"`
	MaxPrice   int64  `json:"max_price" validate:"omitempty,gte=0"`
	Category   string `json:"category" validate:"omitempty,oneof=REG SILVER GOLD PLATINUM"`
	Operator   string `json:"operator" validate:"omitempty,max=50"`
	Circle     string `json:"circle" validate:"omitempty,max=100"`
	PortStatus string `json:"port_status" validate:"omitempty,oneof=RTP non-RTP"`
	Pattern    string `json:"pattern" validate:"omitempty,max=50"`
	Page       int    `json:"page" validate:"omitempty,gte=1"`
	Limit      int    `json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// ListNumbersResponse represents a paginated number listing
type ListNumbersResponse struct {
	Items      []NumberDTO    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// PatternDTO represents a pattern in API responses
type PatternDTO struct {
	UUID      string `json:"uuid"`
	Pattern   string `json:"pattern" example:"AAAB"`
	CreatedAt string `json:"created_at"`
}

// CreatePatternRequest represents the payload for creating a pattern
type CreatePatternRequest struct {
	Pattern string `json:"pattern" validate:"required,min=2,max=50" example:"AAAB"`
}
