// Package dto contains Data Transfer Objects for API request and response structures
package dto

// AddCartItemRequest represents the payload for adding a number to the cart
type AddCartItemRequest struct {
	NumberUUID string `json:"number_uuid" validate:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// CartItemDTO represents one cart entry with its number details
type CartItemDTO struct {
	UUID    string    `json:"uuid"`
	Number  NumberDTO `json:"number"`
	AddedAt string    `json:"added_at" example:"2024-01-15T10:30:00Z"`
}

// CartResponse represents the caller's full cart
type CartResponse struct {
	Items []CartItemDTO `json:"items"`
	// Total is the decimal sum of effective prices, serialized as string
	Total string `json:"total" example:"285000.00"`
	Count int    `json:"count" example:"2"`
}
