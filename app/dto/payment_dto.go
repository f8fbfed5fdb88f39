// Package dto contains Data Transfer Objects for API request and response structures
package dto

// InitiatePaymentRequest represents the payload for starting gateway settlement
type InitiatePaymentRequest struct {
	SaleUUID string `json:"sale_uuid" validate:"required,uuid"`
}

// InitiatePaymentResponse carries what the client checkout needs
type InitiatePaymentResponse struct {
	PaymentUUID string `json:"payment_uuid"`
	OrderID     string `json:"order_id" example:"order_MkX2Lw8bKq6xTz"`
	// Amount is in paise, the unit the gateway checkout expects
	Amount   int64  `json:"amount" example:"28500000"`
	Currency string `json:"currency" example:"INR"`
	KeyID    string `json:"key_id" example:"rzp_live_xxxxxxxxxxxx"`
}

// PaymentCallbackRequest represents the browser callback after checkout
type PaymentCallbackRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// PaymentDTO represents a payment in API responses
type PaymentDTO struct {
	UUID      string  `json:"uuid"`
	OrderID   string  `json:"order_id"`
	Amount    string  `json:"amount" example:"285000.00"`
	Status    string  `json:"status" example:"completed"`
	Method    *string `json:"method,omitempty" example:"upi"`
	CreatedAt string  `json:"created_at"`
}

// PaymentStatusResponse is the read-only settlement projection
type PaymentStatusResponse struct {
	PaymentStatus string  `json:"payment_status" example:"completed"`
	SaleStatus    string  `json:"sale_status" example:"completed"`
	OrderID       string  `json:"order_id"`
	Amount        string  `json:"amount" example:"285000.00"`
	Method        *string `json:"method,omitempty"`
}
