// Package dto contains Data Transfer Objects for API request and response structures
package dto

// Account roles selectable at registration
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
)

// RegisterRequest represents the request payload for account registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150" example:"ravi_kumar"`
	Email    string `json:"email" validate:"required,email,max=255" example:"ravi@example.com"`
	Phone    string `json:"phone" validate:"omitempty,mobile_format" example:"9876543210"`
	Password string `json:"password" validate:"required,min=8,max=100,password_strength" example:"SecurePass123"`
	Role     string `json:"role" validate:"required,oneof=customer vendor" example:"customer"`

	// Vendor fields, required when role is vendor
	BusinessName string `json:"business_name" validate:"required_if=Role vendor,omitempty,min=2,max=255" example:"VIP Numbers Delhi"`
	GSTNumber    string `json:"gst_number" validate:"omitempty,len=15" example:"07AABCU9603R1ZM"`

	// Optional address fields
	Address string `json:"address" validate:"omitempty,max=255"`
	City    string `json:"city" validate:"omitempty,max=100"`
	State   string `json:"state" validate:"omitempty,max=100"`
	Pincode string `json:"pincode" validate:"omitempty,len=6,numeric"`
}

// LoginRequest represents the request payload for login
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,min=3,max=255" example:"ravi_kumar or ravi@example.com"`
	Password   string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123"`
}

// RefreshTokenRequest represents the request payload for refreshing a session
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ChangePasswordRequest represents the request payload for changing password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,min=8,max=100"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=100,password_strength"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// AccountDTO represents account information in auth responses
type AccountDTO struct {
	ID          uint    `json:"id" example:"123"`
	UUID        string  `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Username    string  `json:"username" example:"ravi_kumar"`
	Email       string  `json:"email" example:"ravi@example.com"`
	Phone       *string `json:"phone,omitempty" example:"9876543210"`
	IsActive    *bool   `json:"is_active" example:"true"`
	HasCustomer bool    `json:"has_customer_profile"`
	HasVendor   bool    `json:"has_vendor_profile"`
	CreatedAt   string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// SessionDTO represents the token pair returned after authentication
type SessionDTO struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken *string `json:"refresh_token,omitempty"`
	TokenType    string  `json:"token_type" example:"Bearer"`
	ExpiresIn    int     `json:"expires_in" example:"86400"`
	CreatedAt    string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// AuthResponse represents the payload returned by register and login
type AuthResponse struct {
	Account AccountDTO `json:"account"`
	Session SessionDTO `json:"session"`
}

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}
