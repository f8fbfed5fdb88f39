// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/numberkart/numberkart/app/dto"
	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/utils"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	DeviceInfo map[string]string `json:"device_info,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		DeviceInfo: make(map[string]string),
		Additional: make(map[string]string),
	}
}

// AddDeviceInfo adds device information to the metadata
func (cm *ClientMetadata) AddDeviceInfo(key, value string) {
	if cm.DeviceInfo == nil {
		cm.DeviceInfo = make(map[string]string)
	}
	cm.DeviceInfo[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

// ToAccountDTO converts an account model for auth responses
func ToAccountDTO(account models.Account) dto.AccountDTO {
	return dto.AccountDTO{
		ID:          account.ID,
		UUID:        account.UUID.String(),
		Username:    account.Username,
		Email:       account.Email,
		Phone:       account.Phone,
		IsActive:    account.IsActive,
		HasCustomer: account.Customer != nil,
		HasVendor:   account.Vendor != nil,
		CreatedAt:   account.CreatedAt.Format(time.RFC3339),
	}
}

// ToSessionDTO converts a session model for auth responses
func ToSessionDTO(session models.AccountSession) dto.SessionDTO {
	return dto.SessionDTO{
		AccessToken:  session.SessionToken,
		RefreshToken: session.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(time.Until(session.ExpiresAt).Seconds()),
		CreatedAt:    session.CreatedAt.Format(time.RFC3339),
	}
}

// ToNumberDTO converts a number model for listing responses
func ToNumberDTO(number models.Number) dto.NumberDTO {
	d := dto.NumberDTO{
		UUID:            number.UUID.String(),
		Entry:           number.Entry,
		Price:           number.Price,
		Discount:        number.Discount,
		EffectivePrice:  number.EffectivePrice().StringFixed(2),
		Category:        number.Category,
		CurrentOperator: number.CurrentOperator,
		ParentOperator:  number.ParentOperator,
		Circle:          number.Circle,
		PortStatus:      number.PortStatus,
		IsApproved:      number.IsApproved,
		IsSold:          number.IsSold,
		Status:          number.Status,
		CreatedAt:       number.CreatedAt.Format(time.RFC3339),
	}
	if number.Pattern != nil {
		d.Pattern = &number.Pattern.Pattern
	}
	return d
}

// ToPatternDTO converts a pattern model
func ToPatternDTO(pattern models.Pattern) dto.PatternDTO {
	return dto.PatternDTO{
		UUID:      pattern.UUID.String(),
		Pattern:   pattern.Pattern,
		CreatedAt: pattern.CreatedAt.Format(time.RFC3339),
	}
}

// ToVendorDTO converts a vendor model
func ToVendorDTO(vendor models.Vendor) dto.VendorDTO {
	d := dto.VendorDTO{
		UUID:         vendor.UUID.String(),
		BusinessName: vendor.BusinessName,
		GSTNumber:    vendor.GSTNumber,
		Address:      vendor.Address,
		City:         vendor.City,
		State:        vendor.State,
		Pincode:      vendor.Pincode,
		IsApproved:   vendor.IsApproved,
		CreatedAt:    vendor.CreatedAt.Format(time.RFC3339),
	}
	if vendor.ApprovedAt != nil {
		approvedAt := vendor.ApprovedAt.Format(time.RFC3339)
		d.ApprovedAt = &approvedAt
	}
	return d
}

// ToCustomerDTO converts a customer profile model
func ToCustomerDTO(customer models.Customer) dto.CustomerDTO {
	return dto.CustomerDTO{
		UUID:    customer.UUID.String(),
		Address: customer.Address,
		City:    customer.City,
		State:   customer.State,
		Pincode: customer.Pincode,
	}
}

// ToPaymentDTO converts a payment model
func ToPaymentDTO(payment models.Payment) dto.PaymentDTO {
	return dto.PaymentDTO{
		UUID:      payment.UUID.String(),
		OrderID:   payment.OrderID,
		Amount:    payment.Amount.StringFixed(2),
		Status:    payment.Status,
		Method:    payment.Method,
		CreatedAt: payment.CreatedAt.Format(time.RFC3339),
	}
}

// ToSaleDTO converts a sale model with its numbers and payment
func ToSaleDTO(sale models.Sale) dto.SaleDTO {
	d := dto.SaleDTO{
		UUID:       sale.UUID.String(),
		FinalPrice: sale.FinalPrice.StringFixed(2),
		Status:     sale.Status,
		CreatedAt:  sale.CreatedAt.Format(time.RFC3339),
	}
	if sale.Vendor != nil {
		vendorUUID := sale.Vendor.UUID.String()
		d.VendorUUID = &vendorUUID
	}
	d.Numbers = make([]dto.NumberDTO, 0, len(sale.Numbers))
	for _, number := range sale.Numbers {
		d.Numbers = append(d.Numbers, ToNumberDTO(number))
	}
	if sale.Payment != nil {
		payment := ToPaymentDTO(*sale.Payment)
		d.Payment = &payment
	}
	return d
}

// ToAdminDTO converts an admin model
func ToAdminDTO(admin models.Admin) dto.AdminDTO {
	return dto.AdminDTO{
		ID:        admin.ID,
		UUID:      admin.UUID.String(),
		Username:  admin.Username,
		IsActive:  admin.IsActive,
		CreatedAt: admin.CreatedAt.Format(time.RFC3339),
	}
}

// ToAdminSessionDTO builds the token pair payload for admin logins
func ToAdminSessionDTO(accessToken, refreshToken string) dto.AdminSessionDTO {
	return dto.AdminSessionDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    utils.AccessTokenTTLSeconds,
		CreatedAt:    utils.UTCNowRFC3339(),
	}
}
