// Package models contains domain entities and business models for the marketplace
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment status lifecycle
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment tracks gateway settlement of a sale. SaleID carries a unique
// index so each sale has at most one payment. OrderID is assigned by
// the gateway at initiation; GatewayPaymentID, Signature and Method are
// captured at callback.
type Payment struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_payments_uuid;default:gen_random_uuid()" json:"uuid"`

	SaleID uint `gorm:"not null;uniqueIndex:uk_payments_sale_id" json:"sale_id"`
	Sale   Sale `gorm:"foreignKey:SaleID;references:ID" json:"sale,omitempty"`

	OrderID          string  `gorm:"size:100;not null;uniqueIndex:uk_payments_order_id" json:"order_id"`
	GatewayPaymentID *string `gorm:"size:100;index:idx_payments_gateway_payment_id" json:"gateway_payment_id,omitempty"`
	Signature        *string `gorm:"size:255" json:"-"`

	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status string          `gorm:"size:20;not null;default:'pending';index:idx_payments_status" json:"status"`
	Method *string         `gorm:"size:50" json:"method,omitempty"`

	FailureReason *string `gorm:"type:text" json:"failure_reason,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_payments_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentFilter represents filter criteria for payment queries
type PaymentFilter struct {
	ID               *uint
	UUID             *uuid.UUID
	SaleID           *uint
	OrderID          *string
	GatewayPaymentID *string
	Status           *string
	CreatedAfter     *time.Time
	CreatedBefore    *time.Time
}

func (p *Payment) IsFinal() bool {
	return p.Status == PaymentStatusCompleted ||
		p.Status == PaymentStatusFailed ||
		p.Status == PaymentStatusRefunded
}

func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}

// CanBeProcessed reports whether a gateway callback may still settle
// this payment.
func (p *Payment) CanBeProcessed() bool {
	return p.IsPending()
}
