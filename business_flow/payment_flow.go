// Package businessflow contains the core business logic and use cases for payment workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/numberkart/numberkart/app/dto"
	"github.com/numberkart/numberkart/app/services"
	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/repository"
	"github.com/numberkart/numberkart/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentFlow handles gateway settlement of sales
type PaymentFlow interface {
	Initiate(ctx context.Context, accountID uint, request *dto.InitiatePaymentRequest, metadata *ClientMetadata) (*dto.InitiatePaymentResponse, error)
	Callback(ctx context.Context, request *dto.PaymentCallbackRequest, metadata *ClientMetadata) (*dto.PaymentStatusResponse, error)
	Status(ctx context.Context, accountID uint, paymentUUID string) (*dto.PaymentStatusResponse, error)
}

// PaymentFlowImpl implements the payment business flow
type PaymentFlowImpl struct {
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	paymentRepo  repository.PaymentRepository
	numberRepo   repository.NumberRepository
	auditRepo    repository.AuditLogRepository
	gateway      services.PaymentGateway
	db           *gorm.DB
}

// NewPaymentFlow creates a new payment flow instance
func NewPaymentFlow(
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	numberRepo repository.NumberRepository,
	auditRepo repository.AuditLogRepository,
	gateway services.PaymentGateway,
	db *gorm.DB,
) PaymentFlow {
	return &PaymentFlowImpl{
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		paymentRepo:  paymentRepo,
		numberRepo:   numberRepo,
		auditRepo:    auditRepo,
		gateway:      gateway,
		db:           db,
	}
}

// Initiate registers a gateway order for a pending sale and persists
// the pending payment. Nothing is persisted when the gateway call
// fails.
func (pf *PaymentFlowImpl) Initiate(ctx context.Context, accountID uint, request *dto.InitiatePaymentRequest, metadata *ClientMetadata) (*dto.InitiatePaymentResponse, error) {
	customer, err := pf.customerRepo.ByAccountID(ctx, accountID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LOOKUP_FAILED", "Failed to lookup customer profile", err)
	}
	if customer == nil {
		return nil, NewBusinessError("CUSTOMER_PROFILE_REQUIRED", "Customer profile required", ErrCustomerProfileRequired)
	}

	sale, err := pf.saleRepo.ByUUID(ctx, request.SaleUUID)
	if err != nil {
		return nil, NewBusinessError("FETCH_SALE_FAILED", "Failed to fetch sale", err)
	}
	if sale == nil {
		return nil, NewBusinessError("SALE_NOT_FOUND", "Sale not found", ErrSaleNotFound)
	}
	if sale.CustomerID != customer.ID {
		return nil, NewBusinessError("SALE_NOT_OWNED", "Sale does not belong to this customer", ErrSaleNotOwned)
	}
	if !sale.IsPending() {
		return nil, NewBusinessError("SALE_ALREADY_FINALIZED", "Sale is already finalized", ErrSaleAlreadyFinalized)
	}

	existing, err := pf.paymentRepo.BySaleID(ctx, sale.ID)
	if err != nil {
		return nil, NewBusinessError("FETCH_PAYMENT_FAILED", "Failed to fetch payment", err)
	}
	if existing != nil {
		return nil, NewBusinessError("PAYMENT_ALREADY_EXISTS", "Payment already initiated for this sale", ErrPaymentAlreadyExists)
	}

	// Gateways charge in paise
	amountPaise := sale.FinalPrice.Mul(decimal.NewFromInt(utils.PaisePerRupee)).IntPart()

	order, err := pf.gateway.CreateOrder(ctx, amountPaise, utils.INRCurrency, sale.UUID.String())
	if err != nil {
		return nil, NewBusinessError("GATEWAY_ORDER_FAILED", "Payment gateway unavailable", fmt.Errorf("%w: %v", ErrPaymentGatewayUnavailable, err))
	}

	payment := &models.Payment{
		SaleID:    sale.ID,
		OrderID:   order.OrderID,
		Amount:    sale.FinalPrice,
		Status:    models.PaymentStatusPending,
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}
	if err := pf.paymentRepo.Save(ctx, payment); err != nil {
		return nil, NewBusinessError("SAVE_PAYMENT_FAILED", "Failed to persist payment", err)
	}

	msg := fmt.Sprintf("Payment initiated: order %s for sale %s", order.OrderID, sale.UUID)
	_ = pf.LogPaymentEvent(ctx, &accountID, models.AuditActionPaymentInitiated, msg, true, nil, metadata)

	return &dto.InitiatePaymentResponse{
		PaymentUUID: payment.UUID.String(),
		OrderID:     order.OrderID,
		Amount:      amountPaise,
		Currency:    utils.INRCurrency,
		KeyID:       pf.gateway.KeyID(),
	}, nil
}

// Callback settles a payment from the signed browser callback. A valid
// signature completes payment and sale in one transaction; an invalid
// one marks the payment failed. The signature is the proof of payment,
// gateway amounts are never re-compared here.
func (pf *PaymentFlowImpl) Callback(ctx context.Context, request *dto.PaymentCallbackRequest, metadata *ClientMetadata) (*dto.PaymentStatusResponse, error) {
	if request.RazorpayOrderID == "" {
		return nil, NewBusinessError("CALLBACK_VALIDATION_FAILED", "Callback validation failed", ErrOrderIDRequired)
	}

	payment, err := pf.paymentRepo.ByOrderID(ctx, request.RazorpayOrderID)
	if err != nil {
		return nil, NewBusinessError("FETCH_PAYMENT_FAILED", "Failed to fetch payment", err)
	}
	if payment == nil {
		return nil, NewBusinessError("PAYMENT_NOT_FOUND", "Payment not found", ErrPaymentNotFound)
	}
	if !payment.CanBeProcessed() {
		return nil, NewBusinessError("PAYMENT_ALREADY_PROCESSED", "Payment already processed", ErrPaymentAlreadyProcessed)
	}

	// A resolvable order with missing callback fields is a terminal
	// gateway failure, not a retriable validation miss.
	if request.RazorpayPaymentID == "" || request.RazorpaySignature == "" {
		failErr := repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
			payment.Status = models.PaymentStatusFailed
			payment.FailureReason = utils.ToPtr("missing required gateway parameters")
			return pf.paymentRepo.Update(ctx, payment)
		})
		if failErr != nil {
			return nil, NewBusinessError("SAVE_PAYMENT_FAILED", "Failed to persist payment", failErr)
		}

		errMsg := fmt.Sprintf("Payment failed: incomplete callback for order %s", request.RazorpayOrderID)
		_ = pf.LogPaymentEvent(ctx, nil, models.AuditActionPaymentFailed, errMsg, false, &errMsg, metadata)

		missing := ErrPaymentIDRequired
		if request.RazorpayPaymentID != "" {
			missing = ErrSignatureRequired
		}
		return nil, NewBusinessError("CALLBACK_VALIDATION_FAILED", "Callback validation failed", missing)
	}

	if !pf.gateway.VerifySignature(request.RazorpayOrderID, request.RazorpayPaymentID, request.RazorpaySignature) {
		failErr := repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
			payment.Status = models.PaymentStatusFailed
			payment.GatewayPaymentID = &request.RazorpayPaymentID
			payment.FailureReason = utils.ToPtr("signature verification failed")
			return pf.paymentRepo.Update(ctx, payment)
		})
		if failErr != nil {
			return nil, NewBusinessError("SAVE_PAYMENT_FAILED", "Failed to persist payment", failErr)
		}

		errMsg := fmt.Sprintf("Payment failed: signature mismatch for order %s", request.RazorpayOrderID)
		_ = pf.LogPaymentEvent(ctx, nil, models.AuditActionPaymentFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("SIGNATURE_VERIFICATION_FAILED", "Signature verification failed", ErrSignatureVerificationFailed)
	}

	// Method is cosmetic; a fetch failure never blocks settlement.
	method := "unknown"
	if gp, err := pf.gateway.FetchPayment(ctx, request.RazorpayPaymentID); err == nil && gp != nil && gp.Method != "" {
		method = gp.Method
	}

	var sale *models.Sale
	err = repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		sale, err = pf.saleRepo.ByID(ctx, payment.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return ErrSaleNotFound
		}

		payment.Status = models.PaymentStatusCompleted
		payment.GatewayPaymentID = &request.RazorpayPaymentID
		payment.Signature = &request.RazorpaySignature
		payment.Method = &method
		if err := pf.paymentRepo.Update(ctx, payment); err != nil {
			return err
		}

		sale.Status = models.SaleStatusCompleted
		if err := pf.saleRepo.Update(ctx, sale); err != nil {
			return err
		}

		// Purchase reserved the numbers on hold; settlement moves every
		// one of them to its terminal sold status.
		full, err := pf.saleRepo.ByUUID(ctx, sale.UUID.String())
		if err != nil {
			return err
		}
		if full != nil && len(full.Numbers) > 0 {
			ids := make([]uint, 0, len(full.Numbers))
			for _, n := range full.Numbers {
				ids = append(ids, n.ID)
			}
			if err := pf.numberRepo.SettleSold(ctx, ids); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Payment settlement failed: %s", err.Error())
		_ = pf.LogPaymentEvent(ctx, nil, models.AuditActionPaymentFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("PAYMENT_SETTLEMENT_FAILED", "Payment settlement failed", err)
	}

	msg := fmt.Sprintf("Payment completed: order %s", payment.OrderID)
	_ = pf.LogPaymentEvent(ctx, nil, models.AuditActionPaymentCompleted, msg, true, nil, metadata)

	return &dto.PaymentStatusResponse{
		PaymentStatus: payment.Status,
		SaleStatus:    sale.Status,
		OrderID:       payment.OrderID,
		Amount:        payment.Amount.StringFixed(2),
		Method:        payment.Method,
	}, nil
}

// Status returns the settlement state of one of the caller's payments
func (pf *PaymentFlowImpl) Status(ctx context.Context, accountID uint, paymentUUID string) (*dto.PaymentStatusResponse, error) {
	customer, err := pf.customerRepo.ByAccountID(ctx, accountID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LOOKUP_FAILED", "Failed to lookup customer profile", err)
	}
	if customer == nil {
		return nil, NewBusinessError("CUSTOMER_PROFILE_REQUIRED", "Customer profile required", ErrCustomerProfileRequired)
	}

	payment, err := pf.paymentRepo.ByUUID(ctx, paymentUUID)
	if err != nil {
		return nil, NewBusinessError("FETCH_PAYMENT_FAILED", "Failed to fetch payment", err)
	}
	if payment == nil {
		return nil, NewBusinessError("PAYMENT_NOT_FOUND", "Payment not found", ErrPaymentNotFound)
	}

	sale, err := pf.saleRepo.ByID(ctx, payment.SaleID)
	if err != nil {
		return nil, NewBusinessError("FETCH_SALE_FAILED", "Failed to fetch sale", err)
	}
	if sale == nil || sale.CustomerID != customer.ID {
		return nil, NewBusinessError("SALE_NOT_OWNED", "Sale does not belong to this customer", ErrSaleNotOwned)
	}

	return &dto.PaymentStatusResponse{
		PaymentStatus: payment.Status,
		SaleStatus:    sale.Status,
		OrderID:       payment.OrderID,
		Amount:        payment.Amount.StringFixed(2),
		Method:        payment.Method,
	}, nil
}

// Private helper methods

func (pf *PaymentFlowImpl) LogPaymentEvent(ctx context.Context, accountID *uint, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		AccountID:    accountID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errMsg,
	}

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		requestIDStr, ok := requestID.(string)
		if ok {
			audit.RequestID = &requestIDStr
		}
	}

	return pf.auditRepo.Save(ctx, audit)
}
