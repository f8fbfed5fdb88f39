// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/numberkart/numberkart/app/dto"
	businessflow "github.com/numberkart/numberkart/business_flow"
)

// PaymentHandlerInterface defines the contract for payment handlers
type PaymentHandlerInterface interface {
	Initiate(c fiber.Ctx) error
	Callback(c fiber.Ctx) error
	Status(c fiber.Ctx) error
}

// PaymentHandler handles gateway settlement HTTP requests
type PaymentHandler struct {
	paymentFlow businessflow.PaymentFlow
	validator   *validator.Validate
}

func (h *PaymentHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *PaymentHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentFlow businessflow.PaymentFlow) *PaymentHandler {
	return &PaymentHandler{
		paymentFlow: paymentFlow,
		validator:   newValidator(),
	}
}

// Initiate creates a gateway order for a pending sale
// @Summary Initiate Payment
// @Description Create a gateway order for a pending sale and return checkout parameters
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InitiatePaymentRequest true "Sale to pay for"
// @Success 200 {object} dto.APIResponse{data=dto.InitiatePaymentResponse} "Order created"
// @Failure 403 {object} dto.APIResponse "Sale belongs to another customer"
// @Failure 404 {object} dto.APIResponse "Sale not found"
// @Failure 409 {object} dto.APIResponse "Sale finalized or payment already started"
// @Failure 502 {object} dto.APIResponse "Payment gateway unavailable"
// @Router /api/v1/payments/initiate [post]
func (h *PaymentHandler) Initiate(c fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account ID not found in context", "MISSING_ACCOUNT_ID", nil)
	}

	var req dto.InitiatePaymentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.paymentFlow.Initiate(h.createRequestContext(c, "/api/v1/payments/initiate"), accountID, &req, metadata)
	if err != nil {
		if businessflow.IsCustomerProfileRequired(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Customer profile required", "CUSTOMER_PROFILE_REQUIRED", nil)
		}
		if businessflow.IsSaleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Sale not found", "SALE_NOT_FOUND", nil)
		}
		if businessflow.IsSaleNotOwned(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Sale belongs to another customer", "SALE_NOT_OWNED", nil)
		}
		if businessflow.IsSaleAlreadyFinalized(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Sale is already finalized", "SALE_FINALIZED", nil)
		}
		if businessflow.IsPaymentAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Payment already started for this sale", "PAYMENT_EXISTS", nil)
		}
		if businessflow.IsPaymentGatewayUnavailable(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Payment gateway unavailable, try again later", "GATEWAY_UNAVAILABLE", nil)
		}

		log.Println("Payment initiation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Payment initiation failed", "PAYMENT_INITIATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Order created", result)
}

// Callback settles a payment after checkout using the gateway signature
// @Summary Payment Callback
// @Description Verify the gateway signature and finalize the payment and sale
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body dto.PaymentCallbackRequest true "Gateway callback parameters"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentStatusResponse} "Payment completed"
// @Failure 400 {object} dto.APIResponse "Missing parameters or signature verification failed"
// @Failure 404 {object} dto.APIResponse "Payment not found"
// @Failure 409 {object} dto.APIResponse "Payment already processed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/payments/callback [post]
func (h *PaymentHandler) Callback(c fiber.Ctx) error {
	var req dto.PaymentCallbackRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.paymentFlow.Callback(h.createRequestContext(c, "/api/v1/payments/callback"), &req, metadata)
	if err != nil {
		if businessflow.IsOrderIDRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "razorpay_order_id is required", "MISSING_ORDER_ID", nil)
		}
		if businessflow.IsPaymentIDRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "razorpay_payment_id is required", "MISSING_PAYMENT_ID", nil)
		}
		if businessflow.IsSignatureRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "razorpay_signature is required", "MISSING_SIGNATURE", nil)
		}
		if businessflow.IsPaymentNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Payment not found", "PAYMENT_NOT_FOUND", nil)
		}
		if businessflow.IsPaymentAlreadyProcessed(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Payment is already processed", "PAYMENT_ALREADY_PROCESSED", nil)
		}
		if businessflow.IsSignatureVerificationFailed(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Signature verification failed", "SIGNATURE_VERIFICATION_FAILED", nil)
		}

		log.Println("Payment callback failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Payment processing failed", "PAYMENT_PROCESSING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Payment completed", result)
}

// Status returns the settlement state of one payment
// @Summary Payment Status
// @Description Get the payment and sale status for one of the caller's payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Payment UUID"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentStatusResponse} "Status retrieved"
// @Failure 403 {object} dto.APIResponse "Payment belongs to another customer"
// @Failure 404 {object} dto.APIResponse "Payment not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/payments/{uuid}/status [get]
func (h *PaymentHandler) Status(c fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account ID not found in context", "MISSING_ACCOUNT_ID", nil)
	}

	paymentUUID := c.Params("uuid")
	if paymentUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Payment UUID is required", "MISSING_PAYMENT_UUID", nil)
	}

	result, err := h.paymentFlow.Status(h.createRequestContext(c, "/api/v1/payments/"+paymentUUID+"/status"), accountID, paymentUUID)
	if err != nil {
		if businessflow.IsCustomerProfileRequired(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Customer profile required", "CUSTOMER_PROFILE_REQUIRED", nil)
		}
		if businessflow.IsPaymentNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Payment not found", "PAYMENT_NOT_FOUND", nil)
		}
		if businessflow.IsSaleNotOwned(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Payment belongs to another customer", "PAYMENT_NOT_OWNED", nil)
		}

		log.Println("Payment status fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load payment status", "PAYMENT_STATUS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Status retrieved", result)
}

func (h *PaymentHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *PaymentHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)
	return ctx
}
