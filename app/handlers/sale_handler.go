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

// SaleHandlerInterface defines the contract for customer and vendor sale handlers
type SaleHandlerInterface interface {
	Purchase(c fiber.Ctx) error
	GetSale(c fiber.Ctx) error
	ListMySales(c fiber.Ctx) error
	ListVendorSales(c fiber.Ctx) error
}

// SaleHandler handles purchase and sale history HTTP requests
type SaleHandler struct {
	saleFlow  businessflow.SaleFlow
	validator *validator.Validate
}

func (h *SaleHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SaleHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleFlow businessflow.SaleFlow) *SaleHandler {
	return &SaleHandler{
		saleFlow:  saleFlow,
		validator: newValidator(),
	}
}

// Purchase creates a pending sale over the selected numbers
// @Summary Purchase Numbers
// @Description Create a pending sale for up to 50 numbers; numbers are reserved atomically
// @Tags Sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PurchaseRequest true "Numbers to purchase"
// @Success 201 {object} dto.APIResponse{data=dto.SaleDTO} "Sale created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Customer profile required"
// @Failure 404 {object} dto.APIResponse "Number not found"
// @Failure 409 {object} dto.APIResponse "Number already sold or purchase conflict"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/sales/purchase [post]
func (h *SaleHandler) Purchase(c fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account ID not found in context", "MISSING_ACCOUNT_ID", nil)
	}

	var req dto.PurchaseRequest
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

	result, err := h.saleFlow.Purchase(h.createRequestContext(c, "/api/v1/sales/purchase"), accountID, &req, metadata)
	if err != nil {
		if businessflow.IsCustomerProfileRequired(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Customer profile required", "CUSTOMER_PROFILE_REQUIRED", nil)
		}
		if businessflow.IsEmptyPurchase(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "At least one number is required", "EMPTY_PURCHASE", nil)
		}
		if businessflow.IsTooManyNumbers(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Too many numbers in one purchase", "TOO_MANY_NUMBERS", nil)
		}
		if businessflow.IsInvalidNumberIDs(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "One or more number IDs are invalid", "INVALID_NUMBER_IDS", nil)
		}
		if businessflow.IsNumberAlreadySold(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "One or more numbers are already sold", "NUMBER_SOLD", nil)
		}
		if businessflow.IsNumberNotApproved(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "One or more numbers are not available for purchase", "NUMBER_NOT_AVAILABLE", nil)
		}
		if businessflow.IsPurchaseConflict(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Numbers were taken by a concurrent purchase, try again", "PURCHASE_CONFLICT", nil)
		}

		log.Println("Purchase failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Purchase failed", "PURCHASE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Sale created, proceed to payment", result)
}

// GetSale returns one sale owned by the caller
// @Summary Get Sale
// @Description Get one of the caller's sales with numbers and payment state
// @Tags Sales
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Sale UUID"
// @Success 200 {object} dto.APIResponse{data=dto.SaleDTO} "Sale retrieved"
// @Failure 403 {object} dto.APIResponse "Sale belongs to another customer"
// @Failure 404 {object} dto.APIResponse "Sale not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/sales/{uuid} [get]
func (h *SaleHandler) GetSale(c fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account ID not found in context", "MISSING_ACCOUNT_ID", nil)
	}

	saleUUID := c.Params("uuid")
	if saleUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Sale UUID is required", "MISSING_SALE_UUID", nil)
	}

	result, err := h.saleFlow.GetSale(h.createRequestContext(c, "/api/v1/sales/"+saleUUID), accountID, saleUUID)
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

		log.Println("Sale fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load sale", "SALE_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Sale retrieved", result)
}

// ListMySales returns the caller's purchase history
// @Summary My Purchases
// @Description List the caller's purchases, newest first
// @Tags Sales
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListSalesResponse} "Sales retrieved"
// @Failure 403 {object} dto.APIResponse "Customer profile required"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/sales [get]
func (h *SaleHandler) ListMySales(c fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account ID not found in context", "MISSING_ACCOUNT_ID", nil)
	}

	page, limit := parsePagination(c)

	result, err := h.saleFlow.ListCustomerSales(h.createRequestContext(c, "/api/v1/sales"), accountID, page, limit)
	if err != nil {
		if businessflow.IsCustomerProfileRequired(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Customer profile required", "CUSTOMER_PROFILE_REQUIRED", nil)
		}

		log.Println("Sale listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load sales", "SALE_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Sales retrieved", result)
}

// ListVendorSales returns sales of the caller's numbers
// @Summary Vendor Sales
// @Description List sales that include the vendor's numbers, newest first
// @Tags Sales
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListSalesResponse} "Sales retrieved"
// @Failure 403 {object} dto.APIResponse "Vendor profile required"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/vendor/sales [get]
func (h *SaleHandler) ListVendorSales(c fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account ID not found in context", "MISSING_ACCOUNT_ID", nil)
	}

	page, limit := parsePagination(c)

	result, err := h.saleFlow.ListVendorSales(h.createRequestContext(c, "/api/v1/vendor/sales"), accountID, page, limit)
	if err != nil {
		if businessflow.IsVendorProfileRequired(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Vendor profile required", "VENDOR_PROFILE_REQUIRED", nil)
		}

		log.Println("Vendor sale listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load sales", "SALE_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Sales retrieved", result)
}

func (h *SaleHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *SaleHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)
	return ctx
}
