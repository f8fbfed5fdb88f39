// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/numberkart/numberkart/app/dto"
	businessflow "github.com/numberkart/numberkart/business_flow"
)

// NumberHandlerInterface defines the contract for public and vendor number handlers
type NumberHandlerInterface interface {
	RandomListing(c fiber.Ctx) error
	ListNumbers(c fiber.Ctx) error
	GetNumber(c fiber.Ctx) error
	CreateNumber(c fiber.Ctx) error
	ListVendorNumbers(c fiber.Ctx) error
	UpdateNumber(c fiber.Ctx) error
	DeleteNumber(c fiber.Ctx) error
}

// NumberHandler handles public browsing and vendor listing management
type NumberHandler struct {
	numberFlow businessflow.NumberFlow
	validator  *validator.Validate
}

func (h *NumberHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *NumberHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewNumberHandler creates a new number handler
func NewNumberHandler(numberFlow businessflow.NumberFlow) *NumberHandler {
	return &NumberHandler{
		numberFlow: numberFlow,
		validator:  newValidator(),
	}
}

// RandomListing returns a cached random sample of available numbers
// @Summary Random Numbers
// @Description Get a random sample of available numbers for the landing page
// @Tags Numbers
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.NumberDTO} "Random numbers"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/numbers/random [get]
func (h *NumberHandler) RandomListing(c fiber.Ctx) error {
	result, err := h.numberFlow.RandomListing(h.createRequestContext(c, "/api/v1/numbers/random"))
	if err != nil {
		log.Println("Random listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load numbers", "RANDOM_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Random numbers retrieved", result)
}

// ListNumbers handles public browsing with filters and pagination
// @Summary Browse Numbers
// @Description Browse approved, unsold numbers with digit and price filters
// @Tags Numbers
// @Produce json
// @Param prefix query string false "Digits the number must start with"
// @Param suffix query string false "Digits the number must end with"
// @Param contains query string false "Digits the number must contain"
// @Param min_price query int false "Minimum price in rupees"
// @Param max_price query int false "Maximum price in rupees"
// @Param category query string false "Category (REG, SILVER, GOLD, PLATINUM)"
// @Param operator query string false "Current operator"
// @Param circle query string false "Telecom circle"
// @Param port_status query string false "Port status (RTP, non-RTP)"
// @Param pattern query string false "Pattern name"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListNumbersResponse} "Numbers retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid filters"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/numbers [get]
func (h *NumberHandler) ListNumbers(c fiber.Ctx) error {
	req := dto.ListNumbersRequest{
		Prefix:     c.Query("prefix"),
		Suffix:     c.Query("suffix"),
		Contains:   c.Query("contains"),
		Category:   c.Query("category"),
		Operator:   c.Query("operator"),
		Circle:     c.Query("circle"),
		PortStatus: c.Query("port_status"),
		Pattern:    c.Query("pattern"),
	}
	req.MinPrice, _ = strconv.ParseInt(c.Query("min_price", "0"), 10, 64)
	req.MaxPrice, _ = strconv.ParseInt(c.Query("max_price", "0"), 10, 64)
	req.Page, req.Limit = parsePagination(c)

	// Validate filters
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.numberFlow.ListNumbers(h.createRequestContext(c, "/api/v1/numbers"), &req)
	if err != nil {
		if businessflow.IsPatternNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Pattern not found", "PATTERN_NOT_FOUND", nil)
		}

		log.Println("Number listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load numbers", "NUMBER_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Numbers retrieved", result)
}

// GetNumber returns one approved listing by UUID
// @Summary Get Number
// @Description Get a single approved number listing
// @Tags Numbers
// @Produce json
// @Param uuid path string true "Number UUID"
// @Success 200 {object} dto.APIResponse{data=dto.NumberDTO} "Number retrieved"
// @Failure 404 {object} dto.APIResponse "Number not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/numbers/{uuid} [get]
func (h *NumberHandler) GetNumber(c fiber.Ctx) error {
	numberUUID := c.Params("uuid")
	if numberUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Number UUID is required", "MISSING_NUMBER_UUID", nil)
	}

	result, err := h.numberFlow.GetNumber(h.createRequestContext(c, "/api/v1/numbers/"+numberUUID), numberUUID)
	if err != nil {
		if businessflow.IsNumberNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Number not found", "NUMBER_NOT_FOUND", nil)
		}

		log.Println("Number fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load number", "NUMBER_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Number retrieved", result)
}

// CreateNumber handles a vendor listing a new number
// @Summary List a Number
// @Description Create a new number listing (starts unapproved)
// @Tags Vendor Numbers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateNumberRequest true "Number data"
// @Success 201 {object} dto.APIResponse{data=dto.NumberDTO} "Number listed"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Vendor profile required or not approved"
// @Failure 409 {object} dto.APIResponse "Number already listed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/vendor/numbers [post]
func (h *NumberHandler) CreateNumber(c fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account ID not found in context", "MISSING_ACCOUNT_ID", nil)
	}

	var req dto.CreateNumberRequest
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

	result, err := h.numberFlow.CreateNumber(h.createRequestContext(c, "/api/v1/vendor/numbers"), accountID, &req)
	if err != nil {
		if businessflow.IsVendorProfileRequired(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Vendor profile required", "VENDOR_PROFILE_REQUIRED", nil)
		}
		if businessflow.IsVendorNotApproved(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Vendor is not approved yet", "VENDOR_NOT_APPROVED", nil)
		}
		if businessflow.IsNumberAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Number is already listed", "NUMBER_EXISTS", nil)
		}
		if businessflow.IsPatternNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Pattern not found", "PATTERN_NOT_FOUND", nil)
		}

		log.Println("Number creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Number creation failed", "NUMBER_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Number listed, pending approval", result)
}

// ListVendorNumbers returns the caller's own listings
// @Summary My Numbers
// @Description List the vendor's own numbers, including unapproved and sold
// @Tags Vendor Numbers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListNumbersResponse} "Numbers retrieved"
// @Failure 403 {object} dto.APIResponse "Vendor profile required"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/vendor/numbers [get]
func (h *NumberHandler) ListVendorNumbers(c fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account ID not found in context", "MISSING_ACCOUNT_ID", nil)
	}

	page, limit := parsePagination(c)

	result, err := h.numberFlow.ListVendorNumbers(h.createRequestContext(c, "/api/v1/vendor/numbers"), accountID, page, limit)
	if err != nil {
		if businessflow.IsVendorProfileRequired(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Vendor profile required", "VENDOR_PROFILE_REQUIRED", nil)
		}

		log.Println("Vendor number listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load numbers", "NUMBER_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Numbers retrieved", result)
}

// UpdateNumber handles a vendor editing an unsold listing
// @Summary Update Number
// @Description Update price, discount, pattern or metadata of an unsold listing
// @Tags Vendor Numbers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Number UUID"
// @Param request body dto.UpdateNumberRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.NumberDTO} "Number updated"
// @Failure 403 {object} dto.APIResponse "Not the owner or number sold"
// @Failure 404 {object} dto.APIResponse "Number not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/vendor/numbers/{uuid} [put]
func (h *NumberHandler) UpdateNumber(c fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account ID not found in context", "MISSING_ACCOUNT_ID", nil)
	}

	numberUUID := c.Params("uuid")
	if numberUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Number UUID is required", "MISSING_NUMBER_UUID", nil)
	}

	var req dto.UpdateNumberRequest
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

	result, err := h.numberFlow.UpdateNumber(h.createRequestContext(c, "/api/v1/vendor/numbers/"+numberUUID), accountID, numberUUID, &req)
	if err != nil {
		return h.numberUpdateError(c, err, "Number update failed", "NUMBER_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Number updated", result)
}

// DeleteNumber handles a vendor removing an unsold listing
// @Summary Delete Number
// @Description Delete an unsold listing owned by the caller
// @Tags Vendor Numbers
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Number UUID"
// @Success 200 {object} dto.APIResponse "Number deleted"
// @Failure 403 {object} dto.APIResponse "Not the owner or number sold"
// @Failure 404 {object} dto.APIResponse "Number not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/vendor/numbers/{uuid} [delete]
func (h *NumberHandler) DeleteNumber(c fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account ID not found in context", "MISSING_ACCOUNT_ID", nil)
	}

	numberUUID := c.Params("uuid")
	if numberUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Number UUID is required", "MISSING_NUMBER_UUID", nil)
	}

	if err := h.numberFlow.DeleteNumber(h.createRequestContext(c, "/api/v1/vendor/numbers/"+numberUUID), accountID, numberUUID); err != nil {
		return h.numberUpdateError(c, err, "Number deletion failed", "NUMBER_DELETION_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Number deleted", nil)
}

// numberUpdateError maps the shared vendor mutation failures to HTTP statuses
func (h *NumberHandler) numberUpdateError(c fiber.Ctx, err error, message, code string) error {
	if businessflow.IsVendorProfileRequired(err) {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Vendor profile required", "VENDOR_PROFILE_REQUIRED", nil)
	}
	if businessflow.IsNumberNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Number not found", "NUMBER_NOT_FOUND", nil)
	}
	if businessflow.IsNumberNotOwned(err) {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Number belongs to another vendor", "NUMBER_NOT_OWNED", nil)
	}
	if businessflow.IsNumberAlreadySold(err) {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Sold numbers cannot be changed", "NUMBER_SOLD", nil)
	}
	if businessflow.IsPatternNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Pattern not found", "PATTERN_NOT_FOUND", nil)
	}

	log.Println(message, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
}

// parsePagination reads page/limit query params with server-side defaults
func parsePagination(c fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *NumberHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *NumberHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)
	return ctx
}
