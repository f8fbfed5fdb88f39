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

// NumberAdminHandlerInterface defines the contract for admin number handlers
type NumberAdminHandlerInterface interface {
	CreateNumber(c fiber.Ctx) error
	ListUnapproved(c fiber.Ctx) error
	ApproveNumber(c fiber.Ctx) error
	RejectNumber(c fiber.Ctx) error
	UpdateNumber(c fiber.Ctx) error
	DeleteNumber(c fiber.Ctx) error
}

// NumberAdminHandler handles admin inventory management
type NumberAdminHandler struct {
	numberFlow businessflow.NumberFlow
	validator  *validator.Validate
}

func (h *NumberAdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *NumberAdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewNumberAdminHandler creates a new admin number handler
func NewNumberAdminHandler(numberFlow businessflow.NumberFlow) *NumberAdminHandler {
	return &NumberAdminHandler{
		numberFlow: numberFlow,
		validator:  newValidator(),
	}
}

// CreateNumber handles an admin listing a number on behalf of a vendor
// @Summary Admin Create Number
// @Description Create a pre-approved listing for a vendor, with optional purchase price for commission pricing
// @Tags Admin Numbers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AdminCreateNumberRequest true "Number data"
// @Success 201 {object} dto.APIResponse{data=dto.NumberDTO} "Number created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Vendor not found"
// @Failure 409 {object} dto.APIResponse "Number already listed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/numbers [post]
func (h *NumberAdminHandler) CreateNumber(c fiber.Ctx) error {
	adminID, ok := c.Locals("admin_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Admin ID not found in context", "MISSING_ADMIN_ID", nil)
	}

	var req dto.AdminCreateNumberRequest
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

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.numberFlow.AdminCreateNumber(h.createRequestContext(c, "/api/v1/admin/numbers"), adminID, &req, metadata)
	if err != nil {
		if businessflow.IsVendorNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Vendor not found", "VENDOR_NOT_FOUND", nil)
		}
		if businessflow.IsNumberAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Number is already listed", "NUMBER_EXISTS", nil)
		}
		if businessflow.IsPatternNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Pattern not found", "PATTERN_NOT_FOUND", nil)
		}

		log.Println("Admin number creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Number creation failed", "NUMBER_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Number created", result)
}

// ListUnapproved returns the approval queue
// @Summary Approval Queue
// @Description List numbers waiting for approval
// @Tags Admin Numbers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListNumbersResponse} "Numbers retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/numbers/unapproved [get]
func (h *NumberAdminHandler) ListUnapproved(c fiber.Ctx) error {
	page, limit := parsePagination(c)

	result, err := h.numberFlow.AdminListUnapproved(h.createRequestContext(c, "/api/v1/admin/numbers/unapproved"), page, limit)
	if err != nil {
		log.Println("Approval queue listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load approval queue", "APPROVAL_QUEUE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Numbers retrieved", result)
}

// ApproveNumber makes a pending listing publicly visible
// @Summary Approve Number
// @Description Approve a pending listing; commission pricing may adjust the price
// @Tags Admin Numbers
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Number UUID"
// @Success 200 {object} dto.APIResponse{data=dto.NumberDTO} "Number approved"
// @Failure 404 {object} dto.APIResponse "Number not found"
// @Failure 409 {object} dto.APIResponse "Number already approved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/numbers/{uuid}/approve [post]
func (h *NumberAdminHandler) ApproveNumber(c fiber.Ctx) error {
	adminID, ok := c.Locals("admin_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Admin ID not found in context", "MISSING_ADMIN_ID", nil)
	}

	numberUUID := c.Params("uuid")
	if numberUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Number UUID is required", "MISSING_NUMBER_UUID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.numberFlow.AdminApproveNumber(h.createRequestContext(c, "/api/v1/admin/numbers/"+numberUUID+"/approve"), adminID, numberUUID, metadata)
	if err != nil {
		if businessflow.IsNumberNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Number not found", "NUMBER_NOT_FOUND", nil)
		}
		if businessflow.IsNumberAlreadyApproved(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Number is already approved", "NUMBER_ALREADY_APPROVED", nil)
		}

		log.Println("Number approval failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Number approval failed", "NUMBER_APPROVAL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Number approved", result)
}

// RejectNumber removes a pending listing
// @Summary Reject Number
// @Description Reject and delete an unapproved listing
// @Tags Admin Numbers
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Number UUID"
// @Success 200 {object} dto.APIResponse "Number rejected"
// @Failure 404 {object} dto.APIResponse "Number not found"
// @Failure 409 {object} dto.APIResponse "Number already sold"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/numbers/{uuid}/reject [post]
func (h *NumberAdminHandler) RejectNumber(c fiber.Ctx) error {
	adminID, ok := c.Locals("admin_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Admin ID not found in context", "MISSING_ADMIN_ID", nil)
	}

	numberUUID := c.Params("uuid")
	if numberUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Number UUID is required", "MISSING_NUMBER_UUID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	if err := h.numberFlow.AdminRejectNumber(h.createRequestContext(c, "/api/v1/admin/numbers/"+numberUUID+"/reject"), adminID, numberUUID, metadata); err != nil {
		if businessflow.IsNumberNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Number not found", "NUMBER_NOT_FOUND", nil)
		}
		if businessflow.IsNumberAlreadySold(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Sold numbers cannot be rejected", "NUMBER_SOLD", nil)
		}

		log.Println("Number rejection failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Number rejection failed", "NUMBER_REJECTION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Number rejected", nil)
}

// UpdateNumber handles an admin editing any listing
// @Summary Admin Update Number
// @Description Update any unsold listing regardless of owner
// @Tags Admin Numbers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Number UUID"
// @Param request body dto.UpdateNumberRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.NumberDTO} "Number updated"
// @Failure 404 {object} dto.APIResponse "Number not found"
// @Failure 409 {object} dto.APIResponse "Number already sold"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/numbers/{uuid} [put]
func (h *NumberAdminHandler) UpdateNumber(c fiber.Ctx) error {
	adminID, ok := c.Locals("admin_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Admin ID not found in context", "MISSING_ADMIN_ID", nil)
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

	result, err := h.numberFlow.AdminUpdateNumber(h.createRequestContext(c, "/api/v1/admin/numbers/"+numberUUID), adminID, numberUUID, &req)
	if err != nil {
		if businessflow.IsNumberNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Number not found", "NUMBER_NOT_FOUND", nil)
		}
		if businessflow.IsNumberAlreadySold(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Sold numbers cannot be changed", "NUMBER_SOLD", nil)
		}
		if businessflow.IsPatternNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Pattern not found", "PATTERN_NOT_FOUND", nil)
		}

		log.Println("Admin number update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Number update failed", "NUMBER_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Number updated", result)
}

// DeleteNumber handles an admin removing any unsold listing
// @Summary Admin Delete Number
// @Description Delete any unsold listing regardless of owner
// @Tags Admin Numbers
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Number UUID"
// @Success 200 {object} dto.APIResponse "Number deleted"
// @Failure 404 {object} dto.APIResponse "Number not found"
// @Failure 409 {object} dto.APIResponse "Number already sold"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/numbers/{uuid} [delete]
func (h *NumberAdminHandler) DeleteNumber(c fiber.Ctx) error {
	adminID, ok := c.Locals("admin_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Admin ID not found in context", "MISSING_ADMIN_ID", nil)
	}

	numberUUID := c.Params("uuid")
	if numberUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Number UUID is required", "MISSING_NUMBER_UUID", nil)
	}

	if err := h.numberFlow.AdminDeleteNumber(h.createRequestContext(c, "/api/v1/admin/numbers/"+numberUUID), adminID, numberUUID); err != nil {
		if businessflow.IsNumberNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Number not found", "NUMBER_NOT_FOUND", nil)
		}
		if businessflow.IsNumberAlreadySold(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Sold numbers cannot be deleted", "NUMBER_SOLD", nil)
		}

		log.Println("Admin number deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Number deletion failed", "NUMBER_DELETION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Number deleted", nil)
}

func (h *NumberAdminHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *NumberAdminHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)
	return ctx
}
