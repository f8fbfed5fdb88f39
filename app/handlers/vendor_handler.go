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

// VendorHandlerInterface defines the contract for vendor profile and admin vendor handlers
type VendorHandlerInterface interface {
	UpdateVendorProfile(c fiber.Ctx) error
	AdminListVendors(c fiber.Ctx) error
	AdminApproveVendor(c fiber.Ctx) error
}

// VendorHandler handles vendor profile updates and admin vendor management
type VendorHandler struct {
	vendorFlow businessflow.VendorFlow
	validator  *validator.Validate
}

func (h *VendorHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *VendorHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(vendorFlow businessflow.VendorFlow) *VendorHandler {
	return &VendorHandler{
		vendorFlow: vendorFlow,
		validator:  newValidator(),
	}
}

// UpdateVendorProfile changes the caller's business details
// @Summary Update Vendor Profile
// @Description Update business name, GST and address; approval state is untouched
// @Tags Vendor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateVendorRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.VendorDTO} "Profile updated"
// @Failure 403 {object} dto.APIResponse "Vendor profile required"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/vendor/profile [put]
func (h *VendorHandler) UpdateVendorProfile(c fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account ID not found in context", "MISSING_ACCOUNT_ID", nil)
	}

	var req dto.UpdateVendorRequest
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

	result, err := h.vendorFlow.UpdateVendorProfile(h.createRequestContext(c, "/api/v1/vendor/profile"), accountID, &req)
	if err != nil {
		if businessflow.IsVendorProfileRequired(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Vendor profile required", "VENDOR_PROFILE_REQUIRED", nil)
		}

		log.Println("Vendor profile update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Vendor profile update failed", "VENDOR_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Vendor profile updated", result)
}

// AdminListVendors returns vendors with an optional approval filter
// @Summary Admin List Vendors
// @Description List vendors, optionally filtered by approval state
// @Tags Admin Vendors
// @Produce json
// @Security BearerAuth
// @Param approved query bool false "Filter by approval state"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListVendorsResponse} "Vendors retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/vendors [get]
func (h *VendorHandler) AdminListVendors(c fiber.Ctx) error {
	var approved *bool
	switch c.Query("approved") {
	case "true":
		v := true
		approved = &v
	case "false":
		v := false
		approved = &v
	}

	page, limit := parsePagination(c)

	result, err := h.vendorFlow.AdminListVendors(h.createRequestContext(c, "/api/v1/admin/vendors"), approved, page, limit)
	if err != nil {
		log.Println("Vendor listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load vendors", "VENDOR_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Vendors retrieved", result)
}

// AdminApproveVendor lets a vendor start listing numbers
// @Summary Approve Vendor
// @Description Approve a pending vendor
// @Tags Admin Vendors
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Vendor UUID"
// @Success 200 {object} dto.APIResponse{data=dto.VendorDTO} "Vendor approved"
// @Failure 404 {object} dto.APIResponse "Vendor not found"
// @Failure 409 {object} dto.APIResponse "Vendor already approved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/vendors/{uuid}/approve [post]
func (h *VendorHandler) AdminApproveVendor(c fiber.Ctx) error {
	adminID, ok := c.Locals("admin_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Admin ID not found in context", "MISSING_ADMIN_ID", nil)
	}

	vendorUUID := c.Params("uuid")
	if vendorUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Vendor UUID is required", "MISSING_VENDOR_UUID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.vendorFlow.AdminApproveVendor(h.createRequestContext(c, "/api/v1/admin/vendors/"+vendorUUID+"/approve"), adminID, vendorUUID, metadata)
	if err != nil {
		if businessflow.IsVendorNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Vendor not found", "VENDOR_NOT_FOUND", nil)
		}
		if businessflow.IsVendorAlreadyApproved(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Vendor is already approved", "VENDOR_ALREADY_APPROVED", nil)
		}

		log.Println("Vendor approval failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Vendor approval failed", "VENDOR_APPROVAL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Vendor approved", result)
}

func (h *VendorHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *VendorHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)
	return ctx
}
