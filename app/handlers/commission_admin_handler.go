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

// CommissionAdminHandlerInterface defines the contract for admin commission handlers
type CommissionAdminHandlerInterface interface {
	ListCategoryCommissions(c fiber.Ctx) error
	UpsertCategoryCommission(c fiber.Ctx) error
	DeleteCategoryCommission(c fiber.Ctx) error
	ListPriceRangeCommissions(c fiber.Ctx) error
	CreatePriceRangeCommission(c fiber.Ctx) error
	DeletePriceRangeCommission(c fiber.Ctx) error
	GetSettings(c fiber.Ctx) error
	UpdateSettings(c fiber.Ctx) error
}

// CommissionAdminHandler handles commission rule management
type CommissionAdminHandler struct {
	commissionFlow businessflow.CommissionFlow
	validator      *validator.Validate
}

func (h *CommissionAdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CommissionAdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewCommissionAdminHandler creates a new commission handler
func NewCommissionAdminHandler(commissionFlow businessflow.CommissionFlow) *CommissionAdminHandler {
	return &CommissionAdminHandler{
		commissionFlow: commissionFlow,
		validator:      newValidator(),
	}
}

// ListCategoryCommissions returns all per-pattern commission rules
// @Summary List Pattern Commissions
// @Tags Admin Commissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CategoryCommissionDTO} "Rules retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/commissions/categories [get]
func (h *CommissionAdminHandler) ListCategoryCommissions(c fiber.Ctx) error {
	result, err := h.commissionFlow.ListCategoryCommissions(h.createRequestContext(c, "/api/v1/admin/commissions/categories"))
	if err != nil {
		log.Println("Commission listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load commission rules", "COMMISSION_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Rules retrieved", result)
}

// UpsertCategoryCommission creates or replaces the rule for a pattern
// @Summary Upsert Pattern Commission
// @Description Create or update the commission rule of a pattern; may reprice existing stock
// @Tags Admin Commissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpsertCategoryCommissionRequest true "Rule data"
// @Success 200 {object} dto.APIResponse{data=dto.CategoryCommissionDTO} "Rule saved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Pattern not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/commissions/categories [put]
func (h *CommissionAdminHandler) UpsertCategoryCommission(c fiber.Ctx) error {
	var req dto.UpsertCategoryCommissionRequest
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

	result, err := h.commissionFlow.UpsertCategoryCommission(h.createRequestContext(c, "/api/v1/admin/commissions/categories"), &req)
	if err != nil {
		if businessflow.IsPatternNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Pattern not found", "PATTERN_NOT_FOUND", nil)
		}
		if businessflow.IsCommissionOutOfRange(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Commission must be between 0 and 100", "COMMISSION_OUT_OF_RANGE", nil)
		}

		log.Println("Commission upsert failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save commission rule", "COMMISSION_UPSERT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Rule saved", result)
}

// DeleteCategoryCommission removes a pattern rule
// @Summary Delete Pattern Commission
// @Tags Admin Commissions
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Rule UUID"
// @Success 200 {object} dto.APIResponse "Rule deleted"
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/commissions/categories/{uuid} [delete]
func (h *CommissionAdminHandler) DeleteCategoryCommission(c fiber.Ctx) error {
	ruleUUID := c.Params("uuid")
	if ruleUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Rule UUID is required", "MISSING_RULE_UUID", nil)
	}

	if err := h.commissionFlow.DeleteCategoryCommission(h.createRequestContext(c, "/api/v1/admin/commissions/categories/"+ruleUUID), ruleUUID); err != nil {
		if businessflow.IsCommissionRuleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Rule not found", "COMMISSION_RULE_NOT_FOUND", nil)
		}

		log.Println("Commission deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete commission rule", "COMMISSION_DELETION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Rule deleted", nil)
}

// ListPriceRangeCommissions returns all price-range commission rules
// @Summary List Price Range Commissions
// @Tags Admin Commissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.PriceRangeCommissionDTO} "Rules retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/commissions/price-ranges [get]
func (h *CommissionAdminHandler) ListPriceRangeCommissions(c fiber.Ctx) error {
	result, err := h.commissionFlow.ListPriceRangeCommissions(h.createRequestContext(c, "/api/v1/admin/commissions/price-ranges"))
	if err != nil {
		log.Println("Commission listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load commission rules", "COMMISSION_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Rules retrieved", result)
}

// CreatePriceRangeCommission adds a rule covering a purchase-price band
// @Summary Create Price Range Commission
// @Tags Admin Commissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePriceRangeCommissionRequest true "Rule data"
// @Success 201 {object} dto.APIResponse{data=dto.PriceRangeCommissionDTO} "Rule created"
// @Failure 400 {object} dto.APIResponse "Invalid range or commission"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/commissions/price-ranges [post]
func (h *CommissionAdminHandler) CreatePriceRangeCommission(c fiber.Ctx) error {
	var req dto.CreatePriceRangeCommissionRequest
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

	result, err := h.commissionFlow.CreatePriceRangeCommission(h.createRequestContext(c, "/api/v1/admin/commissions/price-ranges"), &req)
	if err != nil {
		if businessflow.IsInvalidPriceRange(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "min_price must be below max_price", "INVALID_PRICE_RANGE", nil)
		}
		if businessflow.IsCommissionOutOfRange(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Commission must be between 0 and 100", "COMMISSION_OUT_OF_RANGE", nil)
		}

		log.Println("Commission creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create commission rule", "COMMISSION_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Rule created", result)
}

// DeletePriceRangeCommission removes a price-range rule
// @Summary Delete Price Range Commission
// @Tags Admin Commissions
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Rule UUID"
// @Success 200 {object} dto.APIResponse "Rule deleted"
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/commissions/price-ranges/{uuid} [delete]
func (h *CommissionAdminHandler) DeletePriceRangeCommission(c fiber.Ctx) error {
	ruleUUID := c.Params("uuid")
	if ruleUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Rule UUID is required", "MISSING_RULE_UUID", nil)
	}

	if err := h.commissionFlow.DeletePriceRangeCommission(h.createRequestContext(c, "/api/v1/admin/commissions/price-ranges/"+ruleUUID), ruleUUID); err != nil {
		if businessflow.IsCommissionRuleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Rule not found", "COMMISSION_RULE_NOT_FOUND", nil)
		}

		log.Println("Commission deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete commission rule", "COMMISSION_DELETION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Rule deleted", nil)
}

// GetSettings returns the commission application toggles
// @Summary Commission Settings
// @Tags Admin Commissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CommissionSettingsDTO} "Settings retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/commissions/settings [get]
func (h *CommissionAdminHandler) GetSettings(c fiber.Ctx) error {
	result, err := h.commissionFlow.GetSettings(h.createRequestContext(c, "/api/v1/admin/commissions/settings"))
	if err != nil {
		log.Println("Settings fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load settings", "SETTINGS_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Settings retrieved", result)
}

// UpdateSettings changes the commission application toggles
// @Summary Update Commission Settings
// @Tags Admin Commissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateCommissionSettingsRequest true "Toggles"
// @Success 200 {object} dto.APIResponse{data=dto.CommissionSettingsDTO} "Settings updated"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/commissions/settings [put]
func (h *CommissionAdminHandler) UpdateSettings(c fiber.Ctx) error {
	var req dto.UpdateCommissionSettingsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	result, err := h.commissionFlow.UpdateSettings(h.createRequestContext(c, "/api/v1/admin/commissions/settings"), &req)
	if err != nil {
		log.Println("Settings update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update settings", "SETTINGS_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Settings updated", result)
}

func (h *CommissionAdminHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *CommissionAdminHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)
	return ctx
}
