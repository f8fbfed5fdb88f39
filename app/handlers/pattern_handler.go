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

// PatternHandlerInterface defines the contract for pattern handlers
type PatternHandlerInterface interface {
	ListPatterns(c fiber.Ctx) error
	ListPatternNumbers(c fiber.Ctx) error
	CreatePattern(c fiber.Ctx) error
	DeletePattern(c fiber.Ctx) error
}

// PatternHandler handles public pattern browsing and admin pattern management
type PatternHandler struct {
	patternFlow businessflow.PatternFlow
	validator   *validator.Validate
}

func (h *PatternHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *PatternHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewPatternHandler creates a new pattern handler
func NewPatternHandler(patternFlow businessflow.PatternFlow) *PatternHandler {
	return &PatternHandler{
		patternFlow: patternFlow,
		validator:   newValidator(),
	}
}

// ListPatterns returns all patterns
// @Summary List Patterns
// @Description List all number patterns (AAAA, ABAB, ...)
// @Tags Patterns
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.PatternDTO} "Patterns retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/patterns [get]
func (h *PatternHandler) ListPatterns(c fiber.Ctx) error {
	result, err := h.patternFlow.ListPatterns(h.createRequestContext(c, "/api/v1/patterns"))
	if err != nil {
		log.Println("Pattern listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load patterns", "PATTERN_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Patterns retrieved", result)
}

// ListPatternNumbers returns available numbers under a pattern
// @Summary Pattern Numbers
// @Description List approved, unsold numbers under one pattern
// @Tags Patterns
// @Produce json
// @Param uuid path string true "Pattern UUID"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListNumbersResponse} "Numbers retrieved"
// @Failure 404 {object} dto.APIResponse "Pattern not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/patterns/{uuid}/numbers [get]
func (h *PatternHandler) ListPatternNumbers(c fiber.Ctx) error {
	patternUUID := c.Params("uuid")
	if patternUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Pattern UUID is required", "MISSING_PATTERN_UUID", nil)
	}

	page, limit := parsePagination(c)

	result, err := h.patternFlow.ListPatternNumbers(h.createRequestContext(c, "/api/v1/patterns/"+patternUUID+"/numbers"), patternUUID, page, limit)
	if err != nil {
		if businessflow.IsPatternNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Pattern not found", "PATTERN_NOT_FOUND", nil)
		}

		log.Println("Pattern number listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load numbers", "PATTERN_NUMBERS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Numbers retrieved", result)
}

// CreatePattern handles an admin creating a pattern
// @Summary Create Pattern
// @Description Create a new number pattern
// @Tags Admin Patterns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePatternRequest true "Pattern data"
// @Success 201 {object} dto.APIResponse{data=dto.PatternDTO} "Pattern created"
// @Failure 409 {object} dto.APIResponse "Pattern already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/patterns [post]
func (h *PatternHandler) CreatePattern(c fiber.Ctx) error {
	var req dto.CreatePatternRequest
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

	result, err := h.patternFlow.CreatePattern(h.createRequestContext(c, "/api/v1/admin/patterns"), &req)
	if err != nil {
		if businessflow.IsPatternAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Pattern already exists", "PATTERN_EXISTS", nil)
		}

		log.Println("Pattern creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Pattern creation failed", "PATTERN_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Pattern created", result)
}

// DeletePattern handles an admin deleting a pattern; numbers detach and survive
// @Summary Delete Pattern
// @Description Delete a pattern; numbers under it lose the pattern but stay listed
// @Tags Admin Patterns
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Pattern UUID"
// @Success 200 {object} dto.APIResponse "Pattern deleted"
// @Failure 404 {object} dto.APIResponse "Pattern not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/patterns/{uuid} [delete]
func (h *PatternHandler) DeletePattern(c fiber.Ctx) error {
	patternUUID := c.Params("uuid")
	if patternUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Pattern UUID is required", "MISSING_PATTERN_UUID", nil)
	}

	if err := h.patternFlow.DeletePattern(h.createRequestContext(c, "/api/v1/admin/patterns/"+patternUUID), patternUUID); err != nil {
		if businessflow.IsPatternNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Pattern not found", "PATTERN_NOT_FOUND", nil)
		}

		log.Println("Pattern deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Pattern deletion failed", "PATTERN_DELETION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Pattern deleted", nil)
}

func (h *PatternHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *PatternHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)
	return ctx
}
