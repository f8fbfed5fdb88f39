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

// SaleAdminHandlerInterface defines the contract for admin sale handlers
type SaleAdminHandlerInterface interface {
	ListSales(c fiber.Ctx) error
	ExportSales(c fiber.Ctx) error
}

// SaleAdminHandler handles admin sale reporting
type SaleAdminHandler struct {
	saleFlow  businessflow.SaleFlow
	validator *validator.Validate
}

func (h *SaleAdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SaleAdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewSaleAdminHandler creates a new admin sale handler
func NewSaleAdminHandler(saleFlow businessflow.SaleFlow) *SaleAdminHandler {
	return &SaleAdminHandler{
		saleFlow:  saleFlow,
		validator: newValidator(),
	}
}

// ListSales returns all sales with an optional status filter
// @Summary Admin List Sales
// @Description List all sales, optionally filtered by status
// @Tags Admin Sales
// @Produce json
// @Security BearerAuth
// @Param status query string false "Sale status (pending, completed, canceled)"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListSalesResponse} "Sales retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid status filter"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/sales [get]
func (h *SaleAdminHandler) ListSales(c fiber.Ctx) error {
	req := dto.AdminListSalesRequest{
		Status: c.Query("status"),
	}
	req.Page, req.Limit = parsePagination(c)

	// Validate filters
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.saleFlow.AdminListSales(h.createRequestContext(c, "/api/v1/admin/sales"), &req)
	if err != nil {
		log.Println("Admin sale listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load sales", "SALE_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Sales retrieved", result)
}

// ExportSales streams the full sales report as an Excel workbook
// @Summary Export Sales
// @Description Download all sales as an xlsx file
// @Tags Admin Sales
// @Produce application/octet-stream
// @Security BearerAuth
// @Success 200 {file} binary "Sales report"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/sales/export [get]
func (h *SaleAdminHandler) ExportSales(c fiber.Ctx) error {
	filename, data, err := h.saleFlow.AdminExportSales(h.createRequestContextWithTimeout(c, "/api/v1/admin/sales/export", 2*time.Minute))
	if err != nil {
		log.Println("Sales export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Sales export failed", "SALES_EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

func (h *SaleAdminHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *SaleAdminHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)
	return ctx
}
