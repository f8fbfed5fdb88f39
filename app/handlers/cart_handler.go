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

// CartHandlerInterface defines the contract for cart handlers
type CartHandlerInterface interface {
	AddItem(c fiber.Ctx) error
	RemoveItem(c fiber.Ctx) error
	GetCart(c fiber.Ctx) error
}

// CartHandler handles shopping cart HTTP requests
type CartHandler struct {
	cartFlow  businessflow.CartFlow
	validator *validator.Validate
}

func (h *CartHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CartHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartFlow businessflow.CartFlow) *CartHandler {
	return &CartHandler{
		cartFlow:  cartFlow,
		validator: newValidator(),
	}
}

// AddItem puts an available number into the caller's cart
// @Summary Add to Cart
// @Description Add an approved, unsold number to the cart
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddCartItemRequest true "Number to add"
// @Success 200 {object} dto.APIResponse{data=dto.CartResponse} "Cart updated"
// @Failure 403 {object} dto.APIResponse "Customer profile required"
// @Failure 404 {object} dto.APIResponse "Number not found"
// @Failure 409 {object} dto.APIResponse "Number sold or already in cart"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account ID not found in context", "MISSING_ACCOUNT_ID", nil)
	}

	var req dto.AddCartItemRequest
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

	result, err := h.cartFlow.AddItem(h.createRequestContext(c, "/api/v1/cart/items"), accountID, &req)
	if err != nil {
		if businessflow.IsCustomerProfileRequired(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Customer profile required", "CUSTOMER_PROFILE_REQUIRED", nil)
		}
		if businessflow.IsNumberNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Number not found", "NUMBER_NOT_FOUND", nil)
		}
		if businessflow.IsNumberAlreadySold(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Number is already sold", "NUMBER_SOLD", nil)
		}
		if businessflow.IsNumberNotApproved(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Number not found", "NUMBER_NOT_FOUND", nil)
		}
		if businessflow.IsNumberAlreadyInCart(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Number is already in the cart", "NUMBER_IN_CART", nil)
		}

		log.Println("Cart add failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add to cart", "CART_ADD_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Number added to cart", result)
}

// RemoveItem takes a number out of the caller's cart
// @Summary Remove from Cart
// @Description Remove a number from the cart
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Number UUID"
// @Success 200 {object} dto.APIResponse{data=dto.CartResponse} "Cart updated"
// @Failure 404 {object} dto.APIResponse "Item not in cart"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/cart/items/{uuid} [delete]
func (h *CartHandler) RemoveItem(c fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account ID not found in context", "MISSING_ACCOUNT_ID", nil)
	}

	numberUUID := c.Params("uuid")
	if numberUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Number UUID is required", "MISSING_NUMBER_UUID", nil)
	}

	result, err := h.cartFlow.RemoveItem(h.createRequestContext(c, "/api/v1/cart/items/"+numberUUID), accountID, numberUUID)
	if err != nil {
		if businessflow.IsCustomerProfileRequired(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Customer profile required", "CUSTOMER_PROFILE_REQUIRED", nil)
		}
		if businessflow.IsCartItemNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Item is not in the cart", "CART_ITEM_NOT_FOUND", nil)
		}
		if businessflow.IsNumberNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Number not found", "NUMBER_NOT_FOUND", nil)
		}

		log.Println("Cart remove failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove from cart", "CART_REMOVE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Number removed from cart", result)
}

// GetCart returns the caller's cart with totals
// @Summary Get Cart
// @Description Get the caller's cart items and running total
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CartResponse} "Cart retrieved"
// @Failure 403 {object} dto.APIResponse "Customer profile required"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/cart [get]
func (h *CartHandler) GetCart(c fiber.Ctx) error {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account ID not found in context", "MISSING_ACCOUNT_ID", nil)
	}

	result, err := h.cartFlow.GetCart(h.createRequestContext(c, "/api/v1/cart"), accountID)
	if err != nil {
		if businessflow.IsCustomerProfileRequired(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Customer profile required", "CUSTOMER_PROFILE_REQUIRED", nil)
		}

		log.Println("Cart fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load cart", "CART_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Cart retrieved", result)
}

func (h *CartHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *CartHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)
	return ctx
}
