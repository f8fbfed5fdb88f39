// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"context"
	"time"

	"github.com/numberkart/numberkart/app/dto"
	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/repository"
	"github.com/numberkart/numberkart/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartFlow handles the customer's cart. Carts never reserve a number;
// they only collect references that purchase-time checks revalidate.
type CartFlow interface {
	AddItem(ctx context.Context, accountID uint, request *dto.AddCartItemRequest) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, accountID uint, numberUUID string) (*dto.CartResponse, error)
	GetCart(ctx context.Context, accountID uint) (*dto.CartResponse, error)
}

// CartFlowImpl implements the cart business flow
type CartFlowImpl struct {
	customerRepo repository.CustomerRepository
	numberRepo   repository.NumberRepository
	cartRepo     repository.CartItemRepository
	db           *gorm.DB
}

// NewCartFlow creates a new cart flow instance
func NewCartFlow(
	customerRepo repository.CustomerRepository,
	numberRepo repository.NumberRepository,
	cartRepo repository.CartItemRepository,
	db *gorm.DB,
) CartFlow {
	return &CartFlowImpl{
		customerRepo: customerRepo,
		numberRepo:   numberRepo,
		cartRepo:     cartRepo,
		db:           db,
	}
}

// AddItem puts an approved, unsold number into the caller's cart
func (cf *CartFlowImpl) AddItem(ctx context.Context, accountID uint, request *dto.AddCartItemRequest) (*dto.CartResponse, error) {
	customer, err := cf.RequireCustomer(ctx, accountID)
	if err != nil {
		return nil, err
	}

	err = repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		number, err := cf.numberRepo.ByUUID(ctx, request.NumberUUID)
		if err != nil {
			return err
		}
		if number == nil {
			return ErrNumberNotFound
		}
		if utils.IsTrue(number.IsSold) {
			return ErrNumberAlreadySold
		}
		if !number.IsPurchasable() {
			return ErrNumberNotApproved
		}

		existing, err := cf.cartRepo.ByCustomerAndNumber(ctx, customer.ID, number.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrNumberAlreadyInCart
		}

		item := &models.CartItem{
			CustomerID: customer.ID,
			NumberID:   number.ID,
			CreatedAt:  utils.UTCNow(),
			UpdatedAt:  utils.UTCNow(),
		}
		return cf.cartRepo.Save(ctx, item)
	})

	if err != nil {
		return nil, NewBusinessError("ADD_CART_ITEM_FAILED", "Failed to add number to cart", err)
	}

	return cf.buildCartResponse(ctx, customer.ID)
}

// RemoveItem drops a number from the caller's cart
func (cf *CartFlowImpl) RemoveItem(ctx context.Context, accountID uint, numberUUID string) (*dto.CartResponse, error) {
	customer, err := cf.RequireCustomer(ctx, accountID)
	if err != nil {
		return nil, err
	}

	err = repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		number, err := cf.numberRepo.ByUUID(ctx, numberUUID)
		if err != nil {
			return err
		}
		if number == nil {
			return ErrNumberNotFound
		}
		if err := cf.cartRepo.DeleteByCustomerAndNumber(ctx, customer.ID, number.ID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrCartItemNotFound
			}
			return err
		}
		return nil
	})

	if err != nil {
		return nil, NewBusinessError("REMOVE_CART_ITEM_FAILED", "Failed to remove number from cart", err)
	}

	return cf.buildCartResponse(ctx, customer.ID)
}

// GetCart returns the caller's cart with the current effective total
func (cf *CartFlowImpl) GetCart(ctx context.Context, accountID uint) (*dto.CartResponse, error) {
	customer, err := cf.RequireCustomer(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return cf.buildCartResponse(ctx, customer.ID)
}

// Private helper methods

func (cf *CartFlowImpl) RequireCustomer(ctx context.Context, accountID uint) (*models.Customer, error) {
	customer, err := cf.customerRepo.ByAccountID(ctx, accountID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LOOKUP_FAILED", "Failed to lookup customer profile", err)
	}
	if customer == nil {
		return nil, NewBusinessError("CUSTOMER_PROFILE_REQUIRED", "Customer profile required", ErrCustomerProfileRequired)
	}
	return customer, nil
}

func (cf *CartFlowImpl) buildCartResponse(ctx context.Context, customerID uint) (*dto.CartResponse, error) {
	items, err := cf.cartRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, NewBusinessError("FETCH_CART_FAILED", "Failed to fetch cart", err)
	}

	resp := &dto.CartResponse{
		Items: make([]dto.CartItemDTO, 0, len(items)),
	}
	total := decimal.Zero
	for _, item := range items {
		resp.Items = append(resp.Items, dto.CartItemDTO{
			UUID:    item.UUID.String(),
			Number:  ToNumberDTO(item.Number),
			AddedAt: item.CreatedAt.UTC().Format(time.RFC3339),
		})
		total = total.Add(item.Number.EffectivePrice())
	}
	resp.Total = total.StringFixed(2)
	resp.Count = len(resp.Items)
	return resp, nil
}
