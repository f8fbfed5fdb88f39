// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/numberkart/numberkart/models"
	"gorm.io/gorm"
)

// CartItemRepositoryImpl implements CartItemRepository interface
type CartItemRepositoryImpl struct {
	*BaseRepository[models.CartItem, models.CartItemFilter]
}

// NewCartItemRepository creates a new cart item repository
func NewCartItemRepository(db *gorm.DB) CartItemRepository {
	return &CartItemRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CartItem, models.CartItemFilter](db),
	}
}

// ByCustomerAndNumber retrieves the cart entry for a (customer, number) pair
func (r *CartItemRepositoryImpl) ByCustomerAndNumber(ctx context.Context, customerID, numberID uint) (*models.CartItem, error) {
	db := r.getDB(ctx)
	var item models.CartItem
	err := db.Where("customer_id = ? AND number_id = ?", customerID, numberID).Last(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByCustomer retrieves a customer's cart with number details,
// most recently added first
func (r *CartItemRepositoryImpl) ListByCustomer(ctx context.Context, customerID uint) ([]*models.CartItem, error) {
	db := r.getDB(ctx)
	var items []*models.CartItem
	err := db.Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Preload("Number").
		Preload("Number.Pattern").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	return items, nil
}

// DeleteByCustomerAndNumber removes one entry from a customer's cart
func (r *CartItemRepositoryImpl) DeleteByCustomerAndNumber(ctx context.Context, customerID, numberID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}
	result := db.Where("customer_id = ? AND number_id = ?", customerID, numberID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		err = fmt.Errorf("failed to delete cart item: %w", result.Error)
		return err
	}
	if result.RowsAffected == 0 {
		err = gorm.ErrRecordNotFound
		return err
	}
	return nil
}

// DeleteByNumberIDs purges the given numbers from every customer's cart
func (r *CartItemRepositoryImpl) DeleteByNumberIDs(ctx context.Context, numberIDs []uint) error {
	if len(numberIDs) == 0 {
		return nil
	}
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}
	err = db.Where("number_id IN ?", numberIDs).Delete(&models.CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to purge cart items: %w", err)
	}
	return nil
}

func (r *CartItemRepositoryImpl) ByFilter(ctx context.Context, filter models.CartItemFilter, orderBy string, limit, offset int) ([]*models.CartItem, error) {
	db := r.getDB(ctx)
	var items []*models.CartItem

	query := db.Model(&models.CartItem{})
	query = r.applyFilter(query, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	} else {
		query = query.Order("created_at DESC")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartItemRepositoryImpl) Count(ctx context.Context, filter models.CartItemFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64

	query := db.Model(&models.CartItem{})
	query = r.applyFilter(query, filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CartItemRepositoryImpl) Exists(ctx context.Context, filter models.CartItemFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies the filter to the query
func (r *CartItemRepositoryImpl) applyFilter(query *gorm.DB, filter models.CartItemFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.NumberID != nil {
		query = query.Where("number_id = ?", *filter.NumberID)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}
