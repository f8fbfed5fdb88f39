// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/utils"
	"gorm.io/gorm"
)

// SaleRepositoryImpl implements SaleRepository interface
type SaleRepositoryImpl struct {
	*BaseRepository[models.Sale, models.SaleFilter]
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &SaleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Sale, models.SaleFilter](db),
	}
}

// ByUUID retrieves a sale with its numbers and payment by public UUID
func (r *SaleRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Sale, error) {
	db := r.getDB(ctx)
	var sale models.Sale
	err := db.Where("uuid = ?", uuid).
		Preload("Numbers").
		Preload("Payment").
		Preload("Vendor").
		Last(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// ListByCustomer retrieves a customer's sales, newest first
func (r *SaleRepositoryImpl) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Sale, error) {
	db := r.getDB(ctx)
	var sales []*models.Sale
	query := db.Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Preload("Numbers").
		Preload("Payment").
		Preload("Vendor")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sales by customer: %w", err)
	}
	return sales, nil
}

// ListByVendor retrieves a vendor's sales, newest first
func (r *SaleRepositoryImpl) ListByVendor(ctx context.Context, vendorID uint, limit, offset int) ([]*models.Sale, error) {
	db := r.getDB(ctx)
	var sales []*models.Sale
	query := db.Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Preload("Numbers").
		Preload("Payment").
		Preload("Vendor")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sales by vendor: %w", err)
	}
	return sales, nil
}

// AttachNumbers writes the sale_numbers join rows for a sale
func (r *SaleRepositoryImpl) AttachNumbers(ctx context.Context, sale *models.Sale, numbers []*models.Number) error {
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
	err = db.Model(sale).Association("Numbers").Append(numbers)
	if err != nil {
		return fmt.Errorf("failed to attach numbers to sale: %w", err)
	}
	return nil
}

// Update persists changes to an existing sale
func (r *SaleRepositoryImpl) Update(ctx context.Context, sale *models.Sale) error {
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
	sale.UpdatedAt = utils.UTCNow()
	err = db.Omit("Numbers", "Payment").Save(sale).Error
	if err != nil {
		return fmt.Errorf("failed to update sale: %w", err)
	}
	return nil
}

func (r *SaleRepositoryImpl) ByFilter(ctx context.Context, filter models.SaleFilter, orderBy string, limit, offset int) ([]*models.Sale, error) {
	db := r.getDB(ctx)
	var sales []*models.Sale

	query := db.Model(&models.Sale{})
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

	err := query.Preload("Numbers").Preload("Payment").Preload("Vendor").Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *SaleRepositoryImpl) Count(ctx context.Context, filter models.SaleFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64

	query := db.Model(&models.Sale{})
	query = r.applyFilter(query, filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SaleRepositoryImpl) Exists(ctx context.Context, filter models.SaleFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies the filter to the query
func (r *SaleRepositoryImpl) applyFilter(query *gorm.DB, filter models.SaleFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}
