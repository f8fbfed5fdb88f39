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

// VendorRepositoryImpl implements VendorRepository interface
type VendorRepositoryImpl struct {
	*BaseRepository[models.Vendor, models.VendorFilter]
}

// NewVendorRepository creates a new vendor repository
func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &VendorRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Vendor, models.VendorFilter](db),
	}
}

// ByUUID retrieves a vendor profile by its public UUID
func (r *VendorRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Vendor, error) {
	db := r.getDB(ctx)
	var vendor models.Vendor
	err := db.Where("uuid = ?", uuid).Preload("Account").Last(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// ByAccountID retrieves the vendor profile attached to an account
func (r *VendorRepositoryImpl) ByAccountID(ctx context.Context, accountID uint) (*models.Vendor, error) {
	db := r.getDB(ctx)
	var vendor models.Vendor
	err := db.Where("account_id = ?", accountID).Last(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// ListUnapproved retrieves vendors waiting for admin approval
func (r *VendorRepositoryImpl) ListUnapproved(ctx context.Context, limit, offset int) ([]*models.Vendor, error) {
	filter := models.VendorFilter{IsApproved: utils.ToPtr(false)}
	vendors, err := r.ByFilter(ctx, filter, "created_at ASC", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list unapproved vendors: %w", err)
	}
	return vendors, nil
}

// Update persists changes to an existing vendor profile
func (r *VendorRepositoryImpl) Update(ctx context.Context, vendor *models.Vendor) error {
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
	vendor.UpdatedAt = utils.UTCNow()
	err = db.Save(vendor).Error
	if err != nil {
		return fmt.Errorf("failed to update vendor: %w", err)
	}
	return nil
}

func (r *VendorRepositoryImpl) ByFilter(ctx context.Context, filter models.VendorFilter, orderBy string, limit, offset int) ([]*models.Vendor, error) {
	db := r.getDB(ctx)
	var vendors []*models.Vendor

	query := db.Model(&models.Vendor{})
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

	err := query.Find(&vendors).Error
	if err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *VendorRepositoryImpl) Count(ctx context.Context, filter models.VendorFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64

	query := db.Model(&models.Vendor{})
	query = r.applyFilter(query, filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *VendorRepositoryImpl) Exists(ctx context.Context, filter models.VendorFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies the filter to the query
func (r *VendorRepositoryImpl) applyFilter(query *gorm.DB, filter models.VendorFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.BusinessName != nil {
		query = query.Where("business_name = ?", *filter.BusinessName)
	}
	if filter.IsApproved != nil {
		query = query.Where("is_approved = ?", *filter.IsApproved)
	}
	if filter.City != nil {
		query = query.Where("city = ?", *filter.City)
	}
	if filter.State != nil {
		query = query.Where("state = ?", *filter.State)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}
