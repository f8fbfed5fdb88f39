// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/utils"
	"gorm.io/gorm"
)

// NumberRepositoryImpl implements NumberRepository interface
type NumberRepositoryImpl struct {
	*BaseRepository[models.Number, models.NumberFilter]
}

// NewNumberRepository creates a new number repository
func NewNumberRepository(db *gorm.DB) NumberRepository {
	return &NumberRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Number, models.NumberFilter](db),
	}
}

// ByUUID retrieves a number by its public UUID
func (r *NumberRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Number, error) {
	db := r.getDB(ctx)
	var number models.Number
	err := db.Where("uuid = ?", uuid).Preload("Pattern").Last(&number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &number, nil
}

// ByUUIDs retrieves all numbers matching the given UUIDs. Missing UUIDs
// are simply absent from the result, callers compare lengths.
func (r *NumberRepositoryImpl) ByUUIDs(ctx context.Context, uuids []uuid.UUID) ([]*models.Number, error) {
	if len(uuids) == 0 {
		return nil, nil
	}
	db := r.getDB(ctx)
	var numbers []*models.Number
	err := db.Where("uuid IN ?", uuids).Find(&numbers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find numbers by uuids: %w", err)
	}
	return numbers, nil
}

// ByEntry retrieves a number by its digit string
func (r *NumberRepositoryImpl) ByEntry(ctx context.Context, entry string) (*models.Number, error) {
	db := r.getDB(ctx)
	var number models.Number
	err := db.Where("entry = ?", entry).Last(&number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &number, nil
}

// ListRandomAvailable retrieves a random selection of approved, unsold
// numbers for the public landing listing.
func (r *NumberRepositoryImpl) ListRandomAvailable(ctx context.Context, limit int) ([]*models.Number, error) {
	db := r.getDB(ctx)
	var numbers []*models.Number
	err := db.Where("is_approved = ? AND is_sold = ? AND status = ?", true, false, models.NumberStatusAvailable).
		Order("RANDOM()").
		Limit(limit).
		Preload("Pattern").
		Find(&numbers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list random numbers: %w", err)
	}
	return numbers, nil
}

// MarkSold flips is_sold on the given ids only where it is still false
// and returns the affected row count. A count short of len(ids) means
// another purchase won the race and the caller must roll back.
func (r *NumberRepositoryImpl) MarkSold(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
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

	result := db.Model(&models.Number{}).
		Where("id IN ? AND is_sold = ?", ids, false).
		Updates(map[string]any{
			"is_sold":    true,
			"status":     models.NumberStatusHold,
			"updated_at": utils.UTCNow(),
		})
	if result.Error != nil {
		err = fmt.Errorf("failed to mark numbers sold: %w", result.Error)
		return 0, err
	}
	return result.RowsAffected, nil
}

// SettleSold moves already-reserved numbers to their terminal sold
// status once the gateway confirms payment.
func (r *NumberRepositoryImpl) SettleSold(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
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

	err = db.Model(&models.Number{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"is_sold":    true,
			"status":     models.NumberStatusSold,
			"updated_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to settle sold numbers: %w", err)
	}
	return nil
}

// MarkVendorDeactivated parks a vendor's unsold listings so they drop
// out of public browsing until the vendor account comes back.
func (r *NumberRepositoryImpl) MarkVendorDeactivated(ctx context.Context, vendorID uint) error {
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

	err = db.Model(&models.Number{}).
		Where("vendor_id = ? AND is_sold = ?", vendorID, false).
		Updates(map[string]any{
			"status":     models.NumberStatusVendorDeactivated,
			"updated_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate vendor numbers: %w", err)
	}
	return nil
}

// DetachPattern clears pattern_id on every number under a pattern
func (r *NumberRepositoryImpl) DetachPattern(ctx context.Context, patternID uint) error {
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
	err = db.Model(&models.Number{}).
		Where("pattern_id = ?", patternID).
		Updates(map[string]any{
			"pattern_id": nil,
			"updated_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to detach pattern from numbers: %w", err)
	}
	return nil
}

// Update persists changes to an existing number
func (r *NumberRepositoryImpl) Update(ctx context.Context, number *models.Number) error {
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
	number.UpdatedAt = utils.UTCNow()
	err = db.Save(number).Error
	if err != nil {
		return fmt.Errorf("failed to update number: %w", err)
	}
	return nil
}

// Delete removes a number listing
func (r *NumberRepositoryImpl) Delete(ctx context.Context, id uint) error {
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
	err = db.Delete(&models.Number{}, id).Error
	if err != nil {
		return fmt.Errorf("failed to delete number: %w", err)
	}
	return nil
}

func (r *NumberRepositoryImpl) ByFilter(ctx context.Context, filter models.NumberFilter, orderBy string, limit, offset int) ([]*models.Number, error) {
	db := r.getDB(ctx)
	var numbers []*models.Number

	query := db.Model(&models.Number{})
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

	err := query.Preload("Pattern").Find(&numbers).Error
	if err != nil {
		return nil, err
	}
	return numbers, nil
}

func (r *NumberRepositoryImpl) Count(ctx context.Context, filter models.NumberFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64

	query := db.Model(&models.Number{})
	query = r.applyFilter(query, filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *NumberRepositoryImpl) Exists(ctx context.Context, filter models.NumberFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies the filter to the query
func (r *NumberRepositoryImpl) applyFilter(query *gorm.DB, filter models.NumberFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Entry != nil {
		query = query.Where("entry = ?", *filter.Entry)
	}
	if filter.EntryPrefix != nil {
		query = query.Where("entry LIKE ?", *filter.EntryPrefix+"%")
	}
	if filter.EntrySuffix != nil {
		query = query.Where("entry LIKE ?", "%"+*filter.EntrySuffix)
	}
	if filter.EntryContains != nil {
		query = query.Where("entry LIKE ?", "%"+*filter.EntryContains+"%")
	}
	if filter.PatternID != nil {
		query = query.Where("pattern_id = ?", *filter.PatternID)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.CurrentOperator != nil {
		query = query.Where("current_operator = ?", *filter.CurrentOperator)
	}
	if filter.Circle != nil {
		query = query.Where("circle = ?", *filter.Circle)
	}
	if filter.PortStatus != nil {
		query = query.Where("port_status = ?", *filter.PortStatus)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.UploadedByAdmin != nil {
		query = query.Where("uploaded_by_admin = ?", *filter.UploadedByAdmin)
	}
	if filter.IsApproved != nil {
		query = query.Where("is_approved = ?", *filter.IsApproved)
	}
	if filter.IsSold != nil {
		query = query.Where("is_sold = ?", *filter.IsSold)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}
