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

// CategoryCommissionRepositoryImpl implements CategoryCommissionRepository interface
type CategoryCommissionRepositoryImpl struct {
	*BaseRepository[models.CategoryCommission, models.CategoryCommissionFilter]
}

// NewCategoryCommissionRepository creates a new category commission repository
func NewCategoryCommissionRepository(db *gorm.DB) CategoryCommissionRepository {
	return &CategoryCommissionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CategoryCommission, models.CategoryCommissionFilter](db),
	}
}

// ByUUID retrieves a rule by its public UUID
func (r *CategoryCommissionRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.CategoryCommission, error) {
	db := r.getDB(ctx)
	var commission models.CategoryCommission
	err := db.Where("uuid = ?", uuid).Preload("Pattern").Last(&commission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// ByPatternID retrieves the rule attached to a pattern
func (r *CategoryCommissionRepositoryImpl) ByPatternID(ctx context.Context, patternID uint) (*models.CategoryCommission, error) {
	db := r.getDB(ctx)
	var commission models.CategoryCommission
	err := db.Where("pattern_id = ?", patternID).Last(&commission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// Update persists changes to an existing rule
func (r *CategoryCommissionRepositoryImpl) Update(ctx context.Context, commission *models.CategoryCommission) error {
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
	commission.UpdatedAt = utils.UTCNow()
	err = db.Omit("Pattern").Save(commission).Error
	if err != nil {
		return fmt.Errorf("failed to update category commission: %w", err)
	}
	return nil
}

// Delete removes a rule
func (r *CategoryCommissionRepositoryImpl) Delete(ctx context.Context, id uint) error {
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
	err = db.Delete(&models.CategoryCommission{}, id).Error
	if err != nil {
		return fmt.Errorf("failed to delete category commission: %w", err)
	}
	return nil
}

func (r *CategoryCommissionRepositoryImpl) ByFilter(ctx context.Context, filter models.CategoryCommissionFilter, orderBy string, limit, offset int) ([]*models.CategoryCommission, error) {
	db := r.getDB(ctx)
	var commissions []*models.CategoryCommission

	query := db.Model(&models.CategoryCommission{})
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

	err := query.Preload("Pattern").Find(&commissions).Error
	if err != nil {
		return nil, err
	}
	return commissions, nil
}

func (r *CategoryCommissionRepositoryImpl) Count(ctx context.Context, filter models.CategoryCommissionFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64

	query := db.Model(&models.CategoryCommission{})
	query = r.applyFilter(query, filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CategoryCommissionRepositoryImpl) Exists(ctx context.Context, filter models.CategoryCommissionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies the filter to the query
func (r *CategoryCommissionRepositoryImpl) applyFilter(query *gorm.DB, filter models.CategoryCommissionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.PatternID != nil {
		query = query.Where("pattern_id = ?", *filter.PatternID)
	}
	return query
}

// PriceRangeCommissionRepositoryImpl implements PriceRangeCommissionRepository interface
type PriceRangeCommissionRepositoryImpl struct {
	*BaseRepository[models.PriceRangeCommission, models.PriceRangeCommissionFilter]
}

// NewPriceRangeCommissionRepository creates a new price range commission repository
func NewPriceRangeCommissionRepository(db *gorm.DB) PriceRangeCommissionRepository {
	return &PriceRangeCommissionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PriceRangeCommission, models.PriceRangeCommissionFilter](db),
	}
}

// ByUUID retrieves a rule by its public UUID
func (r *PriceRangeCommissionRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.PriceRangeCommission, error) {
	db := r.getDB(ctx)
	var commission models.PriceRangeCommission
	err := db.Where("uuid = ?", uuid).Last(&commission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// CoveringPrice returns the narrowest rule whose range contains price
func (r *PriceRangeCommissionRepositoryImpl) CoveringPrice(ctx context.Context, price int64) (*models.PriceRangeCommission, error) {
	db := r.getDB(ctx)
	var commission models.PriceRangeCommission
	err := db.Where("min_price <= ? AND max_price >= ?", price, price).
		Order("max_price - min_price ASC").
		First(&commission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// Update persists changes to an existing rule
func (r *PriceRangeCommissionRepositoryImpl) Update(ctx context.Context, commission *models.PriceRangeCommission) error {
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
	commission.UpdatedAt = utils.UTCNow()
	err = db.Save(commission).Error
	if err != nil {
		return fmt.Errorf("failed to update price range commission: %w", err)
	}
	return nil
}

// Delete removes a rule
func (r *PriceRangeCommissionRepositoryImpl) Delete(ctx context.Context, id uint) error {
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
	err = db.Delete(&models.PriceRangeCommission{}, id).Error
	if err != nil {
		return fmt.Errorf("failed to delete price range commission: %w", err)
	}
	return nil
}

func (r *PriceRangeCommissionRepositoryImpl) ByFilter(ctx context.Context, filter models.PriceRangeCommissionFilter, orderBy string, limit, offset int) ([]*models.PriceRangeCommission, error) {
	db := r.getDB(ctx)
	var commissions []*models.PriceRangeCommission

	query := db.Model(&models.PriceRangeCommission{})
	query = r.applyFilter(query, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	} else {
		query = query.Order("min_price ASC")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&commissions).Error
	if err != nil {
		return nil, err
	}
	return commissions, nil
}

func (r *PriceRangeCommissionRepositoryImpl) Count(ctx context.Context, filter models.PriceRangeCommissionFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64

	query := db.Model(&models.PriceRangeCommission{})
	query = r.applyFilter(query, filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PriceRangeCommissionRepositoryImpl) Exists(ctx context.Context, filter models.PriceRangeCommissionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies the filter to the query
func (r *PriceRangeCommissionRepositoryImpl) applyFilter(query *gorm.DB, filter models.PriceRangeCommissionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.MinPrice != nil {
		query = query.Where("min_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("max_price <= ?", *filter.MaxPrice)
	}
	return query
}
