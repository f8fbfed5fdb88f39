// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/numberkart/numberkart/models"
	"gorm.io/gorm"
)

// PatternRepositoryImpl implements PatternRepository interface
type PatternRepositoryImpl struct {
	*BaseRepository[models.Pattern, models.PatternFilter]
}

// NewPatternRepository creates a new pattern repository
func NewPatternRepository(db *gorm.DB) PatternRepository {
	return &PatternRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Pattern, models.PatternFilter](db),
	}
}

// ByUUID retrieves a pattern by its public UUID
func (r *PatternRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Pattern, error) {
	db := r.getDB(ctx)
	var pattern models.Pattern
	err := db.Where("uuid = ?", uuid).Last(&pattern).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pattern, nil
}

// ByPattern retrieves a pattern by its digit shape
func (r *PatternRepositoryImpl) ByPattern(ctx context.Context, pattern string) (*models.Pattern, error) {
	db := r.getDB(ctx)
	var p models.Pattern
	err := db.Where("pattern = ?", pattern).Last(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes a pattern. Numbers referencing it must be detached
// first, the FK is not cascading.
func (r *PatternRepositoryImpl) Delete(ctx context.Context, id uint) error {
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
	err = db.Delete(&models.Pattern{}, id).Error
	if err != nil {
		return fmt.Errorf("failed to delete pattern: %w", err)
	}
	return nil
}

func (r *PatternRepositoryImpl) ByFilter(ctx context.Context, filter models.PatternFilter, orderBy string, limit, offset int) ([]*models.Pattern, error) {
	db := r.getDB(ctx)
	var patterns []*models.Pattern

	query := db.Model(&models.Pattern{})
	query = r.applyFilter(query, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	} else {
		query = query.Order("pattern ASC")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&patterns).Error
	if err != nil {
		return nil, err
	}
	return patterns, nil
}

func (r *PatternRepositoryImpl) Count(ctx context.Context, filter models.PatternFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64

	query := db.Model(&models.Pattern{})
	query = r.applyFilter(query, filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PatternRepositoryImpl) Exists(ctx context.Context, filter models.PatternFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies the filter to the query
func (r *PatternRepositoryImpl) applyFilter(query *gorm.DB, filter models.PatternFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Pattern != nil {
		query = query.Where("pattern = ?", *filter.Pattern)
	}
	return query
}
