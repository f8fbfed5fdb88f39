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

// CommissionSettingsRepositoryImpl implements CommissionSettingsRepository interface
type CommissionSettingsRepositoryImpl struct {
	*BaseRepository[models.CommissionSettings, models.CommissionSettingsFilter]
}

// NewCommissionSettingsRepository creates a new commission settings repository
func NewCommissionSettingsRepository(db *gorm.DB) CommissionSettingsRepository {
	return &CommissionSettingsRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CommissionSettings, models.CommissionSettingsFilter](db),
	}
}

// Get returns the settings singleton, creating the default row on first use
func (r *CommissionSettingsRepositoryImpl) Get(ctx context.Context) (*models.CommissionSettings, error) {
	db := r.getDB(ctx)
	var settings models.CommissionSettings
	err := db.First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = models.CommissionSettings{
				ApplyToNewNumbers:      utils.ToPtr(false),
				ApplyToExistingNumbers: utils.ToPtr(false),
			}
			if err := r.Save(ctx, &settings); err != nil {
				return nil, fmt.Errorf("failed to create default commission settings: %w", err)
			}
			return &settings, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Update persists changes to the settings singleton
func (r *CommissionSettingsRepositoryImpl) Update(ctx context.Context, settings *models.CommissionSettings) error {
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
	settings.UpdatedAt = utils.UTCNow()
	err = db.Save(settings).Error
	if err != nil {
		return fmt.Errorf("failed to update commission settings: %w", err)
	}
	return nil
}

func (r *CommissionSettingsRepositoryImpl) ByFilter(ctx context.Context, filter models.CommissionSettingsFilter, orderBy string, limit, offset int) ([]*models.CommissionSettings, error) {
	db := r.getDB(ctx)
	var settings []*models.CommissionSettings

	query := db.Model(&models.CommissionSettings{})
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *CommissionSettingsRepositoryImpl) Count(ctx context.Context, filter models.CommissionSettingsFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64

	query := db.Model(&models.CommissionSettings{})
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CommissionSettingsRepositoryImpl) Exists(ctx context.Context, filter models.CommissionSettingsFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
