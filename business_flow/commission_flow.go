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

// CommissionFlow handles admin management of commission rules and the
// settings singleton
type CommissionFlow interface {
	ListCategoryCommissions(ctx context.Context) ([]dto.CategoryCommissionDTO, error)
	UpsertCategoryCommission(ctx context.Context, request *dto.UpsertCategoryCommissionRequest) (*dto.CategoryCommissionDTO, error)
	DeleteCategoryCommission(ctx context.Context, ruleUUID string) error

	ListPriceRangeCommissions(ctx context.Context) ([]dto.PriceRangeCommissionDTO, error)
	CreatePriceRangeCommission(ctx context.Context, request *dto.CreatePriceRangeCommissionRequest) (*dto.PriceRangeCommissionDTO, error)
	DeletePriceRangeCommission(ctx context.Context, ruleUUID string) error

	GetSettings(ctx context.Context) (*dto.CommissionSettingsDTO, error)
	UpdateSettings(ctx context.Context, request *dto.UpdateCommissionSettingsRequest) (*dto.CommissionSettingsDTO, error)
}

// CommissionFlowImpl implements the commission business flow
type CommissionFlowImpl struct {
	categoryCommRepo repository.CategoryCommissionRepository
	priceRangeRepo   repository.PriceRangeCommissionRepository
	settingsRepo     repository.CommissionSettingsRepository
	patternRepo      repository.PatternRepository
	numberRepo       repository.NumberRepository
	db               *gorm.DB
}

// NewCommissionFlow creates a new commission flow instance
func NewCommissionFlow(
	categoryCommRepo repository.CategoryCommissionRepository,
	priceRangeRepo repository.PriceRangeCommissionRepository,
	settingsRepo repository.CommissionSettingsRepository,
	patternRepo repository.PatternRepository,
	numberRepo repository.NumberRepository,
	db *gorm.DB,
) CommissionFlow {
	return &CommissionFlowImpl{
		categoryCommRepo: categoryCommRepo,
		priceRangeRepo:   priceRangeRepo,
		settingsRepo:     settingsRepo,
		patternRepo:      patternRepo,
		numberRepo:       numberRepo,
		db:               db,
	}
}

// ListCategoryCommissions returns all pattern rules
func (cf *CommissionFlowImpl) ListCategoryCommissions(ctx context.Context) ([]dto.CategoryCommissionDTO, error) {
	rules, err := cf.categoryCommRepo.ByFilter(ctx, models.CategoryCommissionFilter{}, "created_at ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("FETCH_COMMISSIONS_FAILED", "Failed to fetch commission rules", err)
	}

	out := make([]dto.CategoryCommissionDTO, 0, len(rules))
	for _, rule := range rules {
		out = append(out, toCategoryCommissionDTO(rule))
	}
	return out, nil
}

// UpsertCategoryCommission creates or replaces the rule for a pattern.
// When the settings toggle is on, existing unsold listings under the
// pattern are repriced.
func (cf *CommissionFlowImpl) UpsertCategoryCommission(ctx context.Context, request *dto.UpsertCategoryCommissionRequest) (*dto.CategoryCommissionDTO, error) {
	if request.Commission < 0 || request.Commission > 100 {
		return nil, NewBusinessError("COMMISSION_VALIDATION_FAILED", "Commission validation failed", ErrCommissionOutOfRange)
	}

	var rule *models.CategoryCommission

	err := repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		pattern, err := cf.patternRepo.ByUUID(ctx, request.PatternUUID)
		if err != nil {
			return err
		}
		if pattern == nil {
			return ErrPatternNotFound
		}

		rule, err = cf.categoryCommRepo.ByPatternID(ctx, pattern.ID)
		if err != nil {
			return err
		}
		if rule == nil {
			rule = &models.CategoryCommission{
				PatternID: pattern.ID,
				CreatedAt: utils.UTCNow(),
			}
		}
		rule.Commission = request.Commission
		rule.UpdatedAt = utils.UTCNow()
		rule.Pattern = *pattern

		if rule.ID == 0 {
			if err := cf.categoryCommRepo.Save(ctx, rule); err != nil {
				return err
			}
		} else {
			if err := cf.categoryCommRepo.Update(ctx, rule); err != nil {
				return err
			}
		}

		return cf.repriceExisting(ctx, models.NumberFilter{PatternID: &pattern.ID}, request.Commission)
	})

	if err != nil {
		return nil, NewBusinessError("UPSERT_COMMISSION_FAILED", "Failed to save commission rule", err)
	}

	d := toCategoryCommissionDTO(rule)
	return &d, nil
}

// DeleteCategoryCommission removes a pattern rule
func (cf *CommissionFlowImpl) DeleteCategoryCommission(ctx context.Context, ruleUUID string) error {
	rule, err := cf.categoryCommRepo.ByUUID(ctx, ruleUUID)
	if err != nil {
		return NewBusinessError("FETCH_COMMISSION_FAILED", "Failed to fetch commission rule", err)
	}
	if rule == nil {
		return NewBusinessError("COMMISSION_NOT_FOUND", "Commission rule not found", ErrCommissionRuleNotFound)
	}
	if err := cf.categoryCommRepo.Delete(ctx, rule.ID); err != nil {
		return NewBusinessError("DELETE_COMMISSION_FAILED", "Failed to delete commission rule", err)
	}
	return nil
}

// ListPriceRangeCommissions returns all price-range rules
func (cf *CommissionFlowImpl) ListPriceRangeCommissions(ctx context.Context) ([]dto.PriceRangeCommissionDTO, error) {
	rules, err := cf.priceRangeRepo.ByFilter(ctx, models.PriceRangeCommissionFilter{}, "min_price ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("FETCH_COMMISSIONS_FAILED", "Failed to fetch commission rules", err)
	}

	out := make([]dto.PriceRangeCommissionDTO, 0, len(rules))
	for _, rule := range rules {
		out = append(out, toPriceRangeCommissionDTO(rule))
	}
	return out, nil
}

// CreatePriceRangeCommission adds a price-range rule
func (cf *CommissionFlowImpl) CreatePriceRangeCommission(ctx context.Context, request *dto.CreatePriceRangeCommissionRequest) (*dto.PriceRangeCommissionDTO, error) {
	if request.Commission < 0 || request.Commission > 100 {
		return nil, NewBusinessError("COMMISSION_VALIDATION_FAILED", "Commission validation failed", ErrCommissionOutOfRange)
	}
	if request.MinPrice > request.MaxPrice {
		return nil, NewBusinessError("COMMISSION_VALIDATION_FAILED", "Commission validation failed", ErrInvalidPriceRange)
	}

	rule := &models.PriceRangeCommission{
		MinPrice:   request.MinPrice,
		MaxPrice:   request.MaxPrice,
		Commission: request.Commission,
		CreatedAt:  utils.UTCNow(),
		UpdatedAt:  utils.UTCNow(),
	}
	if err := cf.priceRangeRepo.Save(ctx, rule); err != nil {
		return nil, NewBusinessError("CREATE_COMMISSION_FAILED", "Failed to create commission rule", err)
	}

	d := toPriceRangeCommissionDTO(rule)
	return &d, nil
}

// DeletePriceRangeCommission removes a price-range rule
func (cf *CommissionFlowImpl) DeletePriceRangeCommission(ctx context.Context, ruleUUID string) error {
	rule, err := cf.priceRangeRepo.ByUUID(ctx, ruleUUID)
	if err != nil {
		return NewBusinessError("FETCH_COMMISSION_FAILED", "Failed to fetch commission rule", err)
	}
	if rule == nil {
		return NewBusinessError("COMMISSION_NOT_FOUND", "Commission rule not found", ErrCommissionRuleNotFound)
	}
	if err := cf.priceRangeRepo.Delete(ctx, rule.ID); err != nil {
		return NewBusinessError("DELETE_COMMISSION_FAILED", "Failed to delete commission rule", err)
	}
	return nil
}

// GetSettings returns the settings singleton
func (cf *CommissionFlowImpl) GetSettings(ctx context.Context) (*dto.CommissionSettingsDTO, error) {
	settings, err := cf.settingsRepo.Get(ctx)
	if err != nil {
		return nil, NewBusinessError("FETCH_SETTINGS_FAILED", "Failed to fetch commission settings", err)
	}
	return &dto.CommissionSettingsDTO{
		ApplyToNewNumbers:      settings.ApplyToNewNumbers,
		ApplyToExistingNumbers: settings.ApplyToExistingNumbers,
	}, nil
}

// UpdateSettings toggles when commission rules are applied
func (cf *CommissionFlowImpl) UpdateSettings(ctx context.Context, request *dto.UpdateCommissionSettingsRequest) (*dto.CommissionSettingsDTO, error) {
	settings, err := cf.settingsRepo.Get(ctx)
	if err != nil {
		return nil, NewBusinessError("FETCH_SETTINGS_FAILED", "Failed to fetch commission settings", err)
	}

	if request.ApplyToNewNumbers != nil {
		settings.ApplyToNewNumbers = request.ApplyToNewNumbers
	}
	if request.ApplyToExistingNumbers != nil {
		settings.ApplyToExistingNumbers = request.ApplyToExistingNumbers
	}
	settings.UpdatedAt = utils.UTCNow()

	if err := cf.settingsRepo.Update(ctx, settings); err != nil {
		return nil, NewBusinessError("UPDATE_SETTINGS_FAILED", "Failed to update commission settings", err)
	}

	return &dto.CommissionSettingsDTO{
		ApplyToNewNumbers:      settings.ApplyToNewNumbers,
		ApplyToExistingNumbers: settings.ApplyToExistingNumbers,
	}, nil
}

// Private helper methods

// repriceExisting re-derives price from purchase price for unsold
// admin-priced listings when the existing-numbers toggle is on.
func (cf *CommissionFlowImpl) repriceExisting(ctx context.Context, filter models.NumberFilter, commission float64) error {
	settings, err := cf.settingsRepo.Get(ctx)
	if err != nil {
		return err
	}
	if settings == nil || !utils.IsTrue(settings.ApplyToExistingNumbers) {
		return nil
	}

	filter.IsSold = utils.ToPtr(false)
	numbers, err := cf.numberRepo.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return err
	}

	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(commission).Div(decimal.NewFromInt(100)))
	for _, number := range numbers {
		if number.PurchasePrice <= 0 {
			continue
		}
		number.Price = decimal.NewFromInt(number.PurchasePrice).Mul(factor).Round(0).IntPart()
		number.UpdatedAt = utils.UTCNow()
		if err := cf.numberRepo.Update(ctx, number); err != nil {
			return err
		}
	}
	return nil
}

func toCategoryCommissionDTO(rule *models.CategoryCommission) dto.CategoryCommissionDTO {
	return dto.CategoryCommissionDTO{
		UUID:       rule.UUID.String(),
		Pattern:    rule.Pattern.Pattern,
		Commission: rule.Commission,
		CreatedAt:  rule.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toPriceRangeCommissionDTO(rule *models.PriceRangeCommission) dto.PriceRangeCommissionDTO {
	return dto.PriceRangeCommissionDTO{
		UUID:       rule.UUID.String(),
		MinPrice:   rule.MinPrice,
		MaxPrice:   rule.MaxPrice,
		Commission: rule.Commission,
		CreatedAt:  rule.CreatedAt.UTC().Format(time.RFC3339),
	}
}
