// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"context"
	"strings"

	"github.com/numberkart/numberkart/app/dto"
	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/repository"
	"github.com/numberkart/numberkart/utils"
	"gorm.io/gorm"
)

// PatternFlow handles pattern browsing and admin pattern management
type PatternFlow interface {
	ListPatterns(ctx context.Context) ([]dto.PatternDTO, error)
	ListPatternNumbers(ctx context.Context, patternUUID string, page, limit int) (*dto.ListNumbersResponse, error)
	CreatePattern(ctx context.Context, request *dto.CreatePatternRequest) (*dto.PatternDTO, error)
	DeletePattern(ctx context.Context, patternUUID string) error
}

// PatternFlowImpl implements the pattern business flow
type PatternFlowImpl struct {
	patternRepo repository.PatternRepository
	numberRepo  repository.NumberRepository
	db          *gorm.DB
}

// NewPatternFlow creates a new pattern flow instance
func NewPatternFlow(patternRepo repository.PatternRepository, numberRepo repository.NumberRepository, db *gorm.DB) PatternFlow {
	return &PatternFlowImpl{
		patternRepo: patternRepo,
		numberRepo:  numberRepo,
		db:          db,
	}
}

// ListPatterns returns all patterns
func (pf *PatternFlowImpl) ListPatterns(ctx context.Context) ([]dto.PatternDTO, error) {
	patterns, err := pf.patternRepo.ByFilter(ctx, models.PatternFilter{}, "pattern ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("FETCH_PATTERNS_FAILED", "Failed to fetch patterns", err)
	}

	out := make([]dto.PatternDTO, 0, len(patterns))
	for _, pattern := range patterns {
		out = append(out, ToPatternDTO(*pattern))
	}
	return out, nil
}

// ListPatternNumbers returns the approved unsold numbers under one pattern
func (pf *PatternFlowImpl) ListPatternNumbers(ctx context.Context, patternUUID string, page, limit int) (*dto.ListNumbersResponse, error) {
	pattern, err := pf.patternRepo.ByUUID(ctx, patternUUID)
	if err != nil {
		return nil, NewBusinessError("FETCH_PATTERN_FAILED", "Failed to fetch pattern", err)
	}
	if pattern == nil {
		return nil, NewBusinessError("PATTERN_NOT_FOUND", "Pattern not found", ErrPatternNotFound)
	}

	filter := models.NumberFilter{
		PatternID:  &pattern.ID,
		IsApproved: utils.ToPtr(true),
		IsSold:     utils.ToPtr(false),
	}
	page, limit = normalizePagination(page, limit)
	numbers, err := pf.numberRepo.ByFilter(ctx, filter, "created_at DESC", limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("FETCH_NUMBERS_FAILED", "Failed to fetch numbers", err)
	}
	total, err := pf.numberRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("FETCH_NUMBERS_FAILED", "Failed to count numbers", err)
	}

	return buildNumberListing(numbers, total, page, limit), nil
}

// CreatePattern adds a new pattern
func (pf *PatternFlowImpl) CreatePattern(ctx context.Context, request *dto.CreatePatternRequest) (*dto.PatternDTO, error) {
	name := strings.TrimSpace(request.Pattern)

	existing, err := pf.patternRepo.ByPattern(ctx, name)
	if err != nil {
		return nil, NewBusinessError("FETCH_PATTERN_FAILED", "Failed to fetch pattern", err)
	}
	if existing != nil {
		return nil, NewBusinessError("PATTERN_ALREADY_EXISTS", "Pattern already exists", ErrPatternAlreadyExists)
	}

	pattern := &models.Pattern{
		Pattern:   name,
		CreatedAt: utils.UTCNow(),
	}
	if err := pf.patternRepo.Save(ctx, pattern); err != nil {
		return nil, NewBusinessError("CREATE_PATTERN_FAILED", "Failed to create pattern", err)
	}

	d := ToPatternDTO(*pattern)
	return &d, nil
}

// DeletePattern removes a pattern and detaches it from its numbers
func (pf *PatternFlowImpl) DeletePattern(ctx context.Context, patternUUID string) error {
	err := repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		pattern, err := pf.patternRepo.ByUUID(ctx, patternUUID)
		if err != nil {
			return err
		}
		if pattern == nil {
			return ErrPatternNotFound
		}
		if err := pf.numberRepo.DetachPattern(ctx, pattern.ID); err != nil {
			return err
		}
		return pf.patternRepo.Delete(ctx, pattern.ID)
	})

	if err != nil {
		return NewBusinessError("DELETE_PATTERN_FAILED", "Failed to delete pattern", err)
	}
	return nil
}
