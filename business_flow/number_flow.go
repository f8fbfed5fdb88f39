// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/numberkart/numberkart/app/dto"
	"github.com/numberkart/numberkart/config"
	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/repository"
	"github.com/numberkart/numberkart/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NumberFlow handles browsing, vendor listing management and admin
// approval of numbers
type NumberFlow interface {
	// Public
	RandomListing(ctx context.Context) ([]dto.NumberDTO, error)
	ListNumbers(ctx context.Context, request *dto.ListNumbersRequest) (*dto.ListNumbersResponse, error)
	GetNumber(ctx context.Context, numberUUID string) (*dto.NumberDTO, error)

	// Vendor
	CreateNumber(ctx context.Context, accountID uint, request *dto.CreateNumberRequest) (*dto.NumberDTO, error)
	ListVendorNumbers(ctx context.Context, accountID uint, page, limit int) (*dto.ListNumbersResponse, error)
	UpdateNumber(ctx context.Context, accountID uint, numberUUID string, request *dto.UpdateNumberRequest) (*dto.NumberDTO, error)
	DeleteNumber(ctx context.Context, accountID uint, numberUUID string) error

	// Admin
	AdminCreateNumber(ctx context.Context, adminID uint, request *dto.AdminCreateNumberRequest, metadata *ClientMetadata) (*dto.NumberDTO, error)
	AdminListUnapproved(ctx context.Context, page, limit int) (*dto.ListNumbersResponse, error)
	AdminApproveNumber(ctx context.Context, adminID uint, numberUUID string, metadata *ClientMetadata) (*dto.NumberDTO, error)
	AdminRejectNumber(ctx context.Context, adminID uint, numberUUID string, metadata *ClientMetadata) error
	AdminUpdateNumber(ctx context.Context, adminID uint, numberUUID string, request *dto.UpdateNumberRequest) (*dto.NumberDTO, error)
	AdminDeleteNumber(ctx context.Context, adminID uint, numberUUID string) error
}

// NumberFlowImpl implements the number business flow
type NumberFlowImpl struct {
	numberRepo       repository.NumberRepository
	patternRepo      repository.PatternRepository
	vendorRepo       repository.VendorRepository
	categoryCommRepo repository.CategoryCommissionRepository
	priceRangeRepo   repository.PriceRangeCommissionRepository
	settingsRepo     repository.CommissionSettingsRepository
	auditRepo        repository.AuditLogRepository
	rc               *redis.Client
	cacheConfig      *config.CacheConfig
	db               *gorm.DB
}

// NewNumberFlow creates a new number flow instance
func NewNumberFlow(
	numberRepo repository.NumberRepository,
	patternRepo repository.PatternRepository,
	vendorRepo repository.VendorRepository,
	categoryCommRepo repository.CategoryCommissionRepository,
	priceRangeRepo repository.PriceRangeCommissionRepository,
	settingsRepo repository.CommissionSettingsRepository,
	auditRepo repository.AuditLogRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
	db *gorm.DB,
) NumberFlow {
	return &NumberFlowImpl{
		numberRepo:       numberRepo,
		patternRepo:      patternRepo,
		vendorRepo:       vendorRepo,
		categoryCommRepo: categoryCommRepo,
		priceRangeRepo:   priceRangeRepo,
		settingsRepo:     settingsRepo,
		auditRepo:        auditRepo,
		rc:               rc,
		cacheConfig:      cacheConfig,
		db:               db,
	}
}

// RandomListing returns a handful of random approved unsold numbers,
// served from cache when present
func (nf *NumberFlowImpl) RandomListing(ctx context.Context) ([]dto.NumberDTO, error) {
	if nf.rc != nil && nf.cacheConfig != nil {
		cacheKey := redisKey(*nf.cacheConfig, utils.RandomListingCacheKey)
		if bs, err := nf.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var out []dto.NumberDTO
			if err := json.Unmarshal(bs, &out); err == nil {
				return out, nil
			}
		}
	}

	numbers, err := nf.numberRepo.ListRandomAvailable(ctx, utils.RandomListingCount)
	if err != nil {
		return nil, NewBusinessError("FETCH_NUMBERS_FAILED", "Failed to fetch numbers", err)
	}

	out := make([]dto.NumberDTO, 0, len(numbers))
	for _, number := range numbers {
		out = append(out, ToNumberDTO(*number))
	}

	if nf.rc != nil && nf.cacheConfig != nil {
		if bs, err := json.Marshal(out); err == nil {
			cacheKey := redisKey(*nf.cacheConfig, utils.RandomListingCacheKey)
			_ = nf.rc.Set(ctx, cacheKey, bs, utils.RandomListingCacheTTL).Err()
		}
	}

	return out, nil
}

// ListNumbers returns approved unsold numbers matching the public filters
func (nf *NumberFlowImpl) ListNumbers(ctx context.Context, request *dto.ListNumbersRequest) (*dto.ListNumbersResponse, error) {
	filter := models.NumberFilter{
		IsApproved: utils.ToPtr(true),
		IsSold:     utils.ToPtr(false),
		Status:     utils.ToPtr(models.NumberStatusAvailable),
	}
	if request.Prefix != "" {
		filter.EntryPrefix = &request.Prefix
	}
	if request.Suffix != "" {
		filter.EntrySuffix = &request.Suffix
	}
	if request.Contains != "" {
		filter.EntryContains = &request.Contains
	}
	if request.MinPrice > 0 {
		filter.MinPrice = &request.MinPrice
	}
	if request.MaxPrice > 0 {
		filter.MaxPrice = &request.MaxPrice
	}
	if request.Category != "" {
		filter.Category = &request.Category
	}
	if request.Operator != "" {
		filter.CurrentOperator = &request.Operator
	}
	if request.Circle != "" {
		filter.Circle = &request.Circle
	}
	if request.PortStatus != "" {
		filter.PortStatus = &request.PortStatus
	}
	if request.Pattern != "" {
		pattern, err := nf.patternRepo.ByPattern(ctx, request.Pattern)
		if err != nil {
			return nil, NewBusinessError("FETCH_PATTERN_FAILED", "Failed to fetch pattern", err)
		}
		if pattern == nil {
			return nil, NewBusinessError("PATTERN_NOT_FOUND", "Pattern not found", ErrPatternNotFound)
		}
		filter.PatternID = &pattern.ID
	}

	page, limit := normalizePagination(request.Page, request.Limit)
	numbers, err := nf.numberRepo.ByFilter(ctx, filter, "created_at DESC", limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("FETCH_NUMBERS_FAILED", "Failed to fetch numbers", err)
	}
	total, err := nf.numberRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("FETCH_NUMBERS_FAILED", "Failed to count numbers", err)
	}

	return buildNumberListing(numbers, total, page, limit), nil
}

// GetNumber returns one approved listing by uuid
func (nf *NumberFlowImpl) GetNumber(ctx context.Context, numberUUID string) (*dto.NumberDTO, error) {
	number, err := nf.numberRepo.ByUUID(ctx, numberUUID)
	if err != nil {
		return nil, NewBusinessError("FETCH_NUMBER_FAILED", "Failed to fetch number", err)
	}
	if number == nil || !utils.IsTrue(number.IsApproved) {
		return nil, NewBusinessError("NUMBER_NOT_FOUND", "Number not found", ErrNumberNotFound)
	}
	d := ToNumberDTO(*number)
	return &d, nil
}

// CreateNumber lists a new number for an approved vendor. The listing
// starts unapproved and invisible to customers.
func (nf *NumberFlowImpl) CreateNumber(ctx context.Context, accountID uint, request *dto.CreateNumberRequest) (*dto.NumberDTO, error) {
	vendor, err := nf.RequireApprovedVendor(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var number *models.Number
	err = repository.WithTransaction(ctx, nf.db, func(ctx context.Context) error {
		number, err = nf.buildNumber(ctx, &request.Entry, vendor.ID, request)
		if err != nil {
			return err
		}
		number.UploadedByAdmin = utils.ToPtr(false)
		number.IsApproved = utils.ToPtr(false)
		number.Status = models.NumberStatusPendingApproval
		return nf.numberRepo.Save(ctx, number)
	})

	if err != nil {
		return nil, NewBusinessError("CREATE_NUMBER_FAILED", "Failed to create number", err)
	}

	d := ToNumberDTO(*number)
	return &d, nil
}

// ListVendorNumbers returns the caller's own listings, sold or not
func (nf *NumberFlowImpl) ListVendorNumbers(ctx context.Context, accountID uint, page, limit int) (*dto.ListNumbersResponse, error) {
	vendor, err := nf.RequireVendor(ctx, accountID)
	if err != nil {
		return nil, err
	}

	filter := models.NumberFilter{VendorID: &vendor.ID}
	page, limit = normalizePagination(page, limit)
	numbers, err := nf.numberRepo.ByFilter(ctx, filter, "created_at DESC", limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("FETCH_NUMBERS_FAILED", "Failed to fetch numbers", err)
	}
	total, err := nf.numberRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("FETCH_NUMBERS_FAILED", "Failed to count numbers", err)
	}

	return buildNumberListing(numbers, total, page, limit), nil
}

// UpdateNumber edits one of the caller's listings. Entry, ownership and
// sale/approval state are never editable here.
func (nf *NumberFlowImpl) UpdateNumber(ctx context.Context, accountID uint, numberUUID string, request *dto.UpdateNumberRequest) (*dto.NumberDTO, error) {
	vendor, err := nf.RequireVendor(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var number *models.Number
	err = repository.WithTransaction(ctx, nf.db, func(ctx context.Context) error {
		number, err = nf.numberRepo.ByUUID(ctx, numberUUID)
		if err != nil {
			return err
		}
		if number == nil {
			return ErrNumberNotFound
		}
		if number.VendorID != vendor.ID {
			return ErrNumberNotOwned
		}
		if utils.IsTrue(number.IsSold) {
			return ErrNumberAlreadySold
		}
		if err := nf.applyNumberUpdate(ctx, number, request); err != nil {
			return err
		}
		return nf.numberRepo.Update(ctx, number)
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_NUMBER_FAILED", "Failed to update number", err)
	}

	d := ToNumberDTO(*number)
	return &d, nil
}

// DeleteNumber removes one of the caller's unsold listings
func (nf *NumberFlowImpl) DeleteNumber(ctx context.Context, accountID uint, numberUUID string) error {
	vendor, err := nf.RequireVendor(ctx, accountID)
	if err != nil {
		return err
	}

	err = repository.WithTransaction(ctx, nf.db, func(ctx context.Context) error {
		number, err := nf.numberRepo.ByUUID(ctx, numberUUID)
		if err != nil {
			return err
		}
		if number == nil {
			return ErrNumberNotFound
		}
		if number.VendorID != vendor.ID {
			return ErrNumberNotOwned
		}
		if utils.IsTrue(number.IsSold) {
			return ErrNumberAlreadySold
		}
		return nf.numberRepo.Delete(ctx, number.ID)
	})

	if err != nil {
		return NewBusinessError("DELETE_NUMBER_FAILED", "Failed to delete number", err)
	}

	nf.invalidateListingCache(ctx)
	return nil
}

// AdminCreateNumber lists a number on behalf of a vendor, auto-approved
// and with commission applied when the settings toggle is on
func (nf *NumberFlowImpl) AdminCreateNumber(ctx context.Context, adminID uint, request *dto.AdminCreateNumberRequest, metadata *ClientMetadata) (*dto.NumberDTO, error) {
	vendor, err := nf.vendorRepo.ByUUID(ctx, request.VendorUUID)
	if err != nil {
		return nil, NewBusinessError("VENDOR_LOOKUP_FAILED", "Failed to lookup vendor", err)
	}
	if vendor == nil {
		return nil, NewBusinessError("VENDOR_NOT_FOUND", "Vendor not found", ErrVendorNotFound)
	}

	var number *models.Number
	err = repository.WithTransaction(ctx, nf.db, func(ctx context.Context) error {
		number, err = nf.buildNumber(ctx, &request.Entry, vendor.ID, &request.CreateNumberRequest)
		if err != nil {
			return err
		}
		number.PurchasePrice = request.PurchasePrice
		number.UploadedByAdmin = utils.ToPtr(true)
		number.IsApproved = utils.ToPtr(true)
		number.ApprovalDate = utils.UTCNowPtr()
		number.Status = models.NumberStatusAvailable

		if err := nf.maybeApplyCommission(ctx, number); err != nil {
			return err
		}
		return nf.numberRepo.Save(ctx, number)
	})

	if err != nil {
		return nil, NewBusinessError("CREATE_NUMBER_FAILED", "Failed to create number", err)
	}

	nf.invalidateListingCache(ctx)

	msg := fmt.Sprintf("Number approved on admin upload: %s", number.Entry)
	_ = nf.LogAdminNumberEvent(ctx, adminID, models.AuditActionNumberApproved, msg, true, metadata)

	d := ToNumberDTO(*number)
	return &d, nil
}

// AdminListUnapproved returns listings waiting for approval
func (nf *NumberFlowImpl) AdminListUnapproved(ctx context.Context, page, limit int) (*dto.ListNumbersResponse, error) {
	filter := models.NumberFilter{IsApproved: utils.ToPtr(false)}
	page, limit = normalizePagination(page, limit)
	numbers, err := nf.numberRepo.ByFilter(ctx, filter, "created_at ASC", limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("FETCH_NUMBERS_FAILED", "Failed to fetch numbers", err)
	}
	total, err := nf.numberRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("FETCH_NUMBERS_FAILED", "Failed to count numbers", err)
	}
	return buildNumberListing(numbers, total, page, limit), nil
}

// AdminApproveNumber makes a listing visible and purchasable
func (nf *NumberFlowImpl) AdminApproveNumber(ctx context.Context, adminID uint, numberUUID string, metadata *ClientMetadata) (*dto.NumberDTO, error) {
	var number *models.Number
	err := repository.WithTransaction(ctx, nf.db, func(ctx context.Context) error {
		var err error
		number, err = nf.numberRepo.ByUUID(ctx, numberUUID)
		if err != nil {
			return err
		}
		if number == nil {
			return ErrNumberNotFound
		}
		if utils.IsTrue(number.IsApproved) {
			return ErrNumberAlreadyApproved
		}

		number.IsApproved = utils.ToPtr(true)
		number.ApprovalDate = utils.UTCNowPtr()
		number.Status = models.NumberStatusAvailable

		if err := nf.maybeApplyCommission(ctx, number); err != nil {
			return err
		}
		return nf.numberRepo.Update(ctx, number)
	})

	if err != nil {
		return nil, NewBusinessError("APPROVE_NUMBER_FAILED", "Failed to approve number", err)
	}

	nf.invalidateListingCache(ctx)

	msg := fmt.Sprintf("Number approved: %s", number.Entry)
	_ = nf.LogAdminNumberEvent(ctx, adminID, models.AuditActionNumberApproved, msg, true, metadata)

	d := ToNumberDTO(*number)
	return &d, nil
}

// AdminRejectNumber removes an unsold listing
func (nf *NumberFlowImpl) AdminRejectNumber(ctx context.Context, adminID uint, numberUUID string, metadata *ClientMetadata) error {
	var entry string
	err := repository.WithTransaction(ctx, nf.db, func(ctx context.Context) error {
		number, err := nf.numberRepo.ByUUID(ctx, numberUUID)
		if err != nil {
			return err
		}
		if number == nil {
			return ErrNumberNotFound
		}
		if utils.IsTrue(number.IsSold) {
			return ErrNumberAlreadySold
		}
		entry = number.Entry
		return nf.numberRepo.Delete(ctx, number.ID)
	})

	if err != nil {
		return NewBusinessError("REJECT_NUMBER_FAILED", "Failed to reject number", err)
	}

	nf.invalidateListingCache(ctx)

	msg := fmt.Sprintf("Number rejected: %s", entry)
	_ = nf.LogAdminNumberEvent(ctx, adminID, models.AuditActionNumberRejected, msg, true, metadata)

	return nil
}

// AdminUpdateNumber edits any unsold listing
func (nf *NumberFlowImpl) AdminUpdateNumber(ctx context.Context, adminID uint, numberUUID string, request *dto.UpdateNumberRequest) (*dto.NumberDTO, error) {
	var number *models.Number
	err := repository.WithTransaction(ctx, nf.db, func(ctx context.Context) error {
		var err error
		number, err = nf.numberRepo.ByUUID(ctx, numberUUID)
		if err != nil {
			return err
		}
		if number == nil {
			return ErrNumberNotFound
		}
		if utils.IsTrue(number.IsSold) {
			return ErrNumberAlreadySold
		}
		if err := nf.applyNumberUpdate(ctx, number, request); err != nil {
			return err
		}
		return nf.numberRepo.Update(ctx, number)
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_NUMBER_FAILED", "Failed to update number", err)
	}

	nf.invalidateListingCache(ctx)

	d := ToNumberDTO(*number)
	return &d, nil
}

// AdminDeleteNumber removes any unsold listing
func (nf *NumberFlowImpl) AdminDeleteNumber(ctx context.Context, adminID uint, numberUUID string) error {
	err := repository.WithTransaction(ctx, nf.db, func(ctx context.Context) error {
		number, err := nf.numberRepo.ByUUID(ctx, numberUUID)
		if err != nil {
			return err
		}
		if number == nil {
			return ErrNumberNotFound
		}
		if utils.IsTrue(number.IsSold) {
			return ErrNumberAlreadySold
		}
		return nf.numberRepo.Delete(ctx, number.ID)
	})

	if err != nil {
		return NewBusinessError("DELETE_NUMBER_FAILED", "Failed to delete number", err)
	}

	nf.invalidateListingCache(ctx)
	return nil
}

// Private helper methods

func (nf *NumberFlowImpl) RequireVendor(ctx context.Context, accountID uint) (*models.Vendor, error) {
	vendor, err := nf.vendorRepo.ByAccountID(ctx, accountID)
	if err != nil {
		return nil, NewBusinessError("VENDOR_LOOKUP_FAILED", "Failed to lookup vendor profile", err)
	}
	if vendor == nil {
		return nil, NewBusinessError("VENDOR_PROFILE_REQUIRED", "Vendor profile required", ErrVendorProfileRequired)
	}
	return vendor, nil
}

func (nf *NumberFlowImpl) RequireApprovedVendor(ctx context.Context, accountID uint) (*models.Vendor, error) {
	vendor, err := nf.RequireVendor(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !vendor.CanListNumbers() {
		return nil, NewBusinessError("VENDOR_NOT_APPROVED", "Vendor is not approved", ErrVendorNotApproved)
	}
	return vendor, nil
}

func (nf *NumberFlowImpl) buildNumber(ctx context.Context, entry *string, vendorID uint, request *dto.CreateNumberRequest) (*models.Number, error) {
	existing, err := nf.numberRepo.ByEntry(ctx, *entry)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNumberAlreadyExists
	}

	number := &models.Number{
		Entry:           *entry,
		VendorID:        vendorID,
		Price:           request.Price,
		Discount:        request.Discount,
		Category:        models.NumberCategoryRegular,
		CurrentOperator: utils.ToPtrOrNil(request.CurrentOperator),
		ParentOperator:  utils.ToPtrOrNil(request.ParentOperator),
		Circle:          utils.ToPtrOrNil(request.Circle),
		PortStatus:      utils.ToPtrOrNil(request.PortStatus),
		DealerName:      utils.ToPtrOrNil(request.DealerName),
		DealerContact:   utils.ToPtrOrNil(request.DealerContact),
		IsSold:          utils.ToPtr(false),
		CreatedAt:       utils.UTCNow(),
		UpdatedAt:       utils.UTCNow(),
	}
	if request.Category != "" {
		number.Category = request.Category
	}
	if request.PatternUUID != "" {
		pattern, err := nf.patternRepo.ByUUID(ctx, request.PatternUUID)
		if err != nil {
			return nil, err
		}
		if pattern == nil {
			return nil, ErrPatternNotFound
		}
		number.PatternID = &pattern.ID
	}
	return number, nil
}

func (nf *NumberFlowImpl) applyNumberUpdate(ctx context.Context, number *models.Number, request *dto.UpdateNumberRequest) error {
	if request.Price != nil {
		number.Price = *request.Price
	}
	if request.Discount != nil {
		number.Discount = *request.Discount
	}
	if request.PatternUUID != nil {
		if *request.PatternUUID == "" {
			number.PatternID = nil
		} else {
			pattern, err := nf.patternRepo.ByUUID(ctx, *request.PatternUUID)
			if err != nil {
				return err
			}
			if pattern == nil {
				return ErrPatternNotFound
			}
			number.PatternID = &pattern.ID
		}
	}
	if request.Category != nil {
		number.Category = *request.Category
	}
	if request.CurrentOperator != nil {
		number.CurrentOperator = request.CurrentOperator
	}
	if request.ParentOperator != nil {
		number.ParentOperator = request.ParentOperator
	}
	if request.Circle != nil {
		number.Circle = request.Circle
	}
	if request.PortStatus != nil {
		number.PortStatus = request.PortStatus
	}
	if request.DealerName != nil {
		number.DealerName = request.DealerName
	}
	if request.DealerContact != nil {
		number.DealerContact = request.DealerContact
	}
	number.UpdatedAt = utils.UTCNow()
	return nil
}

// maybeApplyCommission inflates the listing price from purchase price
// when the settings toggle is on. A pattern rule wins over a price
// range rule.
func (nf *NumberFlowImpl) maybeApplyCommission(ctx context.Context, number *models.Number) error {
	if number.PurchasePrice <= 0 {
		return nil
	}
	settings, err := nf.settingsRepo.Get(ctx)
	if err != nil {
		return err
	}
	if settings == nil || !utils.IsTrue(settings.ApplyToNewNumbers) {
		return nil
	}

	var commission *float64
	if number.PatternID != nil {
		rule, err := nf.categoryCommRepo.ByPatternID(ctx, *number.PatternID)
		if err != nil {
			return err
		}
		if rule != nil {
			commission = &rule.Commission
		}
	}
	if commission == nil {
		rule, err := nf.priceRangeRepo.CoveringPrice(ctx, number.PurchasePrice)
		if err != nil {
			return err
		}
		if rule != nil {
			commission = &rule.Commission
		}
	}
	if commission == nil {
		return nil
	}

	base := decimal.NewFromInt(number.PurchasePrice)
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(*commission).Div(decimal.NewFromInt(100)))
	number.Price = base.Mul(factor).Round(0).IntPart()
	return nil
}

func (nf *NumberFlowImpl) invalidateListingCache(ctx context.Context) {
	if nf.rc == nil || nf.cacheConfig == nil {
		return
	}
	_ = nf.rc.Del(ctx, redisKey(*nf.cacheConfig, utils.RandomListingCacheKey)).Err()
}

func (nf *NumberFlowImpl) LogAdminNumberEvent(ctx context.Context, adminID uint, action string, description string, success bool, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		AdminID:     &adminID,
		Action:      action,
		Description: &description,
		Success:     utils.ToPtr(success),
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}
	return nf.auditRepo.Save(ctx, audit)
}

func buildNumberListing(numbers []*models.Number, total int64, page, limit int) *dto.ListNumbersResponse {
	items := make([]dto.NumberDTO, 0, len(numbers))
	for _, number := range numbers {
		items = append(items, ToNumberDTO(*number))
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &dto.ListNumbersResponse{
		Items: items,
		Pagination: dto.PaginationInfo{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}
}
