// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/numberkart/numberkart/app/dto"
	"github.com/numberkart/numberkart/config"
	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/repository"
	"github.com/numberkart/numberkart/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// SaleFlow handles purchases and sale listings
type SaleFlow interface {
	Purchase(ctx context.Context, accountID uint, request *dto.PurchaseRequest, metadata *ClientMetadata) (*dto.SaleDTO, error)
	GetSale(ctx context.Context, accountID uint, saleUUID string) (*dto.SaleDTO, error)
	ListCustomerSales(ctx context.Context, accountID uint, page, limit int) (*dto.ListSalesResponse, error)
	ListVendorSales(ctx context.Context, accountID uint, page, limit int) (*dto.ListSalesResponse, error)
	AdminListSales(ctx context.Context, request *dto.AdminListSalesRequest) (*dto.ListSalesResponse, error)
	AdminExportSales(ctx context.Context) (string, []byte, error)
}

// SaleFlowImpl implements the sale business flow
type SaleFlowImpl struct {
	customerRepo repository.CustomerRepository
	vendorRepo   repository.VendorRepository
	numberRepo   repository.NumberRepository
	cartRepo     repository.CartItemRepository
	saleRepo     repository.SaleRepository
	auditRepo    repository.AuditLogRepository
	rc           *redis.Client
	cacheConfig  *config.CacheConfig
	db           *gorm.DB
}

// NewSaleFlow creates a new sale flow instance
func NewSaleFlow(
	customerRepo repository.CustomerRepository,
	vendorRepo repository.VendorRepository,
	numberRepo repository.NumberRepository,
	cartRepo repository.CartItemRepository,
	saleRepo repository.SaleRepository,
	auditRepo repository.AuditLogRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
	db *gorm.DB,
) SaleFlow {
	return &SaleFlowImpl{
		customerRepo: customerRepo,
		vendorRepo:   vendorRepo,
		numberRepo:   numberRepo,
		cartRepo:     cartRepo,
		saleRepo:     saleRepo,
		auditRepo:    auditRepo,
		rc:           rc,
		cacheConfig:  cacheConfig,
		db:           db,
	}
}

// Purchase creates a pending sale for the requested numbers and marks
// them sold. All steps run in one transaction; a number sold by a
// concurrent purchase rolls the whole sale back.
func (sf *SaleFlowImpl) Purchase(ctx context.Context, accountID uint, request *dto.PurchaseRequest, metadata *ClientMetadata) (*dto.SaleDTO, error) {
	if len(request.NumberUUIDs) == 0 {
		return nil, NewBusinessError("PURCHASE_VALIDATION_FAILED", "Purchase validation failed", ErrEmptyPurchase)
	}
	if len(request.NumberUUIDs) > utils.MaxNumbersPerPurchase {
		return nil, NewBusinessError("PURCHASE_VALIDATION_FAILED", "Purchase validation failed", ErrTooManyNumbers)
	}

	uuids := make([]uuid.UUID, 0, len(request.NumberUUIDs))
	for _, raw := range request.NumberUUIDs {
		parsed, err := utils.ParseUUID(raw)
		if err != nil {
			return nil, NewBusinessError("PURCHASE_VALIDATION_FAILED", "Purchase validation failed",
				fmt.Errorf("%w: %s", ErrInvalidNumberIDs, raw))
		}
		uuids = append(uuids, parsed)
	}

	customer, err := sf.customerRepo.ByAccountID(ctx, accountID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LOOKUP_FAILED", "Failed to lookup customer profile", err)
	}
	if customer == nil {
		return nil, NewBusinessError("CUSTOMER_PROFILE_REQUIRED", "Customer profile required", ErrCustomerProfileRequired)
	}

	var sale *models.Sale

	err = repository.WithTransaction(ctx, sf.db, func(ctx context.Context) error {
		numbers, err := sf.numberRepo.ByUUIDs(ctx, uuids)
		if err != nil {
			return err
		}
		if len(numbers) != len(uuids) {
			found := make(map[uuid.UUID]bool, len(numbers))
			for _, number := range numbers {
				found[number.UUID] = true
			}
			missing := make([]string, 0, len(uuids)-len(numbers))
			for _, id := range uuids {
				if !found[id] {
					missing = append(missing, id.String())
				}
			}
			return fmt.Errorf("%w: %s", ErrInvalidNumberIDs, strings.Join(missing, ", "))
		}

		// Every offending number is named, not just the first one.
		var soldEntries, unapprovedEntries []string
		for _, number := range numbers {
			if utils.IsTrue(number.IsSold) {
				soldEntries = append(soldEntries, number.Entry)
			} else if !number.IsPurchasable() {
				unapprovedEntries = append(unapprovedEntries, number.Entry)
			}
		}
		if len(soldEntries) > 0 {
			return fmt.Errorf("%w: %s", ErrNumberAlreadySold, strings.Join(soldEntries, ", "))
		}
		if len(unapprovedEntries) > 0 {
			return fmt.Errorf("%w: %s", ErrNumberNotApproved, strings.Join(unapprovedEntries, ", "))
		}

		finalPrice := decimal.Zero
		numberIDs := make([]uint, 0, len(numbers))
		var vendorID *uint
		sameVendor := true
		for i, number := range numbers {
			finalPrice = finalPrice.Add(number.EffectivePrice())
			numberIDs = append(numberIDs, number.ID)
			if i == 0 {
				vendorID = utils.ToPtr(number.VendorID)
			} else if *vendorID != number.VendorID {
				sameVendor = false
			}
		}
		if !sameVendor {
			vendorID = nil
		}

		sale = &models.Sale{
			CustomerID: customer.ID,
			VendorID:   vendorID,
			FinalPrice: finalPrice,
			Status:     models.SaleStatusPending,
			CreatedAt:  utils.UTCNow(),
			UpdatedAt:  utils.UTCNow(),
		}
		if err := sf.saleRepo.Save(ctx, sale); err != nil {
			return err
		}
		if err := sf.saleRepo.AttachNumbers(ctx, sale, numbers); err != nil {
			return err
		}

		// The conditional update is what actually closes the window
		// against a concurrent purchase of the same number.
		affected, err := sf.numberRepo.MarkSold(ctx, numberIDs)
		if err != nil {
			return err
		}
		if affected != int64(len(numberIDs)) {
			return ErrPurchaseConflict
		}

		// Sold numbers are dead cart rows everywhere, not only in the
		// buyer's cart.
		if err := sf.cartRepo.DeleteByNumberIDs(ctx, numberIDs); err != nil {
			return err
		}

		sale.Numbers = make([]models.Number, 0, len(numbers))
		for _, n := range numbers {
			sale.Numbers = append(sale.Numbers, *n)
		}
		return nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Purchase failed: %s", err.Error())
		_ = sf.LogSaleEvent(ctx, accountID, models.AuditActionPurchaseFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("PURCHASE_FAILED", "Purchase failed", err)
	}

	sf.invalidateListingCache(ctx)

	msg := fmt.Sprintf("Purchase completed: sale %s for %d numbers", sale.UUID, len(sale.Numbers))
	_ = sf.LogSaleEvent(ctx, accountID, models.AuditActionPurchaseCompleted, msg, true, nil, metadata)

	d := ToSaleDTO(*sale)
	return &d, nil
}

// GetSale returns one of the caller's sales
func (sf *SaleFlowImpl) GetSale(ctx context.Context, accountID uint, saleUUID string) (*dto.SaleDTO, error) {
	customer, err := sf.customerRepo.ByAccountID(ctx, accountID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LOOKUP_FAILED", "Failed to lookup customer profile", err)
	}
	if customer == nil {
		return nil, NewBusinessError("CUSTOMER_PROFILE_REQUIRED", "Customer profile required", ErrCustomerProfileRequired)
	}

	sale, err := sf.saleRepo.ByUUID(ctx, saleUUID)
	if err != nil {
		return nil, NewBusinessError("FETCH_SALE_FAILED", "Failed to fetch sale", err)
	}
	if sale == nil {
		return nil, NewBusinessError("SALE_NOT_FOUND", "Sale not found", ErrSaleNotFound)
	}
	if sale.CustomerID != customer.ID {
		return nil, NewBusinessError("SALE_NOT_OWNED", "Sale does not belong to this customer", ErrSaleNotOwned)
	}

	d := ToSaleDTO(*sale)
	return &d, nil
}

// ListCustomerSales returns the caller's sales, newest first
func (sf *SaleFlowImpl) ListCustomerSales(ctx context.Context, accountID uint, page, limit int) (*dto.ListSalesResponse, error) {
	customer, err := sf.customerRepo.ByAccountID(ctx, accountID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LOOKUP_FAILED", "Failed to lookup customer profile", err)
	}
	if customer == nil {
		return nil, NewBusinessError("CUSTOMER_PROFILE_REQUIRED", "Customer profile required", ErrCustomerProfileRequired)
	}

	page, limit = normalizePagination(page, limit)
	sales, err := sf.saleRepo.ListByCustomer(ctx, customer.ID, limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("FETCH_SALES_FAILED", "Failed to fetch sales", err)
	}
	total, err := sf.saleRepo.Count(ctx, models.SaleFilter{CustomerID: &customer.ID})
	if err != nil {
		return nil, NewBusinessError("FETCH_SALES_FAILED", "Failed to count sales", err)
	}

	return buildSaleListing(sales, total, page, limit), nil
}

// ListVendorSales returns sales attributed to the caller's vendor profile
func (sf *SaleFlowImpl) ListVendorSales(ctx context.Context, accountID uint, page, limit int) (*dto.ListSalesResponse, error) {
	vendor, err := sf.vendorRepo.ByAccountID(ctx, accountID)
	if err != nil {
		return nil, NewBusinessError("VENDOR_LOOKUP_FAILED", "Failed to lookup vendor profile", err)
	}
	if vendor == nil {
		return nil, NewBusinessError("VENDOR_PROFILE_REQUIRED", "Vendor profile required", ErrVendorProfileRequired)
	}

	page, limit = normalizePagination(page, limit)
	sales, err := sf.saleRepo.ListByVendor(ctx, vendor.ID, limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("FETCH_SALES_FAILED", "Failed to fetch sales", err)
	}
	total, err := sf.saleRepo.Count(ctx, models.SaleFilter{VendorID: &vendor.ID})
	if err != nil {
		return nil, NewBusinessError("FETCH_SALES_FAILED", "Failed to count sales", err)
	}

	return buildSaleListing(sales, total, page, limit), nil
}

// AdminListSales returns all sales, optionally filtered by status
func (sf *SaleFlowImpl) AdminListSales(ctx context.Context, request *dto.AdminListSalesRequest) (*dto.ListSalesResponse, error) {
	filter := models.SaleFilter{}
	if request.Status != "" {
		filter.Status = &request.Status
	}

	page, limit := normalizePagination(request.Page, request.Limit)
	sales, err := sf.saleRepo.ByFilter(ctx, filter, "created_at DESC", limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("FETCH_SALES_FAILED", "Failed to fetch sales", err)
	}
	total, err := sf.saleRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("FETCH_SALES_FAILED", "Failed to count sales", err)
	}

	return buildSaleListing(sales, total, page, limit), nil
}

// AdminExportSales builds an xlsx workbook of every sale
func (sf *SaleFlowImpl) AdminExportSales(ctx context.Context) (string, []byte, error) {
	sales, err := sf.saleRepo.ByFilter(ctx, models.SaleFilter{}, "created_at ASC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("FETCH_SALES_FAILED", "Failed to fetch sales", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Sales"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"uuid", "customer_id", "vendor_id", "numbers", "final_price", "status", "payment_status", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, sale := range sales {
		vendorID := ""
		if sale.VendorID != nil {
			vendorID = strconv.FormatUint(uint64(*sale.VendorID), 10)
		}
		entries := ""
		for i, n := range sale.Numbers {
			if i > 0 {
				entries += ", "
			}
			entries += n.Entry
		}
		paymentStatus := ""
		if sale.Payment != nil {
			paymentStatus = sale.Payment.Status
		}
		record := []string{
			sale.UUID.String(),
			strconv.FormatUint(uint64(sale.CustomerID), 10),
			vendorID,
			entries,
			sale.FinalPrice.StringFixed(2),
			sale.Status,
			paymentStatus,
			sale.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return "sales.xlsx", buf.Bytes(), nil
}

// Private helper methods

func (sf *SaleFlowImpl) invalidateListingCache(ctx context.Context) {
	if sf.rc == nil || sf.cacheConfig == nil {
		return
	}
	_ = sf.rc.Del(ctx, redisKey(*sf.cacheConfig, utils.RandomListingCacheKey)).Err()
}

func (sf *SaleFlowImpl) LogSaleEvent(ctx context.Context, accountID uint, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		AccountID:    &accountID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errMsg,
	}

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		requestIDStr, ok := requestID.(string)
		if ok {
			audit.RequestID = &requestIDStr
		}
	}

	return sf.auditRepo.Save(ctx, audit)
}

func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func buildSaleListing(sales []*models.Sale, total int64, page, limit int) *dto.ListSalesResponse {
	items := make([]dto.SaleDTO, 0, len(sales))
	for _, sale := range sales {
		items = append(items, ToSaleDTO(*sale))
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &dto.ListSalesResponse{
		Items: items,
		Pagination: dto.PaginationInfo{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}
}

// redisKey namespaces a cache key with the configured prefix
func redisKey(cfg config.CacheConfig, key string) string {
	if cfg.RedisPrefix == "" {
		return key
	}
	return cfg.RedisPrefix + ":" + key
}
