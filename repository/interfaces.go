// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/numberkart/numberkart/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// AccountRepository defines operations for accounts
type AccountRepository interface {
	Repository[models.Account, models.AccountFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Account, error)
	ByUsername(ctx context.Context, username string) (*models.Account, error)
	ByEmail(ctx context.Context, email string) (*models.Account, error)
	ByUsernameOrEmail(ctx context.Context, identifier string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	UpdatePassword(ctx context.Context, accountID uint, passwordHash string) error
}

// AdminRepository defines operations for admins
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Admin, error)
	ByUsername(ctx context.Context, username string) (*models.Admin, error)
	Update(ctx context.Context, admin *models.Admin) error
}

// AccountSessionRepository defines operations for account sessions
type AccountSessionRepository interface {
	Repository[models.AccountSession, models.AccountSessionFilter]
	BySessionToken(ctx context.Context, token string) (*models.AccountSession, error)
	ByRefreshToken(ctx context.Context, token string) (*models.AccountSession, error)
	ListActiveSessionsByAccount(ctx context.Context, accountID uint) ([]*models.AccountSession, error)
	ExpireSession(ctx context.Context, sessionID uint) error
	ExpireAllAccountSessions(ctx context.Context, accountID uint) error
	GetLatestByCorrelationID(ctx context.Context, correlationID uuid.UUID) (*models.AccountSession, error)
}

// CustomerRepository defines operations for customer profiles
type CustomerRepository interface {
	Repository[models.Customer, models.CustomerFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Customer, error)
	ByAccountID(ctx context.Context, accountID uint) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
}

// VendorRepository defines operations for vendor profiles
type VendorRepository interface {
	Repository[models.Vendor, models.VendorFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Vendor, error)
	ByAccountID(ctx context.Context, accountID uint) (*models.Vendor, error)
	ListUnapproved(ctx context.Context, limit, offset int) ([]*models.Vendor, error)
	Update(ctx context.Context, vendor *models.Vendor) error
}

// PatternRepository defines operations for number patterns
type PatternRepository interface {
	Repository[models.Pattern, models.PatternFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Pattern, error)
	ByPattern(ctx context.Context, pattern string) (*models.Pattern, error)
	Delete(ctx context.Context, id uint) error
}

// NumberRepository defines operations for listed numbers
type NumberRepository interface {
	Repository[models.Number, models.NumberFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Number, error)
	ByUUIDs(ctx context.Context, uuids []uuid.UUID) ([]*models.Number, error)
	ByEntry(ctx context.Context, entry string) (*models.Number, error)
	ListRandomAvailable(ctx context.Context, limit int) ([]*models.Number, error)
	// MarkSold flips is_sold on the given ids only where it is still
	// false, and returns the number of rows actually updated.
	MarkSold(ctx context.Context, ids []uint) (int64, error)
	// SettleSold moves reserved numbers to their terminal sold status.
	SettleSold(ctx context.Context, ids []uint) error
	MarkVendorDeactivated(ctx context.Context, vendorID uint) error
	DetachPattern(ctx context.Context, patternID uint) error
	Update(ctx context.Context, number *models.Number) error
	Delete(ctx context.Context, id uint) error
}

// CartItemRepository defines operations for cart entries
type CartItemRepository interface {
	Repository[models.CartItem, models.CartItemFilter]
	ByCustomerAndNumber(ctx context.Context, customerID, numberID uint) (*models.CartItem, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]*models.CartItem, error)
	DeleteByCustomerAndNumber(ctx context.Context, customerID, numberID uint) error
	// DeleteByNumberIDs purges sold numbers from every cart.
	DeleteByNumberIDs(ctx context.Context, numberIDs []uint) error
}

// SaleRepository defines operations for sales
type SaleRepository interface {
	Repository[models.Sale, models.SaleFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Sale, error)
	ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Sale, error)
	ListByVendor(ctx context.Context, vendorID uint, limit, offset int) ([]*models.Sale, error)
	AttachNumbers(ctx context.Context, sale *models.Sale, numbers []*models.Number) error
	Update(ctx context.Context, sale *models.Sale) error
}

// PaymentRepository defines operations for payments
type PaymentRepository interface {
	Repository[models.Payment, models.PaymentFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Payment, error)
	ByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	BySaleID(ctx context.Context, saleID uint) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
}

// CategoryCommissionRepository defines operations for per-pattern commission rules
type CategoryCommissionRepository interface {
	Repository[models.CategoryCommission, models.CategoryCommissionFilter]
	ByUUID(ctx context.Context, uuid string) (*models.CategoryCommission, error)
	ByPatternID(ctx context.Context, patternID uint) (*models.CategoryCommission, error)
	Update(ctx context.Context, commission *models.CategoryCommission) error
	Delete(ctx context.Context, id uint) error
}

// PriceRangeCommissionRepository defines operations for price-range commission rules
type PriceRangeCommissionRepository interface {
	Repository[models.PriceRangeCommission, models.PriceRangeCommissionFilter]
	ByUUID(ctx context.Context, uuid string) (*models.PriceRangeCommission, error)
	// CoveringPrice returns the first rule whose range contains price.
	CoveringPrice(ctx context.Context, price int64) (*models.PriceRangeCommission, error)
	Update(ctx context.Context, commission *models.PriceRangeCommission) error
	Delete(ctx context.Context, id uint) error
}

// CommissionSettingsRepository defines operations for the settings singleton
type CommissionSettingsRepository interface {
	Repository[models.CommissionSettings, models.CommissionSettingsFilter]
	Get(ctx context.Context) (*models.CommissionSettings, error)
	Update(ctx context.Context, settings *models.CommissionSettings) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByAccount(ctx context.Context, accountID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
