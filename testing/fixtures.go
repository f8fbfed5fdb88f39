// Package testing provides test utilities and database setup for testing the marketplace
package testing

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	mrand "math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plaintext behind every fixture account's hash.
const TestPassword = "TestPass123"

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestAccount creates an account with a unique username and email
func (tf *TestFixtures) CreateTestAccount() (*models.Account, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := fmt.Sprintf("%d", mrand.Intn(100000000))
	phone := RandomIndianMobile()

	account := &models.Account{
		UUID:         uuid.New(),
		Username:     fmt.Sprintf("user_%s", suffix),
		Email:        fmt.Sprintf("user.%s@example.com", suffix),
		Phone:        &phone,
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(account).Error; err != nil {
		return nil, fmt.Errorf("failed to create test account: %w", err)
	}
	return account, nil
}

// CreateTestCustomer creates an account with a customer profile
func (tf *TestFixtures) CreateTestCustomer() (*models.Customer, error) {
	account, err := tf.CreateTestAccount()
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		UUID:      uuid.New(),
		AccountID: account.ID,
		City:      utils.ToPtr("Mumbai"),
		State:     utils.ToPtr("Maharashtra"),
		Pincode:   utils.ToPtr("400001"),
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}
	if err := tf.DB.DB.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create test customer: %w", err)
	}
	customer.Account = *account
	return customer, nil
}

// CreateTestVendor creates an account with a vendor profile
func (tf *TestFixtures) CreateTestVendor(approved bool) (*models.Vendor, error) {
	account, err := tf.CreateTestAccount()
	if err != nil {
		return nil, err
	}

	vendor := &models.Vendor{
		UUID:         uuid.New(),
		AccountID:    account.ID,
		BusinessName: fmt.Sprintf("Vendor %d Telecom", account.ID),
		City:         utils.ToPtr("Delhi"),
		State:        utils.ToPtr("Delhi"),
		IsApproved:   utils.ToPtr(approved),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if approved {
		vendor.ApprovedAt = utils.UTCNowPtr()
	}
	if err := tf.DB.DB.Create(vendor).Error; err != nil {
		return nil, fmt.Errorf("failed to create test vendor: %w", err)
	}
	vendor.Account = *account
	return vendor, nil
}

// CreateTestAdmin creates an active admin with the fixture password
func (tf *TestFixtures) CreateTestAdmin() (*models.Admin, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		UUID:         uuid.New(),
		Username:     fmt.Sprintf("admin_%d", mrand.Intn(100000000)),
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if err := tf.DB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}
	return admin, nil
}

// CreateTestPattern creates a pattern with a unique shape
func (tf *TestFixtures) CreateTestPattern(shape string) (*models.Pattern, error) {
	if shape == "" {
		shape = fmt.Sprintf("AAAB-%d", mrand.Intn(100000))
	}
	pattern := &models.Pattern{
		UUID:      uuid.New(),
		Pattern:   shape,
		CreatedAt: utils.UTCNow(),
	}
	if err := tf.DB.DB.Create(pattern).Error; err != nil {
		return nil, fmt.Errorf("failed to create test pattern: %w", err)
	}
	return pattern, nil
}

// CreateTestNumber creates a number for the given vendor. Approved and
// unsold unless the caller flips the flags afterwards.
func (tf *TestFixtures) CreateTestNumber(vendorID uint, patternID *uint, price int64, approved bool) (*models.Number, error) {
	number := &models.Number{
		UUID:            uuid.New(),
		Entry:           RandomIndianMobile(),
		PatternID:       patternID,
		VendorID:        vendorID,
		Price:           price,
		PurchasePrice:   price / 2,
		Discount:        0,
		CurrentOperator: utils.ToPtr("Airtel"),
		Circle:          utils.ToPtr("Delhi"),
		PortStatus:      utils.ToPtr(models.PortStatusRTP),
		Category:        models.NumberCategoryGold,
		UploadedByAdmin: utils.ToPtr(false),
		IsApproved:      utils.ToPtr(approved),
		IsSold:          utils.ToPtr(false),
		Status:          models.NumberStatusPendingApproval,
		CreatedAt:       utils.UTCNow(),
		UpdatedAt:       utils.UTCNow(),
	}
	if approved {
		number.ApprovalDate = utils.UTCNowPtr()
		number.Status = models.NumberStatusAvailable
	}
	if err := tf.DB.DB.Create(number).Error; err != nil {
		return nil, fmt.Errorf("failed to create test number: %w", err)
	}
	return number, nil
}

// CreateTestCartItem places a number in a customer's cart
func (tf *TestFixtures) CreateTestCartItem(customerID, numberID uint) (*models.CartItem, error) {
	item := &models.CartItem{
		UUID:       uuid.New(),
		CustomerID: customerID,
		NumberID:   numberID,
		CreatedAt:  utils.UTCNow(),
		UpdatedAt:  utils.UTCNow(),
	}
	if err := tf.DB.DB.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create test cart item: %w", err)
	}
	return item, nil
}

// CreateTestSession creates an active session for an account
func (tf *TestFixtures) CreateTestSession(accountID uint) (*models.AccountSession, error) {
	sessionToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure session token: %w", err)
	}

	refreshToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure refresh token: %w", err)
	}

	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	session := &models.AccountSession{
		CorrelationID: uuid.New(),
		AccountID:     accountID,
		SessionToken:  sessionToken,
		RefreshToken:  &refreshToken,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		IsActive:      utils.ToPtr(true),
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}
	return session, nil
}

// CreateTestAuditLog creates a test audit log entry
func (tf *TestFixtures) CreateTestAuditLog(accountID *uint, action string, success bool) (*models.AuditLog, error) {
	description := fmt.Sprintf("Test %s action", action)
	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	audit := &models.AuditLog{
		AccountID:   accountID,
		Action:      action,
		Description: &description,
		Success:     &success,
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}

	if !success {
		errorMessage := "Test failed action"
		audit.ErrorMessage = &errorMessage
	}

	if err := tf.DB.DB.Create(audit).Error; err != nil {
		return nil, fmt.Errorf("failed to create test audit log: %w", err)
	}
	return audit, nil
}

// RandomIndianMobile returns a 10-digit mobile starting with 9
func RandomIndianMobile() string {
	return fmt.Sprintf("9%09d", mrand.Intn(1000000000))
}

func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
