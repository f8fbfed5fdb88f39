// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Account and auth errors
	ErrAccountNotFound       = errors.New("account not found")
	ErrAccountInactive       = errors.New("account is inactive")
	ErrIncorrectPassword     = errors.New("incorrect password")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrInvalidRole           = errors.New("role must be customer or vendor")
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionExpired        = errors.New("session expired")

	// Admin errors
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminInactive      = errors.New("admin is inactive")
	ErrCaptchaInvalid     = errors.New("captcha verification failed")
	ErrCaptchaUnavailable = errors.New("captcha challenge unavailable")

	// Profile errors
	ErrCustomerProfileRequired = errors.New("no customer profile for this account")
	ErrVendorProfileRequired   = errors.New("no vendor profile for this account")
	ErrVendorNotFound          = errors.New("vendor not found")
	ErrVendorNotApproved       = errors.New("vendor is not approved")
	ErrVendorAlreadyApproved   = errors.New("vendor is already approved")
	ErrProfileAlreadyExists    = errors.New("profile already exists for this account")

	// Number and pattern errors
	ErrNumberNotFound         = errors.New("number not found")
	ErrNumberAlreadyExists    = errors.New("number entry already listed")
	ErrNumberAlreadySold      = errors.New("number is already sold")
	ErrNumberNotApproved      = errors.New("number is not approved")
	ErrNumberAlreadyApproved  = errors.New("number is already approved")
	ErrNumberNotOwned         = errors.New("number does not belong to this vendor")
	ErrNumberFieldNotEditable = errors.New("field is not editable")
	ErrPatternNotFound        = errors.New("pattern not found")
	ErrPatternAlreadyExists   = errors.New("pattern already exists")

	// Cart errors
	ErrNumberAlreadyInCart = errors.New("number is already in the cart")
	ErrCartItemNotFound    = errors.New("number is not in the cart")

	// Purchase errors
	ErrInvalidNumberIDs     = errors.New("one or more number ids are invalid")
	ErrEmptyPurchase        = errors.New("purchase requires at least one number")
	ErrTooManyNumbers       = errors.New("purchase exceeds the per-sale limit")
	ErrSaleNotFound         = errors.New("sale not found")
	ErrSaleNotOwned         = errors.New("sale does not belong to this customer")
	ErrSaleAlreadyFinalized = errors.New("sale is already finalized")
	ErrPurchaseConflict     = errors.New("one or more numbers were sold concurrently")

	// Payment errors
	ErrPaymentNotFound             = errors.New("payment not found")
	ErrPaymentAlreadyExists        = errors.New("payment already initiated for this sale")
	ErrPaymentAlreadyProcessed     = errors.New("payment already processed")
	ErrPaymentGatewayUnavailable   = errors.New("payment gateway unavailable")
	ErrOrderIDRequired             = errors.New("order id is required")
	ErrPaymentIDRequired           = errors.New("payment id is required")
	ErrSignatureRequired           = errors.New("signature is required")
	ErrSignatureVerificationFailed = errors.New("signature verification failed")

	// Commission errors
	ErrCommissionRuleNotFound      = errors.New("commission rule not found")
	ErrCommissionRuleAlreadyExists = errors.New("commission rule already exists")
	ErrCommissionOutOfRange        = errors.New("commission must be between 0 and 100")
	ErrInvalidPriceRange           = errors.New("min price must not exceed max price")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsAccountNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsUsernameAlreadyExists(err error) bool {
	return errors.Is(err, ErrUsernameAlreadyExists)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsInvalidRole(err error) bool {
	return errors.Is(err, ErrInvalidRole)
}

func IsSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsAdminInactive(err error) bool {
	return errors.Is(err, ErrAdminInactive)
}

func IsCaptchaInvalid(err error) bool {
	return errors.Is(err, ErrCaptchaInvalid)
}

func IsCaptchaUnavailable(err error) bool {
	return errors.Is(err, ErrCaptchaUnavailable)
}

func IsCustomerProfileRequired(err error) bool {
	return errors.Is(err, ErrCustomerProfileRequired)
}

func IsVendorProfileRequired(err error) bool {
	return errors.Is(err, ErrVendorProfileRequired)
}

func IsVendorNotFound(err error) bool {
	return errors.Is(err, ErrVendorNotFound)
}

func IsVendorNotApproved(err error) bool {
	return errors.Is(err, ErrVendorNotApproved)
}

func IsVendorAlreadyApproved(err error) bool {
	return errors.Is(err, ErrVendorAlreadyApproved)
}

func IsProfileAlreadyExists(err error) bool {
	return errors.Is(err, ErrProfileAlreadyExists)
}

func IsNumberNotFound(err error) bool {
	return errors.Is(err, ErrNumberNotFound)
}

func IsNumberAlreadyExists(err error) bool {
	return errors.Is(err, ErrNumberAlreadyExists)
}

func IsNumberAlreadySold(err error) bool {
	return errors.Is(err, ErrNumberAlreadySold)
}

func IsNumberNotApproved(err error) bool {
	return errors.Is(err, ErrNumberNotApproved)
}

func IsNumberAlreadyApproved(err error) bool {
	return errors.Is(err, ErrNumberAlreadyApproved)
}

func IsNumberNotOwned(err error) bool {
	return errors.Is(err, ErrNumberNotOwned)
}

func IsNumberFieldNotEditable(err error) bool {
	return errors.Is(err, ErrNumberFieldNotEditable)
}

func IsPatternNotFound(err error) bool {
	return errors.Is(err, ErrPatternNotFound)
}

func IsPatternAlreadyExists(err error) bool {
	return errors.Is(err, ErrPatternAlreadyExists)
}

func IsNumberAlreadyInCart(err error) bool {
	return errors.Is(err, ErrNumberAlreadyInCart)
}

func IsCartItemNotFound(err error) bool {
	return errors.Is(err, ErrCartItemNotFound)
}

func IsInvalidNumberIDs(err error) bool {
	return errors.Is(err, ErrInvalidNumberIDs)
}

func IsEmptyPurchase(err error) bool {
	return errors.Is(err, ErrEmptyPurchase)
}

func IsTooManyNumbers(err error) bool {
	return errors.Is(err, ErrTooManyNumbers)
}

func IsSaleNotFound(err error) bool {
	return errors.Is(err, ErrSaleNotFound)
}

func IsSaleNotOwned(err error) bool {
	return errors.Is(err, ErrSaleNotOwned)
}

func IsSaleAlreadyFinalized(err error) bool {
	return errors.Is(err, ErrSaleAlreadyFinalized)
}

func IsPurchaseConflict(err error) bool {
	return errors.Is(err, ErrPurchaseConflict)
}

func IsPaymentNotFound(err error) bool {
	return errors.Is(err, ErrPaymentNotFound)
}

func IsPaymentAlreadyExists(err error) bool {
	return errors.Is(err, ErrPaymentAlreadyExists)
}

func IsPaymentAlreadyProcessed(err error) bool {
	return errors.Is(err, ErrPaymentAlreadyProcessed)
}

func IsPaymentGatewayUnavailable(err error) bool {
	return errors.Is(err, ErrPaymentGatewayUnavailable)
}

func IsOrderIDRequired(err error) bool {
	return errors.Is(err, ErrOrderIDRequired)
}

func IsPaymentIDRequired(err error) bool {
	return errors.Is(err, ErrPaymentIDRequired)
}

func IsSignatureRequired(err error) bool {
	return errors.Is(err, ErrSignatureRequired)
}

func IsSignatureVerificationFailed(err error) bool {
	return errors.Is(err, ErrSignatureVerificationFailed)
}

func IsCommissionRuleNotFound(err error) bool {
	return errors.Is(err, ErrCommissionRuleNotFound)
}

func IsCommissionRuleAlreadyExists(err error) bool {
	return errors.Is(err, ErrCommissionRuleAlreadyExists)
}

func IsCommissionOutOfRange(err error) bool {
	return errors.Is(err, ErrCommissionOutOfRange)
}

func IsInvalidPriceRange(err error) bool {
	return errors.Is(err, ErrInvalidPriceRange)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}
