package businessflow

import (
	"context"
	"fmt"

	"github.com/numberkart/numberkart/app/dto"
	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/repository"
	"github.com/numberkart/numberkart/utils"
	"gorm.io/gorm"
)

// ProfileFlow handles the caller's own account and attached profiles
type ProfileFlow interface {
	GetProfile(ctx context.Context, accountID uint) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, accountID uint, request *dto.UpdateProfileRequest, metadata *ClientMetadata) (*dto.ProfileResponse, error)
	DeactivateAccount(ctx context.Context, accountID uint, metadata *ClientMetadata) error
}

type ProfileFlowImpl struct {
	accountRepo  repository.AccountRepository
	customerRepo repository.CustomerRepository
	vendorRepo   repository.VendorRepository
	sessionRepo  repository.AccountSessionRepository
	numberRepo   repository.NumberRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

func NewProfileFlow(
	accountRepo repository.AccountRepository,
	customerRepo repository.CustomerRepository,
	vendorRepo repository.VendorRepository,
	sessionRepo repository.AccountSessionRepository,
	numberRepo repository.NumberRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) ProfileFlow {
	return &ProfileFlowImpl{
		accountRepo:  accountRepo,
		customerRepo: customerRepo,
		vendorRepo:   vendorRepo,
		sessionRepo:  sessionRepo,
		numberRepo:   numberRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

func (pf *ProfileFlowImpl) GetProfile(ctx context.Context, accountID uint) (*dto.ProfileResponse, error) {
	account, err := pf.accountRepo.ByID(ctx, accountID)
	if err != nil {
		return nil, NewBusinessError("ACCOUNT_LOOKUP_FAILED", "Failed to lookup account", err)
	}
	if account == nil {
		return nil, NewBusinessError("ACCOUNT_NOT_FOUND", "Account not found", ErrAccountNotFound)
	}

	return pf.buildProfileResponse(ctx, account)
}

// UpdateProfile edits the account phone and the address fields of
// whichever profiles the account carries
func (pf *ProfileFlowImpl) UpdateProfile(ctx context.Context, accountID uint, request *dto.UpdateProfileRequest, metadata *ClientMetadata) (*dto.ProfileResponse, error) {
	var account *models.Account

	err := repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		var err error
		account, err = pf.accountRepo.ByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}

		if request.Phone != nil {
			account.Phone = request.Phone
			account.UpdatedAt = utils.UTCNow()
			if err := pf.accountRepo.Update(ctx, account); err != nil {
				return err
			}
		}

		customer, err := pf.customerRepo.ByAccountID(ctx, accountID)
		if err != nil {
			return err
		}
		if customer != nil {
			applyAddressUpdate(request, &customer.Address, &customer.City, &customer.State, &customer.Pincode)
			customer.UpdatedAt = utils.UTCNow()
			if err := pf.customerRepo.Update(ctx, customer); err != nil {
				return err
			}
		}

		vendor, err := pf.vendorRepo.ByAccountID(ctx, accountID)
		if err != nil {
			return err
		}
		if vendor != nil {
			applyAddressUpdate(request, &vendor.Address, &vendor.City, &vendor.State, &vendor.Pincode)
			vendor.UpdatedAt = utils.UTCNow()
			if err := pf.vendorRepo.Update(ctx, vendor); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_PROFILE_FAILED", "Failed to update profile", err)
	}

	msg := fmt.Sprintf("Profile updated: %d", accountID)
	_ = pf.LogProfileEvent(ctx, accountID, models.AuditActionProfileUpdated, msg, true, metadata)

	return pf.buildProfileResponse(ctx, account)
}

// DeactivateAccount disables the account and expires its sessions
func (pf *ProfileFlowImpl) DeactivateAccount(ctx context.Context, accountID uint, metadata *ClientMetadata) error {
	err := repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		account, err := pf.accountRepo.ByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}

		account.IsActive = utils.ToPtr(false)
		account.UpdatedAt = utils.UTCNow()
		if err := pf.accountRepo.Update(ctx, account); err != nil {
			return err
		}

		vendor, err := pf.vendorRepo.ByAccountID(ctx, accountID)
		if err != nil {
			return err
		}
		if vendor != nil {
			if err := pf.numberRepo.MarkVendorDeactivated(ctx, vendor.ID); err != nil {
				return err
			}
		}

		return pf.sessionRepo.ExpireAllAccountSessions(ctx, accountID)
	})

	if err != nil {
		return NewBusinessError("DEACTIVATE_ACCOUNT_FAILED", "Failed to deactivate account", err)
	}

	msg := fmt.Sprintf("Account deactivated: %d", accountID)
	_ = pf.LogProfileEvent(ctx, accountID, models.AuditActionAccountDeactivated, msg, true, metadata)

	return nil
}

// Private helper methods

func (pf *ProfileFlowImpl) buildProfileResponse(ctx context.Context, account *models.Account) (*dto.ProfileResponse, error) {
	customer, err := pf.customerRepo.ByAccountID(ctx, account.ID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LOOKUP_FAILED", "Failed to lookup customer profile", err)
	}
	vendor, err := pf.vendorRepo.ByAccountID(ctx, account.ID)
	if err != nil {
		return nil, NewBusinessError("VENDOR_LOOKUP_FAILED", "Failed to lookup vendor profile", err)
	}

	account.Customer = customer
	account.Vendor = vendor

	resp := &dto.ProfileResponse{
		Account: ToAccountDTO(*account),
	}
	if customer != nil {
		c := ToCustomerDTO(*customer)
		resp.Customer = &c
	}
	if vendor != nil {
		v := ToVendorDTO(*vendor)
		resp.Vendor = &v
	}
	return resp, nil
}

func applyAddressUpdate(request *dto.UpdateProfileRequest, address, city, state, pincode **string) {
	if request.Address != nil {
		*address = request.Address
	}
	if request.City != nil {
		*city = request.City
	}
	if request.State != nil {
		*state = request.State
	}
	if request.Pincode != nil {
		*pincode = request.Pincode
	}
}

func (pf *ProfileFlowImpl) LogProfileEvent(ctx context.Context, accountID uint, action string, description string, success bool, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		AccountID:   &accountID,
		Action:      action,
		Description: &description,
		Success:     utils.ToPtr(success),
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}
	return pf.auditRepo.Save(ctx, audit)
}
