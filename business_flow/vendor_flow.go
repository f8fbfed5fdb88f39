// Package businessflow contains the core business logic and use cases for marketplace workflows
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

// VendorFlow handles vendor self-service and admin vendor approval
type VendorFlow interface {
	UpdateVendorProfile(ctx context.Context, accountID uint, request *dto.UpdateVendorRequest) (*dto.VendorDTO, error)
	AdminListVendors(ctx context.Context, approved *bool, page, limit int) (*dto.ListVendorsResponse, error)
	AdminApproveVendor(ctx context.Context, adminID uint, vendorUUID string, metadata *ClientMetadata) (*dto.VendorDTO, error)
}

// VendorFlowImpl implements the vendor business flow
type VendorFlowImpl struct {
	vendorRepo repository.VendorRepository
	auditRepo  repository.AuditLogRepository
	db         *gorm.DB
}

// NewVendorFlow creates a new vendor flow instance
func NewVendorFlow(vendorRepo repository.VendorRepository, auditRepo repository.AuditLogRepository, db *gorm.DB) VendorFlow {
	return &VendorFlowImpl{
		vendorRepo: vendorRepo,
		auditRepo:  auditRepo,
		db:         db,
	}
}

// UpdateVendorProfile edits the caller's vendor profile. Approval state
// is never settable here.
func (vf *VendorFlowImpl) UpdateVendorProfile(ctx context.Context, accountID uint, request *dto.UpdateVendorRequest) (*dto.VendorDTO, error) {
	var vendor *models.Vendor

	err := repository.WithTransaction(ctx, vf.db, func(ctx context.Context) error {
		var err error
		vendor, err = vf.vendorRepo.ByAccountID(ctx, accountID)
		if err != nil {
			return err
		}
		if vendor == nil {
			return ErrVendorProfileRequired
		}

		if request.BusinessName != nil {
			vendor.BusinessName = *request.BusinessName
		}
		if request.GSTNumber != nil {
			vendor.GSTNumber = request.GSTNumber
		}
		if request.Address != nil {
			vendor.Address = request.Address
		}
		if request.City != nil {
			vendor.City = request.City
		}
		if request.State != nil {
			vendor.State = request.State
		}
		if request.Pincode != nil {
			vendor.Pincode = request.Pincode
		}
		vendor.UpdatedAt = utils.UTCNow()

		return vf.vendorRepo.Update(ctx, vendor)
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_VENDOR_FAILED", "Failed to update vendor profile", err)
	}

	d := ToVendorDTO(*vendor)
	return &d, nil
}

// AdminListVendors returns vendors, optionally filtered by approval state
func (vf *VendorFlowImpl) AdminListVendors(ctx context.Context, approved *bool, page, limit int) (*dto.ListVendorsResponse, error) {
	filter := models.VendorFilter{IsApproved: approved}
	page, limit = normalizePagination(page, limit)

	vendors, err := vf.vendorRepo.ByFilter(ctx, filter, "created_at ASC", limit, (page-1)*limit)
	if err != nil {
		return nil, NewBusinessError("FETCH_VENDORS_FAILED", "Failed to fetch vendors", err)
	}
	total, err := vf.vendorRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("FETCH_VENDORS_FAILED", "Failed to count vendors", err)
	}

	items := make([]dto.VendorDTO, 0, len(vendors))
	for _, vendor := range vendors {
		items = append(items, ToVendorDTO(*vendor))
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &dto.ListVendorsResponse{
		Items: items,
		Pagination: dto.PaginationInfo{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}

// AdminApproveVendor lets a vendor start listing numbers
func (vf *VendorFlowImpl) AdminApproveVendor(ctx context.Context, adminID uint, vendorUUID string, metadata *ClientMetadata) (*dto.VendorDTO, error) {
	var vendor *models.Vendor

	err := repository.WithTransaction(ctx, vf.db, func(ctx context.Context) error {
		var err error
		vendor, err = vf.vendorRepo.ByUUID(ctx, vendorUUID)
		if err != nil {
			return err
		}
		if vendor == nil {
			return ErrVendorNotFound
		}
		if utils.IsTrue(vendor.IsApproved) {
			return ErrVendorAlreadyApproved
		}

		vendor.IsApproved = utils.ToPtr(true)
		vendor.ApprovedAt = utils.UTCNowPtr()
		vendor.UpdatedAt = utils.UTCNow()
		return vf.vendorRepo.Update(ctx, vendor)
	})

	if err != nil {
		return nil, NewBusinessError("APPROVE_VENDOR_FAILED", "Failed to approve vendor", err)
	}

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}
	msg := fmt.Sprintf("Vendor approved: %s", vendor.BusinessName)
	_ = vf.auditRepo.Save(ctx, &models.AuditLog{
		AdminID:     &adminID,
		AccountID:   &vendor.AccountID,
		Action:      models.AuditActionVendorApproved,
		Description: &msg,
		Success:     utils.ToPtr(true),
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	})

	d := ToVendorDTO(*vendor)
	return &d, nil
}
