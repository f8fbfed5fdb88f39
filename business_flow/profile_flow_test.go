// Package businessflow_test contains integration tests for marketplace flows
package businessflow_test

import (
	"testing"

	"github.com/numberkart/numberkart/app/dto"
	businessflow "github.com/numberkart/numberkart/business_flow"
	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/repository"
	testingutil "github.com/numberkart/numberkart/testing"
	"github.com/numberkart/numberkart/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileFlow(testDB *testingutil.TestDB) businessflow.ProfileFlow {
	return businessflow.NewProfileFlow(
		repository.NewAccountRepository(testDB.DB),
		repository.NewCustomerRepository(testDB.DB),
		repository.NewVendorRepository(testDB.DB),
		repository.NewAccountSessionRepository(testDB.DB),
		repository.NewNumberRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		testDB.DB,
	)
}

func TestProfileFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		profileFlow := newProfileFlow(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("GetProfileIncludesVendor", func(t *testing.T) {
			vendor, err := fixtures.CreateTestVendor(true)
			require.NoError(t, err)

			profile, err := profileFlow.GetProfile(ctx, vendor.AccountID)
			require.NoError(t, err)
			require.NotNil(t, profile.Vendor)
			assert.Equal(t, vendor.UUID.String(), profile.Vendor.UUID)
		})

		t.Run("UpdateProfileChangesAddress", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			profile, err := profileFlow.UpdateProfile(ctx, customer.AccountID, &dto.UpdateProfileRequest{
				Address: utils.ToPtr("12 MG Road"),
				City:    utils.ToPtr("Bengaluru"),
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, profile.Customer)
			require.NotNil(t, profile.Customer.Address)
			assert.Equal(t, "12 MG Road", *profile.Customer.Address)
		})

		t.Run("DeactivateCustomerAccount", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			require.NoError(t, profileFlow.DeactivateAccount(ctx, customer.AccountID, metadata))

			var active bool
			require.NoError(t, testDB.DB.Model(&models.Account{}).
				Where("id = ?", customer.AccountID).
				Pluck("is_active", &active).Error)
			assert.False(t, active)
		})

		t.Run("DeactivateVendorParksUnsoldListings", func(t *testing.T) {
			vendor, err := fixtures.CreateTestVendor(true)
			require.NoError(t, err)

			unsold, err := fixtures.CreateTestNumber(vendor.ID, nil, 40000, true)
			require.NoError(t, err)
			sold, err := fixtures.CreateTestNumber(vendor.ID, nil, 40000, true)
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(sold).Updates(map[string]any{
				"is_sold": true,
				"status":  models.NumberStatusSold,
			}).Error)

			require.NoError(t, profileFlow.DeactivateAccount(ctx, vendor.AccountID, metadata))

			var status string
			require.NoError(t, testDB.DB.Model(&models.Number{}).
				Where("id = ?", unsold.ID).
				Pluck("status", &status).Error)
			assert.Equal(t, models.NumberStatusVendorDeactivated, status)

			// Settled sales keep their history untouched
			require.NoError(t, testDB.DB.Model(&models.Number{}).
				Where("id = ?", sold.ID).
				Pluck("status", &status).Error)
			assert.Equal(t, models.NumberStatusSold, status)
		})

		return nil
	})
	require.NoError(t, err)
}
