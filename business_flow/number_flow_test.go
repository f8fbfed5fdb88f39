package businessflow_test

import (
	"fmt"
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

func newNumberFlow(testDB *testingutil.TestDB) businessflow.NumberFlow {
	return businessflow.NewNumberFlow(
		repository.NewNumberRepository(testDB.DB),
		repository.NewPatternRepository(testDB.DB),
		repository.NewVendorRepository(testDB.DB),
		repository.NewCategoryCommissionRepository(testDB.DB),
		repository.NewPriceRangeCommissionRepository(testDB.DB),
		repository.NewCommissionSettingsRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		nil, // no cache in tests
		nil,
		testDB.DB,
	)
}

func TestNumberFlowVendor(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		numberFlow := newNumberFlow(testDB)

		vendor, err := fixtures.CreateTestVendor(true)
		require.NoError(t, err)

		t.Run("CreateStartsUnapproved", func(t *testing.T) {
			entry := testingutil.RandomIndianMobile()
			listing, err := numberFlow.CreateNumber(ctx, vendor.AccountID, &dto.CreateNumberRequest{
				Entry:    entry,
				Price:    120000,
				Discount: 5,
				Category: models.NumberCategoryPlatinum,
				Circle:   "Mumbai",
			})
			require.NoError(t, err)
			assert.Equal(t, entry, listing.Entry)
			assert.False(t, utils.IsTrue(listing.IsApproved))
			assert.Equal(t, models.NumberStatusPendingApproval, listing.Status)
			assert.Equal(t, "114000.00", listing.EffectivePrice)

			// Invisible to the public until approved
			_, err = numberFlow.GetNumber(ctx, listing.UUID)
			require.Error(t, err)
			assert.True(t, businessflow.IsNumberNotFound(err))
		})

		t.Run("DuplicateEntryRejected", func(t *testing.T) {
			entry := testingutil.RandomIndianMobile()
			_, err := numberFlow.CreateNumber(ctx, vendor.AccountID, &dto.CreateNumberRequest{
				Entry: entry,
				Price: 10000,
			})
			require.NoError(t, err)

			_, err = numberFlow.CreateNumber(ctx, vendor.AccountID, &dto.CreateNumberRequest{
				Entry: entry,
				Price: 20000,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsNumberAlreadyExists(err))
		})

		t.Run("UnapprovedVendorCannotList", func(t *testing.T) {
			pending, err := fixtures.CreateTestVendor(false)
			require.NoError(t, err)

			_, err = numberFlow.CreateNumber(ctx, pending.AccountID, &dto.CreateNumberRequest{
				Entry: testingutil.RandomIndianMobile(),
				Price: 10000,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsVendorNotApproved(err))
		})

		t.Run("NonVendorCannotList", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			_, err = numberFlow.CreateNumber(ctx, customer.AccountID, &dto.CreateNumberRequest{
				Entry: testingutil.RandomIndianMobile(),
				Price: 10000,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsVendorProfileRequired(err))
		})

		t.Run("UpdateOwnListing", func(t *testing.T) {
			listing, err := numberFlow.CreateNumber(ctx, vendor.AccountID, &dto.CreateNumberRequest{
				Entry: testingutil.RandomIndianMobile(),
				Price: 30000,
			})
			require.NoError(t, err)

			updated, err := numberFlow.UpdateNumber(ctx, vendor.AccountID, listing.UUID, &dto.UpdateNumberRequest{
				Price:    utils.ToPtr(int64(35000)),
				Discount: utils.ToPtr(float64(10)),
			})
			require.NoError(t, err)
			assert.Equal(t, int64(35000), updated.Price)
			assert.Equal(t, "31500.00", updated.EffectivePrice)
		})

		t.Run("UpdateForeignListingRejected", func(t *testing.T) {
			other, err := fixtures.CreateTestVendor(true)
			require.NoError(t, err)
			number, err := fixtures.CreateTestNumber(other.ID, nil, 40000, true)
			require.NoError(t, err)

			_, err = numberFlow.UpdateNumber(ctx, vendor.AccountID, number.UUID.String(), &dto.UpdateNumberRequest{
				Price: utils.ToPtr(int64(1)),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsNumberNotOwned(err))
		})

		t.Run("DeleteOwnUnsoldListing", func(t *testing.T) {
			listing, err := numberFlow.CreateNumber(ctx, vendor.AccountID, &dto.CreateNumberRequest{
				Entry: testingutil.RandomIndianMobile(),
				Price: 30000,
			})
			require.NoError(t, err)

			require.NoError(t, numberFlow.DeleteNumber(ctx, vendor.AccountID, listing.UUID))

			err = numberFlow.DeleteNumber(ctx, vendor.AccountID, listing.UUID)
			require.Error(t, err)
			assert.True(t, businessflow.IsNumberNotFound(err))
		})

		t.Run("SoldListingNotEditable", func(t *testing.T) {
			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 40000, true)
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(number).Update("is_sold", true).Error)

			_, err = numberFlow.UpdateNumber(ctx, vendor.AccountID, number.UUID.String(), &dto.UpdateNumberRequest{
				Price: utils.ToPtr(int64(1)),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsNumberAlreadySold(err))
		})

		t.Run("ListVendorNumbersIncludesUnapproved", func(t *testing.T) {
			fresh, err := fixtures.CreateTestVendor(true)
			require.NoError(t, err)
			for i := 0; i < 3; i++ {
				_, err := numberFlow.CreateNumber(ctx, fresh.AccountID, &dto.CreateNumberRequest{
					Entry: testingutil.RandomIndianMobile(),
					Price: int64(10000 * (i + 1)),
				})
				require.NoError(t, err)
			}

			listing, err := numberFlow.ListVendorNumbers(ctx, fresh.AccountID, 1, 10)
			require.NoError(t, err)
			assert.Len(t, listing.Items, 3)
			assert.Equal(t, int64(3), listing.Pagination.Total)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestNumberFlowAdmin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		numberFlow := newNumberFlow(testDB)
		commissionFlow := businessflow.NewCommissionFlow(
			repository.NewCategoryCommissionRepository(testDB.DB),
			repository.NewPriceRangeCommissionRepository(testDB.DB),
			repository.NewCommissionSettingsRepository(testDB.DB),
			repository.NewPatternRepository(testDB.DB),
			repository.NewNumberRepository(testDB.DB),
			testDB.DB,
		)

		admin, err := fixtures.CreateTestAdmin()
		require.NoError(t, err)
		vendor, err := fixtures.CreateTestVendor(true)
		require.NoError(t, err)

		t.Run("ApproveMakesListingPublic", func(t *testing.T) {
			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 60000, false)
			require.NoError(t, err)

			approved, err := numberFlow.AdminApproveNumber(ctx, admin.ID, number.UUID.String(), metadata)
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(approved.IsApproved))
			assert.Equal(t, models.NumberStatusAvailable, approved.Status)

			public, err := numberFlow.GetNumber(ctx, number.UUID.String())
			require.NoError(t, err)
			assert.Equal(t, number.Entry, public.Entry)
		})

		t.Run("ApproveTwiceRejected", func(t *testing.T) {
			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 60000, true)
			require.NoError(t, err)

			_, err = numberFlow.AdminApproveNumber(ctx, admin.ID, number.UUID.String(), metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsNumberAlreadyApproved(err))
		})

		t.Run("RejectDeletesListing", func(t *testing.T) {
			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 60000, false)
			require.NoError(t, err)

			require.NoError(t, numberFlow.AdminRejectNumber(ctx, admin.ID, number.UUID.String(), metadata))

			err = numberFlow.AdminRejectNumber(ctx, admin.ID, number.UUID.String(), metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsNumberNotFound(err))
		})

		t.Run("ListUnapprovedQueue", func(t *testing.T) {
			before, err := numberFlow.AdminListUnapproved(ctx, 1, 100)
			require.NoError(t, err)

			_, err = fixtures.CreateTestNumber(vendor.ID, nil, 10000, false)
			require.NoError(t, err)
			_, err = fixtures.CreateTestNumber(vendor.ID, nil, 20000, false)
			require.NoError(t, err)

			after, err := numberFlow.AdminListUnapproved(ctx, 1, 100)
			require.NoError(t, err)
			assert.Equal(t, before.Pagination.Total+2, after.Pagination.Total)
		})

		t.Run("AdminUploadAppliesCommission", func(t *testing.T) {
			_, err := commissionFlow.UpdateSettings(ctx, &dto.UpdateCommissionSettingsRequest{
				ApplyToNewNumbers: utils.ToPtr(true),
			})
			require.NoError(t, err)
			_, err = commissionFlow.CreatePriceRangeCommission(ctx, &dto.CreatePriceRangeCommissionRequest{
				MinPrice:   0,
				MaxPrice:   1000000,
				Commission: 20,
			})
			require.NoError(t, err)

			listing, err := numberFlow.AdminCreateNumber(ctx, admin.ID, &dto.AdminCreateNumberRequest{
				CreateNumberRequest: dto.CreateNumberRequest{
					Entry: testingutil.RandomIndianMobile(),
					Price: 99,
				},
				VendorUUID:    vendor.UUID.String(),
				PurchasePrice: 50000,
			}, metadata)
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(listing.IsApproved))
			// Purchase price plus the 20% range rule wins over the payload price
			assert.Equal(t, int64(60000), listing.Price)
		})

		t.Run("BrowseFiltersByPriceAndCircle", func(t *testing.T) {
			circle := fmt.Sprintf("Circle-%d", vendor.ID)
			for _, price := range []int64{15000, 25000, 35000} {
				number, err := fixtures.CreateTestNumber(vendor.ID, nil, price, true)
				require.NoError(t, err)
				require.NoError(t, testDB.DB.Model(number).Update("circle", circle).Error)
			}

			listing, err := numberFlow.ListNumbers(ctx, &dto.ListNumbersRequest{
				Circle:   circle,
				MinPrice: 20000,
				MaxPrice: 30000,
			})
			require.NoError(t, err)
			require.Len(t, listing.Items, 1)
			assert.Equal(t, int64(25000), listing.Items[0].Price)
		})

		return nil
	})
	require.NoError(t, err)
}
