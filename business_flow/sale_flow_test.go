// Package businessflow_test contains integration tests for marketplace flows
package businessflow_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/numberkart/numberkart/app/dto"
	businessflow "github.com/numberkart/numberkart/business_flow"
	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/repository"
	testingutil "github.com/numberkart/numberkart/testing"
	"github.com/numberkart/numberkart/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newSaleFlow(testDB *testingutil.TestDB) businessflow.SaleFlow {
	return businessflow.NewSaleFlow(
		repository.NewCustomerRepository(testDB.DB),
		repository.NewVendorRepository(testDB.DB),
		repository.NewNumberRepository(testDB.DB),
		repository.NewCartItemRepository(testDB.DB),
		repository.NewSaleRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		nil, // no cache in tests
		nil,
		testDB.DB,
	)
}

func TestSaleFlowPurchase(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		saleFlow := newSaleFlow(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		vendor, err := fixtures.CreateTestVendor(true)
		require.NoError(t, err)

		t.Run("SuccessfulPurchase", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			n1, err := fixtures.CreateTestNumber(vendor.ID, nil, 100000, true)
			require.NoError(t, err)
			n2, err := fixtures.CreateTestNumber(vendor.ID, nil, 50000, true)
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(n2).Update("discount", 20.0).Error)

			sale, err := saleFlow.Purchase(ctx, customer.AccountID, &dto.PurchaseRequest{
				NumberUUIDs: []string{n1.UUID.String(), n2.UUID.String()},
			}, metadata)
			require.NoError(t, err)

			assert.Equal(t, models.SaleStatusPending, sale.Status)
			assert.Equal(t, "140000.00", sale.FinalPrice)
			assert.Len(t, sale.Numbers, 2)

			// Vendor attribution survives a reload with relations
			reloaded, err := saleFlow.GetSale(ctx, customer.AccountID, sale.UUID)
			require.NoError(t, err)
			require.NotNil(t, reloaded.VendorUUID)
			assert.Equal(t, vendor.UUID.String(), *reloaded.VendorUUID)

			// Both numbers are off the market, reserved until settlement
			var sold int64
			require.NoError(t, testDB.DB.Model(&models.Number{}).
				Where("id IN ? AND is_sold = true AND status = ?", []uint{n1.ID, n2.ID}, models.NumberStatusHold).
				Count(&sold).Error)
			assert.Equal(t, int64(2), sold)
		})

		t.Run("MixedVendorsLeaveVendorUnset", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			otherVendor, err := fixtures.CreateTestVendor(true)
			require.NoError(t, err)

			n1, err := fixtures.CreateTestNumber(vendor.ID, nil, 10000, true)
			require.NoError(t, err)
			n2, err := fixtures.CreateTestNumber(otherVendor.ID, nil, 10000, true)
			require.NoError(t, err)

			sale, err := saleFlow.Purchase(ctx, customer.AccountID, &dto.PurchaseRequest{
				NumberUUIDs: []string{n1.UUID.String(), n2.UUID.String()},
			}, metadata)
			require.NoError(t, err)
			assert.Nil(t, sale.VendorUUID)
		})

		t.Run("PurchaseClearsAllCarts", func(t *testing.T) {
			buyer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			bystander, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 30000, true)
			require.NoError(t, err)

			_, err = fixtures.CreateTestCartItem(buyer.ID, number.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestCartItem(bystander.ID, number.ID)
			require.NoError(t, err)

			_, err = saleFlow.Purchase(ctx, buyer.AccountID, &dto.PurchaseRequest{
				NumberUUIDs: []string{number.UUID.String()},
			}, metadata)
			require.NoError(t, err)

			var remaining int64
			require.NoError(t, testDB.DB.Model(&models.CartItem{}).
				Where("number_id = ?", number.ID).
				Count(&remaining).Error)
			assert.Equal(t, int64(0), remaining)
		})

		t.Run("SoldNumberRejected", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 30000, true)
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(number).Update("is_sold", true).Error)

			_, err = saleFlow.Purchase(ctx, customer.AccountID, &dto.PurchaseRequest{
				NumberUUIDs: []string{number.UUID.String()},
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsNumberAlreadySold(err))
		})

		t.Run("UnapprovedNumberRejected", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 30000, false)
			require.NoError(t, err)

			_, err = saleFlow.Purchase(ctx, customer.AccountID, &dto.PurchaseRequest{
				NumberUUIDs: []string{number.UUID.String()},
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsNumberNotApproved(err))
		})

		t.Run("AllSoldEntriesNamed", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			n1, err := fixtures.CreateTestNumber(vendor.ID, nil, 30000, true)
			require.NoError(t, err)
			n2, err := fixtures.CreateTestNumber(vendor.ID, nil, 30000, true)
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(&models.Number{}).
				Where("id IN ?", []uint{n1.ID, n2.ID}).
				Update("is_sold", true).Error)

			_, err = saleFlow.Purchase(ctx, customer.AccountID, &dto.PurchaseRequest{
				NumberUUIDs: []string{n1.UUID.String(), n2.UUID.String()},
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsNumberAlreadySold(err))
			assert.Contains(t, err.Error(), n1.Entry)
			assert.Contains(t, err.Error(), n2.Entry)
		})

		t.Run("UnknownNumberRejected", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			unknown := uuid.New().String()
			_, err = saleFlow.Purchase(ctx, customer.AccountID, &dto.PurchaseRequest{
				NumberUUIDs: []string{unknown},
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidNumberIDs(err))
			assert.Contains(t, err.Error(), unknown)
		})

		t.Run("MalformedNumberIDRejected", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			_, err = saleFlow.Purchase(ctx, customer.AccountID, &dto.PurchaseRequest{
				NumberUUIDs: []string{"not-a-uuid"},
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidNumberIDs(err))
		})

		t.Run("EmptyPurchaseRejected", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			_, err = saleFlow.Purchase(ctx, customer.AccountID, &dto.PurchaseRequest{}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsEmptyPurchase(err))
		})

		t.Run("TooManyNumbersRejected", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			uuids := make([]string, utils.MaxNumbersPerPurchase+1)
			for i := range uuids {
				uuids[i] = uuid.New().String()
			}
			_, err = saleFlow.Purchase(ctx, customer.AccountID, &dto.PurchaseRequest{NumberUUIDs: uuids}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsTooManyNumbers(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSaleFlowConcurrentPurchase(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		saleFlow := newSaleFlow(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		vendor, err := fixtures.CreateTestVendor(true)
		require.NoError(t, err)
		number, err := fixtures.CreateTestNumber(vendor.ID, nil, 30000, true)
		require.NoError(t, err)

		first, err := fixtures.CreateTestCustomer()
		require.NoError(t, err)
		second, err := fixtures.CreateTestCustomer()
		require.NoError(t, err)

		request := &dto.PurchaseRequest{NumberUUIDs: []string{number.UUID.String()}}
		results := make(chan error, 2)
		var wg sync.WaitGroup
		for _, buyer := range []uint{first.AccountID, second.AccountID} {
			wg.Add(1)
			go func(accountID uint) {
				defer wg.Done()
				_, err := saleFlow.Purchase(ctx, accountID, request, metadata)
				results <- err
			}(buyer)
		}
		wg.Wait()
		close(results)

		var won, lost int
		for err := range results {
			if err == nil {
				won++
				continue
			}
			lost++
			// The loser hits either the conditional update or the
			// committed sold flag, depending on interleaving.
			assert.True(t, businessflow.IsPurchaseConflict(err) || businessflow.IsNumberAlreadySold(err),
				"unexpected purchase error: %v", err)
		}
		assert.Equal(t, 1, won)
		assert.Equal(t, 1, lost)

		var sales int64
		require.NoError(t, testDB.DB.Model(&models.Sale{}).Count(&sales).Error)
		assert.Equal(t, int64(1), sales)

		return nil
	})
	require.NoError(t, err)
}

func TestSaleFlowListings(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		saleFlow := newSaleFlow(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		vendor, err := fixtures.CreateTestVendor(true)
		require.NoError(t, err)
		customer, err := fixtures.CreateTestCustomer()
		require.NoError(t, err)

		var saleUUID string
		for i := 0; i < 3; i++ {
			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 10000, true)
			require.NoError(t, err)
			sale, err := saleFlow.Purchase(ctx, customer.AccountID, &dto.PurchaseRequest{
				NumberUUIDs: []string{number.UUID.String()},
			}, metadata)
			require.NoError(t, err)
			saleUUID = sale.UUID
		}

		t.Run("GetOwnSale", func(t *testing.T) {
			sale, err := saleFlow.GetSale(ctx, customer.AccountID, saleUUID)
			require.NoError(t, err)
			assert.Equal(t, saleUUID, sale.UUID)
		})

		t.Run("GetSaleOwnedByAnotherCustomer", func(t *testing.T) {
			stranger, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			_, err = saleFlow.GetSale(ctx, stranger.AccountID, saleUUID)
			require.Error(t, err)
			assert.True(t, businessflow.IsSaleNotOwned(err))
		})

		t.Run("ListCustomerSalesPaginates", func(t *testing.T) {
			resp, err := saleFlow.ListCustomerSales(ctx, customer.AccountID, 1, 2)
			require.NoError(t, err)
			assert.Len(t, resp.Items, 2)
			assert.Equal(t, int64(3), resp.Pagination.Total)
			assert.Equal(t, 2, resp.Pagination.TotalPages)
		})

		t.Run("ListVendorSales", func(t *testing.T) {
			resp, err := saleFlow.ListVendorSales(ctx, vendor.AccountID, 1, 20)
			require.NoError(t, err)
			assert.Len(t, resp.Items, 3)
		})

		t.Run("AdminListSalesByStatus", func(t *testing.T) {
			resp, err := saleFlow.AdminListSales(ctx, &dto.AdminListSalesRequest{
				Status: models.SaleStatusPending,
				Page:   1,
				Limit:  20,
			})
			require.NoError(t, err)
			assert.Len(t, resp.Items, 3)

			resp, err = saleFlow.AdminListSales(ctx, &dto.AdminListSalesRequest{
				Status: models.SaleStatusCompleted,
				Page:   1,
				Limit:  20,
			})
			require.NoError(t, err)
			assert.Empty(t, resp.Items)
		})

		t.Run("AdminExportSales", func(t *testing.T) {
			filename, data, err := saleFlow.AdminExportSales(ctx)
			require.NoError(t, err)
			assert.Equal(t, "sales.xlsx", filename)
			require.NotEmpty(t, data)

			xl, err := excelize.OpenReader(bytes.NewReader(data))
			require.NoError(t, err)
			defer xl.Close()

			rows, err := xl.GetRows("Sales")
			require.NoError(t, err)
			// Header plus one row per sale
			assert.Len(t, rows, 4)
			assert.Equal(t, "uuid", rows[0][0])
		})

		return nil
	})
	require.NoError(t, err)
}
