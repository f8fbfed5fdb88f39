// Package businessflow_test contains integration tests for marketplace flows
package businessflow_test

import (
	"testing"

	"github.com/numberkart/numberkart/app/dto"
	businessflow "github.com/numberkart/numberkart/business_flow"
	"github.com/numberkart/numberkart/repository"
	testingutil "github.com/numberkart/numberkart/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		customerRepo := repository.NewCustomerRepository(testDB.DB)
		numberRepo := repository.NewNumberRepository(testDB.DB)
		cartRepo := repository.NewCartItemRepository(testDB.DB)

		cartFlow := businessflow.NewCartFlow(
			customerRepo,
			numberRepo,
			cartRepo,
			testDB.DB,
		)

		ctx := testingutil.CreateTestContext()

		vendor, err := fixtures.CreateTestVendor(true)
		require.NoError(t, err)

		t.Run("AddItemRequiresCustomerProfile", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount()
			require.NoError(t, err)

			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 50000, true)
			require.NoError(t, err)

			_, err = cartFlow.AddItem(ctx, account.ID, &dto.AddCartItemRequest{NumberUUID: number.UUID.String()})
			require.Error(t, err)
			assert.True(t, businessflow.IsCustomerProfileRequired(err))
		})

		t.Run("AddApprovedNumber", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 50000, true)
			require.NoError(t, err)

			cart, err := cartFlow.AddItem(ctx, customer.AccountID, &dto.AddCartItemRequest{NumberUUID: number.UUID.String()})
			require.NoError(t, err)
			require.Len(t, cart.Items, 1)
			assert.Equal(t, number.Entry, cart.Items[0].Number.Entry)
			assert.Equal(t, 1, cart.Count)
			assert.Equal(t, "50000.00", cart.Total)
		})

		t.Run("AddSameNumberTwiceRejected", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 60000, true)
			require.NoError(t, err)

			_, err = cartFlow.AddItem(ctx, customer.AccountID, &dto.AddCartItemRequest{NumberUUID: number.UUID.String()})
			require.NoError(t, err)

			_, err = cartFlow.AddItem(ctx, customer.AccountID, &dto.AddCartItemRequest{NumberUUID: number.UUID.String()})
			require.Error(t, err)
			assert.True(t, businessflow.IsNumberAlreadyInCart(err))
		})

		t.Run("AddUnapprovedNumberRejected", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 50000, false)
			require.NoError(t, err)

			_, err = cartFlow.AddItem(ctx, customer.AccountID, &dto.AddCartItemRequest{NumberUUID: number.UUID.String()})
			require.Error(t, err)
			assert.True(t, businessflow.IsNumberNotApproved(err))
		})

		t.Run("AddSoldNumberRejected", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 50000, true)
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(number).Update("is_sold", true).Error)

			_, err = cartFlow.AddItem(ctx, customer.AccountID, &dto.AddCartItemRequest{NumberUUID: number.UUID.String()})
			require.Error(t, err)
			assert.True(t, businessflow.IsNumberAlreadySold(err))
		})

		t.Run("TotalAppliesDiscount", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 100000, true)
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(number).Update("discount", 10.0).Error)

			cart, err := cartFlow.AddItem(ctx, customer.AccountID, &dto.AddCartItemRequest{NumberUUID: number.UUID.String()})
			require.NoError(t, err)
			assert.Equal(t, "90000.00", cart.Total)
		})

		t.Run("NewestItemListedFirst", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			first, err := fixtures.CreateTestNumber(vendor.ID, nil, 10000, true)
			require.NoError(t, err)
			second, err := fixtures.CreateTestNumber(vendor.ID, nil, 10000, true)
			require.NoError(t, err)

			_, err = cartFlow.AddItem(ctx, customer.AccountID, &dto.AddCartItemRequest{NumberUUID: first.UUID.String()})
			require.NoError(t, err)
			cart, err := cartFlow.AddItem(ctx, customer.AccountID, &dto.AddCartItemRequest{NumberUUID: second.UUID.String()})
			require.NoError(t, err)

			require.Len(t, cart.Items, 2)
			assert.Equal(t, second.Entry, cart.Items[0].Number.Entry)
			assert.Equal(t, first.Entry, cart.Items[1].Number.Entry)
		})

		t.Run("RemoveItem", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 50000, true)
			require.NoError(t, err)

			_, err = cartFlow.AddItem(ctx, customer.AccountID, &dto.AddCartItemRequest{NumberUUID: number.UUID.String()})
			require.NoError(t, err)

			cart, err := cartFlow.RemoveItem(ctx, customer.AccountID, number.UUID.String())
			require.NoError(t, err)
			assert.Empty(t, cart.Items)
			assert.Equal(t, "0.00", cart.Total)
		})

		t.Run("RemoveItemNotInCart", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			number, err := fixtures.CreateTestNumber(vendor.ID, nil, 50000, true)
			require.NoError(t, err)

			_, err = cartFlow.RemoveItem(ctx, customer.AccountID, number.UUID.String())
			require.Error(t, err)
			assert.True(t, businessflow.IsCartItemNotFound(err))
		})

		t.Run("GetCartEmpty", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			cart, err := cartFlow.GetCart(ctx, customer.AccountID)
			require.NoError(t, err)
			assert.Empty(t, cart.Items)
			assert.Equal(t, 0, cart.Count)
		})

		return nil
	})
	require.NoError(t, err)
}
