// Package businessflow_test contains integration tests for marketplace flows
package businessflow_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/numberkart/numberkart/app/dto"
	"github.com/numberkart/numberkart/app/services"
	businessflow "github.com/numberkart/numberkart/business_flow"
	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/repository"
	testingutil "github.com/numberkart/numberkart/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGateway signs and verifies with a real HMAC so callback tests
// exercise the same signature scheme production uses.
type mockGateway struct {
	secret     string
	orderSeq   int
	createErr  error
	fetchResp  *services.GatewayPayment
	fetchErr   error
}

func (m *mockGateway) CreateOrder(_ context.Context, amountPaise int64, currency, receipt string) (*services.GatewayOrder, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.orderSeq++
	return &services.GatewayOrder{
		OrderID:     fmt.Sprintf("order_test_%06d", m.orderSeq),
		AmountPaise: amountPaise,
		Currency:    currency,
		Receipt:     receipt,
		Status:      "created",
	}, nil
}

func (m *mockGateway) FetchPayment(_ context.Context, paymentID string) (*services.GatewayPayment, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if m.fetchResp != nil {
		return m.fetchResp, nil
	}
	return &services.GatewayPayment{PaymentID: paymentID, Status: "captured", Method: "upi"}, nil
}

func (m *mockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return hmac.Equal([]byte(m.sign(orderID, paymentID)), []byte(signature))
}

func (m *mockGateway) KeyID() string { return "rzp_test_mock" }

func (m *mockGateway) sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(m.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaymentFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		gateway := &mockGateway{secret: "test_gateway_secret"}

		paymentRepo := repository.NewPaymentRepository(testDB.DB)
		paymentFlow := businessflow.NewPaymentFlow(
			repository.NewCustomerRepository(testDB.DB),
			repository.NewSaleRepository(testDB.DB),
			paymentRepo,
			repository.NewNumberRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
			gateway,
			testDB.DB,
		)
		saleFlow := newSaleFlow(testDB)

		vendor, err := fixtures.CreateTestVendor(true)
		require.NoError(t, err)

		// makeSale purchases one fresh number and returns the buyer and sale
		makeSale := func(t *testing.T, price int64) (*models.Customer, *dto.SaleDTO) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			number, err := fixtures.CreateTestNumber(vendor.ID, nil, price, true)
			require.NoError(t, err)
			sale, err := saleFlow.Purchase(ctx, customer.AccountID, &dto.PurchaseRequest{
				NumberUUIDs: []string{number.UUID.String()},
			}, metadata)
			require.NoError(t, err)
			return customer, sale
		}

		t.Run("InitiateCreatesPendingPayment", func(t *testing.T) {
			customer, sale := makeSale(t, 75000)

			resp, err := paymentFlow.Initiate(ctx, customer.AccountID, &dto.InitiatePaymentRequest{SaleUUID: sale.UUID}, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, resp.PaymentUUID)
			assert.NotEmpty(t, resp.OrderID)
			assert.Equal(t, int64(7500000), resp.Amount) // paise
			assert.Equal(t, "INR", resp.Currency)
			assert.Equal(t, "rzp_test_mock", resp.KeyID)

			payment, err := paymentRepo.ByOrderID(ctx, resp.OrderID)
			require.NoError(t, err)
			require.NotNil(t, payment)
			assert.Equal(t, models.PaymentStatusPending, payment.Status)
			assert.Equal(t, "75000.00", payment.Amount.StringFixed(2))
		})

		t.Run("InitiateTwiceRejected", func(t *testing.T) {
			customer, sale := makeSale(t, 10000)

			_, err := paymentFlow.Initiate(ctx, customer.AccountID, &dto.InitiatePaymentRequest{SaleUUID: sale.UUID}, metadata)
			require.NoError(t, err)

			_, err = paymentFlow.Initiate(ctx, customer.AccountID, &dto.InitiatePaymentRequest{SaleUUID: sale.UUID}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPaymentAlreadyExists(err))
		})

		t.Run("InitiateForeignSaleRejected", func(t *testing.T) {
			_, sale := makeSale(t, 10000)
			stranger, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			_, err = paymentFlow.Initiate(ctx, stranger.AccountID, &dto.InitiatePaymentRequest{SaleUUID: sale.UUID}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsSaleNotOwned(err))
		})

		t.Run("InitiateFinalizedSaleRejected", func(t *testing.T) {
			customer, sale := makeSale(t, 10000)
			require.NoError(t, testDB.DB.Model(&models.Sale{}).
				Where("uuid = ?", sale.UUID).
				Update("status", models.SaleStatusCompleted).Error)

			_, err := paymentFlow.Initiate(ctx, customer.AccountID, &dto.InitiatePaymentRequest{SaleUUID: sale.UUID}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsSaleAlreadyFinalized(err))
		})

		t.Run("GatewayFailureLeavesNothingBehind", func(t *testing.T) {
			customer, sale := makeSale(t, 10000)
			gateway.createErr = errors.New("gateway down")
			defer func() { gateway.createErr = nil }()

			_, err := paymentFlow.Initiate(ctx, customer.AccountID, &dto.InitiatePaymentRequest{SaleUUID: sale.UUID}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPaymentGatewayUnavailable(err))

			var count int64
			require.NoError(t, testDB.DB.Model(&models.Payment{}).
				Joins("JOIN sales ON sales.id = payments.sale_id").
				Where("sales.uuid = ?", sale.UUID).
				Count(&count).Error)
			assert.Equal(t, int64(0), count)
		})

		t.Run("CallbackValidSignatureSettles", func(t *testing.T) {
			customer, sale := makeSale(t, 20000)
			resp, err := paymentFlow.Initiate(ctx, customer.AccountID, &dto.InitiatePaymentRequest{SaleUUID: sale.UUID}, metadata)
			require.NoError(t, err)

			paymentID := "pay_valid_001"
			status, err := paymentFlow.Callback(ctx, &dto.PaymentCallbackRequest{
				RazorpayOrderID:   resp.OrderID,
				RazorpayPaymentID: paymentID,
				RazorpaySignature: gateway.sign(resp.OrderID, paymentID),
			}, metadata)
			require.NoError(t, err)

			assert.Equal(t, models.PaymentStatusCompleted, status.PaymentStatus)
			assert.Equal(t, models.SaleStatusCompleted, status.SaleStatus)
			require.NotNil(t, status.Method)
			assert.Equal(t, "upi", *status.Method)

			payment, err := paymentRepo.ByOrderID(ctx, resp.OrderID)
			require.NoError(t, err)
			require.NotNil(t, payment.GatewayPaymentID)
			assert.Equal(t, paymentID, *payment.GatewayPaymentID)

			// Every number on the sale reached its terminal sold status
			var remaining int64
			require.NoError(t, testDB.DB.Model(&models.Number{}).
				Joins("JOIN sale_numbers ON sale_numbers.number_id = numbers.id").
				Joins("JOIN sales ON sales.id = sale_numbers.sale_id").
				Where("sales.uuid = ? AND (numbers.status <> ? OR numbers.is_sold = false)", sale.UUID, models.NumberStatusSold).
				Count(&remaining).Error)
			assert.Equal(t, int64(0), remaining)
		})

		t.Run("CallbackInvalidSignatureFailsPayment", func(t *testing.T) {
			customer, sale := makeSale(t, 20000)
			resp, err := paymentFlow.Initiate(ctx, customer.AccountID, &dto.InitiatePaymentRequest{SaleUUID: sale.UUID}, metadata)
			require.NoError(t, err)

			_, err = paymentFlow.Callback(ctx, &dto.PaymentCallbackRequest{
				RazorpayOrderID:   resp.OrderID,
				RazorpayPaymentID: "pay_bogus_001",
				RazorpaySignature: "deadbeef",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsSignatureVerificationFailed(err))

			payment, err := paymentRepo.ByOrderID(ctx, resp.OrderID)
			require.NoError(t, err)
			assert.Equal(t, models.PaymentStatusFailed, payment.Status)

			// Sale stays pending, retriable through support
			var saleStatus string
			require.NoError(t, testDB.DB.Model(&models.Sale{}).
				Where("uuid = ?", sale.UUID).
				Pluck("status", &saleStatus).Error)
			assert.Equal(t, models.SaleStatusPending, saleStatus)
		})

		t.Run("CallbackReplayRejected", func(t *testing.T) {
			customer, sale := makeSale(t, 20000)
			resp, err := paymentFlow.Initiate(ctx, customer.AccountID, &dto.InitiatePaymentRequest{SaleUUID: sale.UUID}, metadata)
			require.NoError(t, err)

			paymentID := "pay_replay_001"
			callback := &dto.PaymentCallbackRequest{
				RazorpayOrderID:   resp.OrderID,
				RazorpayPaymentID: paymentID,
				RazorpaySignature: gateway.sign(resp.OrderID, paymentID),
			}
			_, err = paymentFlow.Callback(ctx, callback, metadata)
			require.NoError(t, err)

			_, err = paymentFlow.Callback(ctx, callback, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPaymentAlreadyProcessed(err))
		})

		t.Run("CallbackUnknownOrderRejected", func(t *testing.T) {
			_, err := paymentFlow.Callback(ctx, &dto.PaymentCallbackRequest{
				RazorpayOrderID:   "order_unknown",
				RazorpayPaymentID: "pay_x",
				RazorpaySignature: "sig",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPaymentNotFound(err))
		})

		t.Run("CallbackWithoutOrderIDRejected", func(t *testing.T) {
			_, err := paymentFlow.Callback(ctx, &dto.PaymentCallbackRequest{
				RazorpayPaymentID: "pay_x",
				RazorpaySignature: "sig",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsOrderIDRequired(err))
		})

		t.Run("CallbackMissingFieldsFailsPayment", func(t *testing.T) {
			customer, sale := makeSale(t, 20000)
			resp, err := paymentFlow.Initiate(ctx, customer.AccountID, &dto.InitiatePaymentRequest{SaleUUID: sale.UUID}, metadata)
			require.NoError(t, err)

			// An incomplete callback for a known order is terminal, the
			// payment is failed with the reason recorded.
			_, err = paymentFlow.Callback(ctx, &dto.PaymentCallbackRequest{
				RazorpayOrderID:   resp.OrderID,
				RazorpaySignature: "sig",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPaymentIDRequired(err))

			payment, err := paymentRepo.ByOrderID(ctx, resp.OrderID)
			require.NoError(t, err)
			assert.Equal(t, models.PaymentStatusFailed, payment.Status)
			require.NotNil(t, payment.FailureReason)
			assert.Equal(t, "missing required gateway parameters", *payment.FailureReason)

			// Failed is final, a later well-formed callback is refused
			paymentID := "pay_late_001"
			_, err = paymentFlow.Callback(ctx, &dto.PaymentCallbackRequest{
				RazorpayOrderID:   resp.OrderID,
				RazorpayPaymentID: paymentID,
				RazorpaySignature: gateway.sign(resp.OrderID, paymentID),
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPaymentAlreadyProcessed(err))
		})

		t.Run("CallbackMissingSignatureFailsPayment", func(t *testing.T) {
			customer, sale := makeSale(t, 20000)
			resp, err := paymentFlow.Initiate(ctx, customer.AccountID, &dto.InitiatePaymentRequest{SaleUUID: sale.UUID}, metadata)
			require.NoError(t, err)

			_, err = paymentFlow.Callback(ctx, &dto.PaymentCallbackRequest{
				RazorpayOrderID:   resp.OrderID,
				RazorpayPaymentID: "pay_nosig_001",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsSignatureRequired(err))

			payment, err := paymentRepo.ByOrderID(ctx, resp.OrderID)
			require.NoError(t, err)
			assert.Equal(t, models.PaymentStatusFailed, payment.Status)
		})

		t.Run("StatusVisibleToOwnerOnly", func(t *testing.T) {
			customer, sale := makeSale(t, 20000)
			resp, err := paymentFlow.Initiate(ctx, customer.AccountID, &dto.InitiatePaymentRequest{SaleUUID: sale.UUID}, metadata)
			require.NoError(t, err)

			status, err := paymentFlow.Status(ctx, customer.AccountID, resp.PaymentUUID)
			require.NoError(t, err)
			assert.Equal(t, models.PaymentStatusPending, status.PaymentStatus)

			stranger, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			_, err = paymentFlow.Status(ctx, stranger.AccountID, resp.PaymentUUID)
			require.Error(t, err)
			assert.True(t, businessflow.IsSaleNotOwned(err))
		})

		return nil
	})
	require.NoError(t, err)
}
