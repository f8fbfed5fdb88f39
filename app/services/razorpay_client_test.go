package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signCallback(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	client := NewRazorpayClient("", "rzp_test_key", "test_secret", 0)

	t.Run("ValidSignature", func(t *testing.T) {
		sig := signCallback("test_secret", "order_abc", "pay_xyz")
		assert.True(t, client.VerifySignature("order_abc", "pay_xyz", sig))
	})

	t.Run("WrongSecret", func(t *testing.T) {
		sig := signCallback("other_secret", "order_abc", "pay_xyz")
		assert.False(t, client.VerifySignature("order_abc", "pay_xyz", sig))
	})

	t.Run("TamperedOrderID", func(t *testing.T) {
		sig := signCallback("test_secret", "order_abc", "pay_xyz")
		assert.False(t, client.VerifySignature("order_abd", "pay_xyz", sig))
	})

	t.Run("TamperedPaymentID", func(t *testing.T) {
		sig := signCallback("test_secret", "order_abc", "pay_xyz")
		assert.False(t, client.VerifySignature("order_abc", "pay_xyy", sig))
	})

	t.Run("EmptyArguments", func(t *testing.T) {
		sig := signCallback("test_secret", "order_abc", "pay_xyz")
		assert.False(t, client.VerifySignature("", "pay_xyz", sig))
		assert.False(t, client.VerifySignature("order_abc", "", sig))
		assert.False(t, client.VerifySignature("order_abc", "pay_xyz", ""))
	})
}

func TestCreateOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/orders", r.URL.Path)

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "rzp_test_key", user)
			assert.Equal(t, "test_secret", pass)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(2850000), body["amount"])
			assert.Equal(t, "INR", body["currency"])
			assert.Equal(t, "sale_123", body["receipt"])

			json.NewEncoder(w).Encode(map[string]any{
				"id":       "order_MkX2Lw8bKq6xTz",
				"entity":   "order",
				"amount":   2850000,
				"currency": "INR",
				"receipt":  "sale_123",
				"status":   "created",
			})
		}))
		defer server.Close()

		client := NewRazorpayClient(server.URL, "rzp_test_key", "test_secret", 5*time.Second)
		order, err := client.CreateOrder(context.Background(), 2850000, "INR", "sale_123")
		require.NoError(t, err)
		assert.Equal(t, "order_MkX2Lw8bKq6xTz", order.OrderID)
		assert.Equal(t, int64(2850000), order.AmountPaise)
		assert.Equal(t, "INR", order.Currency)
		assert.Equal(t, "created", order.Status)
	})

	t.Run("APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{
					"code":        "BAD_REQUEST_ERROR",
					"description": "Amount exceeds maximum amount allowed.",
				},
			})
		}))
		defer server.Close()

		client := NewRazorpayClient(server.URL, "rzp_test_key", "test_secret", 5*time.Second)
		_, err := client.CreateOrder(context.Background(), 1<<40, "INR", "sale_big")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BAD_REQUEST_ERROR")
		assert.Contains(t, err.Error(), "Amount exceeds maximum amount allowed.")
	})

	t.Run("ErrorWithoutBody", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewRazorpayClient(server.URL, "rzp_test_key", "test_secret", 5*time.Second)
		_, err := client.CreateOrder(context.Background(), 100, "INR", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 502")
	})

	t.Run("EmptyOrderID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"entity": "order"})
		}))
		defer server.Close()

		client := NewRazorpayClient(server.URL, "rzp_test_key", "test_secret", 5*time.Second)
		_, err := client.CreateOrder(context.Background(), 100, "INR", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty order id")
	})
}

func TestFetchPayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/payments/pay_DovFx48wXYxYZ1", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]any{
				"id":       "pay_DovFx48wXYxYZ1",
				"order_id": "order_MkX2Lw8bKq6xTz",
				"amount":   2850000,
				"currency": "INR",
				"status":   "captured",
				"method":   "upi",
			})
		}))
		defer server.Close()

		client := NewRazorpayClient(server.URL, "rzp_test_key", "test_secret", 5*time.Second)
		payment, err := client.FetchPayment(context.Background(), "pay_DovFx48wXYxYZ1")
		require.NoError(t, err)
		assert.Equal(t, "pay_DovFx48wXYxYZ1", payment.PaymentID)
		assert.Equal(t, "order_MkX2Lw8bKq6xTz", payment.OrderID)
		assert.Equal(t, "captured", payment.Status)
		assert.Equal(t, "upi", payment.Method)
	})

	t.Run("FailedPaymentCarriesReason", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"id":                "pay_failed01",
				"status":            "failed",
				"method":            "card",
				"error_description": "Payment declined by bank.",
			})
		}))
		defer server.Close()

		client := NewRazorpayClient(server.URL, "rzp_test_key", "test_secret", 5*time.Second)
		payment, err := client.FetchPayment(context.Background(), "pay_failed01")
		require.NoError(t, err)
		assert.Equal(t, "failed", payment.Status)
		assert.Equal(t, "Payment declined by bank.", payment.ErrorReason)
	})

	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{
					"code":        "BAD_REQUEST_ERROR",
					"description": "The id provided does not exist",
				},
			})
		}))
		defer server.Close()

		client := NewRazorpayClient(server.URL, "rzp_test_key", "test_secret", 5*time.Second)
		_, err := client.FetchPayment(context.Background(), "pay_missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "The id provided does not exist")
	})
}

func TestClientDefaults(t *testing.T) {
	client := NewRazorpayClient("", "key", "secret", 0)
	assert.Equal(t, "https://api.razorpay.com/v1", client.BaseURL)
	assert.Equal(t, 10*time.Second, client.Timeout)
	assert.Equal(t, "key", client.KeyID())

	trimmed := NewRazorpayClient("https://gw.example.com/v1/", "key", "secret", time.Second)
	assert.Equal(t, "https://gw.example.com/v1", trimmed.BaseURL)
}
