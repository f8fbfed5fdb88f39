// Package services contains external service integrations and business services.
package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// PaymentGateway abstracts the payment provider used to settle sales.
type PaymentGateway interface {
	// CreateOrder registers an order with the gateway. Amount is in paise.
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*GatewayOrder, error)
	// FetchPayment retrieves the gateway-side state of a payment.
	FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)
	// VerifySignature checks the callback signature for an order/payment pair.
	VerifySignature(orderID, paymentID, signature string) bool
	// KeyID returns the public key identifier for checkout clients.
	KeyID() string
}

// GatewayOrder is the provider-side order created before checkout.
type GatewayOrder struct {
	OrderID     string
	AmountPaise int64
	Currency    string
	Receipt     string
	Status      string
}

// GatewayPayment is the provider-side view of a payment attempt.
type GatewayPayment struct {
	PaymentID   string
	OrderID     string
	AmountPaise int64
	Currency    string
	Status      string
	Method      string
	ErrorReason string
}

type RazorpayClient struct {
	BaseURL    string
	APIKeyID   string
	APISecret  string
	HTTPClient *http.Client
	Timeout    time.Duration
}

func NewRazorpayClient(baseURL, keyID, keySecret string, timeout time.Duration) *RazorpayClient {
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RazorpayClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKeyID:   keyID,
		APISecret:  keySecret,
		HTTPClient: &http.Client{Timeout: timeout},
		Timeout:    timeout,
	}
}

func (c *RazorpayClient) Name() string { return "razorpay" }

func (c *RazorpayClient) KeyID() string { return c.APIKeyID }

// Order create
// Docs: https://razorpay.com/docs/api/orders/create

type razorpayOrderCreateReq struct {
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

type razorpayOrderResp struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func (c *RazorpayClient) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*GatewayOrder, error) {
	body := razorpayOrderCreateReq{
		Amount:   amountPaise,
		Currency: currency,
		Receipt:  receipt,
	}
	var out razorpayOrderResp
	if err := c.doJSON(ctx, http.MethodPost, "/orders", body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("razorpay: empty order id in response")
	}
	return &GatewayOrder{
		OrderID:     out.ID,
		AmountPaise: out.Amount,
		Currency:    out.Currency,
		Receipt:     out.Receipt,
		Status:      out.Status,
	}, nil
}

type razorpayPaymentResp struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	Method           string `json:"method"`
	ErrorDescription string `json:"error_description"`
}

func (c *RazorpayClient) FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error) {
	var out razorpayPaymentResp
	if err := c.doJSON(ctx, http.MethodGet, "/payments/"+paymentID, nil, &out); err != nil {
		return nil, err
	}
	return &GatewayPayment{
		PaymentID:   out.ID,
		OrderID:     out.OrderID,
		AmountPaise: out.Amount,
		Currency:    out.Currency,
		Status:      out.Status,
		Method:      out.Method,
		ErrorReason: out.ErrorDescription,
	}, nil
}

// VerifySignature computes HMAC-SHA256 over "order_id|payment_id" with the
// API secret and compares it to the callback signature in constant time.
func (c *RazorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.APISecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// HTTP helper
func (c *RazorpayClient) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var reader *bytes.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.APIKeyID, c.APISecret)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error.Description != "" {
			return fmt.Errorf("razorpay: %s: %s", apiErr.Error.Code, apiErr.Error.Description)
		}
		return fmt.Errorf("razorpay: unexpected status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
