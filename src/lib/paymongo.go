package lib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tidwall/gjson"
)

// PayMongo exposes the same endpoint for test and live modes; the key prefix
// (sk_test_/sk_live_) selects the mode.
const paymongoAPIURL = "https://api.paymongo.com/v1"

// Payment intent status vocabulary as reported by the gateway.
const (
	IntentStatusSucceeded             = "succeeded"
	IntentStatusPaid                  = "paid"
	IntentStatusAwaitingPaymentMethod = "awaiting_payment_method"
	IntentStatusAwaitingNextAction    = "awaiting_next_action"
	IntentStatusProcessing            = "processing"
	IntentStatusPaymentFailed         = "payment_failed"
	IntentStatusCanceled              = "canceled"
)

type PayMongoClient struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client
}

var paymongoClient *PayMongoClient

func GetPayMongoClient() *PayMongoClient {
	if paymongoClient != nil {
		return paymongoClient
	}
	c := &PayMongoClient{
		BaseURL:    paymongoAPIURL,
		SecretKey:  os.Getenv("PAYMONGO_SECRET_KEY"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
	paymongoClient = c
	return c
}

// NewPayMongoClient replaces the gateway client; used by tests to point at a
// stub server.
func NewPayMongoClient(c *PayMongoClient) {
	paymongoClient = c
}

type CheckoutSession struct {
	ID              string
	URL             string
	PaymentIntentID *string
}

type PaymentIntent struct {
	Status         string
	SourceType     string
	AllowedMethods []string
}

func (c *PayMongoClient) do(ctx context.Context, method, path string, payload any) (gjson.Result, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return gjson.Result{}, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return gjson.Result{}, err
	}
	req.SetBasicAuth(c.SecretKey, "")
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return gjson.Result{}, err
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return gjson.Result{}, err
	}
	if res.StatusCode >= 300 {
		detail := gjson.GetBytes(raw, "errors.0.detail").String()
		if detail == "" {
			detail = res.Status
		}
		return gjson.Result{}, fmt.Errorf("paymongo %s %s failed: %s", method, path, detail)
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, fmt.Errorf("paymongo %s %s: invalid response body", method, path)
	}
	return gjson.ParseBytes(raw), nil
}

// CreateCheckout opens a hosted checkout session for a booking's down
// payment. Amounts are PHP and converted to centavos on the wire.
func (c *PayMongoClient) CreateCheckout(ctx context.Context, amount float64, bookingID uint) (*CheckoutSession, error) {
	appHost := os.Getenv("APP_HOST")
	if appHost == "" {
		appHost = "http://localhost:8100"
	}
	centavos := int64(amount*100 + 0.5)
	payload := map[string]any{
		"data": map[string]any{
			"attributes": map[string]any{
				"send_email_receipt": true,
				"show_description":   true,
				"show_line_items":    true,
				"line_items": []map[string]any{
					{
						"currency":    "PHP",
						"amount":      centavos,
						"name":        fmt.Sprintf("Vehicle Rental - Booking #%d", bookingID),
						"quantity":    1,
						"description": fmt.Sprintf("Down payment for vehicle rental booking #%d", bookingID),
					},
				},
				"payment_method_types": []string{"gcash", "grab_pay", "paymaya"},
				"success_url":          fmt.Sprintf("%s/payment/success?booking_id=%d", appHost, bookingID),
				"cancel_url":           fmt.Sprintf("%s/payment/cancel?booking_id=%d", appHost, bookingID),
				"description":          fmt.Sprintf("Vehicle Rental Payment - Booking #%d", bookingID),
				"metadata": map[string]string{
					"booking_id": fmt.Sprint(bookingID),
				},
			},
		},
	}
	res, err := c.do(ctx, http.MethodPost, "/checkout_sessions", payload)
	if err != nil {
		return nil, err
	}
	cs := CheckoutSession{
		ID:  res.Get("data.id").String(),
		URL: res.Get("data.attributes.checkout_url").String(),
	}
	if cs.URL == "" {
		return nil, fmt.Errorf("paymongo: checkout URL missing from response")
	}
	if pi := res.Get("data.attributes.payment_intent.id"); pi.Exists() {
		id := pi.String()
		cs.PaymentIntentID = &id
	}
	return &cs, nil
}

// GetPaymentIntent returns the gateway-side status of a payment intent along
// with whatever the gateway reports about the paying instrument.
func (c *PayMongoClient) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	res, err := c.do(ctx, http.MethodGet, "/payment_intents/"+id, nil)
	if err != nil {
		return nil, err
	}
	pi := PaymentIntent{
		Status:     res.Get("data.attributes.status").String(),
		SourceType: res.Get("data.attributes.latest_payment.attributes.source.type").String(),
	}
	for _, m := range res.Get("data.attributes.payment_method_allowed").Array() {
		pi.AllowedMethods = append(pi.AllowedMethods, m.String())
	}
	return &pi, nil
}

// GetSource resolves a checkout/source id to its instrument type.
func (c *PayMongoClient) GetSource(ctx context.Context, id string) (string, error) {
	res, err := c.do(ctx, http.MethodGet, "/sources/"+id, nil)
	if err != nil {
		return "", err
	}
	return res.Get("data.attributes.type").String(), nil
}
