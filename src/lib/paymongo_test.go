package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testClient(srv *httptest.Server) *PayMongoClient {
	return &PayMongoClient{
		BaseURL:    srv.URL,
		SecretKey:  "sk_test_fake",
		HTTPClient: srv.Client(),
	}
}

func TestCreateCheckout(t *testing.T) {
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout_sessions", r.URL.Path)
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "sk_test_fake", user)
		json.NewDecoder(r.Body).Decode(&gotPayload)
		fmt.Fprint(w, `{
			"data": {
				"id": "cs_abc",
				"attributes": {
					"checkout_url": "https://checkout.paymongo.test/cs_abc",
					"payment_intent": {"id": "pi_abc"}
				}
			}
		}`)
	}))
	defer srv.Close()

	session, err := testClient(srv).CreateCheckout(context.Background(), 1234.50, 42)
	assert.Nil(t, err)
	assert.Equal(t, "cs_abc", session.ID)
	assert.Equal(t, "https://checkout.paymongo.test/cs_abc", session.URL)
	assert.Equal(t, "pi_abc", *session.PaymentIntentID)

	// 1234.50 PHP goes over the wire as 123450 centavos.
	attrs := gotPayload["data"].(map[string]any)["attributes"].(map[string]any)
	items := attrs["line_items"].([]any)
	assert.Equal(t, float64(123450), items[0].(map[string]any)["amount"])
}

func TestCreateCheckoutMissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"id": "cs_abc", "attributes": {}}}`)
	}))
	defer srv.Close()

	_, err := testClient(srv).CreateCheckout(context.Background(), 100, 1)
	assert.NotNil(t, err)
}

func TestErrorDetailSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"errors": [{"detail": "The amount is below the minimum"}]}`)
	}))
	defer srv.Close()

	_, err := testClient(srv).CreateCheckout(context.Background(), 1, 1)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "The amount is below the minimum")
}

func TestGetPaymentIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment_intents/pi_abc", r.URL.Path)
		fmt.Fprint(w, `{
			"data": {
				"attributes": {
					"status": "succeeded",
					"payment_method_allowed": ["gcash", "paymaya"],
					"latest_payment": {"attributes": {"source": {"type": "gcash"}}}
				}
			}
		}`)
	}))
	defer srv.Close()

	intent, err := testClient(srv).GetPaymentIntent(context.Background(), "pi_abc")
	assert.Nil(t, err)
	assert.Equal(t, IntentStatusSucceeded, intent.Status)
	assert.Equal(t, "gcash", intent.SourceType)
	assert.Equal(t, []string{"gcash", "paymaya"}, intent.AllowedMethods)
}

func TestGetSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sources/src_abc", r.URL.Path)
		fmt.Fprint(w, `{"data": {"attributes": {"type": "grab_pay"}}}`)
	}))
	defer srv.Close()

	sourceType, err := testClient(srv).GetSource(context.Background(), "src_abc")
	assert.Nil(t, err)
	assert.Equal(t, "grab_pay", sourceType)
}
