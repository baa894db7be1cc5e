package payments

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"motostore/internal/domain/entities"

	"github.com/shopspring/decimal"
)

func newTestCulqi(baseURL string) *CulqiGateway {
	g := NewCulqiGateway(CulqiOptions{
		PublicKey:     "pk_test",
		SecretKey:     "sk_test",
		WebhookSecret: "culqi-secret",
		BaseURL:       baseURL,
		APIBaseURL:    "https://api.example.com",
		Currency:      "PEN",
		Timeout:       time.Second,
	})
	g.now = func() time.Time { return time.Unix(1700000000, 0) }
	return g
}

func TestCulqiGateway_CreatePreference(t *testing.T) {
	t.Run("creates order in minor units", func(t *testing.T) {
		var got culqiOrderRequest
		var auth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/orders" {
				t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
			}
			auth = r.Header.Get("Authorization")
			b, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(b, &got)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"ord_live_1","state":"pending"}`))
		}))
		defer srv.Close()

		g := newTestCulqi(srv.URL)
		res, err := g.CreatePreference(context.Background(), entities.PreferenceRequest{
			OrderID:     "order-1",
			Amount:      decimal.RequireFromString("305.005"),
			Description: "Orden #order-1",
			Payer:       entities.Payer{Email: "ana@example.com", FirstName: "Ana", LastName: "Diaz"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if auth != "Bearer sk_test" {
			t.Fatalf("unexpected auth header: %s", auth)
		}
		if got.Amount != 30501 || got.CurrencyCode != "PEN" || got.OrderNumber != "order-1" || got.Confirm {
			t.Fatalf("unexpected order request: %+v", got)
		}
		if got.ExpirationDate != 1700000000+86400 {
			t.Fatalf("unexpected expiration: %d", got.ExpirationDate)
		}
		if res.ExternalID != "ord_live_1" || res.InitPoint != "https://api.example.com/checkout/culqi?order=ord_live_1" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("upstream error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"object":"error","merchant_message":"monto invalido"}`))
		}))
		defer srv.Close()

		_, err := newTestCulqi(srv.URL).CreatePreference(context.Background(), entities.PreferenceRequest{OrderID: "o", Amount: decimal.NewFromInt(1)})
		if !errors.Is(err, entities.ErrProviderFailure) || !strings.Contains(err.Error(), "monto invalido") {
			t.Fatalf("expected provider error with upstream message, got %v", err)
		}
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := newTestCulqi("http://127.0.0.1:0").CreatePreference(context.Background(), entities.PreferenceRequest{OrderID: "o", Amount: decimal.NewFromInt(-1)})
		if !errors.Is(err, entities.ErrProviderFailure) {
			t.Fatalf("expected provider failure, got %v", err)
		}
	})
}

func TestCulqiGateway_VerifyWebhook(t *testing.T) {
	g := newTestCulqi("http://127.0.0.1:0")

	t.Run("charge succeeded", func(t *testing.T) {
		body := []byte(`{"type":"charge.succeeded","data":{"id":"ch_1","outcome":{"type":"venta_exitosa"},"amount":125000,"metadata":{"order_id":"order-1"}}}`)
		v := g.VerifyWebhook(context.Background(), entities.WebhookRequest{
			Body:    body,
			Headers: map[string]string{"x-culqi-signature": computeHMACHex("culqi-secret", body)},
		})
		if !v.IsValid || v.PaymentID != "ch_1" || v.OrderID != "order-1" || v.Status != entities.PaymentStatusApproved {
			t.Fatalf("unexpected verification: %+v", v)
		}
		if v.Amount == nil || !v.Amount.Equal(decimal.RequireFromString("1250.00")) {
			t.Fatalf("unexpected amount: %v", v.Amount)
		}
	})

	t.Run("order status changed", func(t *testing.T) {
		body := []byte(`{"type":"order.status.changed","data":{"id":"ord_live_1","order_number":"order-1","state":"expired"}}`)
		v := g.VerifyWebhook(context.Background(), entities.WebhookRequest{Signature: computeHMACHex("culqi-secret", body), Body: body})
		if !v.IsValid || v.PaymentID != "ord_live_1" || v.OrderID != "order-1" || v.Status != entities.PaymentStatusCancelled {
			t.Fatalf("unexpected verification: %+v", v)
		}
	})

	t.Run("flipped signature byte", func(t *testing.T) {
		body := []byte(`{"type":"charge.failed","data":{"id":"ch_2","outcome":{"type":"rejected"}}}`)
		sig := computeHMACHex("culqi-secret", body)
		for i := 0; i < len(sig); i++ {
			b := []byte(sig)
			b[i] ^= 0x01
			v := g.VerifyWebhook(context.Background(), entities.WebhookRequest{Body: body, Headers: map[string]string{"x-culqi-signature": string(b)}})
			if v.IsValid {
				t.Fatalf("expected rejection when flipping byte %d", i)
			}
		}
	})

	t.Run("body re-serialized differently is rejected", func(t *testing.T) {
		signed := []byte(`{"type":"charge.succeeded","data":{"id":"ch_1"}}`)
		sent := []byte(`{"type": "charge.succeeded", "data": {"id": "ch_1"}}`)
		v := g.VerifyWebhook(context.Background(), entities.WebhookRequest{Body: sent, Headers: map[string]string{"x-culqi-signature": computeHMACHex("culqi-secret", signed)}})
		if v.IsValid {
			t.Fatalf("expected rejection")
		}
	})

	t.Run("missing signature", func(t *testing.T) {
		v := g.VerifyWebhook(context.Background(), entities.WebhookRequest{Body: []byte(`{}`)})
		if v.IsValid {
			t.Fatalf("expected rejection")
		}
	})

	t.Run("unsupported event", func(t *testing.T) {
		body := []byte(`{"type":"refund.created","data":{}}`)
		v := g.VerifyWebhook(context.Background(), entities.WebhookRequest{Body: body, Headers: map[string]string{"x-culqi-signature": computeHMACHex("culqi-secret", body)}})
		if !v.IsValid || v.PaymentID != "" {
			t.Fatalf("expected valid no-op, got %+v", v)
		}
	})
}

func TestCulqiGateway_GetPaymentStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/charges/ch_1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id":"ch_1","amount":125000,"currency_code":"PEN","outcome":{"type":"venta_exitosa"},"source":{"iin":{}}}`))
	}))
	defer srv.Close()

	g := newTestCulqi(srv.URL)
	st, err := g.GetPaymentStatus(context.Background(), "ch_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Status != "venta_exitosa" || st.PaymentMethod != "card" || st.Currency != "PEN" || !st.Amount.Equal(decimal.NewFromInt(1250)) {
		t.Fatalf("unexpected status: %+v", st)
	}

	if _, err := g.GetPaymentStatus(context.Background(), "ch_missing"); !errors.Is(err, entities.ErrProviderFailure) {
		t.Fatalf("expected provider failure, got %v", err)
	}
}
