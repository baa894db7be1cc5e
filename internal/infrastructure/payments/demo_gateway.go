package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"motostore/internal/domain/entities"
	"motostore/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultDemoStoreURL = "http://localhost:3000"

// DemoGateway simulates a provider without any external call.
type DemoGateway struct {
	storeBaseURL string
	currency     string
	newID        func() string
	now          func() time.Time
}

var _ interfaces.IPaymentGateway = (*DemoGateway)(nil)

func NewDemoGateway(storeBaseURL, currency string) *DemoGateway {
	storeBaseURL = strings.TrimRight(storeBaseURL, "/")
	if storeBaseURL == "" {
		storeBaseURL = defaultDemoStoreURL
	}
	if currency == "" {
		currency = defaultCurrency
	}
	return &DemoGateway{
		storeBaseURL: storeBaseURL,
		currency:     currency,
		newID:        uuid.NewString,
		now:          time.Now,
	}
}

func (g *DemoGateway) Provider() entities.PaymentProvider {
	return entities.PaymentProviderDemo
}

func (g *DemoGateway) CreatePreference(_ context.Context, req entities.PreferenceRequest) (entities.PreferenceResult, error) {
	if !req.Amount.IsPositive() {
		return entities.PreferenceResult{}, &entities.ProviderError{Provider: entities.PaymentProviderDemo, Op: "create preference", Detail: "amount must be positive"}
	}
	externalID := "demo-" + g.newID()
	log.Printf("[payment][demo] create preference order_id=%s amount=%s external_id=%s", req.OrderID, req.Amount.StringFixed(2), externalID)

	q := url.Values{}
	q.Set("order", req.OrderID)
	q.Set("amount", req.Amount.StringFixed(2))

	return entities.PreferenceResult{
		PreferenceID: externalID,
		ExternalID:   externalID,
		InitPoint:    g.storeBaseURL + "/demo/payment?" + q.Encode(),
	}, nil
}

type demoWebhookBody struct {
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId"`
	Status    string `json:"status"`
}

// VerifyWebhook accepts every delivery and echoes the requested status (APPROVED by default).
func (g *DemoGateway) VerifyWebhook(_ context.Context, req entities.WebhookRequest) entities.WebhookVerification {
	var body demoWebhookBody
	if len(strings.TrimSpace(string(req.Body))) > 0 {
		if err := json.Unmarshal(req.Body, &body); err != nil {
			return invalidWebhook("malformed webhook body")
		}
	}

	paymentID := body.PaymentID
	if paymentID == "" {
		paymentID = fmt.Sprintf("demo-payment-%d", g.now().UnixMilli())
	}
	raw := strings.ToUpper(strings.TrimSpace(body.Status))
	if raw == "" {
		raw = string(entities.PaymentStatusApproved)
	}
	log.Printf("[payment][demo] webhook payment_id=%s status=%s", paymentID, raw)

	return entities.WebhookVerification{
		IsValid:        true,
		PaymentID:      paymentID,
		OrderID:        body.OrderID,
		Status:         entities.ParsePaymentStatus(raw),
		ExternalStatus: raw,
	}
}

func (g *DemoGateway) GetPaymentStatus(_ context.Context, _ string) (entities.ProviderPaymentStatus, error) {
	return entities.ProviderPaymentStatus{
		Status:        string(entities.PaymentStatusApproved),
		Amount:        decimal.Zero,
		Currency:      g.currency,
		PaymentMethod: "demo",
	}, nil
}
