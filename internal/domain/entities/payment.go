package entities

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentProvider identifies the external payment gateway of a payment.
type PaymentProvider string

const (
	PaymentProviderMercadoPago PaymentProvider = "MERCADOPAGO"
	PaymentProviderCulqi       PaymentProvider = "CULQI"
	PaymentProviderDemo        PaymentProvider = "DEMO"
)

// PaymentProviders lists every supported provider.
var PaymentProviders = []PaymentProvider{
	PaymentProviderMercadoPago,
	PaymentProviderCulqi,
	PaymentProviderDemo,
}

// ParsePaymentProvider normalizes a provider name. ok is false for unknown names.
func ParsePaymentProvider(name string) (PaymentProvider, bool) {
	p := PaymentProvider(strings.ToUpper(strings.TrimSpace(name)))
	for _, known := range PaymentProviders {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// PaymentStatus is the internal payment state every provider vocabulary maps to.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusApproved  PaymentStatus = "APPROVED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// ParsePaymentStatus maps an internal status name, defaulting to PENDING.
func ParsePaymentStatus(s string) PaymentStatus {
	switch st := PaymentStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case PaymentStatusPending, PaymentStatusApproved, PaymentStatusRejected, PaymentStatusCancelled, PaymentStatusRefunded:
		return st
	default:
		return PaymentStatusPending
	}
}

// Payment is the payment record of an order, created once the provider
// preference exists and updated (never replaced) by webhook processing.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI external_id-index: external_id (webhook correlation key)
//   - GSI order_id-index: order_id
//
// WebhookData keeps the last raw webhook body for audit/replay diagnosis.
type Payment struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"order_id"`
	Provider       PaymentProvider `json:"provider"`
	Status         PaymentStatus   `json:"status"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	ExternalID     string          `json:"external_id"`
	ExternalStatus string          `json:"external_status,omitempty"`
	WebhookData    json.RawMessage `json:"webhook_data,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
