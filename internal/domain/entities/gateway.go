package entities

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrProviderFailure is the sentinel wrapped by every ProviderError.
var ErrProviderFailure = errors.New("payment provider failure")

// ProviderError reports a failed or malformed upstream gateway call.
type ProviderError struct {
	Provider PaymentProvider
	Op       string
	Detail   string
	Err      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Provider, e.Op)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrProviderFailure}
	}
	return []error{ErrProviderFailure, e.Err}
}

// Payer is the buyer information sent to the provider.
type Payer struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

type PreferenceItem struct {
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// PreferenceRequest describes the payable order sent to a provider.
type PreferenceRequest struct {
	OrderID     string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Payer       Payer
	Items       []PreferenceItem
	BackURLs    *BackURLs
}

// PreferenceResult is what a provider returns for a created preference/order.
// InitPoint is the buyer redirect URL; ExternalID correlates future webhooks.
type PreferenceResult struct {
	PreferenceID string
	ExternalID   string
	InitPoint    string
}

// WebhookRequest is the raw inbound notification as received over HTTP.
// Header keys are lower-cased.
type WebhookRequest struct {
	Signature string
	Body      []byte
	Headers   map[string]string
}

// WebhookVerification is the normalized result of verifying a webhook.
//
// Status is already mapped to the internal vocabulary; ExternalStatus keeps
// the raw provider status string.
type WebhookVerification struct {
	IsValid        bool
	PaymentID      string
	OrderID        string
	Status         PaymentStatus
	ExternalStatus string
	Amount         *decimal.Decimal
	ErrorMessage   string
}

// ProviderPaymentStatus is the out-of-band payment status from a provider.
// Status is the raw provider status string.
type ProviderPaymentStatus struct {
	Status            string
	Amount            decimal.Decimal
	Currency          string
	PaymentMethod     string
	ExternalReference string
}
