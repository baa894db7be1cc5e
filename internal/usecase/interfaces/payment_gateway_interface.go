package interfaces

import (
	"context"

	"motostore/internal/domain/entities"
)

// IPaymentGateway abstracts an external payment provider (MercadoPago, Culqi, Demo).
//
// The checkout uses it to create a payable preference and to verify inbound
// webhooks. VerifyWebhook never returns an error: malformed or unsigned input
// yields IsValid=false with an ErrorMessage.
type IPaymentGateway interface {
	Provider() entities.PaymentProvider
	CreatePreference(ctx context.Context, req entities.PreferenceRequest) (entities.PreferenceResult, error)
	VerifyWebhook(ctx context.Context, req entities.WebhookRequest) entities.WebhookVerification
	GetPaymentStatus(ctx context.Context, paymentID string) (entities.ProviderPaymentStatus, error)
}

// IPaymentGatewayResolver selects a gateway by provider name.
// An empty name resolves to the configured default provider.
type IPaymentGatewayResolver interface {
	GetGateway(provider string) (IPaymentGateway, error)
	DefaultProvider() entities.PaymentProvider
}
