package interfaces

import (
	"context"
	"encoding/json"

	"motostore/internal/domain/entities"
)

// IPaymentRepository abstracts DynamoDB persistence for Payment.
//
// CreateForOrder stores the payment and attaches its id to the PENDING order
// atomically. Lookups return a zero-value Payment with a nil error when absent.
type IPaymentRepository interface {
	CreateForOrder(ctx context.Context, p entities.Payment) (entities.Payment, error)
	GetByExternalID(ctx context.Context, externalID string) (entities.Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (entities.Payment, error)
	UpdateFromWebhook(ctx context.Context, id string, status entities.PaymentStatus, externalStatus string, webhookData json.RawMessage) (entities.Payment, error)
}
