package interfaces

import (
	"context"

	"motostore/internal/domain/entities"
)

type IOrderEventPublisher interface {
	Publish(ctx context.Context, event entities.OrderEvent) error
}

// IWebhookDeduplicator remembers webhook deliveries that were fully processed.
type IWebhookDeduplicator interface {
	Seen(ctx context.Context, key string) (bool, error)
	MarkProcessed(ctx context.Context, key string) error
}

// ICheckoutMetrics records checkout and webhook outcomes.
type ICheckoutMetrics interface {
	CheckoutCompleted(provider, outcome string)
	WebhookHandled(provider, outcome string)
	StockOverdraft(provider string)
	OrphanOrdersCancelled(count int)
	ApprovedForClosedOrder(provider string)
}
