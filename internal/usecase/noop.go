package usecase

import (
	"context"

	"motostore/internal/domain/entities"
)

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, entities.OrderEvent) error { return nil }

type noopDeduplicator struct{}

func (noopDeduplicator) Seen(context.Context, string) (bool, error) { return false, nil }
func (noopDeduplicator) MarkProcessed(context.Context, string) error { return nil }

type noopMetrics struct{}

func (noopMetrics) CheckoutCompleted(string, string) {}
func (noopMetrics) WebhookHandled(string, string)    {}
func (noopMetrics) StockOverdraft(string)            {}
func (noopMetrics) OrphanOrdersCancelled(int)        {}
func (noopMetrics) ApprovedForClosedOrder(string)    {}
