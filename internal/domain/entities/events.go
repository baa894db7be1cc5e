package entities

import "time"

type OrderEventType string

const (
	OrderEventPaid      OrderEventType = "order.paid"
	OrderEventCancelled OrderEventType = "order.cancelled"
)

// OrderEvent is published after a checkout-driven order transition.
type OrderEvent struct {
	Type           OrderEventType `json:"type"`
	OrderID        string         `json:"order_id"`
	PaymentID      string         `json:"payment_id"`
	Provider       string         `json:"provider"`
	Status         OrderStatus    `json:"status"`
	StockOverdraft bool           `json:"stock_overdraft,omitempty"`
	OccurredAt     time.Time      `json:"occurred_at"`
}
