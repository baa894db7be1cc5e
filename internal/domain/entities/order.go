package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle of a storefront order.
//
// Transitions owned by the checkout flow:
//   - PENDING -> PAID (approved payment)
//   - PENDING -> CANCELLED (rejected/cancelled payment, or orphaned checkout)
//
// PROCESSING, SHIPPED and DELIVERED belong to fulfillment.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusPaid       OrderStatus = "PAID"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// TaxRate is the IGV applied over the order subtotal.
var TaxRate = decimal.RequireFromString("0.18")

// Order is the order aggregate persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - items are embedded; they are a price snapshot and never change after creation
//
// PaymentID stays empty until the Payment record is created. A PENDING order
// without PaymentID is "awaiting payment creation" and may be cancelled by the
// reconciliation worker once it is older than the orphan TTL.
type Order struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Status         OrderStatus     `json:"status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	Items          []OrderItem     `json:"items"`
	PaymentID      string          `json:"payment_id,omitempty"`
	StockOverdraft bool            `json:"stock_overdraft,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AwaitingPayment reports whether the order was persisted but its payment was never created.
func (o Order) AwaitingPayment() bool {
	return o.Status == OrderStatusPending && o.PaymentID == ""
}

// OrderItem is a line of an order with the unit price captured at checkout time.
type OrderItem struct {
	VariantID  string          `json:"variant_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// PaidTransition reports what the guarded PENDING -> PAID transition did.
//
// Applied is false when the order was no longer PENDING (duplicate approval).
// Overdraft is true when the order moved to PAID but at least one variant did
// not have enough stock left, so no stock was decremented and the order was
// flagged for manual reconciliation.
type PaidTransition struct {
	Applied   bool
	Overdraft bool
}
