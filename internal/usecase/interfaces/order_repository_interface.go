package interfaces

import (
	"context"
	"time"

	"motostore/internal/domain/entities"
)

// IOrderRepository abstracts DynamoDB persistence for Order.
//
// Every status mutation is conditional on the order still being PENDING:
//   - MarkPaid moves PENDING -> PAID and decrements stock in the same transaction
//   - MarkCancelled moves PENDING -> CANCELLED
//   - CancelIfAwaitingPayment cancels a PENDING order that never got a payment
//
// The bool/Applied results report whether the transition happened.
type IOrderRepository interface {
	Create(ctx context.Context, o entities.Order) (entities.Order, error)
	GetByID(ctx context.Context, id string) (entities.Order, error)
	MarkPaid(ctx context.Context, o entities.Order) (entities.PaidTransition, error)
	MarkCancelled(ctx context.Context, orderID string) (bool, error)
	ListAwaitingPayment(ctx context.Context, createdBefore time.Time) ([]entities.Order, error)
	CancelIfAwaitingPayment(ctx context.Context, orderID string) (bool, error)
}
