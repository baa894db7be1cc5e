package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"motostore/internal/domain/entities"
)

// CancelOrphanedOrders cancels PENDING orders older than olderThan that never
// received a payment record (preference creation failed or timed out).
func (u *CheckoutUseCase) CancelOrphanedOrders(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := u.now().UTC().Add(-olderThan)
	orders, err := u.orders.ListAwaitingPayment(ctx, cutoff)
	if err != nil {
		log.Printf("[worker][reconciliation] list awaiting payment failed err=%v", err)
		return 0, err
	}
	if len(orders) == 0 {
		return 0, nil
	}
	log.Printf("[worker][reconciliation] found orphaned orders count=%d cutoff=%s", len(orders), cutoff.Format(time.RFC3339))

	var errs []error
	cancelled := 0
	for _, o := range orders {
		ok, err := u.orders.CancelIfAwaitingPayment(ctx, o.ID)
		if err != nil {
			log.Printf("[worker][reconciliation] cancel failed order_id=%s err=%v", o.ID, err)
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		cancelled++
		log.Printf("[worker][reconciliation] orphaned order cancelled order_id=%s created_at=%s", o.ID, o.CreatedAt.Format(time.RFC3339))
		u.publish(ctx, entities.OrderEvent{
			Type:    entities.OrderEventCancelled,
			OrderID: o.ID,
			Status:  entities.OrderStatusCancelled,
		})
	}
	u.metrics.OrphanOrdersCancelled(cancelled)
	return cancelled, errors.Join(errs...)
}
