// Package worker runs background jobs next to the HTTP server.
package worker

import (
	"context"
	"log"
	"time"
)

// IOrphanOrderCanceller cancels PENDING orders that never received a payment.
type IOrphanOrderCanceller interface {
	CancelOrphanedOrders(ctx context.Context, olderThan time.Duration) (int, error)
}

type ReconciliationWorker struct {
	canceller IOrphanOrderCanceller
	interval  time.Duration
	olderThan time.Duration
}

func NewReconciliationWorker(canceller IOrphanOrderCanceller, interval, olderThan time.Duration) *ReconciliationWorker {
	return &ReconciliationWorker{canceller: canceller, interval: interval, olderThan: olderThan}
}

// Run sweeps once per interval until ctx is cancelled.
func (w *ReconciliationWorker) Run(ctx context.Context) {
	log.Printf("[worker][reconciliation] started interval=%s orphan_ttl=%s", w.interval, w.olderThan)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[worker][reconciliation] stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

func (w *ReconciliationWorker) RunOnce(ctx context.Context) {
	n, err := w.canceller.CancelOrphanedOrders(ctx, w.olderThan)
	if err != nil {
		log.Printf("[worker][reconciliation] sweep finished with errors cancelled=%d err=%v", n, err)
		return
	}
	if n > 0 {
		log.Printf("[worker][reconciliation] sweep done cancelled=%d", n)
	}
}
