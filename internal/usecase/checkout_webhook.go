package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"motostore/internal/domain/entities"
)

// WebhookOutcome classifies how a webhook delivery was handled.
type WebhookOutcome string

const (
	WebhookProcessed      WebhookOutcome = "processed"
	WebhookIgnored        WebhookOutcome = "ignored"
	WebhookUnknownPayment WebhookOutcome = "unknown_payment"
	WebhookDuplicate      WebhookOutcome = "duplicate"
	WebhookRejected       WebhookOutcome = "rejected"
	WebhookFailed         WebhookOutcome = "failed"
)

// ProcessWebhook verifies and applies a provider callback.
//
// Only invalid signatures and persistence failures return an error; unknown
// payments and events without a payment reference are successful no-ops.
func (u *CheckoutUseCase) ProcessWebhook(ctx context.Context, provider string, req entities.WebhookRequest) (WebhookOutcome, error) {
	gateway, err := u.gateways.GetGateway(provider)
	if err != nil {
		log.Printf("[webhook][usecase] gateway not available provider=%q err=%v", provider, err)
		u.metrics.WebhookHandled(provider, string(WebhookFailed))
		return WebhookFailed, err
	}
	name := string(gateway.Provider())

	v := gateway.VerifyWebhook(ctx, req)
	if !v.IsValid {
		log.Printf("[webhook][usecase] verification failed provider=%s reason=%q", name, v.ErrorMessage)
		u.metrics.WebhookHandled(name, string(WebhookRejected))
		return WebhookRejected, fmt.Errorf("%w: %s", ErrWebhookVerification, v.ErrorMessage)
	}

	// Keyed on the verified payment and target status, not on the body.
	key := dedupKey(gateway.Provider(), v)
	if key != "" {
		if seen, err := u.dedup.Seen(ctx, key); err != nil {
			log.Printf("[webhook][usecase] dedup lookup failed provider=%s err=%v", name, err)
		} else if seen {
			log.Printf("[webhook][usecase] duplicate delivery skipped provider=%s key=%s", name, key)
			u.metrics.WebhookHandled(name, string(WebhookDuplicate))
			return WebhookDuplicate, nil
		}
	}

	outcome, err := u.reconcile(ctx, gateway.Provider(), v, req.Body)
	if err != nil {
		log.Printf("[webhook][usecase] reconcile failed provider=%s payment_ref=%s err=%v", name, v.PaymentID, err)
		u.metrics.WebhookHandled(name, string(WebhookFailed))
		return WebhookFailed, err
	}

	if key != "" && outcome != WebhookUnknownPayment {
		if err := u.dedup.MarkProcessed(ctx, key); err != nil {
			log.Printf("[webhook][usecase] dedup mark failed provider=%s err=%v", name, err)
		}
	}
	u.metrics.WebhookHandled(name, string(outcome))
	return outcome, nil
}

func (u *CheckoutUseCase) reconcile(ctx context.Context, provider entities.PaymentProvider, v entities.WebhookVerification, body []byte) (WebhookOutcome, error) {
	if v.PaymentID == "" {
		log.Printf("[webhook][usecase] no payment reference provider=%s note=%q", provider, v.ErrorMessage)
		return WebhookIgnored, nil
	}

	payment, err := u.findPayment(ctx, provider, v)
	if err != nil {
		return WebhookFailed, err
	}
	if payment.ID == "" {
		log.Printf("[webhook][usecase] unknown payment provider=%s payment_ref=%s order_ref=%s", provider, v.PaymentID, v.OrderID)
		return WebhookUnknownPayment, nil
	}

	return u.ApplyPaymentStatus(ctx, payment, v, body)
}

// findPayment correlates by externalId first. Providers whose webhook id differs
// from the stored preference id (MercadoPago payments, Culqi charges) fall back
// to the verified order reference.
func (u *CheckoutUseCase) findPayment(ctx context.Context, provider entities.PaymentProvider, v entities.WebhookVerification) (entities.Payment, error) {
	p, err := u.payments.GetByExternalID(ctx, v.PaymentID)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.ID == "" && v.OrderID != "" {
		p, err = u.payments.GetByOrderID(ctx, v.OrderID)
		if err != nil {
			return entities.Payment{}, err
		}
	}
	if p.ID != "" && p.Provider != provider {
		log.Printf("[webhook][usecase] provider mismatch payment_id=%s stored=%s webhook=%s", p.ID, p.Provider, provider)
		return entities.Payment{}, nil
	}
	return p, nil
}

// ApplyPaymentStatus records the webhook on the payment and performs the
// guarded order transition for the mapped status.
//
//   - APPROVED: PENDING -> PAID with stock decrement, at most once per order
//   - REJECTED, CANCELLED: PENDING -> CANCELLED
//   - PENDING, REFUNDED: payment record only
func (u *CheckoutUseCase) ApplyPaymentStatus(ctx context.Context, payment entities.Payment, v entities.WebhookVerification, body []byte) (WebhookOutcome, error) {
	status := targetStatus(v)

	if _, err := u.payments.UpdateFromWebhook(ctx, payment.ID, status, v.ExternalStatus, webhookData(body)); err != nil {
		log.Printf("[webhook][usecase] payment update failed payment_id=%s err=%v", payment.ID, err)
		return WebhookFailed, err
	}
	log.Printf("[webhook][usecase] payment updated payment_id=%s order_id=%s status=%s external_status=%s", payment.ID, payment.OrderID, status, v.ExternalStatus)

	switch status {
	case entities.PaymentStatusApproved:
		return u.markPaid(ctx, payment)
	case entities.PaymentStatusRejected, entities.PaymentStatusCancelled:
		return u.markCancelled(ctx, payment)
	case entities.PaymentStatusRefunded:
		log.Printf("[webhook][usecase] refund recorded without order reaction payment_id=%s order_id=%s", payment.ID, payment.OrderID)
		return WebhookProcessed, nil
	default:
		return WebhookProcessed, nil
	}
}

func (u *CheckoutUseCase) markPaid(ctx context.Context, payment entities.Payment) (WebhookOutcome, error) {
	order, err := u.orders.GetByID(ctx, payment.OrderID)
	if err != nil {
		return WebhookFailed, err
	}
	if order.ID == "" {
		return WebhookFailed, fmt.Errorf("%w: %s", ErrOrderNotFound, payment.OrderID)
	}

	tr, err := u.orders.MarkPaid(ctx, order)
	if err != nil {
		log.Printf("[webhook][usecase] mark paid failed order_id=%s err=%v", order.ID, err)
		return WebhookFailed, err
	}
	if !tr.Applied {
		if order.Status != entities.OrderStatusPaid {
			log.Printf("[webhook][usecase] ALERT approved payment for closed order order_id=%s status=%s payment_id=%s", order.ID, order.Status, payment.ID)
			u.metrics.ApprovedForClosedOrder(string(payment.Provider))
		} else {
			log.Printf("[webhook][usecase] order already paid order_id=%s", order.ID)
		}
		return WebhookDuplicate, nil
	}
	if tr.Overdraft {
		log.Printf("[webhook][usecase] ALERT stock overdraft order_id=%s payment_id=%s; order paid without stock decrement", order.ID, payment.ID)
		u.metrics.StockOverdraft(string(payment.Provider))
	}
	log.Printf("[webhook][usecase] order paid order_id=%s overdraft=%t", order.ID, tr.Overdraft)

	u.publish(ctx, entities.OrderEvent{
		Type:           entities.OrderEventPaid,
		OrderID:        order.ID,
		PaymentID:      payment.ID,
		Provider:       string(payment.Provider),
		Status:         entities.OrderStatusPaid,
		StockOverdraft: tr.Overdraft,
	})
	return WebhookProcessed, nil
}

func (u *CheckoutUseCase) markCancelled(ctx context.Context, payment entities.Payment) (WebhookOutcome, error) {
	applied, err := u.orders.MarkCancelled(ctx, payment.OrderID)
	if err != nil {
		log.Printf("[webhook][usecase] mark cancelled failed order_id=%s err=%v", payment.OrderID, err)
		return WebhookFailed, err
	}
	if !applied {
		log.Printf("[webhook][usecase] order not pending; cancellation skipped order_id=%s", payment.OrderID)
		return WebhookDuplicate, nil
	}
	log.Printf("[webhook][usecase] order cancelled order_id=%s", payment.OrderID)

	u.publish(ctx, entities.OrderEvent{
		Type:      entities.OrderEventCancelled,
		OrderID:   payment.OrderID,
		PaymentID: payment.ID,
		Provider:  string(payment.Provider),
		Status:    entities.OrderStatusCancelled,
	})
	return WebhookProcessed, nil
}

func (u *CheckoutUseCase) publish(ctx context.Context, ev entities.OrderEvent) {
	ev.OccurredAt = u.now().UTC()
	if err := u.publisher.Publish(ctx, ev); err != nil {
		log.Printf("[webhook][usecase] event publish failed type=%s order_id=%s err=%v", ev.Type, ev.OrderID, err)
	}
}

// dedupKey is provider:paymentRef:status, or empty when the event carries no
// payment reference.
func dedupKey(provider entities.PaymentProvider, v entities.WebhookVerification) string {
	if v.PaymentID == "" {
		return ""
	}
	return string(provider) + ":" + v.PaymentID + ":" + string(targetStatus(v))
}

func targetStatus(v entities.WebhookVerification) entities.PaymentStatus {
	if v.Status == "" {
		return entities.PaymentStatusPending
	}
	return v.Status
}

// webhookData keeps JSON bodies as-is and quotes anything else.
func webhookData(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}
