package payments

import (
	"strings"

	"motostore/internal/domain/entities"
)

var mercadoPagoStatuses = map[string]entities.PaymentStatus{
	"approved":     entities.PaymentStatusApproved,
	"authorized":   entities.PaymentStatusApproved,
	"pending":      entities.PaymentStatusPending,
	"in_process":   entities.PaymentStatusPending,
	"in_mediation": entities.PaymentStatusPending,
	"rejected":     entities.PaymentStatusRejected,
	"cancelled":    entities.PaymentStatusCancelled,
	"refunded":     entities.PaymentStatusRefunded,
	"charged_back": entities.PaymentStatusRefunded,
}

// Culqi charge outcome types (outcome.type).
var culqiChargeStatuses = map[string]entities.PaymentStatus{
	"venta_exitosa": entities.PaymentStatusApproved,
	"pending":       entities.PaymentStatusPending,
	"rejected":      entities.PaymentStatusRejected,
	"expired":       entities.PaymentStatusCancelled,
}

// Culqi order states (order.status.changed events).
var culqiOrderStatuses = map[string]entities.PaymentStatus{
	"paid":    entities.PaymentStatusApproved,
	"pending": entities.PaymentStatusPending,
	"expired": entities.PaymentStatusCancelled,
	"deleted": entities.PaymentStatusCancelled,
}

// MapMercadoPagoStatus maps a MercadoPago payment status. Unknown values map to PENDING.
func MapMercadoPagoStatus(status string) entities.PaymentStatus {
	return lookupStatus(mercadoPagoStatuses, status)
}

func MapCulqiChargeStatus(outcomeType string) entities.PaymentStatus {
	return lookupStatus(culqiChargeStatuses, outcomeType)
}

func MapCulqiOrderStatus(state string) entities.PaymentStatus {
	return lookupStatus(culqiOrderStatuses, state)
}

func lookupStatus(table map[string]entities.PaymentStatus, raw string) entities.PaymentStatus {
	if st, ok := table[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return st
	}
	return entities.PaymentStatusPending
}
