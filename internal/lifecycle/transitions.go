// Package lifecycle moves orders through their status and payment workflows.
package lifecycle

import (
	"fmt"

	"storefront/internal/apperror"
	"storefront/internal/models"
)

// Statuses only move forward. Steps may be skipped, so an order can be
// marked shipped straight from pending.
var statusTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:    {models.StatusProcessing, models.StatusShipped, models.StatusDelivered, models.StatusCancelled, models.StatusRefunded},
	models.StatusProcessing: {models.StatusShipped, models.StatusDelivered, models.StatusCancelled, models.StatusRefunded},
	models.StatusShipped:    {models.StatusDelivered, models.StatusCancelled, models.StatusRefunded},
	models.StatusDelivered:  nil,
	models.StatusCancelled:  nil,
	models.StatusRefunded:   nil,
}

var paymentTransitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentUnpaid:   {models.PaymentPaid},
	models.PaymentPaid:     {models.PaymentRefunded},
	models.PaymentRefunded: nil,
}

func ValidStatus(s models.OrderStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

func ValidPaymentStatus(s models.PaymentStatus) bool {
	_, ok := paymentTransitions[s]
	return ok
}

func IsTerminal(s models.OrderStatus) bool {
	next, ok := statusTransitions[s]
	return ok && len(next) == 0
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func CanTransitionPayment(from, to models.PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lists where an order may move from s, for the admin UI.
func NextStatuses(s models.OrderStatus) []models.OrderStatus {
	return append([]models.OrderStatus(nil), statusTransitions[s]...)
}

func NextPaymentStatuses(s models.PaymentStatus) []models.PaymentStatus {
	return append([]models.PaymentStatus(nil), paymentTransitions[s]...)
}

func invalidTransition(field string, from, to any) error {
	return apperror.New(apperror.KindBusinessRule, apperror.CodeInvalidTransition,
		fmt.Sprintf("cannot change %s from %v to %v", field, from, to))
}
