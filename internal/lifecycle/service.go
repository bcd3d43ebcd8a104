package lifecycle

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperror"
	"storefront/internal/models"
)

// Store applies single-field compare-and-set updates. The boolean is false
// when the order exists but no longer holds the expected value.
type Store interface {
	FindOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	SetOrderStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus, at time.Time) (bool, error)
	SetPaymentStatus(ctx context.Context, id primitive.ObjectID, from, to models.PaymentStatus, at time.Time) (bool, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

var errConcurrentUpdate = apperror.New(apperror.KindConflict, apperror.CodeConcurrentUpdate,
	"order was changed by another request, reload and try again")

// UpdateStatus moves an order along the status table. Cancelling or refunding
// does not give back discount usage.
func (s *Service) UpdateStatus(ctx context.Context, id primitive.ObjectID, to models.OrderStatus) (*models.Order, error) {
	if !ValidStatus(to) {
		return nil, apperror.Validationf("unknown status %q", to)
	}
	order, err := s.store.FindOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if !CanTransition(from, to) {
		return nil, invalidTransition("status", from, to)
	}

	at := s.now()
	ok, err := s.store.SetOrderStatus(ctx, id, from, to, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errConcurrentUpdate
	}

	if (to == models.StatusCancelled || to == models.StatusRefunded) && order.DiscountCode != "" {
		log.Printf("[ORDER] [INFO] order %s %s; discount %s usage left as is", order.OrderNumber, to, order.DiscountCode)
	}
	log.Printf("[ORDER] [INFO] order %s status %s -> %s", order.OrderNumber, from, to)

	order.Status = to
	order.UpdatedAt = at
	return order, nil
}

func (s *Service) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, to models.PaymentStatus) (*models.Order, error) {
	if !ValidPaymentStatus(to) {
		return nil, apperror.Validationf("unknown payment status %q", to)
	}
	order, err := s.store.FindOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.PaymentStatus
	if !CanTransitionPayment(from, to) {
		return nil, invalidTransition("paymentStatus", from, to)
	}

	at := s.now()
	ok, err := s.store.SetPaymentStatus(ctx, id, from, to, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errConcurrentUpdate
	}

	log.Printf("[ORDER] [INFO] order %s payment %s -> %s", order.OrderNumber, from, to)

	order.PaymentStatus = to
	order.UpdatedAt = at
	return order, nil
}
