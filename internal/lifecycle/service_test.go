package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperror"
	"storefront/internal/models"
)

type memOrders struct {
	orders map[primitive.ObjectID]models.Order
	// interfere runs between the read and the write to simulate a racing admin.
	interfere func(o *models.Order)
}

func (m *memOrders) FindOrderByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, apperror.NotFound("order")
	}
	return &o, nil
}

func (m *memOrders) SetOrderStatus(_ context.Context, id primitive.ObjectID, from, to models.OrderStatus, at time.Time) (bool, error) {
	o := m.orders[id]
	if m.interfere != nil {
		m.interfere(&o)
		m.orders[id] = o
	}
	if o.Status != from {
		return false, nil
	}
	o.Status, o.UpdatedAt = to, at
	m.orders[id] = o
	return true, nil
}

func (m *memOrders) SetPaymentStatus(_ context.Context, id primitive.ObjectID, from, to models.PaymentStatus, at time.Time) (bool, error) {
	o := m.orders[id]
	if o.PaymentStatus != from {
		return false, nil
	}
	o.PaymentStatus, o.UpdatedAt = to, at
	m.orders[id] = o
	return true, nil
}

var stamp = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func seeded() (*memOrders, models.Order) {
	order := models.Order{
		ID:            primitive.NewObjectID(),
		OrderNumber:   "ORD-TEST-0001",
		Items:         []models.OrderItem{{Name: "Blazer", Price: 45, Quantity: 1}},
		Subtotal:      45,
		Total:         45,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
		PaymentMethod: models.PaymentCOD,
	}
	return &memOrders{orders: map[primitive.ObjectID]models.Order{order.ID: order}}, order
}

func TestUpdateStatusAlongTable(t *testing.T) {
	store, order := seeded()
	svc := NewService(store, func() time.Time { return stamp })

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusProcessing)

	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, updated.Status)
	assert.Equal(t, stamp, updated.UpdatedAt)

	stored, _ := store.FindOrderByID(context.Background(), order.ID)
	assert.Equal(t, models.StatusProcessing, stored.Status)
	assert.Equal(t, order.Items, stored.Items)
	assert.Equal(t, order.Total, stored.Total)
}

func TestUpdateStatusSkipsAhead(t *testing.T) {
	store, order := seeded()
	svc := NewService(store, nil)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)

	stored, _ := store.FindOrderByID(context.Background(), order.ID)
	assert.Equal(t, models.StatusShipped, stored.Status)
	assert.Equal(t, order.Items, stored.Items)
	assert.Equal(t, order.Total, stored.Total)
}

func TestUpdateStatusRejectsBackwards(t *testing.T) {
	store, order := seeded()
	svc := NewService(store, nil)

	_, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusShipped)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), order.ID, models.StatusProcessing)

	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidTransition, apperror.CodeOf(err))
	stored, _ := store.FindOrderByID(context.Background(), order.ID)
	assert.Equal(t, models.StatusShipped, stored.Status)
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	store, order := seeded()
	_, err := NewService(store, nil).UpdateStatus(context.Background(), order.ID, "lost")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	store, _ := seeded()
	_, err := NewService(store, nil).UpdateStatus(context.Background(), primitive.NewObjectID(), models.StatusProcessing)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestUpdateStatusDetectsRace(t *testing.T) {
	store, order := seeded()
	store.interfere = func(o *models.Order) { o.Status = models.StatusCancelled }

	_, err := NewService(store, nil).UpdateStatus(context.Background(), order.ID, models.StatusProcessing)

	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestUpdatePaymentStatus(t *testing.T) {
	store, order := seeded()
	svc := NewService(store, func() time.Time { return stamp })

	updated, err := svc.UpdatePaymentStatus(context.Background(), order.ID, models.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)

	_, err = svc.UpdatePaymentStatus(context.Background(), order.ID, models.PaymentUnpaid)
	assert.Equal(t, apperror.CodeInvalidTransition, apperror.CodeOf(err))

	updated, err = svc.UpdatePaymentStatus(context.Background(), order.ID, models.PaymentRefunded)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, updated.PaymentStatus)
	assert.Equal(t, models.StatusPending, updated.Status)
}
