package checkout

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperror"
	"storefront/internal/models"
	"storefront/internal/pricing"
)

type memCatalog struct {
	products map[primitive.ObjectID]models.Product
}

func (c *memCatalog) FindProductsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := c.products[id]; ok && !p.IsDeleted {
			out = append(out, p)
		}
	}
	return out, nil
}

type memShipping struct {
	countries []models.ShippingCountry
}

func (m *memShipping) FindCountryByCode(_ context.Context, code string) (*models.ShippingCountry, error) {
	for i := range m.countries {
		if m.countries[i].Code == code {
			c := m.countries[i]
			return &c, nil
		}
	}
	return nil, apperror.NotFound("shipping country")
}

func (m *memShipping) FindDefaultCountry(context.Context) (*models.ShippingCountry, error) {
	for i := range m.countries {
		if m.countries[i].IsDefault && m.countries[i].IsActive {
			c := m.countries[i]
			return &c, nil
		}
	}
	return nil, apperror.NotFound("default shipping country")
}

func (m *memShipping) FindAnyActiveCountry(context.Context) (*models.ShippingCountry, error) {
	for i := range m.countries {
		if m.countries[i].IsActive {
			c := m.countries[i]
			return &c, nil
		}
	}
	return nil, apperror.NotFound("shipping country")
}

// memStore keeps discounts and orders together so a redemption and an insert
// happen under one lock, like the transaction in the Mongo repository.
type memStore struct {
	mu        sync.Mutex
	discounts map[string]*models.DiscountCode
	orders    []models.Order
}

func newMemStore(codes ...models.DiscountCode) *memStore {
	s := &memStore{discounts: map[string]*models.DiscountCode{}}
	for i := range codes {
		c := codes[i]
		s.discounts[c.Code] = &c
	}
	return s
}

func (s *memStore) FindDiscountByCode(_ context.Context, code string) (*models.DiscountCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.discounts[code]
	if !ok {
		return nil, apperror.NotFound("discount")
	}
	copied := *d
	return &copied, nil
}

func (s *memStore) PlaceOrder(_ context.Context, order *models.Order, redemption *models.DiscountRedemption, nextNumber func() (string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.IdempotencyKey != "" {
		for _, o := range s.orders {
			if o.IdempotencyKey == order.IdempotencyKey {
				return apperror.New(apperror.KindConflict, apperror.CodeIdempotencyReplay, "order already placed")
			}
		}
	}

	if redemption != nil {
		d := s.discounts[redemption.Code]
		if _, err := pricing.EvaluateDiscount(d, pricing.Dec(redemption.Subtotal), redemption.At); err != nil {
			return err
		}
		d.UsedCount++
	}

	number, err := nextNumber()
	if err != nil {
		return err
	}
	order.OrderNumber = number
	order.ID = primitive.NewObjectID()
	s.orders = append(s.orders, *order)
	return nil
}

func (s *memStore) FindOrderByIdempotencyKey(_ context.Context, key string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.IdempotencyKey == key {
			copied := o
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("order")
}

func (s *memStore) usedCount(code string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discounts[code].UsedCount
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}
