// Package checkout prices carts and turns them into persisted orders.
package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperror"
	"storefront/internal/models"
	"storefront/internal/pricing"
)

// Catalog reads the products referenced by a cart.
type Catalog interface {
	FindProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
}

// OrderWriter persists orders. PlaceOrder must commit the discount
// redemption and the order insert atomically, drawing a fresh number from
// nextNumber whenever the previous one collides.
type OrderWriter interface {
	PlaceOrder(ctx context.Context, order *models.Order, redemption *models.DiscountRedemption, nextNumber func() (string, error)) error
	FindOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
}

type Service struct {
	catalog   Catalog
	discounts pricing.DiscountLookup
	shipping  pricing.CountryLookup
	orders    OrderWriter
	numbers   *NumberGenerator
	currency  string
	now       func() time.Time
}

type Deps struct {
	Catalog   Catalog
	Discounts pricing.DiscountLookup
	Shipping  pricing.CountryLookup
	Orders    OrderWriter
	Numbers   *NumberGenerator
	Currency  string
	Now       func() time.Time
}

func NewService(d Deps) *Service {
	if d.Numbers == nil {
		d.Numbers = NewNumberGenerator(defaultNumberPrefix)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{
		catalog:   d.Catalog,
		discounts: d.Discounts,
		shipping:  d.Shipping,
		orders:    d.Orders,
		numbers:   d.Numbers,
		currency:  d.Currency,
		now:       d.Now,
	}
}

// Quote is the price breakdown shown before the order is placed.
type Quote struct {
	Subtotal        float64 `json:"subtotal"`
	Discount        float64 `json:"discount"`
	Shipping        float64 `json:"shipping"`
	Tax             float64 `json:"tax"`
	Total           float64 `json:"total"`
	DiscountCode    string  `json:"discountCode,omitempty"`
	ShippingCountry string  `json:"shippingCountry"`
	Currency        string  `json:"currency"`
}

type priced struct {
	breakdown pricing.Breakdown
	discount  *pricing.AppliedDiscount
	country   models.ShippingCountry
}

func (s *Service) price(ctx context.Context, items []models.OrderItem, countryCode, discountCode string, now time.Time) (priced, error) {
	subtotal := pricing.Subtotal(items)

	var applied *pricing.AppliedDiscount
	discountAmount := decimal.Zero
	if pricing.NormalizeCode(discountCode) != "" {
		d, err := pricing.ResolveDiscount(ctx, s.discounts, discountCode, subtotal, now)
		if err != nil {
			return priced{}, err
		}
		applied = &d
		discountAmount = d.Amount
	}

	quote, err := pricing.ResolveShipping(ctx, s.shipping, countryCode, subtotal)
	if err != nil {
		return priced{}, err
	}

	return priced{
		breakdown: pricing.NewBreakdown(subtotal, discountAmount, quote.Fee, decimal.Zero),
		discount:  applied,
		country:   quote.Country,
	}, nil
}

// Quote prices a cart without touching discount usage or orders.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	items, err := orderItems(req.Items)
	if err != nil {
		return Quote{}, err
	}
	p, err := s.price(ctx, items, req.CountryCode, req.DiscountCode, s.now())
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		Subtotal:        pricing.Float(p.breakdown.Subtotal),
		Discount:        pricing.Float(p.breakdown.Discount),
		Shipping:        pricing.Float(p.breakdown.Shipping),
		Tax:             pricing.Float(p.breakdown.Tax),
		Total:           pricing.Float(p.breakdown.Total),
		ShippingCountry: p.country.Code,
		Currency:        s.currency,
	}
	if p.discount != nil {
		q.DiscountCode = p.discount.Code
	}
	return q, nil
}

// PlaceOrder validates the cart, prices it and persists the order. The
// boolean is false when an earlier request with the same idempotency key had
// already placed the order, which is then returned unchanged.
func (s *Service) PlaceOrder(ctx context.Context, req OrderRequest) (models.Order, bool, error) {
	req = req.normalized()

	if req.IdempotencyKey != "" {
		existing, err := s.replayed(ctx, req.IdempotencyKey)
		if err != nil {
			return models.Order{}, false, err
		}
		if existing != nil {
			return *existing, false, nil
		}
	}

	if err := req.validate(); err != nil {
		return models.Order{}, false, err
	}
	items, err := orderItems(req.Items)
	if err != nil {
		return models.Order{}, false, err
	}
	if err := s.checkCatalog(ctx, items); err != nil {
		return models.Order{}, false, err
	}

	now := s.now()
	p, err := s.price(ctx, items, req.ShippingAddress.Country, req.DiscountCode, now)
	if err != nil {
		return models.Order{}, false, err
	}

	order := models.Order{
		Customer:        req.Customer,
		Items:           items,
		Currency:        s.currency,
		Status:          models.StatusPending,
		PaymentStatus:   models.PaymentUnpaid,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		CountryCode:     p.country.Code,
		Notes:           req.Notes,
		IdempotencyKey:  req.IdempotencyKey,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	p.breakdown.ApplyTo(&order)

	var redemption *models.DiscountRedemption
	if p.discount != nil {
		order.DiscountCode = p.discount.Code
		redemption = &models.DiscountRedemption{
			Code:     p.discount.Code,
			Subtotal: order.Subtotal,
			At:       now,
		}
	}

	if err := s.orders.PlaceOrder(ctx, &order, redemption, s.numbers.Next); err != nil {
		if apperror.CodeOf(err) == apperror.CodeIdempotencyReplay {
			if existing, findErr := s.replayed(ctx, req.IdempotencyKey); findErr == nil && existing != nil {
				return *existing, false, nil
			}
		}
		return models.Order{}, false, err
	}

	log.Printf("[ORDER] [INFO] order %s placed total=%.3f %s discount=%q", order.OrderNumber, order.Total, order.Currency, order.DiscountCode)
	return order, true, nil
}

func (s *Service) replayed(ctx context.Context, key string) (*models.Order, error) {
	existing, err := s.orders.FindOrderByIdempotencyKey(ctx, key)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return nil, nil
		}
		return nil, err
	}
	return existing, nil
}

func (s *Service) checkCatalog(ctx context.Context, items []models.OrderItem) error {
	ids := make([]primitive.ObjectID, 0, len(items))
	seen := make(map[primitive.ObjectID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := s.catalog.FindProductsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return apperror.New(apperror.KindNotFound, apperror.CodeNotFound,
				fmt.Sprintf("product %s not found", id.Hex()))
		}
		if !product.InStock {
			return apperror.New(apperror.KindBusinessRule, apperror.CodeOutOfStock,
				fmt.Sprintf("%s is out of stock", product.Name))
		}
	}
	return nil
}
