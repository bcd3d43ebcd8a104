package pricing

import (
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// Breakdown is the priced form of a cart.
type Breakdown struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Subtotal sums price x quantity over the snapshot prices carried by items.
func Subtotal(items []models.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(Dec(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

// NewBreakdown derives the total. Tax is carried for forward compatibility
// and is zero today.
func NewBreakdown(subtotal, discount, shipping, tax decimal.Decimal) Breakdown {
	return Breakdown{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Sub(discount).Add(shipping).Add(tax),
	}
}

// ApplyTo copies the amounts onto an order.
func (b Breakdown) ApplyTo(order *models.Order) {
	order.Subtotal = Float(b.Subtotal)
	order.Discount = Float(b.Discount)
	order.Shipping = Float(b.Shipping)
	order.Tax = Float(b.Tax)
	order.Total = Float(b.Total)
}

// Consistent reports whether a stored order still satisfies
// total == subtotal - discount + shipping + tax.
func Consistent(order models.Order) bool {
	want := NewBreakdown(Dec(order.Subtotal), Dec(order.Discount), Dec(order.Shipping), Dec(order.Tax))
	return want.Total.Equal(Dec(order.Total))
}
