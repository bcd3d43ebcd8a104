package checkout

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperror"
	"storefront/internal/models"
	"storefront/internal/pricing"
)

var ErrEmptyCart = apperror.New(apperror.KindBusinessRule, apperror.CodeEmptyCart, "cart is empty")

// LineItem is a cart entry as the client holds it, with the price captured
// when the product was added.
type LineItem struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int
	Size      string
	Color     string
	Image     string
}

type QuoteRequest struct {
	Items        []LineItem
	CountryCode  string
	DiscountCode string
}

type OrderRequest struct {
	Customer        models.OrderCustomer
	Items           []LineItem
	PaymentMethod   models.PaymentMethod
	ShippingAddress models.ShippingAddress
	DiscountCode    string
	Notes           string
	IdempotencyKey  string
}

func (r OrderRequest) normalized() OrderRequest {
	r.Customer = models.OrderCustomer{
		Name:  strings.TrimSpace(r.Customer.Name),
		Email: strings.ToLower(strings.TrimSpace(r.Customer.Email)),
		Phone: strings.TrimSpace(r.Customer.Phone),
	}
	a := r.ShippingAddress
	r.ShippingAddress = models.ShippingAddress{
		Line1:      strings.TrimSpace(a.Line1),
		Line2:      strings.TrimSpace(a.Line2),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    pricing.NormalizeCountryCode(a.Country),
	}
	r.PaymentMethod = models.PaymentMethod(strings.ToLower(strings.TrimSpace(string(r.PaymentMethod))))
	r.DiscountCode = pricing.NormalizeCode(r.DiscountCode)
	r.Notes = strings.TrimSpace(r.Notes)
	r.IdempotencyKey = strings.TrimSpace(r.IdempotencyKey)
	return r
}

func (r OrderRequest) validate() error {
	required := []struct {
		field, value string
	}{
		{"customer.name", r.Customer.Name},
		{"customer.email", r.Customer.Email},
		{"customer.phone", r.Customer.Phone},
		{"shippingAddress.line1", r.ShippingAddress.Line1},
		{"shippingAddress.city", r.ShippingAddress.City},
		{"shippingAddress.country", r.ShippingAddress.Country},
	}
	for _, f := range required {
		if f.value == "" {
			return apperror.Validationf("%s is required", f.field)
		}
	}
	if !strings.Contains(r.Customer.Email, "@") {
		return apperror.Validation("customer.email is invalid")
	}
	if !r.PaymentMethod.Valid() {
		return apperror.Validation("paymentMethod must be card, cod or whatsapp")
	}
	if len(r.Items) == 0 {
		return ErrEmptyCart
	}
	return nil
}

// orderItems converts cart entries to frozen order lines, rejecting
// malformed entries.
func orderItems(items []LineItem) ([]models.OrderItem, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	out := make([]models.OrderItem, 0, len(items))
	for i, item := range items {
		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(item.ProductID))
		if err != nil {
			return nil, apperror.Validationf("items[%d].productId is invalid", i)
		}
		if item.Quantity <= 0 {
			return nil, apperror.Validationf("items[%d].quantity must be greater than zero", i)
		}
		if item.Price < 0 {
			return nil, apperror.Validationf("items[%d].price must be zero or greater", i)
		}
		out = append(out, models.OrderItem{
			ProductID: productID,
			Name:      strings.TrimSpace(item.Name),
			Price:     item.Price,
			Quantity:  item.Quantity,
			Size:      strings.TrimSpace(item.Size),
			Color:     strings.TrimSpace(item.Color),
			Image:     strings.TrimSpace(item.Image),
		})
	}
	return out, nil
}
