package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefunded   OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "card"
	PaymentCOD      PaymentMethod = "cod"
	PaymentWhatsApp PaymentMethod = "whatsapp"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentCOD, PaymentWhatsApp:
		return true
	}
	return false
}

// OrderItem is a line item frozen at purchase time.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
	Color     string             `bson:"color,omitempty" json:"color,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
}

// OrderCustomer captures customer contact details for an order.
type OrderCustomer struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

type ShippingAddress struct {
	Line1      string `bson:"line1" json:"line1"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Country    string `bson:"country" json:"country"`
}

// Order defines the persisted order document. Monetary fields are in the
// base currency and satisfy Total == Subtotal - Discount + Shipping + Tax.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber     string             `bson:"orderNumber" json:"orderNumber"`
	Customer        OrderCustomer      `bson:"customer" json:"customer"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	Tax             float64            `bson:"tax" json:"tax"`
	Shipping        float64            `bson:"shipping" json:"shipping"`
	Discount        float64            `bson:"discount" json:"discount"`
	Total           float64            `bson:"total" json:"total"`
	DiscountCode    string             `bson:"discountCode,omitempty" json:"discountCode,omitempty"`
	Currency        string             `bson:"currency" json:"currency"`
	Status          OrderStatus        `bson:"status" json:"status"`
	PaymentStatus   PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod   PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	CountryCode     string             `bson:"countryCode" json:"countryCode"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	IdempotencyKey  string             `bson:"idempotencyKey,omitempty" json:"-"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderFilter narrows the admin order listing.
type OrderFilter struct {
	Status        OrderStatus
	PaymentStatus PaymentStatus
	Search        string
	Page          int64
	Limit         int64
}
