package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/checkout"
	"storefront/internal/models"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type Checkout interface {
	Quote(ctx context.Context, req checkout.QuoteRequest) (checkout.Quote, error)
	PlaceOrder(ctx context.Context, req checkout.OrderRequest) (models.Order, bool, error)
}

type OrderReader interface {
	FindOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
}

/* =========================
   REQUEST DTOs
========================= */

type cartItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Image     string  `json:"image"`
}

type orderCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

type shippingAddressRequest struct {
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country" binding:"required"`
}

type checkoutQuoteRequest struct {
	Items        []cartItemRequest `json:"items" binding:"dive"`
	Country      string            `json:"country"`
	DiscountCode string            `json:"discountCode"`
}

type createOrderRequest struct {
	Customer        orderCustomerRequest   `json:"customer"`
	Items           []cartItemRequest      `json:"items" binding:"dive"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
	ShippingAddress shippingAddressRequest `json:"shippingAddress"`
	DiscountCode    string                 `json:"discountCode"`
	Notes           string                 `json:"notes"`
}

func lineItems(items []cartItemRequest) []checkout.LineItem {
	out := make([]checkout.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, checkout.LineItem{
			ProductID: strings.TrimSpace(item.ProductID),
			Name:      strings.TrimSpace(item.Name),
			Price:     item.Price,
			Quantity:  item.Quantity,
			Size:      strings.TrimSpace(item.Size),
			Color:     strings.TrimSpace(item.Color),
			Image:     strings.TrimSpace(item.Image),
		})
	}
	return out
}

func (r createOrderRequest) orderRequest(idempotencyKey string) checkout.OrderRequest {
	return checkout.OrderRequest{
		Customer: models.OrderCustomer{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		Items:         lineItems(r.Items),
		PaymentMethod: models.PaymentMethod(r.PaymentMethod),
		ShippingAddress: models.ShippingAddress{
			Line1:      r.ShippingAddress.Line1,
			Line2:      r.ShippingAddress.Line2,
			City:       r.ShippingAddress.City,
			State:      r.ShippingAddress.State,
			PostalCode: r.ShippingAddress.PostalCode,
			Country:    r.ShippingAddress.Country,
		},
		DiscountCode:   r.DiscountCode,
		Notes:          r.Notes,
		IdempotencyKey: idempotencyKey,
	}
}

/* =========================
   QUOTE
========================= */

func QuoteCheckout(svc Checkout) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/quote"
		defer handlePanic(c, route)

		var req checkoutQuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		quote, err := svc.Quote(ctx, checkout.QuoteRequest{
			Items:        lineItems(req.Items),
			CountryCode:  req.Country,
			DiscountCode: req.DiscountCode,
		})
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, quote)
	}
}

/* =========================
   CREATE ORDER
========================= */

func CreateOrder(svc Checkout) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, created, err := svc.PlaceOrder(ctx, req.orderRequest(c.GetHeader(IdempotencyKeyHeader)))
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		if !created {
			log.Printf("[ORDER] [INFO] idempotent replay of order %s", order.OrderNumber)
			c.JSON(http.StatusOK, order)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

/* =========================
   GET ORDER
========================= */

func GetOrder(orders OrderReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		id, ok := pathObjectID(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := orders.FindOrderByID(ctx, id)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
