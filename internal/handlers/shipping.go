package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
	"storefront/internal/pricing"
)

type ShippingStore interface {
	pricing.CountryLookup
	List(ctx context.Context, activeOnly bool) ([]models.ShippingCountry, error)
	Create(ctx context.Context, country *models.ShippingCountry) error
	Update(ctx context.Context, id primitive.ObjectID, country models.ShippingCountry) (*models.ShippingCountry, error)
	SetDefault(ctx context.Context, id primitive.ObjectID) (*models.ShippingCountry, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ShippingCountryRequest struct {
	Name                string   `json:"name" binding:"required"`
	Code                string   `json:"code" binding:"required"`
	ShippingRate        *float64 `json:"shippingRate" binding:"required,gte=0"`
	FreeThreshold       float64  `json:"freeThreshold" binding:"gte=0"`
	EnableFreeThreshold bool     `json:"enableFreeThreshold"`
	IsActive            *bool    `json:"isActive"`
	IsDefault           bool     `json:"isDefault"`
}

func (r ShippingCountryRequest) country() models.ShippingCountry {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return models.ShippingCountry{
		Name:                strings.TrimSpace(r.Name),
		Code:                pricing.NormalizeCountryCode(r.Code),
		ShippingRate:        *r.ShippingRate,
		FreeThreshold:       r.FreeThreshold,
		EnableFreeThreshold: r.EnableFreeThreshold,
		IsActive:            isActive,
		IsDefault:           r.IsDefault,
	}
}

// GetShippingCountries lists the active destinations for the checkout form.
func GetShippingCountries(shipping ShippingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /shipping/countries"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := shipping.List(ctx, true)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

/*
GET /shipping/quote?country=&subtotal=
- fee for the destination, falling back like checkout does
*/
func QuoteShipping(shipping pricing.CountryLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /shipping/quote"
		defer handlePanic(c, route)

		subtotal, err := strconv.ParseFloat(strings.TrimSpace(c.Query("subtotal")), 64)
		if err != nil || subtotal < 0 {
			respondWithError(c, http.StatusBadRequest, route, "subtotal must be a non-negative number")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		quote, err := pricing.ResolveShipping(ctx, shipping, c.Query("country"), pricing.Dec(subtotal))
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"country":  quote.Country.Code,
			"name":     quote.Country.Name,
			"fee":      pricing.Float(quote.Fee),
			"fallback": quote.Fallback,
		})
	}
}

/* ===== ADMIN ===== */

func GetAllShippingCountries(shipping ShippingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/shipping/countries"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := shipping.List(ctx, false)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": list})
	}
}

func CreateShippingCountry(shipping ShippingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/shipping/countries"
		defer handlePanic(c, route)

		var req ShippingCountryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		country := req.country()
		if err := pricing.ValidateShippingCountry(country); err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := shipping.Create(ctx, &country); err != nil {
			respondAppError(c, route, err)
			return
		}

		log.Printf("[%s] created shipping country %s default=%t", route, country.Code, country.IsDefault)
		c.JSON(http.StatusCreated, country)
	}
}

func UpdateShippingCountry(shipping ShippingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/shipping/countries/:id"
		defer handlePanic(c, route)

		id, ok := pathObjectID(c, route, "id")
		if !ok {
			return
		}

		var req ShippingCountryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		country := req.country()
		if err := pricing.ValidateShippingCountry(country); err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		updated, err := shipping.Update(ctx, id, country)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func SetDefaultShippingCountry(shipping ShippingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/shipping/countries/:id/default"
		defer handlePanic(c, route)

		id, ok := pathObjectID(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		country, err := shipping.SetDefault(ctx, id)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		log.Printf("[%s] default shipping country is now %s", route, country.Code)
		c.JSON(http.StatusOK, country)
	}
}

func DeleteShippingCountry(shipping ShippingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/shipping/countries/:id"
		defer handlePanic(c, route)

		id, ok := pathObjectID(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := shipping.Delete(ctx, id); err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "shipping country deleted"})
	}
}
