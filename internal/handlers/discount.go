package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
	"storefront/internal/pricing"
)

type DiscountStore interface {
	pricing.DiscountLookup
	List(ctx context.Context) ([]models.DiscountCode, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.DiscountCode, error)
	Create(ctx context.Context, d *models.DiscountCode) error
	Update(ctx context.Context, id primitive.ObjectID, ch models.DiscountChanges) (*models.DiscountCode, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type DiscountValidateRequest struct {
	Code     string   `json:"code" binding:"required"`
	Subtotal *float64 `json:"subtotal" binding:"required,gte=0"`
}

type DiscountCreateRequest struct {
	Code           string              `json:"code" binding:"required"`
	Type           models.DiscountType `json:"type" binding:"required"`
	Value          *float64            `json:"value" binding:"required"`
	MinOrderAmount float64             `json:"minOrderAmount"`
	MaxUses        int                 `json:"maxUses"`
	ExpiresAt      string              `json:"expiresAt"`
	IsActive       *bool               `json:"isActive"`
}

/*
POST /api/discounts/validate
- cart preview: never touches usedCount
*/
func ValidateDiscount(discounts pricing.DiscountLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /discounts/validate"
		defer handlePanic(c, route)

		var req DiscountValidateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		applied, err := pricing.ResolveDiscount(ctx, discounts, req.Code, pricing.Dec(*req.Subtotal), time.Now())
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"valid":  true,
			"code":   applied.Code,
			"amount": pricing.Float(applied.Amount),
		})
	}
}

/* ===== ADMIN ===== */

func GetDiscounts(discounts DiscountStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/discounts"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := discounts.List(ctx)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": list})
	}
}

func GetDiscount(discounts DiscountStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/discounts/:id"
		defer handlePanic(c, route)

		id, ok := pathObjectID(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		d, err := discounts.FindByID(ctx, id)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

func CreateDiscount(discounts DiscountStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/discounts"
		defer handlePanic(c, route)

		var req DiscountCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		expiry, err := parseExpiry(req.ExpiresAt)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		d := models.DiscountCode{
			Code:           pricing.NormalizeCode(req.Code),
			Type:           req.Type,
			Value:          *req.Value,
			MinOrderAmount: req.MinOrderAmount,
			MaxUses:        req.MaxUses,
			ExpiresAt:      expiry,
			IsActive:       isActive,
		}
		if err := pricing.ValidateDiscountCode(d); err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := discounts.Create(ctx, &d); err != nil {
			respondAppError(c, route, err)
			return
		}

		log.Printf("[%s] created discount %s", route, d.Code)
		c.JSON(http.StatusCreated, d)
	}
}

func UpdateDiscount(discounts DiscountStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/discounts/:id"
		defer handlePanic(c, route)

		id, ok := pathObjectID(c, route, "id")
		if !ok {
			return
		}

		var req DiscountUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		existing, err := discounts.FindByID(ctx, id)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		changes, err := resolveDiscountUpdate(*existing, req)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		updated, err := discounts.Update(ctx, id, changes)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteDiscount(discounts DiscountStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/discounts/:id"
		defer handlePanic(c, route)

		id, ok := pathObjectID(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := discounts.Delete(ctx, id); err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "discount deleted"})
	}
}
