package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

/* =======================
   REQUEST MODELS
======================= */

type ProductCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Images      []string `json:"images"`
	InStock     *bool    `json:"inStock"`
	Featured    bool     `json:"featured"`
	NewArrival  bool     `json:"newArrival"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Material    string   `json:"material"`
}

type ProductUpdateRequest struct {
	Name        *string   `json:"name"`
	Price       *float64  `json:"price" binding:"omitempty,gte=0"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Images      *[]string `json:"images"`
	InStock     *bool     `json:"inStock"`
	Featured    *bool     `json:"featured"`
	NewArrival  *bool     `json:"newArrival"`
	Sizes       *[]string `json:"sizes"`
	Colors      *[]string `json:"colors"`
	Material    *string   `json:"material"`
}

func (r ProductUpdateRequest) changes() models.ProductChanges {
	return models.ProductChanges{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		Category:    r.Category,
		Images:      r.Images,
		InStock:     r.InStock,
		Featured:    r.Featured,
		NewArrival:  r.NewArrival,
		Sizes:       r.Sizes,
		Colors:      r.Colors,
		Material:    r.Material,
	}
}

type ProductWriter interface {
	ProductReader
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, ch models.ProductChanges) (*models.Product, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

/* =======================
   CREATE
======================= */

func CreateProduct(products ProductWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/products"
		defer handlePanic(c, route)

		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		category := strings.TrimSpace(req.Category)
		if name == "" || category == "" {
			respondWithError(c, http.StatusBadRequest, route, "name and category are required")
			return
		}

		inStock := true
		if req.InStock != nil {
			inStock = *req.InStock
		}

		product := models.Product{
			Name:        name,
			Price:       *req.Price,
			Description: strings.TrimSpace(req.Description),
			Category:    category,
			Images:      models.NewStringList(req.Images),
			InStock:     inStock,
			Featured:    req.Featured,
			NewArrival:  req.NewArrival,
			Sizes:       models.NewStringList(req.Sizes),
			Colors:      models.NewStringList(req.Colors),
			Material:    strings.TrimSpace(req.Material),
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := products.Create(ctx, &product); err != nil {
			respondAppError(c, route, err)
			return
		}

		log.Printf("[%s] created product %s", route, product.ID.Hex())
		c.JSON(http.StatusCreated, product)
	}
}

/* =======================
   UPDATE
======================= */

func UpdateProduct(products ProductWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/products/:id"
		defer handlePanic(c, route)

		id, ok := pathObjectID(c, route, "id")
		if !ok {
			return
		}

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
			respondWithError(c, http.StatusBadRequest, route, "name cannot be empty")
			return
		}
		if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
			respondWithError(c, http.StatusBadRequest, route, "category cannot be empty")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := products.Update(ctx, id, req.changes())
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

/* =======================
   DELETE (soft)
======================= */

func DeleteProduct(products ProductWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/products/:id"
		defer handlePanic(c, route)

		id, ok := pathObjectID(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := products.SoftDelete(ctx, id); err != nil {
			respondAppError(c, route, err)
			return
		}

		log.Printf("[%s] soft deleted product %s", route, id.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
