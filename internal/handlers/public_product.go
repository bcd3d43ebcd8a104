package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

const (
	defaultDiscoverSize = 10
	maxDiscoverSize     = 50
)

type ProductReader interface {
	List(ctx context.Context, f models.ProductFilter) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Sample(ctx context.Context, size int64, exclude []primitive.ObjectID) ([]models.Product, error)
}

/*
GET /api/products
- page + limit given → {data, pagination}
- otherwise → plain array of every match
*/
func GetProducts(products ProductReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		log.Printf(
			"[%s] hit page=%s limit=%s category=%s search=%s sort=%s",
			route,
			c.Query("page"),
			c.Query("limit"),
			c.Query("category"),
			c.Query("search"),
			c.Query("sort"),
		)

		filter, paginated, err := parseProductFilter(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, total, err := products.List(ctx, filter)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		log.Printf("[%s] returning %d products", route, len(list))
		if !paginated {
			c.JSON(http.StatusOK, list)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":       list,
			"pagination": paginationMeta(filter.Page, filter.Limit, total),
		})
	}
}

func GetProduct(products ProductReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		id, ok := pathObjectID(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := products.FindByID(ctx, id)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

/*
GET /api/products/discover?limit=&exclude=id,id
- random in-stock products for the swipe feed
*/
func DiscoverProducts(products ProductReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/discover"
		defer handlePanic(c, route)

		size := int64(defaultDiscoverSize)
		if raw := c.Query("limit"); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || v < 1 {
				respondWithError(c, http.StatusBadRequest, route, "invalid limit")
				return
			}
			size = v
		}
		if size > maxDiscoverSize {
			size = maxDiscoverSize
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := products.Sample(ctx, size, parseExcludeIDs(c.Query("exclude")))
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
