package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

type CategoryStore interface {
	List(ctx context.Context, activeOnly bool) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id primitive.ObjectID, name *string, isActive *bool) (*models.Category, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}

func GetCategories(categories CategoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		log.Printf("[%s] hit", route)

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := categories.List(ctx, true)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		log.Printf("[%s] returning %d categories", route, len(list))
		c.JSON(http.StatusOK, list)
	}
}
