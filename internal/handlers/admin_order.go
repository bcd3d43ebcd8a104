package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/lifecycle"
	"storefront/internal/middleware"
	"storefront/internal/models"
)

type OrderStore interface {
	OrderReader
	List(ctx context.Context, f models.OrderFilter) ([]models.Order, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type OrderTransitions interface {
	UpdateStatus(ctx context.Context, id primitive.ObjectID, to models.OrderStatus) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, to models.PaymentStatus) (*models.Order, error)
}

type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type PaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

/*
GET /admin/orders?status=&paymentStatus=&search=&page=&limit=
- newest first, always paginated
*/
func GetOrders(orders OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/orders"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		filter := models.OrderFilter{
			Status:        models.OrderStatus(strings.ToLower(strings.TrimSpace(c.Query("status")))),
			PaymentStatus: models.PaymentStatus(strings.ToLower(strings.TrimSpace(c.Query("paymentStatus")))),
			Search:        strings.TrimSpace(c.Query("search")),
			Page:          page,
			Limit:         limit,
		}
		if filter.Status != "" && !lifecycle.ValidStatus(filter.Status) {
			respondWithError(c, http.StatusBadRequest, route, "unknown status")
			return
		}
		if filter.PaymentStatus != "" && !lifecycle.ValidPaymentStatus(filter.PaymentStatus) {
			respondWithError(c, http.StatusBadRequest, route, "unknown paymentStatus")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, total, err := orders.List(ctx, filter)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":       list,
			"pagination": paginationMeta(page, limit, total),
		})
	}
}

// GetOrderDetail adds the statuses the order may move to next.
func GetOrderDetail(orders OrderReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/orders/:id"
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
		c.JSON(http.StatusOK, gin.H{
			"order":               order,
			"nextStatuses":        lifecycle.NextStatuses(order.Status),
			"nextPaymentStatuses": lifecycle.NextPaymentStatuses(order.PaymentStatus),
		})
	}
}

func UpdateOrderStatus(transitions OrderTransitions) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/orders/:id/status"
		defer handlePanic(c, route)

		id, ok := pathObjectID(c, route, "id")
		if !ok {
			return
		}

		var req OrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		to := models.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
		order, err := transitions.UpdateStatus(ctx, id, to)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		log.Printf("[ORDER] [INFO] %s status -> %s by %s", order.OrderNumber, order.Status, middleware.AdminEmail(c))
		c.JSON(http.StatusOK, order)
	}
}

func UpdatePaymentStatus(transitions OrderTransitions) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/orders/:id/payment"
		defer handlePanic(c, route)

		id, ok := pathObjectID(c, route, "id")
		if !ok {
			return
		}

		var req PaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		to := models.PaymentStatus(strings.ToLower(strings.TrimSpace(req.PaymentStatus)))
		order, err := transitions.UpdatePaymentStatus(ctx, id, to)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		log.Printf("[ORDER] [INFO] %s payment -> %s by %s", order.OrderNumber, order.PaymentStatus, middleware.AdminEmail(c))
		c.JSON(http.StatusOK, order)
	}
}

func DeleteOrder(orders OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/orders/:id"
		defer handlePanic(c, route)

		id, ok := pathObjectID(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := orders.Delete(ctx, id); err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}
