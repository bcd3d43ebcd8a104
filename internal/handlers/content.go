package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
)

type ContentStore interface {
	List(ctx context.Context) ([]models.ContentBlock, error)
	FindActive(ctx context.Context, key string) (*models.ContentBlock, error)
	Upsert(ctx context.Context, block models.ContentBlock) (*models.ContentBlock, error)
	Delete(ctx context.Context, key string) error
}

type ContentUpsertRequest struct {
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body"`
	ImageURL string `json:"imageUrl" binding:"omitempty,url"`
	LinkURL  string `json:"linkUrl"`
	IsActive *bool  `json:"isActive"`
}

func GetContentBlock(content ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /content/:key"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		block, err := content.FindActive(ctx, c.Param("key"))
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, block)
	}
}

func GetAllContentBlocks(content ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/content"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		blocks, err := content.List(ctx)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": blocks})
	}
}

func UpsertContentBlock(content ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/content/:key"
		defer handlePanic(c, route)

		key := strings.TrimSpace(c.Param("key"))
		if key == "" {
			respondWithError(c, http.StatusBadRequest, route, "key required")
			return
		}

		var req ContentUpsertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		block, err := content.Upsert(ctx, models.ContentBlock{
			Key:      key,
			Title:    strings.TrimSpace(req.Title),
			Body:     req.Body,
			ImageURL: strings.TrimSpace(req.ImageURL),
			LinkURL:  strings.TrimSpace(req.LinkURL),
			IsActive: isActive,
		})
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, block)
	}
}

func DeleteContentBlock(content ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/content/:key"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := content.Delete(ctx, c.Param("key")); err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "content block deleted"})
	}
}
