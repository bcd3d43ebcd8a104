package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
)

type CategoryCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug"`
	IsActive *bool  `json:"isActive"`
}

type CategoryUpdateRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
}

/*
GET /admin/categories
- active and inactive, for the admin panel
*/
func GetAllCategories(categories CategoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/categories"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := categories.List(ctx, false)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": list})
	}
}

/*
POST /admin/categories
- slug defaults to the dashed name and must be unique
*/
func CreateCategory(categories CategoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/categories"
		defer handlePanic(c, route)

		var req CategoryCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			respondWithError(c, http.StatusBadRequest, route, "name required")
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		category := models.Category{Name: name, Slug: req.Slug, IsActive: isActive}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := categories.Create(ctx, &category); err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func UpdateCategory(categories CategoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/categories/:id"
		defer handlePanic(c, route)

		id, ok := pathObjectID(c, route, "id")
		if !ok {
			return
		}

		var req CategoryUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
			respondWithError(c, http.StatusBadRequest, route, "name cannot be empty")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		category, err := categories.Update(ctx, id, req.Name, req.IsActive)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

/*
DELETE /admin/categories/:id
- deactivates; products keep their category name
*/
func DeleteCategory(categories CategoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/categories/:id"
		defer handlePanic(c, route)

		id, ok := pathObjectID(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := categories.Deactivate(ctx, id); err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "category deactivated"})
	}
}
