package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func optionalBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", key)
	}
	return &v, nil
}

func optionalFloat(c *gin.Context, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("%s must be a non-negative number", key)
	}
	return &v, nil
}

// parseProductFilter reads the catalog query string. Page and Limit stay
// zero unless the caller asked for pagination.
func parseProductFilter(c *gin.Context) (models.ProductFilter, bool, error) {
	f := models.ProductFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
	}

	var err error
	if f.Featured, err = optionalBool(c, "featured"); err != nil {
		return f, false, err
	}
	if f.NewArrival, err = optionalBool(c, "newArrival"); err != nil {
		return f, false, err
	}
	if f.InStock, err = optionalBool(c, "inStock"); err != nil {
		return f, false, err
	}
	if f.MinPrice, err = optionalFloat(c, "minPrice"); err != nil {
		return f, false, err
	}
	if f.MaxPrice, err = optionalFloat(c, "maxPrice"); err != nil {
		return f, false, err
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return f, false, fmt.Errorf("minPrice must not exceed maxPrice")
	}

	switch sort := models.ProductSort(strings.TrimSpace(c.Query("sort"))); sort {
	case "", models.SortNewest:
		f.Sort = models.SortNewest
	case models.SortPriceAsc, models.SortPriceDesc:
		f.Sort = sort
	default:
		return f, false, fmt.Errorf("sort must be newest, price_asc or price_desc")
	}

	pageStr, limitStr := c.Query("page"), c.Query("limit")
	if pageStr == "" && limitStr == "" {
		return f, false, nil
	}
	if f.Page, f.Limit, err = parsePaginationParams(pageStr, limitStr); err != nil {
		return f, false, err
	}
	return f, true, nil
}

// parseExcludeIDs reads a comma separated id list, skipping malformed ids.
func parseExcludeIDs(raw string) []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, part := range strings.Split(raw, ",") {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
