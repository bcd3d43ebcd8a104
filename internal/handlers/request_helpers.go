package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperror"
)

var requestTimeout = 5 * time.Second

// SetRequestTimeout bounds every store call made while serving a request.
func SetRequestTimeout(d time.Duration) {
	if d > 0 {
		requestTimeout = d
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func statusForKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindBusinessRule:
		return http.StatusUnprocessableEntity
	case apperror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondAppError renders a classified error. Persistence failures are
// logged in full but answered with a generic message.
func respondAppError(c *gin.Context, route string, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperror.KindPersistence {
		log.Printf("[%s] [ERROR] %v", route, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
			"code":  apperror.CodeStoreFailure,
		})
		return
	}

	status := statusForKind(appErr.Kind)
	log.Printf("[%s] returning error %d: %s (%s)", route, status, appErr.Message, appErr.Code)
	c.AbortWithStatusJSON(status, gin.H{
		"error": appErr.Message,
		"code":  appErr.Code,
		"kind":  appErr.Kind.String(),
	})
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "email":
				details = append(details, fmt.Sprintf("%s must be a valid email", field))
			case "gte", "gt", "lte", "min", "max":
				details = append(details, fmt.Sprintf("%s is out of range", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"code":    apperror.CodeInvalidInput,
			"details": details,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   "invalid body",
		"code":    apperror.CodeInvalidInput,
		"details": err.Error(),
	})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// pathObjectID parses the :param segment, answering 400 itself on failure.
func pathObjectID(c *gin.Context, route, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, "invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}
