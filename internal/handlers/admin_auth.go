package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/apperror"
	"storefront/internal/models"
)

type AdminFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
}

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func issueAdminToken(admin models.Admin, secret string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   admin.ID.Hex(),
		"role":  models.RoleAdmin,
		"email": admin.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func AdminLogin(admins AdminFinder, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/login"
		defer handlePanic(c, route)

		var req AdminLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || strings.TrimSpace(req.Password) == "" {
			respondWithError(c, http.StatusBadRequest, route, "email and password are required")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		admin, err := admins.FindByEmail(ctx, email)
		if err != nil {
			if apperror.KindOf(err) != apperror.KindNotFound {
				respondAppError(c, route, err)
				return
			}
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		if admin.Role != models.RoleAdmin {
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		signed, err := issueAdminToken(*admin, jwtSecret, accessTTL, time.Now())
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		log.Printf("[ADMIN] [INFO] %s logged in", admin.Email)
		c.JSON(http.StatusOK, gin.H{
			"token":     signed,
			"expiresIn": int64(accessTTL.Seconds()),
		})
	}
}
