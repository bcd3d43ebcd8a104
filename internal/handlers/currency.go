package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/apperror"
	"storefront/internal/models"
	"storefront/internal/pricing"
)

type CurrencyStore interface {
	List(ctx context.Context) ([]models.CurrencyRate, error)
	FindByCode(ctx context.Context, code string) (*models.CurrencyRate, error)
	Upsert(ctx context.Context, rate models.CurrencyRate) (*models.CurrencyRate, error)
	Delete(ctx context.Context, code string) error
}

type CurrencyRateRequest struct {
	Rate     *float64 `json:"rate" binding:"required,gt=0"`
	Symbol   string   `json:"symbol"`
	Decimals *int32   `json:"decimals" binding:"required"`
}

var errBaseCurrencyLocked = apperror.New(apperror.KindBusinessRule, apperror.CodeInvalidInput,
	"the base currency always has rate 1 and cannot be removed")

// rateFor resolves code against the stored rates; the base currency is
// answered without a lookup.
func rateFor(ctx context.Context, rates CurrencyStore, base, code string) (models.CurrencyRate, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == base {
		return pricing.BaseRate(base), nil
	}
	rate, err := rates.FindByCode(ctx, code)
	if err != nil {
		return models.CurrencyRate{}, err
	}
	return *rate, nil
}

func GetCurrencyRates(rates CurrencyStore, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /currency/rates"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		stored, err := rates.List(ctx)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		list := []models.CurrencyRate{pricing.BaseRate(base)}
		for _, r := range stored {
			if r.Code != base {
				list = append(list, r)
			}
		}
		c.JSON(http.StatusOK, gin.H{"base": base, "rates": list})
	}
}

/*
GET /currency/convert?amount=&to=
- display only; orders are always stored in the base currency
*/
func ConvertCurrency(rates CurrencyStore, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /currency/convert"
		defer handlePanic(c, route)

		amount, err := decimal.NewFromString(strings.TrimSpace(c.Query("amount")))
		if err != nil || amount.IsNegative() {
			respondWithError(c, http.StatusBadRequest, route, "amount must be a non-negative number")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		rate, err := rateFor(ctx, rates, base, c.Query("to"))
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		converted := pricing.Convert(amount, rate)
		c.JSON(http.StatusOK, gin.H{
			"amount":    pricing.Float(amount),
			"from":      base,
			"to":        rate.Code,
			"rate":      rate.Rate,
			"converted": pricing.Float(converted),
			"formatted": strings.TrimSpace(rate.Symbol + " " + converted.StringFixed(rate.Decimals)),
		})
	}
}

func UpsertCurrencyRate(rates CurrencyStore, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/currency/rates/:code"
		defer handlePanic(c, route)

		var req CurrencyRateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		rate := models.CurrencyRate{
			Code:     strings.ToUpper(strings.TrimSpace(c.Param("code"))),
			Rate:     *req.Rate,
			Symbol:   strings.TrimSpace(req.Symbol),
			Decimals: *req.Decimals,
		}
		if err := pricing.ValidateCurrencyRate(rate); err != nil {
			respondAppError(c, route, err)
			return
		}
		if rate.Code == base && rate.Rate != 1 {
			respondAppError(c, route, errBaseCurrencyLocked)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		saved, err := rates.Upsert(ctx, rate)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}

func DeleteCurrencyRate(rates CurrencyStore, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/currency/rates/:code"
		defer handlePanic(c, route)

		code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
		if code == base {
			respondAppError(c, route, errBaseCurrencyLocked)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := rates.Delete(ctx, code); err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "currency rate deleted"})
	}
}
