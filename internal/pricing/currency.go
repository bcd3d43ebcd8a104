package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/apperror"
	"storefront/internal/models"
)

const maxCurrencyDecimals = 4

// Convert turns a base-currency amount into rate.Code for display, rounded
// half away from zero to the currency's decimals.
func Convert(amount decimal.Decimal, rate models.CurrencyRate) decimal.Decimal {
	return amount.Mul(Dec(rate.Rate)).Round(rate.Decimals)
}

// BaseRate is the identity row for the store's own currency.
func BaseRate(code string) models.CurrencyRate {
	return models.CurrencyRate{Code: strings.ToUpper(code), Rate: 1, Decimals: 3}
}

func ValidateCurrencyRate(rate models.CurrencyRate) error {
	code := strings.TrimSpace(rate.Code)
	if len(code) != 3 {
		return apperror.Validation("code must be a three-letter currency code")
	}
	if rate.Rate <= 0 {
		return apperror.Validation("rate must be greater than zero")
	}
	if rate.Decimals < 0 || rate.Decimals > maxCurrencyDecimals {
		return apperror.Validationf("decimals must be between 0 and %d", maxCurrencyDecimals)
	}
	return nil
}
