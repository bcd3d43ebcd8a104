package pricing

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/apperror"
	"storefront/internal/models"
)

var ErrNoShippingConfigured = apperror.New(apperror.KindBusinessRule, apperror.CodeNoShippingConfigured,
	"no shipping destination is configured")

// CountryLookup resolves shipping rows. Each method reports a missing row as
// an apperror of kind NotFound.
type CountryLookup interface {
	FindCountryByCode(ctx context.Context, code string) (*models.ShippingCountry, error)
	FindDefaultCountry(ctx context.Context) (*models.ShippingCountry, error)
	FindAnyActiveCountry(ctx context.Context) (*models.ShippingCountry, error)
}

type ShippingQuote struct {
	Country models.ShippingCountry
	Fee     decimal.Decimal
	// Fallback is set when the requested country was missing or inactive.
	Fallback bool
}

func NormalizeCountryCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ShippingFee waives the rate once subtotal reaches an enabled threshold.
func ShippingFee(c models.ShippingCountry, subtotal decimal.Decimal) decimal.Decimal {
	if c.EnableFreeThreshold && subtotal.GreaterThanOrEqual(Dec(c.FreeThreshold)) {
		return decimal.Zero
	}
	return nonNegative(Dec(c.ShippingRate))
}

// ResolveShipping picks the destination row and computes its fee. The
// requested code wins when it exists and is active, then the active default,
// then any active row.
func ResolveShipping(ctx context.Context, lookup CountryLookup, code string, subtotal decimal.Decimal) (ShippingQuote, error) {
	if normalized := NormalizeCountryCode(code); normalized != "" {
		country, err := lookup.FindCountryByCode(ctx, normalized)
		switch {
		case err == nil && country.IsActive:
			return ShippingQuote{Country: *country, Fee: ShippingFee(*country, subtotal)}, nil
		case err != nil && apperror.KindOf(err) != apperror.KindNotFound:
			return ShippingQuote{}, err
		}
	}

	fallbacks := []func(context.Context) (*models.ShippingCountry, error){
		lookup.FindDefaultCountry,
		lookup.FindAnyActiveCountry,
	}
	for _, find := range fallbacks {
		country, err := find(ctx)
		if err == nil {
			return ShippingQuote{Country: *country, Fee: ShippingFee(*country, subtotal), Fallback: true}, nil
		}
		if apperror.KindOf(err) != apperror.KindNotFound {
			return ShippingQuote{}, err
		}
	}
	return ShippingQuote{}, ErrNoShippingConfigured
}

// ValidateShippingCountry checks a row before it is written by an admin.
func ValidateShippingCountry(c models.ShippingCountry) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.Validation("name is required")
	}
	if NormalizeCountryCode(c.Code) == "" {
		return apperror.Validation("code is required")
	}
	if c.ShippingRate < 0 {
		return apperror.Validation("shippingRate must be zero or greater")
	}
	if c.FreeThreshold < 0 {
		return apperror.Validation("freeThreshold must be zero or greater")
	}
	if c.IsDefault && !c.IsActive {
		return apperror.Validation("the default country must be active")
	}
	return nil
}
