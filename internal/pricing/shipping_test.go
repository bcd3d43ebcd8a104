package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/apperror"
	"storefront/internal/models"
)

type countryTable []models.ShippingCountry

func (t countryTable) FindCountryByCode(_ context.Context, code string) (*models.ShippingCountry, error) {
	for i := range t {
		if t[i].Code == code {
			return &t[i], nil
		}
	}
	return nil, apperror.NotFound("shipping country")
}

func (t countryTable) FindDefaultCountry(context.Context) (*models.ShippingCountry, error) {
	for i := range t {
		if t[i].IsDefault && t[i].IsActive {
			return &t[i], nil
		}
	}
	return nil, apperror.NotFound("default shipping country")
}

func (t countryTable) FindAnyActiveCountry(context.Context) (*models.ShippingCountry, error) {
	for i := range t {
		if t[i].IsActive {
			return &t[i], nil
		}
	}
	return nil, apperror.NotFound("shipping country")
}

func kuwait() models.ShippingCountry {
	return models.ShippingCountry{
		Name: "Kuwait", Code: "KW", ShippingRate: 2, FreeThreshold: 50,
		EnableFreeThreshold: true, IsActive: true, IsDefault: true,
	}
}

func TestShippingFeeThreshold(t *testing.T) {
	c := models.ShippingCountry{ShippingRate: 3, FreeThreshold: 50, EnableFreeThreshold: true, IsActive: true}

	assert.Equal(t, "3", ShippingFee(c, Dec(49)).String())
	assert.True(t, ShippingFee(c, Dec(50)).IsZero())
	assert.True(t, ShippingFee(c, Dec(75)).IsZero())

	c.EnableFreeThreshold = false
	assert.Equal(t, "3", ShippingFee(c, Dec(500)).String())
}

func TestResolveShippingUsesRequestedCountry(t *testing.T) {
	saudi := models.ShippingCountry{Name: "Saudi Arabia", Code: "SA", ShippingRate: 5, IsActive: true}
	table := countryTable{kuwait(), saudi}

	quote, err := ResolveShipping(context.Background(), table, "sa", Dec(45))

	require.NoError(t, err)
	assert.Equal(t, "SA", quote.Country.Code)
	assert.Equal(t, "5", quote.Fee.String())
	assert.False(t, quote.Fallback)
}

func TestResolveShippingFallsBackToDefault(t *testing.T) {
	inactive := models.ShippingCountry{Name: "Oman", Code: "OM", ShippingRate: 7, IsActive: false}
	table := countryTable{inactive, kuwait()}

	for _, code := range []string{"OM", "ZZ", ""} {
		quote, err := ResolveShipping(context.Background(), table, code, Dec(45))
		require.NoError(t, err)
		assert.Equal(t, "KW", quote.Country.Code, "code %q", code)
		assert.True(t, quote.Fallback)
	}
}

func TestResolveShippingFallsBackToAnyActiveRow(t *testing.T) {
	bahrain := models.ShippingCountry{Name: "Bahrain", Code: "BH", ShippingRate: 4, IsActive: true}
	table := countryTable{bahrain}

	quote, err := ResolveShipping(context.Background(), table, "QA", Dec(10))

	require.NoError(t, err)
	assert.Equal(t, "BH", quote.Country.Code)
}

func TestResolveShippingWithNothingConfigured(t *testing.T) {
	table := countryTable{{Name: "Oman", Code: "OM", IsActive: false}}

	_, err := ResolveShipping(context.Background(), table, "OM", Dec(10))

	require.ErrorIs(t, err, ErrNoShippingConfigured)
	assert.Equal(t, apperror.KindBusinessRule, apperror.KindOf(err))
}

func TestValidateShippingCountry(t *testing.T) {
	require.NoError(t, ValidateShippingCountry(kuwait()))

	c := kuwait()
	c.IsActive = false
	assert.Error(t, ValidateShippingCountry(c))

	c = kuwait()
	c.ShippingRate = -1
	assert.Error(t, ValidateShippingCountry(c))

	c = kuwait()
	c.Code = ""
	assert.Error(t, ValidateShippingCountry(c))
}
