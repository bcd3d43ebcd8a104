package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/apperror"
	"storefront/internal/models"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type discountMap map[string]*models.DiscountCode

func (m discountMap) FindDiscountByCode(_ context.Context, code string) (*models.DiscountCode, error) {
	if d, ok := m[code]; ok {
		return d, nil
	}
	return nil, apperror.NotFound("discount")
}

func activeCode(kind models.DiscountType, value float64) *models.DiscountCode {
	return &models.DiscountCode{Code: "SAVE10", Type: kind, Value: value, IsActive: true}
}

func TestPercentageDiscountIsProportionalAndCapped(t *testing.T) {
	cases := []struct {
		subtotal, value, want float64
	}{
		{45, 10, 4.5},
		{0, 50, 0},
		{120, 0, 0},
		{80, 100, 80},
		{19.99, 15, 2.9985},
	}
	for _, tc := range cases {
		got := DiscountAmount(models.DiscountPercentage, Dec(tc.value), Dec(tc.subtotal))
		assert.True(t, got.Equal(Dec(tc.want)), "subtotal=%v value=%v got %s", tc.subtotal, tc.value, got)
		assert.True(t, got.LessThanOrEqual(Dec(tc.subtotal)))
	}
}

func TestFixedDiscountIsMinOfValueAndSubtotal(t *testing.T) {
	cases := []struct {
		subtotal, value, want float64
	}{
		{45, 5, 5},
		{3, 5, 3},
		{0, 5, 0},
		{10, 0, 0},
	}
	for _, tc := range cases {
		got := DiscountAmount(models.DiscountFixed, Dec(tc.value), Dec(tc.subtotal))
		assert.True(t, got.Equal(Dec(tc.want)), "subtotal=%v value=%v got %s", tc.subtotal, tc.value, got)
	}
}

func TestEvaluateDiscountRules(t *testing.T) {
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name   string
		mutate func(d *models.DiscountCode)
		total  float64
		want   error
	}{
		{"exhausted regardless of other fields", func(d *models.DiscountCode) { d.MaxUses, d.UsedCount = 3, 3 }, 100, ErrDiscountUsesExhausted},
		{"expired even when active", func(d *models.DiscountCode) { d.ExpiresAt = &past }, 100, ErrDiscountExpired},
		{"inactive", func(d *models.DiscountCode) { d.IsActive = false }, 100, ErrDiscountInactive},
		{"below minimum", func(d *models.DiscountCode) { d.MinOrderAmount = 50 }, 49.999, ErrDiscountBelowMinimum},
		{"inactive wins over expired", func(d *models.DiscountCode) { d.IsActive = false; d.ExpiresAt = &past }, 100, ErrDiscountInactive},
		{"future expiry accepted", func(d *models.DiscountCode) { d.ExpiresAt = &future }, 100, nil},
		{"unlimited uses", func(d *models.DiscountCode) { d.MaxUses, d.UsedCount = 0, 500 }, 100, nil},
		{"last remaining use", func(d *models.DiscountCode) { d.MaxUses, d.UsedCount = 3, 2 }, 100, nil},
		{"minimum met exactly", func(d *models.DiscountCode) { d.MinOrderAmount = 50 }, 50, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := activeCode(models.DiscountPercentage, 10)
			tc.mutate(d)

			amount, err := EvaluateDiscount(d, Dec(tc.total), now)
			if tc.want != nil {
				require.ErrorIs(t, err, tc.want)
				assert.True(t, amount.IsZero())
				return
			}
			require.NoError(t, err)
			assert.True(t, amount.Equal(Dec(tc.total).Div(decimal.NewFromInt(10))))
		})
	}
}

func TestResolveDiscountNormalizesCode(t *testing.T) {
	lookup := discountMap{"SAVE10": activeCode(models.DiscountPercentage, 10)}

	applied, err := ResolveDiscount(context.Background(), lookup, "  save10 ", Dec(45), now)

	require.NoError(t, err)
	assert.Equal(t, "SAVE10", applied.Code)
	assert.Equal(t, "4.5", applied.Amount.String())
}

func TestResolveDiscountUnknownCode(t *testing.T) {
	_, err := ResolveDiscount(context.Background(), discountMap{}, "NOPE", Dec(45), now)
	require.ErrorIs(t, err, ErrDiscountNotFound)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = ResolveDiscount(context.Background(), discountMap{}, "   ", Dec(45), now)
	require.ErrorIs(t, err, ErrDiscountNotFound)
}

type failingDiscounts struct{}

func (failingDiscounts) FindDiscountByCode(context.Context, string) (*models.DiscountCode, error) {
	return nil, errors.New("server selection timeout")
}

func TestResolveDiscountPassesStoreFailuresThrough(t *testing.T) {
	_, err := ResolveDiscount(context.Background(), failingDiscounts{}, "SAVE10", Dec(45), now)
	require.Error(t, err)
	assert.Equal(t, apperror.KindPersistence, apperror.KindOf(err))
}

func TestValidateDiscountCode(t *testing.T) {
	valid := models.DiscountCode{Code: "spring", Type: models.DiscountPercentage, Value: 25}
	require.NoError(t, ValidateDiscountCode(valid))

	cases := map[string]func(d *models.DiscountCode){
		"blank code":        func(d *models.DiscountCode) { d.Code = " " },
		"unknown type":      func(d *models.DiscountCode) { d.Type = "bogo" },
		"negative value":    func(d *models.DiscountCode) { d.Value = -1 },
		"percentage > 100":  func(d *models.DiscountCode) { d.Value = 101 },
		"negative minimum":  func(d *models.DiscountCode) { d.MinOrderAmount = -5 },
		"negative max uses": func(d *models.DiscountCode) { d.MaxUses = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			d := valid
			mutate(&d)
			err := ValidateDiscountCode(d)
			require.Error(t, err)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		})
	}

	fixed := models.DiscountCode{Code: "BIG", Type: models.DiscountFixed, Value: 250}
	assert.NoError(t, ValidateDiscountCode(fixed))

	used := models.DiscountCode{Code: "BIG", Type: models.DiscountFixed, Value: 5, MaxUses: 2, UsedCount: 5}
	assert.Equal(t, ErrMaxUsesBelowUsed, ValidateDiscountCode(used))
	used.MaxUses = 5
	assert.NoError(t, ValidateDiscountCode(used))
	used.MaxUses = 0
	assert.NoError(t, ValidateDiscountCode(used))
}
