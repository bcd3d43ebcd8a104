package pricing

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/apperror"
	"storefront/internal/models"
)

var (
	ErrDiscountNotFound = apperror.New(apperror.KindNotFound, apperror.CodeDiscountNotFound,
		"discount code not found")
	ErrDiscountInactive = apperror.New(apperror.KindBusinessRule, apperror.CodeDiscountInactive,
		"discount code is not active")
	ErrDiscountExpired = apperror.New(apperror.KindBusinessRule, apperror.CodeDiscountExpired,
		"discount code has expired")
	ErrDiscountBelowMinimum = apperror.New(apperror.KindBusinessRule, apperror.CodeDiscountBelowMinimum,
		"order subtotal is below the minimum for this discount code")
	ErrDiscountUsesExhausted = apperror.New(apperror.KindBusinessRule, apperror.CodeDiscountUsesExhausted,
		"discount code has reached its usage limit")

	ErrMaxUsesBelowUsed = apperror.Validation("maxUses cannot be below usedCount")
)

// NormalizeCode is the canonical form codes are stored and looked up in.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DiscountLookup finds a code by its normalized form. A missing code is
// reported as an apperror of kind NotFound.
type DiscountLookup interface {
	FindDiscountByCode(ctx context.Context, code string) (*models.DiscountCode, error)
}

// AppliedDiscount is an approved discount ready to be redeemed.
type AppliedDiscount struct {
	Code   string
	Amount decimal.Decimal
}

// EvaluateDiscount applies the redemption rules in order and returns the
// discount amount for subtotal. It has no side effects.
func EvaluateDiscount(d *models.DiscountCode, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	switch {
	case d == nil:
		return decimal.Zero, ErrDiscountNotFound
	case !d.IsActive:
		return decimal.Zero, ErrDiscountInactive
	case d.ExpiresAt != nil && d.ExpiresAt.Before(now):
		return decimal.Zero, ErrDiscountExpired
	case subtotal.LessThan(Dec(d.MinOrderAmount)):
		return decimal.Zero, ErrDiscountBelowMinimum
	case d.MaxUses > 0 && d.UsedCount >= d.MaxUses:
		return decimal.Zero, ErrDiscountUsesExhausted
	}
	return DiscountAmount(d.Type, Dec(d.Value), subtotal), nil
}

// DiscountAmount never returns more than subtotal or less than zero.
func DiscountAmount(kind models.DiscountType, value, subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsNegative() {
		return decimal.Zero
	}
	var amount decimal.Decimal
	switch kind {
	case models.DiscountPercentage:
		amount = subtotal.Mul(value).Div(decimal.NewFromInt(100))
	case models.DiscountFixed:
		amount = value
	}
	return clamp(amount, subtotal)
}

// ResolveDiscount looks the code up and evaluates it against subtotal.
func ResolveDiscount(ctx context.Context, lookup DiscountLookup, code string, subtotal decimal.Decimal, now time.Time) (AppliedDiscount, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return AppliedDiscount{}, ErrDiscountNotFound
	}

	d, err := lookup.FindDiscountByCode(ctx, normalized)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return AppliedDiscount{}, ErrDiscountNotFound
		}
		return AppliedDiscount{}, err
	}

	amount, err := EvaluateDiscount(d, subtotal, now)
	if err != nil {
		return AppliedDiscount{}, err
	}
	return AppliedDiscount{Code: normalized, Amount: amount}, nil
}

// ValidateDiscountCode checks a code before it is written by an admin.
func ValidateDiscountCode(d models.DiscountCode) error {
	if NormalizeCode(d.Code) == "" {
		return apperror.Validation("code is required")
	}
	if !d.Type.Valid() {
		return apperror.Validation("type must be percentage or fixed")
	}
	if d.Value < 0 {
		return apperror.Validation("value must be zero or greater")
	}
	if d.Type == models.DiscountPercentage && d.Value > 100 {
		return apperror.Validation("percentage value must be between 0 and 100")
	}
	if d.MinOrderAmount < 0 {
		return apperror.Validation("minOrderAmount must be zero or greater")
	}
	if d.MaxUses < 0 {
		return apperror.Validation("maxUses must be zero or greater")
	}
	if d.UsedCount < 0 {
		return apperror.Validation("usedCount must be zero or greater")
	}
	if d.MaxUses > 0 && d.UsedCount > d.MaxUses {
		return ErrMaxUsesBelowUsed
	}
	return nil
}
