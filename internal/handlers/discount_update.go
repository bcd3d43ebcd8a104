package handlers

import (
	"strings"
	"time"

	"storefront/internal/apperror"
	"storefront/internal/models"
	"storefront/internal/pricing"
)

// DiscountUpdateRequest is a partial update. An empty expiresAt string
// clears the expiry; a missing one leaves it untouched.
type DiscountUpdateRequest struct {
	Type           *models.DiscountType `json:"type"`
	Value          *float64             `json:"value"`
	MinOrderAmount *float64             `json:"minOrderAmount"`
	MaxUses        *int                 `json:"maxUses"`
	ExpiresAt      *string              `json:"expiresAt"`
	IsActive       *bool                `json:"isActive"`
}

func parseExpiry(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperror.Validation("expiresAt must be an RFC3339 timestamp")
	}
	t = t.UTC()
	return &t, nil
}

// resolveDiscountUpdate merges input over existing and validates the result
// as a whole, so a change to type is checked against the stored value and
// the other way round.
func resolveDiscountUpdate(existing models.DiscountCode, input DiscountUpdateRequest) (models.DiscountChanges, error) {
	changes := models.DiscountChanges{
		Type:           input.Type,
		Value:          input.Value,
		MinOrderAmount: input.MinOrderAmount,
		MaxUses:        input.MaxUses,
		IsActive:       input.IsActive,
	}

	if input.ExpiresAt != nil {
		expiry, err := parseExpiry(*input.ExpiresAt)
		if err != nil {
			return models.DiscountChanges{}, err
		}
		changes.ExpiresAt = &expiry
	}

	merged := existing
	changes.Apply(&merged)
	if err := pricing.ValidateDiscountCode(merged); err != nil {
		return models.DiscountChanges{}, err
	}
	return changes, nil
}
