package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// DiscountCode is a redeemable code. MaxUses of zero means unlimited.
type DiscountCode struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code           string             `bson:"code" json:"code"`
	Type           DiscountType       `bson:"type" json:"type"`
	Value          float64            `bson:"value" json:"value"`
	MinOrderAmount float64            `bson:"minOrderAmount" json:"minOrderAmount"`
	MaxUses        int                `bson:"maxUses" json:"maxUses"`
	UsedCount      int                `bson:"usedCount" json:"usedCount"`
	ExpiresAt      *time.Time         `bson:"expiresAt" json:"expiresAt"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type DiscountChanges struct {
	Type           *DiscountType
	Value          *float64
	MinOrderAmount *float64
	MaxUses        *int
	ExpiresAt      **time.Time
	IsActive       *bool
}

// Apply copies the set fields onto d.
func (ch DiscountChanges) Apply(d *DiscountCode) {
	if ch.Type != nil {
		d.Type = *ch.Type
	}
	if ch.Value != nil {
		d.Value = *ch.Value
	}
	if ch.MinOrderAmount != nil {
		d.MinOrderAmount = *ch.MinOrderAmount
	}
	if ch.MaxUses != nil {
		d.MaxUses = *ch.MaxUses
	}
	if ch.ExpiresAt != nil {
		d.ExpiresAt = *ch.ExpiresAt
	}
	if ch.IsActive != nil {
		d.IsActive = *ch.IsActive
	}
}

// DiscountRedemption is the usage increment committed with an order.
type DiscountRedemption struct {
	Code     string
	Subtotal float64
	At       time.Time
}
