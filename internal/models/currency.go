package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CurrencyRate is the multiplier from the base currency to Code.
type CurrencyRate struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Code      string             `bson:"code" json:"code"`
	Rate      float64            `bson:"rate" json:"rate"`
	Symbol    string             `bson:"symbol,omitempty" json:"symbol,omitempty"`
	Decimals  int32              `bson:"decimals" json:"decimals"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
