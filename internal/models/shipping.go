package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShippingCountry struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Code                string             `bson:"code" json:"code"`
	ShippingRate        float64            `bson:"shippingRate" json:"shippingRate"`
	FreeThreshold       float64            `bson:"freeThreshold" json:"freeThreshold"`
	EnableFreeThreshold bool               `bson:"enableFreeThreshold" json:"enableFreeThreshold"`
	IsActive            bool               `bson:"isActive" json:"isActive"`
	IsDefault           bool               `bson:"isDefault" json:"isDefault"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}
