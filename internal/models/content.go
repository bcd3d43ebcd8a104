package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentBlock is an editable storefront section such as the hero banner.
type ContentBlock struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key       string             `bson:"key" json:"key"`
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body,omitempty" json:"body,omitempty"`
	ImageURL  string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	LinkURL   string             `bson:"linkUrl,omitempty" json:"linkUrl,omitempty"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
