package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category" json:"category"`
	Images      StringList         `bson:"images" json:"images"`
	InStock     bool               `bson:"inStock" json:"inStock"`
	Featured    bool               `bson:"featured" json:"featured"`
	NewArrival  bool               `bson:"newArrival" json:"newArrival"`
	Sizes       StringList         `bson:"sizes" json:"sizes"`
	Colors      StringList         `bson:"colors" json:"colors"`
	Material    string             `bson:"material,omitempty" json:"material,omitempty"`
	IsDeleted   bool               `bson:"isDeleted" json:"-"`
	DeletedAt   *time.Time         `bson:"deletedAt,omitempty" json:"-"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductSort selects the listing order.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
)

// ProductFilter narrows catalog listings. Nil pointers mean "don't filter".
type ProductFilter struct {
	Category   string
	Search     string
	Featured   *bool
	NewArrival *bool
	InStock    *bool
	MinPrice   *float64
	MaxPrice   *float64
	Sort       ProductSort
	Page       int64
	Limit      int64
}

// ProductChanges carries a partial admin update.
type ProductChanges struct {
	Name        *string
	Price       *float64
	Description *string
	Category    *string
	Images      *[]string
	InStock     *bool
	Featured    *bool
	NewArrival  *bool
	Sizes       *[]string
	Colors      *[]string
	Material    *string
}
