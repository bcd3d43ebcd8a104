package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	indexDiscountCode   = "code_unique"
	indexCountryCode    = "code_unique"
	indexSingleDefault  = "isDefault_single"
	indexOrderNumber    = "orderNumber_unique"
	indexIdempotencyKey = "idempotencyKey_unique"
	indexCategorySlug   = "slug_unique"
	indexAdminEmail     = "email_unique"
	indexContentKey     = "key_unique"
	indexCurrencyCode   = "code_unique"
)

func ensureIndexes(db *mongo.Database, collection string, models ...mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Printf("EnsureIndexes: creating %d index(es) on %s", len(models), collection)
	names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		log.Printf("EnsureIndexes: %s index error: %v", collection, err)
		return err
	}
	log.Printf("EnsureIndexes: %s indexes ready: %v", collection, names)
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	return ensureIndexes(db, productsCollection,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("category_createdAt"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "featured", Value: 1}},
			Options: options.Index().SetName("featured_index"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "newArrival", Value: 1}},
			Options: options.Index().SetName("newArrival_index"),
		},
	)
}

func EnsureCategoryIndexes(db *mongo.Database) error {
	return ensureIndexes(db, categoriesCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetName(indexCategorySlug).SetUnique(true),
	})
}

func EnsureDiscountIndexes(db *mongo.Database) error {
	return ensureIndexes(db, discountsCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetName(indexDiscountCode).SetUnique(true),
	})
}

// EnsureShippingIndexes also enforces a single default row: the partial
// unique index only covers documents with isDefault=true.
func EnsureShippingIndexes(db *mongo.Database) error {
	return ensureIndexes(db, shippingCollection,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetName(indexCountryCode).SetUnique(true),
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "isDefault", Value: 1}},
			Options: options.Index().
				SetName(indexSingleDefault).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isDefault": true}),
		},
	)
}

func EnsureOrderIndexes(db *mongo.Database) error {
	return ensureIndexes(db, ordersCollection,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetName(indexOrderNumber).SetUnique(true),
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "idempotencyKey", Value: 1}},
			Options: options.Index().
				SetName(indexIdempotencyKey).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"idempotencyKey": bson.M{"$type": "string"}}),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("status_createdAt"),
		},
	)
}

func EnsureAdminIndexes(db *mongo.Database) error {
	return ensureIndexes(db, adminsCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName(indexAdminEmail).SetUnique(true),
	})
}

func EnsureContentIndexes(db *mongo.Database) error {
	return ensureIndexes(db, contentCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetName(indexContentKey).SetUnique(true),
	})
}

func EnsureCurrencyIndexes(db *mongo.Database) error {
	return ensureIndexes(db, currencyCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetName(indexCurrencyCode).SetUnique(true),
	})
}

// EnsureIndexes runs every collection's bootstrap and returns the failures
// keyed by collection; index errors are not fatal at startup.
func EnsureIndexes(db *mongo.Database) map[string]error {
	steps := []struct {
		collection string
		ensure     func(*mongo.Database) error
	}{
		{productsCollection, EnsureProductIndexes},
		{categoriesCollection, EnsureCategoryIndexes},
		{discountsCollection, EnsureDiscountIndexes},
		{shippingCollection, EnsureShippingIndexes},
		{ordersCollection, EnsureOrderIndexes},
		{adminsCollection, EnsureAdminIndexes},
		{contentCollection, EnsureContentIndexes},
		{currencyCollection, EnsureCurrencyIndexes},
	}

	failures := map[string]error{}
	for _, step := range steps {
		if err := step.ensure(db); err != nil {
			failures[step.collection] = err
		}
	}
	return failures
}
