package database

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storefront/internal/apperror"
)

const (
	productsCollection   = "products"
	categoriesCollection = "categories"
	discountsCollection  = "discounts"
	shippingCollection   = "shipping_countries"
	ordersCollection     = "orders"
	adminsCollection     = "admins"
	contentCollection    = "content_blocks"
	currencyCollection   = "currency_rates"
)

func Connect(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Ping reports whether the primary is reachable.
func Ping(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

// withTransaction runs fn in a multi-document transaction. Errors returned by
// fn abort the transaction and are passed back unchanged.
func withTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return apperror.Persistence("start session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// lookupError turns a FindOne failure into NotFound or a persistence error.
func lookupError(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.NotFound(what)
	}
	log.Printf("[DB] [ERROR] %s lookup failed: %v", what, err)
	return apperror.Persistence(what+" lookup failed", err)
}

func storeError(op string, err error) error {
	log.Printf("[DB] [ERROR] %s failed: %v", op, err)
	return apperror.Persistence(op+" failed", err)
}

// classified passes already classified errors through and wraps driver
// errors as persistence failures.
func classified(op string, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return storeError(op, err)
}

// duplicateOn reports whether err is a unique-index violation of index.
func duplicateOn(err error, index string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), index)
}

func pageOptions(page, limit int64) (skip int64, size int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return 0, 0
	}
	return (page - 1) * limit, limit
}
