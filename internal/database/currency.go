package database

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/apperror"
	"storefront/internal/models"
)

type CurrencyRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewCurrencyRepository(db *mongo.Database) *CurrencyRepository {
	return &CurrencyRepository{coll: db.Collection(currencyCollection), now: time.Now}
}

func (r *CurrencyRepository) List(ctx context.Context) ([]models.CurrencyRate, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, storeError("list currency rates", err)
	}
	rates := []models.CurrencyRate{}
	if err := cursor.All(ctx, &rates); err != nil {
		return nil, storeError("decode currency rates", err)
	}
	return rates, nil
}

func (r *CurrencyRepository) FindByCode(ctx context.Context, code string) (*models.CurrencyRate, error) {
	var rate models.CurrencyRate
	err := r.coll.FindOne(ctx, bson.M{"code": strings.ToUpper(strings.TrimSpace(code))}).Decode(&rate)
	if err != nil {
		return nil, lookupError(err, "currency rate")
	}
	return &rate, nil
}

func (r *CurrencyRepository) Upsert(ctx context.Context, rate models.CurrencyRate) (*models.CurrencyRate, error) {
	code := strings.ToUpper(strings.TrimSpace(rate.Code))
	var saved models.CurrencyRate
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{
			"code":      code,
			"rate":      rate.Rate,
			"symbol":    rate.Symbol,
			"decimals":  rate.Decimals,
			"updatedAt": r.now().UTC(),
		}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&saved)
	if err != nil {
		return nil, storeError("upsert currency rate", err)
	}
	return &saved, nil
}

func (r *CurrencyRepository) Delete(ctx context.Context, code string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"code": strings.ToUpper(strings.TrimSpace(code))})
	if err != nil {
		return storeError("delete currency rate", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("currency rate")
	}
	return nil
}
