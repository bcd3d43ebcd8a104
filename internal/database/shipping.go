package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/apperror"
	"storefront/internal/models"
	"storefront/internal/pricing"
)

type ShippingRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

func NewShippingRepository(db *mongo.Database) *ShippingRepository {
	return &ShippingRepository{client: db.Client(), coll: db.Collection(shippingCollection), now: time.Now}
}

var errDuplicateCountry = apperror.New(apperror.KindConflict, apperror.CodeDuplicate, "shipping country code already exists")

func oldestFirst() bson.D {
	return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
}

func (r *ShippingRepository) List(ctx context.Context, activeOnly bool) ([]models.ShippingCountry, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, storeError("list shipping countries", err)
	}
	countries := []models.ShippingCountry{}
	if err := cursor.All(ctx, &countries); err != nil {
		return nil, storeError("decode shipping countries", err)
	}
	return countries, nil
}

func (r *ShippingRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.ShippingCountry, error) {
	var country models.ShippingCountry
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&country); err != nil {
		return nil, lookupError(err, "shipping country")
	}
	return &country, nil
}

func (r *ShippingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ShippingCountry, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindCountryByCode returns the row regardless of isActive.
func (r *ShippingRepository) FindCountryByCode(ctx context.Context, code string) (*models.ShippingCountry, error) {
	return r.findOne(ctx, bson.M{"code": pricing.NormalizeCountryCode(code)})
}

func (r *ShippingRepository) FindDefaultCountry(ctx context.Context) (*models.ShippingCountry, error) {
	return r.findOne(ctx, bson.M{"isDefault": true, "isActive": true})
}

func (r *ShippingRepository) FindAnyActiveCountry(ctx context.Context) (*models.ShippingCountry, error) {
	return r.findOne(ctx, bson.M{"isActive": true}, options.FindOne().SetSort(oldestFirst()))
}

// clearDefault unsets the flag on every row except keep.
func (r *ShippingRepository) clearDefault(ctx context.Context, keep primitive.ObjectID, now time.Time) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"isDefault": true, "_id": bson.M{"$ne": keep}},
		bson.M{"$set": bson.M{"isDefault": false, "updatedAt": now}},
	)
	return err
}

func (r *ShippingRepository) Create(ctx context.Context, country *models.ShippingCountry) error {
	now := r.now().UTC()
	country.ID = primitive.NewObjectID()
	country.Code = pricing.NormalizeCountryCode(country.Code)
	country.CreatedAt = now
	country.UpdatedAt = now

	err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		if country.IsDefault {
			if err := r.clearDefault(sc, country.ID, now); err != nil {
				return err
			}
		}
		_, err := r.coll.InsertOne(sc, country)
		return err
	})
	if err != nil {
		if duplicateOn(err, indexCountryCode) {
			return errDuplicateCountry
		}
		return storeError("insert shipping country", err)
	}
	return nil
}

// Update replaces the editable fields of the row. Promoting a row to default
// demotes the previous one in the same transaction.
func (r *ShippingRepository) Update(ctx context.Context, id primitive.ObjectID, country models.ShippingCountry) (*models.ShippingCountry, error) {
	now := r.now().UTC()
	set := bson.M{
		"name":                country.Name,
		"code":                pricing.NormalizeCountryCode(country.Code),
		"shippingRate":        country.ShippingRate,
		"freeThreshold":       country.FreeThreshold,
		"enableFreeThreshold": country.EnableFreeThreshold,
		"isActive":            country.IsActive,
		"isDefault":           country.IsDefault,
		"updatedAt":           now,
	}

	var updated models.ShippingCountry
	err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		if country.IsDefault {
			if err := r.clearDefault(sc, id, now); err != nil {
				return err
			}
		}
		return r.coll.FindOneAndUpdate(sc, bson.M{"_id": id}, bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
	})
	if err != nil {
		if duplicateOn(err, indexCountryCode) {
			return nil, errDuplicateCountry
		}
		return nil, lookupError(err, "shipping country")
	}
	return &updated, nil
}

// SetDefault makes id the single default row. Inactive rows cannot become
// the default.
func (r *ShippingRepository) SetDefault(ctx context.Context, id primitive.ObjectID) (*models.ShippingCountry, error) {
	now := r.now().UTC()

	var updated models.ShippingCountry
	err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		target, err := r.FindByID(sc, id)
		if err != nil {
			return err
		}
		if !target.IsActive {
			return apperror.Validation("the default country must be active")
		}
		if err := r.clearDefault(sc, id, now); err != nil {
			return err
		}
		err = r.coll.FindOneAndUpdate(sc, bson.M{"_id": id},
			bson.M{"$set": bson.M{"isDefault": true, "updatedAt": now}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			return lookupError(err, "shipping country")
		}
		return nil
	})
	if err != nil {
		return nil, classified("set default country", err)
	}
	return &updated, nil
}

func (r *ShippingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeError("delete shipping country", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("shipping country")
	}
	return nil
}
