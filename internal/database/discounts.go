package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/apperror"
	"storefront/internal/models"
	"storefront/internal/pricing"
)

type DiscountRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewDiscountRepository(db *mongo.Database) *DiscountRepository {
	return &DiscountRepository{coll: db.Collection(discountsCollection), now: time.Now}
}

var errDuplicateDiscount = apperror.New(apperror.KindConflict, apperror.CodeDuplicate, "discount code already exists")

func (r *DiscountRepository) List(ctx context.Context) ([]models.DiscountCode, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, storeError("list discounts", err)
	}
	discounts := []models.DiscountCode{}
	if err := cursor.All(ctx, &discounts); err != nil {
		return nil, storeError("decode discounts", err)
	}
	return discounts, nil
}

func (r *DiscountRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DiscountCode, error) {
	var d models.DiscountCode
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, lookupError(err, "discount code")
	}
	return &d, nil
}

func (r *DiscountRepository) FindDiscountByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	var d models.DiscountCode
	if err := r.coll.FindOne(ctx, bson.M{"code": pricing.NormalizeCode(code)}).Decode(&d); err != nil {
		return nil, lookupError(err, "discount code")
	}
	return &d, nil
}

func (r *DiscountRepository) Create(ctx context.Context, d *models.DiscountCode) error {
	now := r.now().UTC()
	d.ID = primitive.NilObjectID
	d.Code = pricing.NormalizeCode(d.Code)
	d.UsedCount = 0
	d.CreatedAt = now
	d.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, d)
	if err != nil {
		if duplicateOn(err, indexDiscountCode) {
			return errDuplicateDiscount
		}
		return storeError("insert discount", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid
	}
	return nil
}

func discountUpdate(ch models.DiscountChanges, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if ch.Type != nil {
		set["type"] = *ch.Type
	}
	if ch.Value != nil {
		set["value"] = *ch.Value
	}
	if ch.MinOrderAmount != nil {
		set["minOrderAmount"] = *ch.MinOrderAmount
	}
	if ch.MaxUses != nil {
		set["maxUses"] = *ch.MaxUses
	}
	if ch.ExpiresAt != nil {
		set["expiresAt"] = *ch.ExpiresAt
	}
	if ch.IsActive != nil {
		set["isActive"] = *ch.IsActive
	}
	return bson.M{"$set": set}
}

// discountUpdateFilter refuses a new limit that usage has already passed,
// even when a redemption lands between the caller's read and this write.
func discountUpdateFilter(id primitive.ObjectID, ch models.DiscountChanges) bson.M {
	filter := bson.M{"_id": id}
	if ch.MaxUses != nil && *ch.MaxUses > 0 {
		filter["$expr"] = bson.M{"$lte": bson.A{"$usedCount", *ch.MaxUses}}
	}
	return filter
}

// Update never touches code or usedCount.
func (r *DiscountRepository) Update(ctx context.Context, id primitive.ObjectID, ch models.DiscountChanges) (*models.DiscountCode, error) {
	var d models.DiscountCode
	err := r.coll.FindOneAndUpdate(ctx, discountUpdateFilter(id, ch), discountUpdate(ch, r.now().UTC()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) || ch.MaxUses == nil {
		return nil, lookupError(err, "discount code")
	}
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, pricing.ErrMaxUsesBelowUsed
}

func (r *DiscountRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeError("delete discount", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("discount code")
	}
	return nil
}

// redeemFilter matches the code only while every redemption rule still
// holds for the given subtotal and instant.
func redeemFilter(red models.DiscountRedemption) bson.M {
	return bson.M{
		"code":           pricing.NormalizeCode(red.Code),
		"isActive":       true,
		"minOrderAmount": bson.M{"$lte": red.Subtotal},
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"expiresAt": nil},
				bson.M{"expiresAt": bson.M{"$gte": red.At}},
			}},
			bson.M{"$or": bson.A{
				bson.M{"maxUses": bson.M{"$lte": 0}},
				bson.M{"$expr": bson.M{"$lt": bson.A{"$usedCount", "$maxUses"}}},
			}},
		},
	}
}

// Redeem increments usedCount by one if the code is still redeemable. Run it
// with the order insert's session context so both commit together. When no
// document matches, the rejection is classified from a fresh read.
func (r *DiscountRepository) Redeem(ctx context.Context, red models.DiscountRedemption) error {
	res, err := r.coll.UpdateOne(ctx, redeemFilter(red), bson.M{
		"$inc": bson.M{"usedCount": 1},
		"$set": bson.M{"updatedAt": red.At},
	})
	if err != nil {
		return storeError("redeem discount", err)
	}
	if res.ModifiedCount == 1 {
		return nil
	}

	d, err := r.FindDiscountByCode(ctx, red.Code)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return pricing.ErrDiscountNotFound
		}
		return err
	}
	if _, err := pricing.EvaluateDiscount(d, pricing.Dec(red.Subtotal), red.At); err != nil {
		return err
	}
	return pricing.ErrDiscountUsesExhausted
}
