package database

import (
	"context"
	"log"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/apperror"
	"storefront/internal/models"
)

// maxNumberAttempts bounds the retries on an order number collision.
const maxNumberAttempts = 5

var errIdempotencyReplay = apperror.New(apperror.KindConflict, apperror.CodeIdempotencyReplay,
	"an order was already placed with this idempotency key")

// Redeemer commits a discount usage inside the caller's transaction.
type Redeemer interface {
	Redeem(ctx context.Context, red models.DiscountRedemption) error
}

type OrderRepository struct {
	client    *mongo.Client
	coll      *mongo.Collection
	discounts Redeemer
}

func NewOrderRepository(db *mongo.Database, discounts Redeemer) *OrderRepository {
	return &OrderRepository{
		client:    db.Client(),
		coll:      db.Collection(ordersCollection),
		discounts: discounts,
	}
}

// PlaceOrder inserts order together with its discount redemption in one
// transaction. A clash on the order number is retried with a fresh number;
// a clash on the idempotency key is reported as a replay.
func (r *OrderRepository) PlaceOrder(ctx context.Context, order *models.Order, redemption *models.DiscountRedemption, nextNumber func() (string, error)) error {
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		number, err := nextNumber()
		if err != nil {
			return apperror.Persistence("generate order number", err)
		}
		order.OrderNumber = number
		order.ID = primitive.NewObjectID()

		err = withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
			if redemption != nil {
				if err := r.discounts.Redeem(sc, *redemption); err != nil {
					return err
				}
			}
			_, err := r.coll.InsertOne(sc, order)
			return err
		})

		switch {
		case err == nil:
			return nil
		case duplicateOn(err, indexOrderNumber):
			log.Printf("[ORDER] [WARN] order number %s collided, attempt %d/%d", number, attempt, maxNumberAttempts)
			continue
		case order.IdempotencyKey != "" && duplicateOn(err, indexIdempotencyKey):
			return errIdempotencyReplay
		default:
			order.ID = primitive.NilObjectID
			return classified("insert order", err)
		}
	}

	order.ID = primitive.NilObjectID
	log.Printf("[ORDER] [ERROR] no unique order number after %d attempts", maxNumberAttempts)
	return apperror.Persistence("could not allocate a unique order number", nil)
}

func (r *OrderRepository) FindOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, lookupError(err, "order")
	}
	return &order, nil
}

func (r *OrderRepository) FindOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"idempotencyKey": key}).Decode(&order); err != nil {
		return nil, lookupError(err, "order")
	}
	return &order, nil
}

func orderFilter(f models.OrderFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.PaymentStatus != "" {
		filter["paymentStatus"] = f.PaymentStatus
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"orderNumber": pattern},
			bson.M{"customer.name": pattern},
			bson.M{"customer.email": pattern},
			bson.M{"customer.phone": pattern},
		}
	}
	return filter
}

// List returns one page of orders, newest first, and the total match count.
func (r *OrderRepository) List(ctx context.Context, f models.OrderFilter) ([]models.Order, int64, error) {
	filter := orderFilter(f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, storeError("count orders", err)
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if skip, limit := pageOptions(f.Page, f.Limit); limit > 0 {
		findOptions.SetSkip(skip).SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, storeError("list orders", err)
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, storeError("decode orders", err)
	}
	return orders, total, nil
}

// SetOrderStatus moves the order from -> to only if it is still in from.
// The boolean is false when another writer got there first.
func (r *OrderRepository) SetOrderStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus, at time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": at}},
	)
	if err != nil {
		return false, storeError("update order status", err)
	}
	return res.MatchedCount == 1, nil
}

func (r *OrderRepository) SetPaymentStatus(ctx context.Context, id primitive.ObjectID, from, to models.PaymentStatus, at time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "paymentStatus": from},
		bson.M{"$set": bson.M{"paymentStatus": to, "updatedAt": at}},
	)
	if err != nil {
		return false, storeError("update payment status", err)
	}
	return res.MatchedCount == 1, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeError("delete order", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("order")
	}
	return nil
}
