package database

import (
	"context"
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

type ProductRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(productsCollection), now: time.Now}
}

// productFilter always hides soft-deleted rows.
func productFilter(f models.ProductFilter) bson.M {
	filter := bson.M{"isDeleted": bson.M{"$ne": true}}

	if category := strings.TrimSpace(f.Category); category != "" {
		filter["category"] = category
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"material": pattern},
		}
	}
	if f.Featured != nil {
		filter["featured"] = *f.Featured
	}
	if f.NewArrival != nil {
		filter["newArrival"] = *f.NewArrival
	}
	if f.InStock != nil {
		filter["inStock"] = *f.InStock
	}

	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	return filter
}

func productSort(sort models.ProductSort) bson.D {
	switch sort {
	case models.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	}
}

// List returns one page of matching products and the total match count.
func (r *ProductRepository) List(ctx context.Context, f models.ProductFilter) ([]models.Product, int64, error) {
	filter := productFilter(f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, storeError("count products", err)
	}

	findOptions := options.Find().SetSort(productSort(f.Sort))
	if skip, limit := pageOptions(f.Page, f.Limit); limit > 0 {
		findOptions.SetSkip(skip).SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, storeError("list products", err)
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, storeError("decode products", err)
	}
	return products, total, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}}).Decode(&product)
	if err != nil {
		return nil, lookupError(err, "product")
	}
	return &product, nil
}

// FindProductsByIDs returns the live products among ids. Missing ids are
// simply absent from the result.
func (r *ProductRepository) FindProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{
		"_id":       bson.M{"$in": ids},
		"isDeleted": bson.M{"$ne": true},
	})
	if err != nil {
		return nil, storeError("find products", err)
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, storeError("decode products", err)
	}
	return products, nil
}

// Sample draws up to size random in-stock products, skipping exclude.
func (r *ProductRepository) Sample(ctx context.Context, size int64, exclude []primitive.ObjectID) ([]models.Product, error) {
	match := bson.M{"isDeleted": bson.M{"$ne": true}, "inStock": true}
	if len(exclude) > 0 {
		match["_id"] = bson.M{"$nin": exclude}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sample", Value: bson.M{"size": size}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storeError("sample products", err)
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, storeError("decode products", err)
	}
	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := r.now().UTC()
	product.ID = primitive.NilObjectID
	product.IsDeleted = false
	product.DeletedAt = nil
	product.CreatedAt = now
	product.UpdatedAt = now
	product.Images = models.NewStringList(product.Images)
	product.Sizes = models.NewStringList(product.Sizes)
	product.Colors = models.NewStringList(product.Colors)

	res, err := r.coll.InsertOne(ctx, product)
	if err != nil {
		return storeError("insert product", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	return nil
}

func productUpdate(ch models.ProductChanges, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if ch.Name != nil {
		set["name"] = strings.TrimSpace(*ch.Name)
	}
	if ch.Price != nil {
		set["price"] = *ch.Price
	}
	if ch.Description != nil {
		set["description"] = strings.TrimSpace(*ch.Description)
	}
	if ch.Category != nil {
		set["category"] = strings.TrimSpace(*ch.Category)
	}
	if ch.Images != nil {
		set["images"] = models.NewStringList(*ch.Images)
	}
	if ch.InStock != nil {
		set["inStock"] = *ch.InStock
	}
	if ch.Featured != nil {
		set["featured"] = *ch.Featured
	}
	if ch.NewArrival != nil {
		set["newArrival"] = *ch.NewArrival
	}
	if ch.Sizes != nil {
		set["sizes"] = models.NewStringList(*ch.Sizes)
	}
	if ch.Colors != nil {
		set["colors"] = models.NewStringList(*ch.Colors)
	}
	if ch.Material != nil {
		set["material"] = strings.TrimSpace(*ch.Material)
	}
	return bson.M{"$set": set}
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, ch models.ProductChanges) (*models.Product, error) {
	var product models.Product
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
		productUpdate(ch, r.now().UTC()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err != nil {
		return nil, lookupError(err, "product")
	}
	return &product, nil
}

// SoftDelete hides the product from every listing. Orders keep their
// snapshot of it.
func (r *ProductRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	now := r.now().UTC()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"isDeleted": true, "deletedAt": now, "updatedAt": now}},
	)
	if err != nil {
		return storeError("delete product", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("product")
	}
	return nil
}
