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

type ContentRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewContentRepository(db *mongo.Database) *ContentRepository {
	return &ContentRepository{coll: db.Collection(contentCollection), now: time.Now}
}

func (r *ContentRepository) List(ctx context.Context) ([]models.ContentBlock, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "key", Value: 1}}))
	if err != nil {
		return nil, storeError("list content", err)
	}
	blocks := []models.ContentBlock{}
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, storeError("decode content", err)
	}
	return blocks, nil
}

// FindActive returns the block for key only while it is active.
func (r *ContentRepository) FindActive(ctx context.Context, key string) (*models.ContentBlock, error) {
	var block models.ContentBlock
	err := r.coll.FindOne(ctx, bson.M{"key": strings.TrimSpace(key), "isActive": true}).Decode(&block)
	if err != nil {
		return nil, lookupError(err, "content block")
	}
	return &block, nil
}

func (r *ContentRepository) Upsert(ctx context.Context, block models.ContentBlock) (*models.ContentBlock, error) {
	key := strings.TrimSpace(block.Key)
	var saved models.ContentBlock
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{
			"key":       key,
			"title":     block.Title,
			"body":      block.Body,
			"imageUrl":  block.ImageURL,
			"linkUrl":   block.LinkURL,
			"isActive":  block.IsActive,
			"updatedAt": r.now().UTC(),
		}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&saved)
	if err != nil {
		return nil, storeError("upsert content", err)
	}
	return &saved, nil
}

func (r *ContentRepository) Delete(ctx context.Context, key string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"key": strings.TrimSpace(key)})
	if err != nil {
		return storeError("delete content", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("content block")
	}
	return nil
}
