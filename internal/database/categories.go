package database

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/apperror"
	"storefront/internal/models"
)

type CategoryRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{coll: db.Collection(categoriesCollection), now: time.Now}
}

var errDuplicateSlug = apperror.New(apperror.KindConflict, apperror.CodeDuplicate, "category slug already exists")

// Slugify lowercases name and joins its words with dashes.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, storeError("list categories", err)
	}
	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, storeError("decode categories", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	category.ID = primitive.NilObjectID
	category.Name = strings.TrimSpace(category.Name)
	if category.Slug = Slugify(category.Slug); category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}
	category.CreatedAt = r.now().UTC()

	res, err := r.coll.InsertOne(ctx, category)
	if err != nil {
		if duplicateOn(err, indexCategorySlug) {
			return errDuplicateSlug
		}
		return storeError("insert category", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		category.ID = oid
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, id primitive.ObjectID, name *string, isActive *bool) (*models.Category, error) {
	set := bson.M{}
	if name != nil {
		set["name"] = strings.TrimSpace(*name)
		set["slug"] = Slugify(*name)
	}
	if isActive != nil {
		set["isActive"] = *isActive
	}
	if len(set) == 0 {
		return nil, apperror.Validation("nothing to update")
	}

	var category models.Category
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&category)
	if err != nil {
		if duplicateOn(err, indexCategorySlug) {
			return nil, errDuplicateSlug
		}
		return nil, lookupError(err, "category")
	}
	return &category, nil
}

// Deactivate hides a category from the storefront without breaking products
// that still reference it.
func (r *CategoryRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": false}})
	if err != nil {
		return storeError("deactivate category", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("category")
	}
	return nil
}
