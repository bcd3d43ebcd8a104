package database

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
)

type AdminRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{coll: db.Collection(adminsCollection), now: time.Now}
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&admin)
	if err != nil {
		return nil, lookupError(err, "admin")
	}
	return &admin, nil
}

// EnsureSeedAdmin creates the initial admin when no account with email
// exists yet. It is a no-op when either credential is empty.
func (r *AdminRepository) EnsureSeedAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		log.Println("[ADMIN] [WARN] ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	err := r.coll.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return storeError("find seed admin", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.Admin{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		CreatedAt:    r.now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, admin); err != nil {
		if duplicateOn(err, indexAdminEmail) {
			return nil
		}
		return storeError("insert seed admin", err)
	}
	log.Printf("[ADMIN] [INFO] seeded admin %s", email)
	return nil
}
