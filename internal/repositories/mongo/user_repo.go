package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arkadelo/profilehub/internal/models"
	"github.com/arkadelo/profilehub/internal/utils"
)

type UserRepository interface {
	Get(ctx context.Context, uid string) (*models.UserRecord, error)
	Merge(ctx context.Context, uid string, fields models.UserProfileFields) error
	Init(ctx context.Context, uid string, email, displayName string, photoURL *string) error
	SetRole(ctx context.Context, uid string, role models.UserRole) error
}

type userRepo struct {
	col *mongo.Collection
}

func NewUserRepo(db *mongo.Database) UserRepository {
	return &userRepo{col: db.Collection("users")}
}

func (r *userRepo) Get(ctx context.Context, uid string) (*models.UserRecord, error) {
	var u models.UserRecord
	err := r.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &u, err
}

// Merge applies a partial $set with upsert, refreshing updated_at.
// Role is never part of the set: only SetRole may change it.
func (r *userRepo) Merge(ctx context.Context, uid string, fields models.UserProfileFields) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if fields.Email != nil {
		set["email"] = *fields.Email
	}
	if fields.DisplayName != nil {
		set["display_name"] = *fields.DisplayName
	}
	if fields.PhotoURL != nil {
		set["photo_url"] = *fields.PhotoURL
	}
	if fields.Phone != nil {
		set["phone"] = *fields.Phone
	}
	if fields.Location != nil {
		set["location"] = *fields.Location
	}

	now := time.Now().UTC()
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"role": models.RoleUser, "created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// Init is the first-sign-in record creation: idempotent, and it never
// rewrites role or created_at on a document that already exists.
func (r *userRepo) Init(ctx context.Context, uid string, email, displayName string, photoURL *string) error {
	now := time.Now().UTC()
	set := bson.M{
		"email":        email,
		"display_name": displayName,
		"updated_at":   now,
	}
	if photoURL != nil {
		set["photo_url"] = *photoURL
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"role": models.RoleUser, "created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *userRepo) SetRole(ctx context.Context, uid string, role models.UserRole) error {
	if !models.ValidRole(string(role)) {
		return utils.E(utils.CodeInvalidArgument, "UserRepository.SetRole", "role must be admin or user", nil)
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
