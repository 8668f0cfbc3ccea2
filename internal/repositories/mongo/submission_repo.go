package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/arkadelo/profilehub/internal/models"
	"github.com/arkadelo/profilehub/internal/utils"
)

type SubmissionRepository interface {
	Insert(ctx context.Context, s *models.Submission) error
	Update(ctx context.Context, id string, fields models.SubmissionFields) error
	Get(ctx context.Context, id string) (*models.Submission, error)
	ListAll(ctx context.Context) ([]models.Submission, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Submission, error)
}

type submissionRepo struct {
	col *mongo.Collection
}

func NewSubmissionRepo(db *mongo.Database) SubmissionRepository {
	return &submissionRepo{col: db.Collection("submissions")}
}

func (r *submissionRepo) Insert(ctx context.Context, s *models.Submission) error {
	now := time.Now().UTC()
	if s.Timestamp.IsZero() {
		s.Timestamp = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

// Update merges fields into an existing document and refreshes
// updated_at. A missing document is an error, not an upsert.
func (r *submissionRepo) Update(ctx context.Context, id string, fields models.SubmissionFields) error {
	set := bson.M{
		"name":        fields.Name,
		"description": fields.Description,
		"location":    fields.Location,
		"email":       fields.Email,
		"phone":       fields.Phone,
		"updated_at":  time.Now().UTC(),
	}
	if fields.PhotoURL != nil {
		set["photo_url"] = *fields.PhotoURL
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *submissionRepo) Get(ctx context.Context, id string) (*models.Submission, error) {
	var s models.Submission
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *submissionRepo) ListAll(ctx context.Context) ([]models.Submission, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Submission
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *submissionRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Submission, error) {
	cur, err := r.col.Find(ctx, bson.M{"user_id": ownerID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Submission
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
