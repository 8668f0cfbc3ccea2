package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/arkadelo/profilehub/internal/feed"
	"github.com/arkadelo/profilehub/internal/models"
	mongorepo "github.com/arkadelo/profilehub/internal/repositories/mongo"
	"github.com/arkadelo/profilehub/internal/utils"
)

type SubmissionService interface {
	Create(ctx context.Context, ownerID string, fields models.SubmissionFields) (string, error)
	Update(ctx context.Context, ownerID string, id string, fields models.SubmissionFields) error
	ListAll(ctx context.Context, caller Caller) ([]models.Submission, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Submission, error)
	LatestByOwner(ctx context.Context, ownerID string) (*models.Submission, error)
}

type submissionService struct {
	subs mongorepo.SubmissionRepository
	hub  *feed.Hub
}

func NewSubmissionService(subs mongorepo.SubmissionRepository, hub *feed.Hub) SubmissionService {
	return &submissionService{subs: subs, hub: hub}
}

// Create always appends a fresh record. No uniqueness or rate limit:
// repeated calls from the same owner produce independent records.
func (s *submissionService) Create(ctx context.Context, ownerID string, fields models.SubmissionFields) (string, error) {
	const op = "SubmissionService.Create"

	if ownerID == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "owner id is required", nil)
	}

	now := time.Now().UTC()
	sub := &models.Submission{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Name:        fields.Name,
		Description: fields.Description,
		Location:    fields.Location,
		Email:       fields.Email,
		Phone:       fields.Phone,
		PhotoURL:    fields.PhotoURL,
		Timestamp:   now,
		UpdatedAt:   now,
	}
	if err := s.subs.Insert(ctx, sub); err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to create submission", err)
	}

	if s.hub != nil {
		s.hub.Publish(*sub)
	}
	return sub.ID, nil
}

// Update rewrites an existing record. The store has no per-collection
// rules, so ownership is enforced here: only the record's owner may
// touch it.
func (s *submissionService) Update(ctx context.Context, ownerID string, id string, fields models.SubmissionFields) error {
	const op = "SubmissionService.Update"

	if ownerID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "owner id is required", nil)
	}
	if id == "" {
		return utils.E(utils.CodeInvalidArgument, op, "submission id is required", nil)
	}

	existing, err := s.subs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "submission not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to load submission", err)
	}
	if existing.UserID != ownerID {
		return utils.E(utils.CodeForbidden, op, "submission belongs to another user", nil)
	}

	if err := s.subs.Update(ctx, id, fields); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "submission not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to update submission", err)
	}
	return nil
}

// ListAll enforces the admin capability at the service boundary; the
// route guard upstream is not the trust boundary.
func (s *submissionService) ListAll(ctx context.Context, caller Caller) ([]models.Submission, error) {
	const op = "SubmissionService.ListAll"

	if !caller.Admin() {
		return nil, utils.E(utils.CodeForbidden, op, "admin privileges required", nil)
	}

	out, err := s.subs.ListAll(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list submissions", err)
	}
	return out, nil
}

func (s *submissionService) ListByOwner(ctx context.Context, ownerID string) ([]models.Submission, error) {
	const op = "SubmissionService.ListByOwner"

	if ownerID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner id is required", nil)
	}

	out, err := s.subs.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list submissions", err)
	}
	return out, nil
}

// LatestByOwner scans the owner's records client-side and keeps the
// maximum timestamp; a record with a zero timestamp sorts as oldest.
// Returns nil without error when the owner has no records.
func (s *submissionService) LatestByOwner(ctx context.Context, ownerID string) (*models.Submission, error) {
	subs, err := s.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, nil
	}

	latest := subs[0]
	for _, cand := range subs[1:] {
		if cand.Timestamp.After(latest.Timestamp) {
			latest = cand
		}
	}
	return &latest, nil
}
