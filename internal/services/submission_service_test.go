package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arkadelo/profilehub/internal/feed"
	"github.com/arkadelo/profilehub/internal/models"
	"github.com/arkadelo/profilehub/internal/utils"
)

type fakeSubmissionRepo struct {
	mu      sync.Mutex
	docs    map[string]*models.Submission
	inserts int
	updates int
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{docs: map[string]*models.Submission{}}
}

func (r *fakeSubmissionRepo) Insert(_ context.Context, s *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	cp := *s
	r.docs[s.ID] = &cp
	return nil
}

func (r *fakeSubmissionRepo) Update(_ context.Context, id string, fields models.SubmissionFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return utils.ErrNotFound
	}
	r.updates++
	doc.Name = fields.Name
	doc.Description = fields.Description
	doc.Location = fields.Location
	doc.Email = fields.Email
	doc.Phone = fields.Phone
	if fields.PhotoURL != nil {
		doc.PhotoURL = fields.PhotoURL
	}
	doc.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeSubmissionRepo) Get(_ context.Context, id string) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeSubmissionRepo) ListAll(_ context.Context) ([]models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Submission, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeSubmissionRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Submission
	for _, d := range r.docs {
		if d.UserID == ownerID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

func seed(r *fakeSubmissionRepo, id, owner string, ts time.Time) {
	r.docs[id] = &models.Submission{
		ID:        id,
		UserID:    owner,
		Name:      "n-" + id,
		Timestamp: ts,
		UpdatedAt: ts,
	}
}

var (
	adminCaller = Caller{UID: "boss", Role: models.RoleAdmin}
	userCaller  = Caller{UID: "u1", Role: models.RoleUser}
)

func TestLatestByOwnerEmpty(t *testing.T) {
	svc := NewSubmissionService(newFakeSubmissionRepo(), nil)

	latest, err := svc.LatestByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	require.Nil(t, latest)
}

func TestLatestByOwnerPicksMaxTimestamp(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	// insertion orders permuted; result must not depend on them
	orders := [][]time.Time{
		{t1, t2, t3},
		{t3, t1, t2},
		{t2, t3, t1},
	}
	for _, order := range orders {
		repo := newFakeSubmissionRepo()
		for i, ts := range order {
			seed(repo, []string{"a", "b", "c"}[i], "u1", ts)
		}
		svc := NewSubmissionService(repo, nil)

		latest, err := svc.LatestByOwner(context.Background(), "u1")
		require.NoError(t, err)
		require.NotNil(t, latest)
		require.True(t, latest.Timestamp.Equal(t3))
	}
}

func TestLatestByOwnerZeroTimestampSortsOldest(t *testing.T) {
	repo := newFakeSubmissionRepo()
	seed(repo, "zero", "u1", time.Time{})
	seed(repo, "real", "u1", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	svc := NewSubmissionService(repo, nil)

	latest, err := svc.LatestByOwner(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "real", latest.ID)
}

func TestListAllRequiresAdmin(t *testing.T) {
	repo := newFakeSubmissionRepo()
	seed(repo, "s1", "u1", time.Now())
	svc := NewSubmissionService(repo, nil)

	_, err := svc.ListAll(context.Background(), userCaller)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.CodeForbidden))

	out, err := svc.ListAll(context.Background(), adminCaller)
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestCreateAppendsIndependentRecords(t *testing.T) {
	repo := newFakeSubmissionRepo()
	hub := feed.NewHub()
	events, unsub := hub.Subscribe()
	defer unsub()

	svc := NewSubmissionService(repo, hub)

	fields := models.SubmissionFields{Name: "A", Description: "d", Location: "Paris", Email: "a@x.io"}
	id1, err := svc.Create(context.Background(), "u1", fields)
	require.NoError(t, err)
	id2, err := svc.Create(context.Background(), "u1", fields)
	require.NoError(t, err)

	require.NotEqual(t, id1, id2)
	require.Equal(t, 2, repo.count())

	// feed saw both creations
	require.Equal(t, id1, (<-events).ID)
	require.Equal(t, id2, (<-events).ID)
}

func TestUpdateMissingRecordPropagates(t *testing.T) {
	svc := NewSubmissionService(newFakeSubmissionRepo(), nil)

	err := svc.Update(context.Background(), "u1", "ghost", models.SubmissionFields{})
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestUpdateRejectsForeignOwner(t *testing.T) {
	repo := newFakeSubmissionRepo()
	seed(repo, "s1", "u1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	svc := NewSubmissionService(repo, nil)

	err := svc.Update(context.Background(), "u2", "s1", models.SubmissionFields{
		Name: "hijacked", Description: "d", Location: "x", Email: "b@x.io",
	})
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.CodeForbidden))

	// the record is untouched
	got, err := repo.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, "n-s1", got.Name)
	require.Equal(t, 0, repo.updates)
}

func TestUpdateModifiesExactlyOneRecord(t *testing.T) {
	repo := newFakeSubmissionRepo()
	seed(repo, "s1", "u1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	svc := NewSubmissionService(repo, nil)

	err := svc.Update(context.Background(), "u1", "s1", models.SubmissionFields{
		Name: "A", Description: "d", Location: "Lyon", Email: "a@x.io",
	})
	require.NoError(t, err)

	require.Equal(t, 1, repo.count())
	require.Equal(t, 0, repo.inserts)
	require.Equal(t, 1, repo.updates)

	got, err := svc.(*submissionService).subs.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, "Lyon", got.Location)
	require.True(t, got.UpdatedAt.After(got.Timestamp))
}

func TestListByOwnerFilters(t *testing.T) {
	repo := newFakeSubmissionRepo()
	seed(repo, "s1", "u1", time.Now())
	seed(repo, "s2", "u2", time.Now())
	svc := NewSubmissionService(repo, nil)

	out, err := svc.ListByOwner(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "u1", out[0].UserID)
}
