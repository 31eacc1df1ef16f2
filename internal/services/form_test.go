package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	redisclient "github.com/coverbridge/intake-backend/internal/clients/redis"
	"github.com/coverbridge/intake-backend/internal/extraction"
	"github.com/coverbridge/intake-backend/internal/schema"
	"github.com/coverbridge/intake-backend/internal/types"
)

type memSubmissionRepo struct {
	sub     *types.FormSubmission
	updates int
}

func (r *memSubmissionRepo) Create(ctx context.Context, tx *gorm.DB, submission *types.FormSubmission) (*types.FormSubmission, error) {
	r.sub = submission
	return submission, nil
}

func (r *memSubmissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.FormSubmission, error) {
	if r.sub == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r.sub
	return &copied, nil
}

func (r *memSubmissionRepo) Update(ctx context.Context, tx *gorm.DB, submission *types.FormSubmission) (*types.FormSubmission, error) {
	r.updates++
	copied := *submission
	r.sub = &copied
	return submission, nil
}

func (r *memSubmissionRepo) ListByCompanyID(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.FormSubmission, error) {
	return nil, nil
}

type memDraftCache struct {
	entries map[string][]byte
}

func newMemDraftCache() *memDraftCache {
	return &memDraftCache{entries: map[string][]byte{}}
}

func (c *memDraftCache) Put(ctx context.Context, submissionID string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	c.entries[submissionID] = raw
	return nil
}

func (c *memDraftCache) Get(ctx context.Context, submissionID string, out any) (bool, error) {
	raw, ok := c.entries[submissionID]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (c *memDraftCache) Delete(ctx context.Context, submissionID string) error {
	delete(c.entries, submissionID)
	return nil
}

func (c *memDraftCache) Close() error { return nil }

func seededFormService(t *testing.T, status string, cache *memDraftCache) (FormService, *memSubmissionRepo, uuid.UUID) {
	t.Helper()

	fields, err := json.Marshal(extraction.FieldMap{"dba": "Old Name"})
	if err != nil {
		t.Fatalf("marshal fields: %v", err)
	}
	repo := &memSubmissionRepo{sub: &types.FormSubmission{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		Status:    status,
		Fields:    datatypes.JSON(fields),
	}}

	var drafts redisclient.DraftCache
	if cache != nil {
		drafts = cache
	}
	pipeline := extraction.NewPipeline(testLogger(), schema.ACORD125, nil)
	svc := NewFormService(nil, testLogger(), pipeline, nil, repo, nil, drafts, "test-model")
	return svc, repo, repo.sub.ID
}

func TestUpdateField_NonDraftEditPersistsAndStaysVisible(t *testing.T) {
	cache := newMemDraftCache()
	svc, repo, id := seededFormService(t, types.SubmissionStatusSubmitted, cache)

	state, err := svc.UpdateField(context.Background(), id, "dba", "New Name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Fields["dba"] != "New Name" {
		t.Fatalf("expected acknowledged edit, got %v", state.Fields["dba"])
	}
	if repo.updates == 0 {
		t.Fatalf("expected edit written to the store, got no updates")
	}
	if len(cache.entries) != 0 {
		t.Fatalf("expected no cache entry for a non-draft submission, got %d", len(cache.entries))
	}

	got, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Fields["dba"] != "New Name" {
		t.Fatalf("expected edit visible on next read, got %v", got.Fields["dba"])
	}
}

func TestUpdateField_DraftEditGoesThroughCache(t *testing.T) {
	cache := newMemDraftCache()
	svc, repo, id := seededFormService(t, types.SubmissionStatusDraft, cache)

	if _, err := svc.UpdateField(context.Background(), id, "dba", "New Name"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.updates != 0 {
		t.Fatalf("expected draft edit cached, got %d store updates", repo.updates)
	}
	if len(cache.entries) != 1 {
		t.Fatalf("expected one cache entry, got %d", len(cache.entries))
	}

	got, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Fields["dba"] != "New Name" {
		t.Fatalf("expected cached draft visible on read, got %v", got.Fields["dba"])
	}
}

func TestUpdateField_MissingCacheFallsBackToStore(t *testing.T) {
	svc, repo, id := seededFormService(t, types.SubmissionStatusDraft, nil)

	if _, err := svc.UpdateField(context.Background(), id, "dba", "New Name"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.updates == 0 {
		t.Fatalf("expected edit persisted without a cache")
	}
}
