package memory

import (
	"context"
	"testing"
	"time"

	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJobSearchIsCaseInsensitiveAndNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepo(NewStore())

	backend := &models.Job{Title: "Backend Engineer", Description: "Go services"}
	frontend := &models.Job{Title: "Frontend Designer", Description: "CSS and layouts"}
	platform := &models.Job{Title: "Platform", Description: "Owns the BACKEND fleet"}
	for _, j := range []*models.Job{backend, frontend, platform} {
		if err := repo.Create(ctx, j); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.Search(ctx, "back")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].ID != platform.ID || got[1].ID != backend.ID {
		t.Fatalf("expected newest first, got %q then %q", got[0].Title, got[1].Title)
	}

	all, _ := repo.Search(ctx, "")
	if len(all) != 3 {
		t.Fatalf("empty keyword should match all, got %d", len(all))
	}
}

func TestCompanyNameUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewCompanyRepo(NewStore())
	owner := primitive.NewObjectID()

	if err := repo.Create(ctx, &models.Company{Name: "Acme", UserID: owner}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &models.Company{Name: "Acme", UserID: owner}); err != utils.ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// case-sensitive
	if err := repo.Create(ctx, &models.Company{Name: "acme", UserID: owner}); err != nil {
		t.Fatalf("different case should be allowed: %v", err)
	}
}

func TestApplicationUpdateStatusOverwritesInterview(t *testing.T) {
	ctx := context.Background()
	repo := NewApplicationRepo(NewStore())

	a := &models.Application{JobID: primitive.NewObjectID(), ApplicantID: primitive.NewObjectID(), Status: models.StatusPending}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	first := &models.InterviewDetails{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Time: "10:00", Location: "HQ"}
	if _, err := repo.UpdateStatus(ctx, a.ID, "", models.StatusAccepted, first, time.Now()); err != nil {
		t.Fatalf("update: %v", err)
	}
	second := &models.InterviewDetails{Date: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)}
	got, err := repo.UpdateStatus(ctx, a.ID, "", models.StatusAccepted, second, time.Now())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.InterviewDetails.Time != "" || got.InterviewDetails.Location != "" {
		t.Fatalf("old interview fields leaked: %+v", got.InterviewDetails)
	}

	// caller mutation must not reach the store
	second.Location = "changed"
	stored, _ := repo.GetByID(ctx, a.ID)
	if stored.InterviewDetails.Location != "" {
		t.Fatalf("store aliases caller memory")
	}

	if _, err := repo.UpdateStatus(ctx, primitive.NewObjectID(), "", models.StatusRejected, nil, time.Now()); err != utils.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplicationCreateRejectsDuplicateKey(t *testing.T) {
	ctx := context.Background()
	repo := NewApplicationRepo(NewStore())
	job, applicant := primitive.NewObjectID(), primitive.NewObjectID()
	key := models.ApplicationDedupKey(job, applicant)

	if err := repo.Create(ctx, &models.Application{JobID: job, ApplicantID: applicant, DedupKey: key}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &models.Application{JobID: job, ApplicantID: applicant, DedupKey: key}); err != utils.ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// rows without a key are never deduplicated
	for i := 0; i < 2; i++ {
		if err := repo.Create(ctx, &models.Application{JobID: job, ApplicantID: applicant}); err != nil {
			t.Fatalf("create without key: %v", err)
		}
	}
	got, _ := repo.ListByJob(ctx, job)
	if len(got) != 3 {
		t.Fatalf("expected 3 applications, got %d", len(got))
	}
}

func TestApplicationUpdateStatusConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewApplicationRepo(NewStore())

	a := &models.Application{JobID: primitive.NewObjectID(), ApplicantID: primitive.NewObjectID(), Status: models.StatusPending}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.UpdateStatus(ctx, a.ID, models.StatusPending, models.StatusAccepted, nil, time.Now()); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := repo.UpdateStatus(ctx, a.ID, models.StatusPending, models.StatusRejected, nil, time.Now()); err != utils.ErrStale {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	stored, _ := repo.GetByID(ctx, a.ID)
	if stored.Status != models.StatusAccepted {
		t.Fatalf("stale write landed: %s", stored.Status)
	}
}
