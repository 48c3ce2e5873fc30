package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
	"github.com/hirehub/jobportal/internal/utils"
)

func TestPostJobValidation(t *testing.T) {
	f := newFixture(t, ApplicationPolicy{})
	ctx := context.Background()
	r := f.register(t, "rita@example.com", models.RoleRecruiter)
	other := f.register(t, "otto@example.com", models.RoleRecruiter)
	c := f.company(t, r, "Acme")

	missing := jobInput(c.ID.Hex(), "Engineer", "")
	if _, err := f.jobs.Post(ctx, r.ID.Hex(), missing); appMessage(err) != "Something is missing." {
		t.Fatalf("expected missing error, got %v", err)
	}

	noSalary := jobInput(c.ID.Hex(), "Engineer", "Build")
	noSalary.Salary = nil
	if _, err := f.jobs.Post(ctx, r.ID.Hex(), noSalary); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	zero := 0
	noSeats := jobInput(c.ID.Hex(), "Engineer", "Build")
	noSeats.Position = &zero
	if _, err := f.jobs.Post(ctx, r.ID.Hex(), noSeats); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected invalid argument for position 0, got %v", err)
	}

	if _, err := f.jobs.Post(ctx, other.ID.Hex(), jobInput(c.ID.Hex(), "Engineer", "Build")); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("expected forbidden for foreign company, got %v", err)
	}

	j := f.job(t, r, c, "Engineer", "Build")
	if strings.Join(j.Requirements, ",") != "Go,SQL" {
		t.Fatalf("requirements = %v", j.Requirements)
	}
}

func TestListJobsKeyword(t *testing.T) {
	f := newFixture(t, ApplicationPolicy{})
	ctx := context.Background()
	r := f.register(t, "rita@example.com", models.RoleRecruiter)
	c := f.company(t, r, "Acme")
	f.job(t, r, c, "Backend Engineer", "APIs in Go")
	f.job(t, r, c, "Frontend Designer", "Pixels")

	for _, kw := range []string{"back", "BACK", "Back"} {
		got, err := f.jobs.List(ctx, kw)
		if err != nil {
			t.Fatalf("list %q: %v", kw, err)
		}
		if len(got) != 1 || got[0].Title != "Backend Engineer" {
			t.Fatalf("list %q = %+v", kw, got)
		}
		if got[0].Company == nil || got[0].Company.Name != "Acme" {
			t.Fatalf("company not populated: %+v", got[0].Company)
		}
	}

	all, err := f.jobs.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 || all[0].Title != "Frontend Designer" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	none, err := f.jobs.List(ctx, "(.*")
	if err != nil {
		t.Fatalf("metacharacters: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no match, got %d", len(none))
	}
}

func TestJobListCacheInvalidation(t *testing.T) {
	f := newFixture(t, ApplicationPolicy{})
	ctx := context.Background()
	r := f.register(t, "rita@example.com", models.RoleRecruiter)
	c := f.company(t, r, "Acme")
	f.job(t, r, c, "Backend Engineer", "APIs")

	if _, err := f.jobs.List(ctx, "engineer"); err != nil {
		t.Fatalf("list: %v", err)
	}
	key := f.cache.listKey("engineer")
	if !f.cache.has(key) {
		t.Fatalf("listing was not cached")
	}

	f.job(t, r, c, "Platform Engineer", "Infra")
	if f.cache.has(key) || f.cache.listKey("engineer") == key {
		t.Fatalf("posting a job should drop cached listings")
	}
	got, err := f.jobs.List(ctx, "engineer")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 jobs after invalidation, got %d", len(got))
	}

	var rename models.CompanyPatch
	rename.Set("name", "Acme Corp")
	if _, err := f.companies.Edit(ctx, r.ID.Hex(), c.ID.Hex(), rename, nil); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, _ = f.jobs.List(ctx, "engineer")
	if got[0].Company == nil || got[0].Company.Name != "Acme Corp" {
		t.Fatalf("stale company in listing: %+v", got[0].Company)
	}
}

// searchThen runs after once the first Search has read the database, standing
// in for a write that lands while a listing is being built.
type searchThen struct {
	repositories.JobRepository
	after func()
}

func (r *searchThen) Search(ctx context.Context, keyword string) ([]models.Job, error) {
	jobs, err := r.JobRepository.Search(ctx, keyword)
	if r.after != nil {
		after := r.after
		r.after = nil
		after()
	}
	return jobs, err
}

func TestJobListFillRacingInvalidation(t *testing.T) {
	f := newFixture(t, ApplicationPolicy{})
	ctx := context.Background()
	r := f.register(t, "rita@example.com", models.RoleRecruiter)
	c := f.company(t, r, "Acme")
	f.job(t, r, c, "Backend Engineer", "APIs")

	repo := &searchThen{JobRepository: f.jobRepo}
	repo.after = func() { f.job(t, r, c, "Platform Engineer", "Infra") }
	svc := NewJobService(repo, f.companyRepo, f.appRepo, f.cache, time.Minute)

	first, err := svc.List(ctx, "engineer")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("first listing read before the write, got %d jobs", len(first))
	}
	got, err := svc.List(ctx, "engineer")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("stale listing served after invalidation: %d jobs", len(got))
	}
}

func TestJobListSkipsCacheOnVersionError(t *testing.T) {
	f := newFixture(t, ApplicationPolicy{})
	ctx := context.Background()
	r := f.register(t, "rita@example.com", models.RoleRecruiter)
	f.job(t, r, f.company(t, r, "Acme"), "Backend Engineer", "APIs")

	svc := NewJobService(f.jobRepo, f.companyRepo, f.appRepo, brokenVersions{f.cache}, time.Minute)
	got, err := svc.List(ctx, "engineer")
	if err != nil || len(got) != 1 {
		t.Fatalf("list: %d jobs, err %v", len(got), err)
	}
	if f.cache.has(f.cache.listKey("engineer")) {
		t.Fatalf("listing cached without a version")
	}
}

type brokenVersions struct{ *memCache }

func (brokenVersions) Version(context.Context, string) (int64, error) {
	return 0, errors.New("redis down")
}

func TestJobOwnership(t *testing.T) {
	f := newFixture(t, ApplicationPolicy{})
	ctx := context.Background()
	r := f.register(t, "rita@example.com", models.RoleRecruiter)
	other := f.register(t, "otto@example.com", models.RoleRecruiter)
	c := f.company(t, r, "Acme")
	j := f.job(t, r, c, "Engineer", "Build")

	in := jobInput(c.ID.Hex(), "Senior Engineer", "Build more")
	if _, err := f.jobs.Update(ctx, other.ID.Hex(), j.ID.Hex(), in); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	got, err := f.jobs.Update(ctx, r.ID.Hex(), j.ID.Hex(), in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "Senior Engineer" {
		t.Fatalf("title = %q", got.Title)
	}

	mine, err := f.jobs.ListMine(ctx, r.ID.Hex())
	if err != nil || len(mine) != 1 {
		t.Fatalf("list mine = %v, %v", mine, err)
	}
	if theirs, _ := f.jobs.ListMine(ctx, other.ID.Hex()); len(theirs) != 0 {
		t.Fatalf("expected no jobs for other recruiter")
	}

	if err := f.jobs.Delete(ctx, other.ID.Hex(), j.ID.Hex()); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := f.jobs.Delete(ctx, r.ID.Hex(), j.ID.Hex()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.jobs.Get(ctx, j.ID.Hex()); !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
