package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
	"github.com/hirehub/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type lifecycle struct {
	*fixture
	recruiter *models.User
	seeker    *models.User
	job       *models.Job
}

func newLifecycle(t *testing.T, policy ApplicationPolicy) *lifecycle {
	t.Helper()
	f := newFixture(t, policy)
	r := f.register(t, "rita@example.com", models.RoleRecruiter)
	s := f.register(t, "sam@example.com", models.RoleSeeker)
	c := f.company(t, r, "Acme")
	return &lifecycle{fixture: f, recruiter: r, seeker: s, job: f.job(t, r, c, "Engineer", "Build")}
}

func (l *lifecycle) apply(t *testing.T) *models.Application {
	t.Helper()
	a, err := l.apps.Apply(context.Background(), l.seeker.ID.Hex(), l.job.ID.Hex())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return a
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestApplyCreatesPending(t *testing.T) {
	l := newLifecycle(t, ApplicationPolicy{})
	a := l.apply(t)
	if a.Status != models.StatusPending {
		t.Fatalf("status = %q", a.Status)
	}

	_, err := l.apps.Apply(context.Background(), l.seeker.ID.Hex(), "64b7f0c2a1b2c3d4e5f60718")
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("expected not found for missing job, got %v", err)
	}
}

func TestApplyDuplicates(t *testing.T) {
	ctx := context.Background()

	l := newLifecycle(t, ApplicationPolicy{})
	l.apply(t)
	_, err := l.apps.Apply(ctx, l.seeker.ID.Hex(), l.job.ID.Hex())
	if !utils.IsCode(err, utils.CodeConflict) || appMessage(err) != "You have already applied for this job." {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}

	loose := newLifecycle(t, ApplicationPolicy{AllowDuplicates: true})
	loose.apply(t)
	loose.apply(t)
	applied, err := loose.apps.AppliedJobs(ctx, loose.seeker.ID.Hex())
	if err != nil {
		t.Fatalf("applied jobs: %v", err)
	}
	if len(applied) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(applied))
	}
}

func TestAcceptTwiceKeepsLatestInterview(t *testing.T) {
	l := newLifecycle(t, ApplicationPolicy{})
	ctx := context.Background()
	a := l.apply(t)

	first := &models.InterviewDetails{Date: day("2024-06-01"), Time: "10:00", Location: "Room 1"}
	if _, err := l.apps.UpdateStatus(ctx, l.recruiter.ID.Hex(), a.ID.Hex(), "Accepted", first); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	second := &models.InterviewDetails{Date: day("2024-06-03")}
	got, err := l.apps.UpdateStatus(ctx, l.recruiter.ID.Hex(), a.ID.Hex(), models.StatusAccepted, second)
	if err != nil {
		t.Fatalf("second accept: %v", err)
	}

	if got.Status != models.StatusAccepted {
		t.Fatalf("status = %q", got.Status)
	}
	d := got.InterviewDetails
	if d == nil || !d.Date.Equal(day("2024-06-03")) || d.Time != "" || d.Location != "" {
		t.Fatalf("interview details were merged: %+v", d)
	}

	rows, err := l.apps.History(ctx, l.recruiter.ID.Hex(), a.ID.Hex(), 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(rows))
	}
	if rows[0].FromStatus != "accepted" || rows[0].ToStatus != "accepted" {
		t.Fatalf("newest row = %+v", rows[0])
	}
	if rows[1].FromStatus != "pending" || len(rows[1].ChangedFields) != 2 {
		t.Fatalf("oldest row = %+v", rows[1])
	}
}

func TestRejectClearsInterview(t *testing.T) {
	l := newLifecycle(t, ApplicationPolicy{})
	ctx := context.Background()
	a := l.apply(t)

	details := &models.InterviewDetails{Date: day("2024-06-01")}
	if _, err := l.apps.UpdateStatus(ctx, l.recruiter.ID.Hex(), a.ID.Hex(), models.StatusAccepted, details); err != nil {
		t.Fatalf("accept: %v", err)
	}
	got, err := l.apps.UpdateStatus(ctx, l.recruiter.ID.Hex(), a.ID.Hex(), models.StatusRejected, details)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.Status != models.StatusRejected || got.InterviewDetails != nil {
		t.Fatalf("unexpected application %+v", got)
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		strict  bool
		steps   []models.ApplicationStatus
		wantErr utils.Code
	}{
		{"accept then reject", false, []models.ApplicationStatus{"accepted", "rejected"}, ""},
		{"back to pending", false, []models.ApplicationStatus{"rejected", "pending"}, utils.CodeConflict},
		{"strict accept then reject", true, []models.ApplicationStatus{"accepted", "rejected"}, utils.CodeConflict},
		{"strict re-accept", true, []models.ApplicationStatus{"accepted", "ACCEPTED"}, ""},
		{"unknown status", false, []models.ApplicationStatus{"hired"}, utils.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLifecycle(t, ApplicationPolicy{StrictTransitions: tt.strict})
			a := l.apply(t)
			var err error
			for _, st := range tt.steps {
				_, err = l.apps.UpdateStatus(context.Background(), l.recruiter.ID.Hex(), a.ID.Hex(), st, nil)
				if err != nil {
					break
				}
			}
			if tt.wantErr == "" && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if tt.wantErr != "" && !utils.IsCode(err, tt.wantErr) {
				t.Fatalf("expected %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestStatusUpdateOwnership(t *testing.T) {
	l := newLifecycle(t, ApplicationPolicy{})
	ctx := context.Background()
	a := l.apply(t)
	other := l.register(t, "otto@example.com", models.RoleRecruiter)

	if _, err := l.apps.UpdateStatus(ctx, other.ID.Hex(), a.ID.Hex(), models.StatusAccepted, nil); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := l.apps.UpdateStatus(ctx, l.recruiter.ID.Hex(), "64b7f0c2a1b2c3d4e5f60718", models.StatusAccepted, nil); !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := l.apps.History(ctx, other.ID.Hex(), a.ID.Hex(), 0); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("expected forbidden history, got %v", err)
	}
}

func TestGetApplicationVisibility(t *testing.T) {
	l := newLifecycle(t, ApplicationPolicy{})
	ctx := context.Background()
	a := l.apply(t)
	stranger := l.register(t, "eve@example.com", models.RoleSeeker)

	for _, u := range []*models.User{l.seeker, l.recruiter} {
		got, err := l.apps.Get(ctx, u.ID.Hex(), a.ID.Hex())
		if err != nil {
			t.Fatalf("get as %s: %v", u.Email, err)
		}
		if got.Job == nil || got.Job.Company == nil || got.Job.Company.Name != "Acme" {
			t.Fatalf("job not populated: %+v", got.Job)
		}
		if got.Applicant == nil || got.Applicant.Email != "sam@example.com" {
			t.Fatalf("applicant not populated: %+v", got.Applicant)
		}
	}
	if _, err := l.apps.Get(ctx, stranger.ID.Hex(), a.ID.Hex()); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestApplicants(t *testing.T) {
	l := newLifecycle(t, ApplicationPolicy{})
	ctx := context.Background()
	l.apply(t)

	job, err := l.apps.Applicants(ctx, l.recruiter.ID.Hex(), l.job.ID.Hex())
	if err != nil {
		t.Fatalf("applicants: %v", err)
	}
	if len(job.Applications) != 1 || job.Applications[0].Applicant == nil {
		t.Fatalf("unexpected applications %+v", job.Applications)
	}
	if _, err := l.apps.Applicants(ctx, l.seeker.ID.Hex(), l.job.ID.Hex()); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	detail, err := l.jobs.Get(ctx, l.job.ID.Hex())
	if err != nil {
		t.Fatalf("job detail: %v", err)
	}
	if len(detail.Applications) != 1 {
		t.Fatalf("job detail applications = %d", len(detail.Applications))
	}
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, models.StatusChange) error {
	return errors.New("history down")
}

func TestHistoryFailureDoesNotFailUpdate(t *testing.T) {
	l := newLifecycle(t, ApplicationPolicy{})
	a := l.apply(t)

	svc := l.apps.(*applicationService)
	svc.Recorder = failingRecorder{}

	got, err := l.apps.UpdateStatus(context.Background(), l.recruiter.ID.Hex(), a.ID.Hex(), models.StatusRejected, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != models.StatusRejected {
		t.Fatalf("status = %q", got.Status)
	}
}

func TestHistoryDisabled(t *testing.T) {
	l := newLifecycle(t, ApplicationPolicy{})
	a := l.apply(t)
	l.apps.(*applicationService).HistoryRepo = nil

	if _, err := l.apps.History(context.Background(), l.recruiter.ID.Hex(), a.ID.Hex(), 0); !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

// slowExists widens the gap between the duplicate check and the insert.
type slowExists struct {
	repositories.ApplicationRepository
}

func (r slowExists) Exists(ctx context.Context, jobID, applicantID primitive.ObjectID) (bool, error) {
	time.Sleep(5 * time.Millisecond)
	return r.ApplicationRepository.Exists(ctx, jobID, applicantID)
}

func TestApplyConcurrentDuplicates(t *testing.T) {
	l := newLifecycle(t, ApplicationPolicy{})
	svc := NewApplicationService(ApplicationDeps{
		Applications: slowExists{l.appRepo},
		Jobs:         l.jobRepo,
		Companies:    l.companyRepo,
		Users:        l.userRepo,
	})

	const n = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Apply(context.Background(), l.seeker.ID.Hex(), l.job.ID.Hex())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case utils.IsCode(err, utils.CodeConflict) && appMessage(err) == "You have already applied for this job.":
				conflicts++
			default:
				t.Errorf("unexpected error %v", err)
			}
		}()
	}
	wg.Wait()

	if created != 1 || conflicts != n-1 {
		t.Fatalf("created=%d conflicts=%d", created, conflicts)
	}
	stored, err := l.appRepo.ListByJob(context.Background(), l.job.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored application, got %d", len(stored))
	}
}

// pendingReads reports every application as pending, as a reader that raced
// a concurrent decision would.
type pendingReads struct {
	repositories.ApplicationRepository
}

func (r pendingReads) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error) {
	a, err := r.ApplicationRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = models.StatusPending
	return a, nil
}

func TestStrictUpdateRejectsStaleRead(t *testing.T) {
	l := newLifecycle(t, ApplicationPolicy{StrictTransitions: true})
	ctx := context.Background()
	a := l.apply(t)
	if _, err := l.apps.UpdateStatus(ctx, l.recruiter.ID.Hex(), a.ID.Hex(), models.StatusAccepted, nil); err != nil {
		t.Fatalf("accept: %v", err)
	}

	svc := NewApplicationService(ApplicationDeps{
		Applications: pendingReads{l.appRepo},
		Jobs:         l.jobRepo,
		Companies:    l.companyRepo,
		Users:        l.userRepo,
		Policy:       ApplicationPolicy{StrictTransitions: true},
	})
	_, err := svc.UpdateStatus(ctx, l.recruiter.ID.Hex(), a.ID.Hex(), models.StatusRejected, nil)
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	stored, _ := l.appRepo.GetByID(ctx, a.ID)
	if stored.Status != models.StatusAccepted {
		t.Fatalf("decided application was overwritten: %s", stored.Status)
	}

	// without strict mode the write is last-write-wins
	loose := NewApplicationService(ApplicationDeps{
		Applications: pendingReads{l.appRepo},
		Jobs:         l.jobRepo,
		Companies:    l.companyRepo,
		Users:        l.userRepo,
	})
	if _, err := loose.UpdateStatus(ctx, l.recruiter.ID.Hex(), a.ID.Hex(), models.StatusRejected, nil); err != nil {
		t.Fatalf("loose update: %v", err)
	}
}
