package memory

import (
	"context"
	"time"

	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
	"github.com/hirehub/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type applicationRecord struct {
	a   models.Application
	seq int64
}

type applicationRepo struct{ s *Store }

func NewApplicationRepo(s *Store) repositories.ApplicationRepository {
	return &applicationRepo{s: s}
}

func copyApplication(a models.Application) models.Application {
	if a.InterviewDetails != nil {
		d := *a.InterviewDetails
		a.InterviewDetails = &d
	}
	a.Job = nil
	a.Applicant = nil
	return a
}

func (r *applicationRepo) Create(_ context.Context, a *models.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if a.DedupKey != "" {
		for _, rec := range r.s.applications {
			if rec.a.DedupKey == a.DedupKey {
				return utils.ErrDuplicate
			}
		}
	}
	stamp(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	r.s.applications[a.ID] = applicationRecord{a: copyApplication(*a), seq: r.s.next()}
	return nil
}

func (r *applicationRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.applications[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	a := copyApplication(rec.a)
	return &a, nil
}

func (r *applicationRepo) Exists(_ context.Context, jobID, applicantID primitive.ObjectID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.applications {
		if rec.a.JobID == jobID && rec.a.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (r *applicationRepo) list(keep func(models.Application) bool) []models.Application {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var recs []applicationRecord
	for _, rec := range r.s.applications {
		if keep(rec.a) {
			recs = append(recs, rec)
		}
	}
	sortNewestFirst(recs, func(rec applicationRecord) (time.Time, int64) { return rec.a.CreatedAt, rec.seq })

	out := make([]models.Application, 0, len(recs))
	for _, rec := range recs {
		out = append(out, copyApplication(rec.a))
	}
	return out
}

func (r *applicationRepo) ListByJob(_ context.Context, jobID primitive.ObjectID) ([]models.Application, error) {
	return r.list(func(a models.Application) bool { return a.JobID == jobID }), nil
}

func (r *applicationRepo) ListByApplicant(_ context.Context, applicantID primitive.ObjectID) ([]models.Application, error) {
	return r.list(func(a models.Application) bool { return a.ApplicantID == applicantID }), nil
}

func (r *applicationRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, from, status models.ApplicationStatus, details *models.InterviewDetails, at time.Time) (*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.applications[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	if from != "" && rec.a.Status != from {
		return nil, utils.ErrStale
	}
	rec.a.Status = status
	rec.a.InterviewDetails = nil
	if details != nil {
		d := *details
		rec.a.InterviewDetails = &d
	}
	rec.a.UpdatedAt = at.UTC()
	r.s.applications[id] = rec

	out := copyApplication(rec.a)
	return &out, nil
}
