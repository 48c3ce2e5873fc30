package memory

import (
	"context"
	"strings"
	"time"

	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
	"github.com/hirehub/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type jobRecord struct {
	j   models.Job
	seq int64
}

type jobRepo struct{ s *Store }

func NewJobRepo(s *Store) repositories.JobRepository { return &jobRepo{s: s} }

// copyJob drops populated relations, which are never stored.
func copyJob(j models.Job) models.Job {
	j.Requirements = cloneStrings(j.Requirements)
	j.Company = nil
	j.Applications = nil
	return j
}

func (r *jobRepo) Create(_ context.Context, j *models.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stamp(&j.ID, &j.CreatedAt, &j.UpdatedAt)
	r.s.jobs[j.ID] = jobRecord{j: copyJob(*j), seq: r.s.next()}
	return nil
}

func (r *jobRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.jobs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	j := copyJob(rec.j)
	return &j, nil
}

func (r *jobRepo) ListByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Job{}
	for id := range idSet(ids) {
		if rec, ok := r.s.jobs[id]; ok {
			out = append(out, copyJob(rec.j))
		}
	}
	return out, nil
}

func (r *jobRepo) filter(keep func(models.Job) bool) []models.Job {
	var recs []jobRecord
	for _, rec := range r.s.jobs {
		if keep(rec.j) {
			recs = append(recs, rec)
		}
	}
	sortNewestFirst(recs, func(rec jobRecord) (time.Time, int64) { return rec.j.CreatedAt, rec.seq })

	out := make([]models.Job, 0, len(recs))
	for _, rec := range recs {
		out = append(out, copyJob(rec.j))
	}
	return out
}

func (r *jobRepo) Search(_ context.Context, keyword string) ([]models.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	kw := strings.ToLower(keyword)
	return r.filter(func(j models.Job) bool {
		return strings.Contains(strings.ToLower(j.Title), kw) ||
			strings.Contains(strings.ToLower(j.Description), kw)
	}), nil
}

func (r *jobRepo) ListByCreator(_ context.Context, userID primitive.ObjectID) ([]models.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.filter(func(j models.Job) bool { return j.CreatedBy == userID }), nil
}

func (r *jobRepo) Update(_ context.Context, j *models.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.jobs[j.ID]
	if !ok {
		return utils.ErrNotFound
	}
	j.UpdatedAt = time.Now().UTC()
	rec.j = copyJob(*j)
	r.s.jobs[j.ID] = rec
	return nil
}

func (r *jobRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.s.jobs, id)
	return nil
}
