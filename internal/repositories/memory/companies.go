package memory

import (
	"context"
	"time"

	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
	"github.com/hirehub/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type companyRecord struct {
	c   models.Company
	seq int64
}

type companyRepo struct{ s *Store }

func NewCompanyRepo(s *Store) repositories.CompanyRepository { return &companyRepo{s: s} }

func (r *companyRepo) nameTaken(name string, except primitive.ObjectID) bool {
	for id, rec := range r.s.companies {
		if id != except && rec.c.Name == name {
			return true
		}
	}
	return false
}

func (r *companyRepo) Create(_ context.Context, c *models.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(c.Name, primitive.NilObjectID) {
		return utils.ErrDuplicate
	}
	stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	r.s.companies[c.ID] = companyRecord{c: *c, seq: r.s.next()}
	return nil
}

func (r *companyRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.companies[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	c := rec.c
	return &c, nil
}

func (r *companyRepo) GetByName(_ context.Context, name string) (*models.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.companies {
		if rec.c.Name == name {
			c := rec.c
			return &c, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *companyRepo) ListByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Company{}
	for id := range idSet(ids) {
		if rec, ok := r.s.companies[id]; ok {
			out = append(out, rec.c)
		}
	}
	return out, nil
}

func (r *companyRepo) ListByOwner(_ context.Context, userID primitive.ObjectID) ([]models.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var recs []companyRecord
	for _, rec := range r.s.companies {
		if rec.c.UserID == userID {
			recs = append(recs, rec)
		}
	}
	sortNewestFirst(recs, func(rec companyRecord) (time.Time, int64) { return rec.c.CreatedAt, rec.seq })

	out := make([]models.Company, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.c)
	}
	return out, nil
}

func (r *companyRepo) Update(_ context.Context, c *models.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.companies[c.ID]
	if !ok {
		return utils.ErrNotFound
	}
	if r.nameTaken(c.Name, c.ID) {
		return utils.ErrDuplicate
	}
	c.UpdatedAt = time.Now().UTC()
	rec.c = *c
	r.s.companies[c.ID] = rec
	return nil
}

func (r *companyRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.companies[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.s.companies, id)
	return nil
}
