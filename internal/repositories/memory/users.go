package memory

import (
	"context"
	"time"

	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
	"github.com/hirehub/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRecord struct {
	u   models.User
	seq int64
}

type userRepo struct{ s *Store }

func NewUserRepo(s *Store) repositories.UserRepository { return &userRepo{s: s} }

func copyUser(u models.User) *models.User {
	u.Profile.Skills = cloneStrings(u.Profile.Skills)
	return &u
}

func (r *userRepo) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rec := range r.s.users {
		if rec.u.Email == u.Email {
			return utils.ErrDuplicate
		}
	}
	stamp(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	r.s.users[u.ID] = userRecord{u: *copyUser(*u), seq: r.s.next()}
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.users[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return copyUser(rec.u), nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.users {
		if rec.u.Email == email {
			return copyUser(rec.u), nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *userRepo) ListByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.User{}
	for id := range idSet(ids) {
		if rec, ok := r.s.users[id]; ok {
			out = append(out, *copyUser(rec.u))
		}
	}
	return out, nil
}

func (r *userRepo) Update(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.users[u.ID]
	if !ok {
		return utils.ErrNotFound
	}
	for id, other := range r.s.users {
		if id != u.ID && other.u.Email == u.Email {
			return utils.ErrDuplicate
		}
	}
	u.UpdatedAt = time.Now().UTC()
	rec.u = *copyUser(*u)
	r.s.users[u.ID] = rec
	return nil
}
