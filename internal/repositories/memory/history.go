package memory

import (
	"context"
	"sync"

	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
)

type historyRepo struct {
	mu   sync.Mutex
	rows []models.ApplicationHistory
}

func NewHistoryRepo() repositories.HistoryRepository { return &historyRepo{} }

func (r *historyRepo) Insert(_ context.Context, row *models.ApplicationHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *row)
	return nil
}

// ListByApplication returns rows newest first.
func (r *historyRepo) ListByApplication(_ context.Context, applicationID string, limit int) ([]models.ApplicationHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.ApplicationHistory{}
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].ApplicationID != applicationID {
			continue
		}
		out = append(out, r.rows[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
