package services

import (
	"context"

	"github.com/hirehub/jobportal/internal/metrics"
	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
)

// HistoryRecorder receives every application status change.
type HistoryRecorder interface {
	Record(ctx context.Context, change models.StatusChange) error
}

type repositoryRecorder struct {
	repo repositories.HistoryRepository
}

// NewRepositoryRecorder writes history rows synchronously.
func NewRepositoryRecorder(repo repositories.HistoryRepository) HistoryRecorder {
	return &repositoryRecorder{repo: repo}
}

func (r *repositoryRecorder) Record(ctx context.Context, change models.StatusChange) error {
	row, err := change.ToHistory()
	if err != nil {
		metrics.HistoryWrite("error")
		return err
	}
	if err := r.repo.Insert(ctx, row); err != nil {
		metrics.HistoryWrite("error")
		return err
	}
	metrics.HistoryWrite("ok")
	return nil
}

// NopRecorder drops changes. Used when no history store is configured.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, models.StatusChange) error { return nil }
