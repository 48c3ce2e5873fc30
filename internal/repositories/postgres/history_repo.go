package postgres

import (
	"context"

	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
	"gorm.io/gorm"
)

type historyRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) repositories.HistoryRepository {
	return &historyRepo{db: db}
}

// Migrate creates or updates the application_history table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.ApplicationHistory{})
}

func (r *historyRepo) Insert(ctx context.Context, row *models.ApplicationHistory) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *historyRepo) ListByApplication(ctx context.Context, applicationID string, limit int) ([]models.ApplicationHistory, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []models.ApplicationHistory
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("changed_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
