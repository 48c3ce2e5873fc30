// Package repositories declares the storage contracts used by services.
// Implementations live in the mongo, memory and postgres subpackages and
// report missing records with utils.ErrNotFound and unique-key violations
// with utils.ErrDuplicate.
package repositories

import (
	"context"
	"time"

	"github.com/hirehub/jobportal/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
}

type CompanyRepository interface {
	Create(ctx context.Context, c *models.Company) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error)
	GetByName(ctx context.Context, name string) (*models.Company, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Company, error)
	ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]models.Company, error)
	Update(ctx context.Context, c *models.Company) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type JobRepository interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Job, error)
	// Search matches keyword case-insensitively against title or description,
	// newest first. An empty keyword matches everything.
	Search(ctx context.Context, keyword string) ([]models.Job, error)
	ListByCreator(ctx context.Context, userID primitive.ObjectID) ([]models.Job, error)
	Update(ctx context.Context, j *models.Job) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ApplicationRepository interface {
	// Create returns ErrDuplicate when a.DedupKey is set and already stored.
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error)
	Exists(ctx context.Context, jobID, applicantID primitive.ObjectID) (bool, error)
	ListByJob(ctx context.Context, jobID primitive.ObjectID) ([]models.Application, error)
	ListByApplicant(ctx context.Context, applicantID primitive.ObjectID) ([]models.Application, error)
	// UpdateStatus overwrites status and interview details in one write and
	// returns the stored document. A non-empty from makes the write
	// conditional: ErrStale is returned if the stored status differs.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, status models.ApplicationStatus, details *models.InterviewDetails, at time.Time) (*models.Application, error)
}

type HistoryRepository interface {
	Insert(ctx context.Context, row *models.ApplicationHistory) error
	ListByApplication(ctx context.Context, applicationID string, limit int) ([]models.ApplicationHistory, error)
}
