package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
	"github.com/hirehub/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type applicationRepo struct {
	col *mongo.Collection
}

func NewApplicationRepo(db *mongo.Database) repositories.ApplicationRepository {
	return &applicationRepo{col: db.Collection(ApplicationsCollection)}
}

func (r *applicationRepo) Create(ctx context.Context, a *models.Application) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, a)
	return insertErr(err)
}

func (r *applicationRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error) {
	return findOne[models.Application](ctx, r.col, bson.M{"_id": id})
}

func (r *applicationRepo) Exists(ctx context.Context, jobID, applicantID primitive.ObjectID) (bool, error) {
	n, err := r.col.CountDocuments(ctx,
		bson.M{"job": jobID, "applicant": applicantID},
		options.Count().SetLimit(1),
	)
	return n > 0, err
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID primitive.ObjectID) ([]models.Application, error) {
	return findMany[models.Application](ctx, r.col,
		bson.M{"job": jobID},
		options.Find().SetSort(newestFirst),
	)
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID primitive.ObjectID) ([]models.Application, error) {
	return findMany[models.Application](ctx, r.col,
		bson.M{"applicant": applicantID},
		options.Find().SetSort(newestFirst),
	)
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, status models.ApplicationStatus, details *models.InterviewDetails, at time.Time) (*models.Application, error) {
	filter := bson.M{"_id": id}
	if from != "" {
		filter["status"] = from
	}
	var out models.Application
	err := r.col.FindOneAndUpdate(ctx,
		filter,
		bson.M{"$set": bson.M{
			"status":            status,
			"interview_details": details,
			"updated_at":        at.UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if from == "" {
			return nil, utils.ErrNotFound
		}
		// tell a missing document apart from one that moved on
		n, cerr := r.col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
		if cerr != nil {
			return nil, cerr
		}
		if n == 0 {
			return nil, utils.ErrNotFound
		}
		return nil, utils.ErrStale
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
