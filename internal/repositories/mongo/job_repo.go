package mongo

import (
	"context"
	"regexp"
	"time"

	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type jobRepo struct {
	col *mongo.Collection
}

func NewJobRepo(db *mongo.Database) repositories.JobRepository {
	return &jobRepo{col: db.Collection(JobsCollection)}
}

func (r *jobRepo) Create(ctx context.Context, j *models.Job) error {
	now := time.Now().UTC()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	j.UpdatedAt = now
	if j.ID.IsZero() {
		j.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, j)
	return insertErr(err)
}

func (r *jobRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	return findOne[models.Job](ctx, r.col, bson.M{"_id": id})
}

func (r *jobRepo) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Job, error) {
	if len(ids) == 0 {
		return []models.Job{}, nil
	}
	return findMany[models.Job](ctx, r.col, byIDs(ids))
}

func (r *jobRepo) Search(ctx context.Context, keyword string) ([]models.Job, error) {
	// keyword is user input, so match it literally
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"description": pattern},
	}}
	return findMany[models.Job](ctx, r.col, filter, options.Find().SetSort(newestFirst))
}

func (r *jobRepo) ListByCreator(ctx context.Context, userID primitive.ObjectID) ([]models.Job, error) {
	return findMany[models.Job](ctx, r.col,
		bson.M{"created_by": userID},
		options.Find().SetSort(newestFirst),
	)
}

func (r *jobRepo) Update(ctx context.Context, j *models.Job) error {
	j.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, r.col, j.ID, j)
}

func (r *jobRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.col, id)
}
