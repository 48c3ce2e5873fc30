package mongo

import (
	"context"
	"time"

	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type companyRepo struct {
	col *mongo.Collection
}

func NewCompanyRepo(db *mongo.Database) repositories.CompanyRepository {
	return &companyRepo{col: db.Collection(CompaniesCollection)}
}

func (r *companyRepo) Create(ctx context.Context, c *models.Company) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, c)
	return insertErr(err)
}

func (r *companyRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	return findOne[models.Company](ctx, r.col, bson.M{"_id": id})
}

// GetByName is an exact, case-sensitive match.
func (r *companyRepo) GetByName(ctx context.Context, name string) (*models.Company, error) {
	return findOne[models.Company](ctx, r.col, bson.M{"name": name})
}

func (r *companyRepo) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Company, error) {
	if len(ids) == 0 {
		return []models.Company{}, nil
	}
	return findMany[models.Company](ctx, r.col, byIDs(ids))
}

func (r *companyRepo) ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]models.Company, error) {
	return findMany[models.Company](ctx, r.col,
		bson.M{"user_id": userID},
		options.Find().SetSort(newestFirst),
	)
}

func (r *companyRepo) Update(ctx context.Context, c *models.Company) error {
	c.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, r.col, c.ID, c)
}

func (r *companyRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.col, id)
}
