package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var dedupKeySet = bson.M{"dedup_key": bson.M{"$exists": true}}

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoDatabase()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("uniq_email").SetUnique(true),
			},
		},
		"companies": {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetName("uniq_name").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("by_owner_created"),
			},
		},
		"jobs": {
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}},
				Options: options.Index().SetName("by_created"),
			},
			{
				Keys:    bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("by_creator_created"),
			},
		},
		"applications": {
			// not unique: duplicates are a policy decision, see ALLOW_DUPLICATE_APPLICATIONS
			{
				Keys:    bson.D{{Key: "job", Value: 1}, {Key: "applicant", Value: 1}},
				Options: options.Index().SetName("by_job_applicant"),
			},
			// dedup_key is only written while duplicates are disallowed
			{
				Keys:    bson.D{{Key: "dedup_key", Value: 1}},
				Options: options.Index().SetName("uniq_dedup_key").SetUnique(true).SetPartialFilterExpression(dedupKeySet),
			},
			{
				Keys:    bson.D{{Key: "applicant", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("by_applicant_created"),
			},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
