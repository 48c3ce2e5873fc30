package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Job struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	Requirements    []string           `bson:"requirements" json:"requirements"`
	Salary          float64            `bson:"salary" json:"salary"`
	Location        string             `bson:"location" json:"location"`
	JobType         string             `bson:"job_type" json:"jobType"`
	ExperienceLevel string             `bson:"experience_level" json:"experienceLevel"`
	Position        int                `bson:"position" json:"position"`
	CompanyID       primitive.ObjectID `bson:"company" json:"companyId"`
	CreatedBy       primitive.ObjectID `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`

	// populated on read
	Company      *Company      `bson:"-" json:"company,omitempty"`
	Applications []Application `bson:"-" json:"applications,omitempty"`
}
