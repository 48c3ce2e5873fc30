package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleSeeker    UserRole = "seeker"
	RoleRecruiter UserRole = "recruiter"
)

// ParseRole normalizes a role label. "student" is the web client's name for
// a seeker.
func ParseRole(v string) (UserRole, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "seeker", "student":
		return RoleSeeker, true
	case "recruiter":
		return RoleRecruiter, true
	default:
		return "", false
	}
}

type Profile struct {
	Bio                string   `bson:"bio,omitempty" json:"bio,omitempty"`
	Skills             []string `bson:"skills" json:"skills"`
	Resume             string   `bson:"resume,omitempty" json:"resume,omitempty"`                         // URL
	ResumeOriginalName string   `bson:"resume_original_name,omitempty" json:"resumeOriginalName,omitempty"` // uploaded file name
	ProfilePhoto       string   `bson:"profile_photo,omitempty" json:"profilePhoto,omitempty"`            // URL
}

// User is the stored account. Password holds the bcrypt hash and never
// leaves the server.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FullName    string             `bson:"fullname" json:"fullname"`
	Email       string             `bson:"email" json:"email"`
	PhoneNumber string             `bson:"phone_number" json:"phoneNumber"`
	Password    string             `bson:"password" json:"-"`
	Role        UserRole           `bson:"role" json:"role"`
	Profile     Profile            `bson:"profile" json:"profile"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
