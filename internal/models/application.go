package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplicationStatus is stored and serialized in lowercase only.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// ParseApplicationStatus accepts any casing ("Accepted", "REJECTED") and
// returns the canonical value.
func ParseApplicationStatus(v string) (ApplicationStatus, bool) {
	switch s := ApplicationStatus(strings.ToLower(strings.TrimSpace(v))); s {
	case StatusPending, StatusAccepted, StatusRejected:
		return s, true
	default:
		return "", false
	}
}

func (s ApplicationStatus) Decided() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransition reports whether an application in status s may move to next.
// A decided application never returns to pending. In strict mode a decided
// status is final, though re-applying the same status is allowed.
func (s ApplicationStatus) CanTransition(next ApplicationStatus, strict bool) bool {
	if next == StatusPending {
		return s == StatusPending
	}
	if strict && s.Decided() {
		return next == s
	}
	return true
}

// InterviewDetails is embedded in an application and replaced as a whole on
// every status update.
type InterviewDetails struct {
	Date     time.Time `bson:"date" json:"date"`
	Time     string    `bson:"time,omitempty" json:"time,omitempty"`
	Location string    `bson:"location,omitempty" json:"location,omitempty"`
}

type Application struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	JobID            primitive.ObjectID `bson:"job" json:"jobId"`
	ApplicantID      primitive.ObjectID `bson:"applicant" json:"applicantId"`
	Status           ApplicationStatus  `bson:"status" json:"status"`
	InterviewDetails *InterviewDetails  `bson:"interview_details" json:"interviewDetails"`

	// DedupKey is set only when duplicate applications are disallowed. The
	// store keeps it unique, so concurrent applies cannot both land.
	DedupKey string `bson:"dedup_key,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`

	// populated on read
	Job       *Job  `bson:"-" json:"job,omitempty"`
	Applicant *User `bson:"-" json:"applicant,omitempty"`
}

// ApplicationDedupKey identifies one applicant's application to one job.
func ApplicationDedupKey(jobID, applicantID primitive.ObjectID) string {
	return jobID.Hex() + ":" + applicantID.Hex()
}
