package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ApplicationHistory is one status transition, kept in Postgres as an audit
// trail next to the document store.
type ApplicationHistory struct {
	ID            string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ApplicationID string `gorm:"column:application_id;type:text;index" json:"application_id"`
	JobID         string `gorm:"column:job_id;type:text;index" json:"job_id"`
	ActorID       string `gorm:"column:actor_id;type:text" json:"actor_id"`
	FromStatus    string `gorm:"column:from_status;type:text" json:"from_status"`
	ToStatus      string `gorm:"column:to_status;type:text" json:"to_status"`

	InterviewDetails datatypes.JSON `gorm:"column:interview_details;type:jsonb" json:"interview_details"`
	ChangedFields    pq.StringArray `gorm:"column:changed_fields;type:text[]" json:"changed_fields"`

	ChangedAt time.Time `gorm:"column:changed_at;type:timestamptz;index" json:"changed_at"`
}

func (ApplicationHistory) TableName() string { return "application_history" }

// StatusChange describes a single call to update an application's status.
type StatusChange struct {
	ApplicationID    string            `json:"application_id"`
	JobID            string            `json:"job_id"`
	ActorID          string            `json:"actor_id"`
	From             ApplicationStatus `json:"from"`
	To               ApplicationStatus `json:"to"`
	InterviewDetails *InterviewDetails `json:"interview_details,omitempty"`
	Fields           []string          `json:"changed_fields"`
	At               time.Time         `json:"at"`
}

// ChangedFields lists what the update touched: status when it moved, and
// interview_details whenever a schedule was written or cleared.
func ChangedFields(c StatusChange, previous *InterviewDetails) []string {
	var out []string
	if c.From != c.To {
		out = append(out, "status")
	}
	if c.InterviewDetails != nil || previous != nil {
		out = append(out, "interview_details")
	}
	return out
}

// ToHistory builds the audit row for the change.
func (c StatusChange) ToHistory() (*ApplicationHistory, error) {
	row := &ApplicationHistory{
		ID:            uuid.NewString(),
		ApplicationID: c.ApplicationID,
		JobID:         c.JobID,
		ActorID:       c.ActorID,
		FromStatus:    string(c.From),
		ToStatus:      string(c.To),
		ChangedFields: pq.StringArray(c.Fields),
		ChangedAt:     c.At.UTC(),
	}
	if c.InterviewDetails != nil {
		b, err := json.Marshal(c.InterviewDetails)
		if err != nil {
			return nil, err
		}
		row.InterviewDetails = datatypes.JSON(b)
	}
	if row.ChangedAt.IsZero() {
		row.ChangedAt = time.Now().UTC()
	}
	return row, nil
}
