package client

import "time"

type Profile struct {
	Bio                string   `json:"bio,omitempty"`
	Skills             []string `json:"skills"`
	Resume             string   `json:"resume,omitempty"`
	ResumeOriginalName string   `json:"resumeOriginalName,omitempty"`
	ProfilePhoto       string   `json:"profilePhoto,omitempty"`
}

type User struct {
	ID          string    `json:"_id"`
	FullName    string    `json:"fullname"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Role        string    `json:"role"`
	Profile     Profile   `json:"profile"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Company struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Website     string    `json:"website,omitempty"`
	Location    string    `json:"location,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Job struct {
	ID              string        `json:"_id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Requirements    []string      `json:"requirements"`
	Salary          float64       `json:"salary"`
	Location        string        `json:"location"`
	JobType         string        `json:"jobType"`
	ExperienceLevel string        `json:"experienceLevel"`
	Position        int           `json:"position"`
	CompanyID       string        `json:"companyId"`
	CreatedBy       string        `json:"created_by"`
	Company         *Company      `json:"company,omitempty"`
	Applications    []Application `json:"applications,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}

type InterviewDetails struct {
	Date     time.Time `json:"date"`
	Time     string    `json:"time,omitempty"`
	Location string    `json:"location,omitempty"`
}

type Application struct {
	ID               string            `json:"_id"`
	JobID            string            `json:"jobId"`
	ApplicantID      string            `json:"applicantId"`
	Status           string            `json:"status"`
	InterviewDetails *InterviewDetails `json:"interviewDetails"`
	Job              *Job              `json:"job,omitempty"`
	Applicant        *User             `json:"applicant,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

type HistoryEntry struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	ActorID       string    `json:"actor_id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	ChangedFields []string  `json:"changed_fields"`
	ChangedAt     time.Time `json:"changed_at"`
}

// Requests.

type RegisterRequest struct {
	FullName    string `json:"fullname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

type ProfileUpdate struct {
	FullName    string `json:"fullname,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Skills      string `json:"skills,omitempty"` // comma separated
}

type CompanyUpdate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Location    string `json:"location"`
}

type JobInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Salary       float64  `json:"salary"`
	Location     string   `json:"location"`
	JobType      string   `json:"jobType"`
	Experience   string   `json:"experience"`
	Position     int      `json:"position"`
	CompanyID    string   `json:"companyId"`
}

// Interview is the schedule sent with an accept. Date is YYYY-MM-DD.
type Interview struct {
	Date     string `json:"date"`
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`
}
