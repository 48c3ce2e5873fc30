// Package clientstate holds the client-side view of the portal: the signed-in
// user, loaded jobs, companies and applications. State changes only through
// actions applied by Reduce.
package clientstate

import "github.com/hirehub/jobportal/pkg/client"

type State struct {
	Auth    *client.User `json:"auth,omitempty"`
	Loading bool         `json:"loading"`
	Error   string       `json:"error,omitempty"`

	Jobs        []client.Job `json:"jobs"`
	AdminJobs   []client.Job `json:"adminJobs"`
	SingleJob   *client.Job  `json:"singleJob,omitempty"`
	SearchQuery string       `json:"searchQuery"`

	Companies     []client.Company `json:"companies"`
	SingleCompany *client.Company  `json:"singleCompany,omitempty"`

	Applications []client.Application `json:"applications"`
	// Applicants is the job whose applicants are being reviewed.
	Applicants *client.Job `json:"applicants,omitempty"`
}

type Action interface{ action() }

type (
	SetLoading       struct{ Loading bool }
	SetError         struct{ Message string }
	SetUser          struct{ User *client.User }
	LoggedOut        struct{}
	SetJobs          struct{ Jobs []client.Job }
	SetAdminJobs     struct{ Jobs []client.Job }
	SetSingleJob     struct{ Job *client.Job }
	SetSearchQuery   struct{ Query string }
	SetCompanies     struct{ Companies []client.Company }
	SetSingleCompany struct{ Company *client.Company }
	SetApplications  struct{ Applications []client.Application }
	SetApplicants    struct{ Job *client.Job }

	// ApplicationUpdated replaces one application wherever it is shown.
	ApplicationUpdated struct{ Application client.Application }
)

func (SetLoading) action()         {}
func (SetError) action()           {}
func (SetUser) action()            {}
func (LoggedOut) action()          {}
func (SetJobs) action()            {}
func (SetAdminJobs) action()       {}
func (SetSingleJob) action()       {}
func (SetSearchQuery) action()     {}
func (SetCompanies) action()       {}
func (SetSingleCompany) action()   {}
func (SetApplications) action()    {}
func (SetApplicants) action()      {}
func (ApplicationUpdated) action() {}

// Reduce returns the state after applying a. It never mutates s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetLoading:
		s.Loading = a.Loading
		if a.Loading {
			s.Error = ""
		}
	case SetError:
		s.Loading = false
		s.Error = a.Message
	case SetUser:
		s.Auth = a.User
	case LoggedOut:
		return State{}
	case SetJobs:
		s.Jobs = cloneSlice(a.Jobs)
	case SetAdminJobs:
		s.AdminJobs = cloneSlice(a.Jobs)
	case SetSingleJob:
		s.SingleJob = a.Job
	case SetSearchQuery:
		s.SearchQuery = a.Query
	case SetCompanies:
		s.Companies = cloneSlice(a.Companies)
	case SetSingleCompany:
		s.SingleCompany = a.Company
	case SetApplications:
		s.Applications = cloneSlice(a.Applications)
	case SetApplicants:
		s.Applicants = a.Job
	case ApplicationUpdated:
		s.Applications = replaceApplication(s.Applications, a.Application)
		if s.Applicants != nil {
			job := *s.Applicants
			job.Applications = replaceApplication(job.Applications, a.Application)
			s.Applicants = &job
		}
	}
	return s
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}

// replaceApplication copies list with the matching entry swapped for updated.
// The populated job and applicant are kept when updated lacks them.
func replaceApplication(list []client.Application, updated client.Application) []client.Application {
	out := cloneSlice(list)
	for i := range out {
		if out[i].ID != updated.ID {
			continue
		}
		if updated.Job == nil {
			updated.Job = out[i].Job
		}
		if updated.Applicant == nil {
			updated.Applicant = out[i].Applicant
		}
		out[i] = updated
	}
	return out
}
