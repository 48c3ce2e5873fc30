package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hirehub/jobportal/pkg/client"
	"github.com/hirehub/jobportal/pkg/clientstate"
)

type app struct {
	api   *client.Client
	store *clientstate.Store
	path  string
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		err = a.handleAuth(args)
	case "jobs":
		err = a.handleJobs(args)
	case "companies":
		err = a.handleCompanies(args)
	case "applications":
		err = a.handleApplications(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() (*app, error) {
	api, err := client.New(getAPIURL())
	if err != nil {
		return nil, err
	}
	path := sessionPath()
	sess, err := loadSession(path)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if sess.Token != "" {
		api.SetToken(sess.Token)
	}
	store := clientstate.NewStore(clientstate.State{Auth: sess.User})
	return &app{api: api, store: store, path: path}, nil
}

func getAPIURL() string {
	if u := os.Getenv("JOBPORTAL_API"); u != "" {
		return u
	}
	return "http://localhost:8080/api/v1"
}

func printUsage() {
	fmt.Println(`Usage: jobportal <command> [args]

Commands:
  auth          register | login | logout | me | profile
  jobs          list | get | post | mine | delete
  companies     register | list | get | edit | delete
  applications  apply | list | get | applicants | status | history

Environment:
  JOBPORTAL_API      API base URL (default http://localhost:8080/api/v1)
  JOBPORTAL_SESSION  session file (default ~/.jobportal/session.json)`)
}

func ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// run wraps an API call with loading and error actions.
func (a *app) run(fn func(context.Context) error) error {
	c, cancel := ctx()
	defer cancel()
	a.store.Dispatch(clientstate.SetLoading{Loading: true})
	if err := fn(c); err != nil {
		a.store.Dispatch(clientstate.SetError{Message: err.Error()})
		return err
	}
	a.store.Dispatch(clientstate.SetLoading{Loading: false})
	return nil
}

func requireArg(fs *flag.FlagSet, name string) (string, error) {
	if fs.NArg() < 1 {
		return "", fmt.Errorf("%s is required", name)
	}
	return fs.Arg(0), nil
}

// Auth commands

func (a *app) handleAuth(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: jobportal auth <register|login|logout|me|profile>")
		return nil
	}
	switch args[0] {
	case "register":
		return a.register(args[1:])
	case "login":
		return a.login(args[1:])
	case "logout":
		return a.logout()
	case "me":
		return a.me()
	case "profile":
		return a.updateProfile(args[1:])
	default:
		return fmt.Errorf("unknown auth command: %s", args[0])
	}
}

func (a *app) register(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email")
	phone := fs.String("phone", "", "phone number")
	password := fs.String("password", "", "password")
	role := fs.String("role", "seeker", "seeker or recruiter")
	fs.Parse(args)

	if *name == "" || *email == "" || *phone == "" || *password == "" {
		fs.PrintDefaults()
		return fmt.Errorf("name, email, phone and password are required")
	}
	err := a.run(func(c context.Context) error {
		return a.api.Register(c, client.RegisterRequest{
			FullName: *name, Email: *email, PhoneNumber: *phone, Password: *password, Role: *role,
		})
	})
	if err != nil {
		return err
	}
	fmt.Println("Account created. Run 'jobportal auth login' to sign in.")
	return nil
}

func (a *app) login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	role := fs.String("role", "seeker", "seeker or recruiter")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fs.PrintDefaults()
		return fmt.Errorf("email and password are required")
	}
	err := a.run(func(c context.Context) error {
		u, err := a.api.Login(c, *email, *password, *role)
		if err != nil {
			return err
		}
		a.store.Dispatch(clientstate.SetUser{User: u})
		return nil
	})
	if err != nil {
		return err
	}
	u := a.store.State().Auth
	if err := saveSession(a.path, session{Token: a.api.Token(), User: u}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Printf("Welcome back %s (%s)\n", u.FullName, u.Role)
	return nil
}

func (a *app) logout() error {
	c, cancel := ctx()
	defer cancel()
	// The local session is dropped even if the server call fails.
	if err := a.api.Logout(c); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	a.store.Dispatch(clientstate.LoggedOut{})
	if err := clearSession(a.path); err != nil {
		return err
	}
	fmt.Println("Logged out successfully.")
	return nil
}

func (a *app) me() error {
	err := a.run(func(c context.Context) error {
		u, err := a.api.Me(c)
		if err != nil {
			return err
		}
		a.store.Dispatch(clientstate.SetUser{User: u})
		return nil
	})
	if err != nil {
		return err
	}
	printUser(a.store.State().Auth)
	return nil
}

func (a *app) updateProfile(args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email")
	phone := fs.String("phone", "", "phone number")
	bio := fs.String("bio", "", "bio")
	skills := fs.String("skills", "", "comma separated skills")
	resume := fs.String("resume", "", "path to a resume file")
	fs.Parse(args)

	in := client.ProfileUpdate{FullName: *name, Email: *email, PhoneNumber: *phone, Bio: *bio, Skills: *skills}
	var file *client.File
	if *resume != "" {
		f, err := os.Open(*resume)
		if err != nil {
			return err
		}
		defer f.Close()
		file = &client.File{Name: filepath.Base(f.Name()), Content: f}
	}

	err := a.run(func(c context.Context) error {
		u, err := a.api.UpdateProfile(c, in, file)
		if err != nil {
			return err
		}
		a.store.Dispatch(clientstate.SetUser{User: u})
		return nil
	})
	if err != nil {
		return err
	}
	u := a.store.State().Auth
	if err := saveSession(a.path, session{Token: a.api.Token(), User: u}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	printUser(u)
	return nil
}

// Job commands

func (a *app) handleJobs(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: jobportal jobs <list|get|post|mine|delete>")
		return nil
	}
	switch args[0] {
	case "list":
		return a.listJobs(args[1:])
	case "get":
		return a.getJob(args[1:])
	case "post":
		return a.postJob(args[1:])
	case "mine":
		return a.adminJobs()
	case "delete":
		return a.deleteJob(args[1:])
	default:
		return fmt.Errorf("unknown jobs command: %s", args[0])
	}
}

func (a *app) listJobs(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	keyword := fs.String("keyword", "", "search title or description")
	fs.Parse(args)

	a.store.Dispatch(clientstate.SetSearchQuery{Query: *keyword})
	err := a.run(func(c context.Context) error {
		jobs, err := a.api.Jobs(c, a.store.State().SearchQuery)
		if err != nil {
			return err
		}
		a.store.Dispatch(clientstate.SetJobs{Jobs: jobs})
		return nil
	})
	if err != nil {
		return err
	}
	printJobs(a.store.State().Jobs)
	return nil
}

func (a *app) getJob(args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	fs.Parse(args)
	id, err := requireArg(fs, "job id")
	if err != nil {
		return err
	}
	err = a.run(func(c context.Context) error {
		job, err := a.api.Job(c, id)
		if err != nil {
			return err
		}
		a.store.Dispatch(clientstate.SetSingleJob{Job: job})
		return nil
	})
	if err != nil {
		return err
	}
	j := a.store.State().SingleJob
	fmt.Printf("ID:          %s\n", j.ID)
	fmt.Printf("Title:       %s\n", j.Title)
	if j.Company != nil {
		fmt.Printf("Company:     %s\n", j.Company.Name)
	}
	fmt.Printf("Location:    %s\n", j.Location)
	fmt.Printf("Type:        %s\n", j.JobType)
	fmt.Printf("Experience:  %s\n", j.ExperienceLevel)
	fmt.Printf("Salary:      %g\n", j.Salary)
	fmt.Printf("Positions:   %d\n", j.Position)
	fmt.Printf("Applicants:  %d\n", len(j.Applications))
	if len(j.Requirements) > 0 {
		fmt.Printf("Requires:    %s\n", strings.Join(j.Requirements, ", "))
	}
	fmt.Printf("\n%s\n", j.Description)
	return nil
}

func (a *app) postJob(args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	title := fs.String("title", "", "job title")
	desc := fs.String("description", "", "description")
	reqs := fs.String("requirements", "", "comma separated requirements")
	salary := fs.Float64("salary", 0, "salary")
	location := fs.String("location", "", "location")
	jobType := fs.String("type", "", "job type")
	experience := fs.String("experience", "", "experience level")
	position := fs.Int("position", 1, "open positions")
	company := fs.String("company", "", "company id")
	fs.Parse(args)

	in := client.JobInput{
		Title:        *title,
		Description:  *desc,
		Requirements: splitCSV(*reqs),
		Salary:       *salary,
		Location:     *location,
		JobType:      *jobType,
		Experience:   *experience,
		Position:     *position,
		CompanyID:    *company,
	}
	var job *client.Job
	err := a.run(func(c context.Context) error {
		var err error
		job, err = a.api.PostJob(c, in)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Printf("New job created: %s (%s)\n", job.Title, job.ID)
	return nil
}

func (a *app) adminJobs() error {
	err := a.run(func(c context.Context) error {
		jobs, err := a.api.AdminJobs(c)
		if err != nil {
			return err
		}
		a.store.Dispatch(clientstate.SetAdminJobs{Jobs: jobs})
		return nil
	})
	if err != nil {
		return err
	}
	printJobs(a.store.State().AdminJobs)
	return nil
}

func (a *app) deleteJob(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	fs.Parse(args)
	id, err := requireArg(fs, "job id")
	if err != nil {
		return err
	}
	if err := a.run(func(c context.Context) error { return a.api.DeleteJob(c, id) }); err != nil {
		return err
	}
	fmt.Println("Job deleted.")
	return nil
}

// Company commands

func (a *app) handleCompanies(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: jobportal companies <register|list|get|edit|delete>")
		return nil
	}
	switch args[0] {
	case "register":
		return a.registerCompany(args[1:])
	case "list":
		return a.listCompanies()
	case "get":
		return a.getCompany(args[1:])
	case "edit":
		return a.editCompany(args[1:])
	case "delete":
		return a.deleteCompany(args[1:])
	default:
		return fmt.Errorf("unknown companies command: %s", args[0])
	}
}

func (a *app) registerCompany(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "company name")
	fs.Parse(args)
	if *name == "" {
		return fmt.Errorf("name is required")
	}
	var company *client.Company
	err := a.run(func(c context.Context) error {
		var err error
		company, err = a.api.RegisterCompany(c, *name)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Printf("Company registered: %s (%s)\n", company.Name, company.ID)
	return nil
}

func (a *app) listCompanies() error {
	err := a.run(func(c context.Context) error {
		companies, err := a.api.Companies(c)
		if err != nil {
			return err
		}
		a.store.Dispatch(clientstate.SetCompanies{Companies: companies})
		return nil
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLOCATION\tWEBSITE\tCREATED")
	for _, co := range a.store.State().Companies {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", co.ID, co.Name, co.Location, co.Website, co.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func (a *app) getCompany(args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	fs.Parse(args)
	id, err := requireArg(fs, "company id")
	if err != nil {
		return err
	}
	err = a.run(func(c context.Context) error {
		company, err := a.api.Company(c, id)
		if err != nil {
			return err
		}
		a.store.Dispatch(clientstate.SetSingleCompany{Company: company})
		return nil
	})
	if err != nil {
		return err
	}
	printCompany(a.store.State().SingleCompany)
	return nil
}

func (a *app) editCompany(args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	field := fs.String("field", "", "name, description, website or location")
	value := fs.String("value", "", "new value")
	fs.Parse(args)
	id, err := requireArg(fs, "company id")
	if err != nil {
		return err
	}
	err = a.run(func(c context.Context) error {
		company, err := a.api.EditCompany(c, id, *field, *value)
		if err != nil {
			return err
		}
		a.store.Dispatch(clientstate.SetSingleCompany{Company: company})
		return nil
	})
	if err != nil {
		return err
	}
	printCompany(a.store.State().SingleCompany)
	return nil
}

func (a *app) deleteCompany(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	fs.Parse(args)
	id, err := requireArg(fs, "company id")
	if err != nil {
		return err
	}
	if err := a.run(func(c context.Context) error { return a.api.DeleteCompany(c, id) }); err != nil {
		return err
	}
	fmt.Println("Company deleted.")
	return nil
}

// Application commands

func (a *app) handleApplications(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: jobportal applications <apply|list|get|applicants|status|history>")
		return nil
	}
	switch args[0] {
	case "apply":
		return a.apply(args[1:])
	case "list":
		return a.appliedJobs()
	case "get":
		return a.getApplication(args[1:])
	case "applicants":
		return a.applicants(args[1:])
	case "status":
		return a.updateStatus(args[1:])
	case "history":
		return a.history(args[1:])
	default:
		return fmt.Errorf("unknown applications command: %s", args[0])
	}
}

func (a *app) apply(args []string) error {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	fs.Parse(args)
	jobID, err := requireArg(fs, "job id")
	if err != nil {
		return err
	}
	var res *client.Application
	err = a.run(func(c context.Context) error {
		var err error
		res, err = a.api.Apply(c, jobID)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Printf("Job applied successfully. Application %s is %s.\n", res.ID, res.Status)
	return nil
}

func (a *app) appliedJobs() error {
	err := a.run(func(c context.Context) error {
		apps, err := a.api.AppliedJobs(c)
		if err != nil {
			return err
		}
		a.store.Dispatch(clientstate.SetApplications{Applications: apps})
		return nil
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tJOB\tCOMPANY\tSTATUS\tINTERVIEW\tAPPLIED")
	for _, ap := range a.store.State().Applications {
		title, company := "-", "-"
		if ap.Job != nil {
			title = ap.Job.Title
			if ap.Job.Company != nil {
				company = ap.Job.Company.Name
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			ap.ID, title, company, ap.Status, interviewSummary(ap.InterviewDetails), ap.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func (a *app) getApplication(args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	fs.Parse(args)
	id, err := requireArg(fs, "application id")
	if err != nil {
		return err
	}
	var res *client.Application
	err = a.run(func(c context.Context) error {
		var err error
		res, err = a.api.Application(c, id)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Printf("ID:         %s\n", res.ID)
	fmt.Printf("Job:        %s\n", res.JobID)
	fmt.Printf("Status:     %s\n", res.Status)
	fmt.Printf("Interview:  %s\n", interviewSummary(res.InterviewDetails))
	fmt.Printf("Updated:    %s\n", res.UpdatedAt.Format(time.RFC3339))
	return nil
}

func (a *app) applicants(args []string) error {
	fs := flag.NewFlagSet("applicants", flag.ExitOnError)
	fs.Parse(args)
	jobID, err := requireArg(fs, "job id")
	if err != nil {
		return err
	}
	err = a.run(func(c context.Context) error {
		job, err := a.api.Applicants(c, jobID)
		if err != nil {
			return err
		}
		a.store.Dispatch(clientstate.SetApplicants{Job: job})
		return nil
	})
	if err != nil {
		return err
	}
	printApplicants(a.store.State().Applicants)
	return nil
}

func (a *app) updateStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	status := fs.String("status", "", "pending, accepted or rejected")
	date := fs.String("date", "", "interview date (YYYY-MM-DD), kept only when accepting")
	at := fs.String("time", "", "interview time")
	location := fs.String("location", "", "interview location")
	fs.Parse(args)
	id, err := requireArg(fs, "application id")
	if err != nil {
		return err
	}

	var interview *client.Interview
	if *date != "" {
		interview = &client.Interview{Date: *date, Time: *at, Location: *location}
	}
	var updated *client.Application
	err = a.run(func(c context.Context) error {
		var err error
		updated, err = a.api.UpdateStatus(c, id, *status, interview)
		if err != nil {
			return err
		}
		a.store.Dispatch(clientstate.ApplicationUpdated{Application: *updated})
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Printf("Status updated successfully. Application %s is %s.\n", updated.ID, updated.Status)
	return nil
}

func (a *app) history(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	fs.Parse(args)
	id, err := requireArg(fs, "application id")
	if err != nil {
		return err
	}
	var entries []client.HistoryEntry
	err = a.run(func(c context.Context) error {
		var err error
		entries, err = a.api.History(c, id)
		return err
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tFROM\tTO\tACTOR\tCHANGED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.ChangedAt.Format(time.RFC3339), e.FromStatus, e.ToStatus, e.ActorID, strings.Join(e.ChangedFields, ","))
	}
	return w.Flush()
}

// Output helpers

func printUser(u *client.User) {
	if u == nil {
		fmt.Println("Not logged in.")
		return
	}
	fmt.Printf("ID:      %s\n", u.ID)
	fmt.Printf("Name:    %s\n", u.FullName)
	fmt.Printf("Email:   %s\n", u.Email)
	fmt.Printf("Phone:   %s\n", u.PhoneNumber)
	fmt.Printf("Role:    %s\n", u.Role)
	if u.Profile.Bio != "" {
		fmt.Printf("Bio:     %s\n", u.Profile.Bio)
	}
	if len(u.Profile.Skills) > 0 {
		fmt.Printf("Skills:  %s\n", strings.Join(u.Profile.Skills, ", "))
	}
	if u.Profile.ResumeOriginalName != "" {
		fmt.Printf("Resume:  %s\n", u.Profile.ResumeOriginalName)
	}
}

func printCompany(co *client.Company) {
	fmt.Printf("ID:          %s\n", co.ID)
	fmt.Printf("Name:        %s\n", co.Name)
	fmt.Printf("Description: %s\n", co.Description)
	fmt.Printf("Website:     %s\n", co.Website)
	fmt.Printf("Location:    %s\n", co.Location)
}

func printJobs(jobs []client.Job) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tLOCATION\tTYPE\tSALARY\tPOSTED")
	for _, j := range jobs {
		company := "-"
		if j.Company != nil {
			company = j.Company.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%g\t%s\n",
			j.ID, j.Title, company, j.Location, j.JobType, j.Salary, j.CreatedAt.Format("2006-01-02"))
	}
	w.Flush()
}

func printApplicants(job *client.Job) {
	fmt.Printf("%s (%d applicants)\n\n", job.Title, len(job.Applications))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSTATUS\tINTERVIEW")
	for _, ap := range job.Applications {
		name, email := "-", "-"
		if ap.Applicant != nil {
			name, email = ap.Applicant.FullName, ap.Applicant.Email
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", ap.ID, name, email, ap.Status, interviewSummary(ap.InterviewDetails))
	}
	w.Flush()
}

func interviewSummary(d *client.InterviewDetails) string {
	if d == nil {
		return "-"
	}
	parts := []string{d.Date.Format("2006-01-02")}
	if d.Time != "" {
		parts = append(parts, d.Time)
	}
	if d.Location != "" {
		parts = append(parts, "@ "+d.Location)
	}
	return strings.Join(parts, " ")
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
