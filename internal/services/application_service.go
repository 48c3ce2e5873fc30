package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hirehub/jobportal/internal/metrics"
	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
	"github.com/hirehub/jobportal/internal/utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplicationPolicy holds the lifecycle switches read from config.
type ApplicationPolicy struct {
	AllowDuplicates   bool
	StrictTransitions bool
}

type ApplicationService interface {
	Apply(ctx context.Context, userID, jobID string) (*models.Application, error)
	AppliedJobs(ctx context.Context, userID string) ([]models.Application, error)
	Applicants(ctx context.Context, userID, jobID string) (*models.Job, error)
	Get(ctx context.Context, userID, applicationID string) (*models.Application, error)
	UpdateStatus(ctx context.Context, userID, applicationID string, status models.ApplicationStatus, details *models.InterviewDetails) (*models.Application, error)
	History(ctx context.Context, userID, applicationID string, limit int) ([]models.ApplicationHistory, error)
}

type ApplicationDeps struct {
	Applications repositories.ApplicationRepository
	Jobs         repositories.JobRepository
	Companies    repositories.CompanyRepository
	Users        repositories.UserRepository

	// HistoryRepo is the read side of the trail; nil disables History().
	HistoryRepo repositories.HistoryRepository
	Recorder    HistoryRecorder

	Policy ApplicationPolicy
	Logger *logrus.Logger
}

type applicationService struct {
	ApplicationDeps
}

func NewApplicationService(deps ApplicationDeps) ApplicationService {
	if deps.Recorder == nil {
		deps.Recorder = NopRecorder{}
	}
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}
	return &applicationService{ApplicationDeps: deps}
}

func (s *applicationService) Apply(ctx context.Context, userID, jobID string) (*models.Application, error) {
	const op = "ApplicationService.Apply"

	applicant, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	jid, err := parseID(op, "job id", jobID)
	if err != nil {
		return nil, err
	}
	job, err := s.Jobs.GetByID(ctx, jid)
	if err != nil {
		return nil, lookupErr(op, "Job not found.", err)
	}

	if !s.Policy.AllowDuplicates {
		exists, err := s.Applications.Exists(ctx, job.ID, applicant)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to check existing application", err)
		}
		if exists {
			return nil, utils.E(utils.CodeConflict, op, "You have already applied for this job.", nil)
		}
	}

	app := &models.Application{JobID: job.ID, ApplicantID: applicant, Status: models.StatusPending}
	if !s.Policy.AllowDuplicates {
		app.DedupKey = models.ApplicationDedupKey(job.ID, applicant)
	}
	if err := s.Applications.Create(ctx, app); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "You have already applied for this job.", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create application", err)
	}
	metrics.ApplicationCreated()
	return app, nil
}

func (s *applicationService) AppliedJobs(ctx context.Context, userID string) ([]models.Application, error) {
	const op = "ApplicationService.AppliedJobs"

	applicant, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	apps, err := s.Applications.ListByApplicant(ctx, applicant)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	if err := s.attachJobs(ctx, apps); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load jobs", err)
	}
	return apps, nil
}

func (s *applicationService) Applicants(ctx context.Context, userID, jobID string) (*models.Job, error) {
	const op = "ApplicationService.Applicants"

	owner, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	jid, err := parseID(op, "job id", jobID)
	if err != nil {
		return nil, err
	}
	job, err := s.Jobs.GetByID(ctx, jid)
	if err != nil {
		return nil, lookupErr(op, "Job not found.", err)
	}
	if job.CreatedBy != owner {
		return nil, utils.E(utils.CodeForbidden, op, "You can only view applicants of your own jobs.", nil)
	}

	apps, err := s.Applications.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	if err := s.attachApplicants(ctx, apps); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load applicants", err)
	}
	one := []models.Job{*job}
	if err := populateCompanies(ctx, s.Companies, one); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load company", err)
	}
	job = &one[0]
	job.Applications = apps
	return job, nil
}

func (s *applicationService) Get(ctx context.Context, userID, applicationID string) (*models.Application, error) {
	const op = "ApplicationService.Get"

	caller, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	app, job, err := s.load(ctx, op, applicationID)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != caller && job.CreatedBy != caller {
		return nil, utils.E(utils.CodeForbidden, op, "You are not allowed to view this application.", nil)
	}

	one := []models.Job{*job}
	if err := populateCompanies(ctx, s.Companies, one); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load company", err)
	}
	app.Job = &one[0]

	apps := []models.Application{*app}
	if err := s.attachApplicants(ctx, apps); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load applicant", err)
	}
	return &apps[0], nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, userID, applicationID string, status models.ApplicationStatus, details *models.InterviewDetails) (*models.Application, error) {
	const op = "ApplicationService.UpdateStatus"

	next, ok := models.ParseApplicationStatus(string(status))
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Invalid status.", nil)
	}
	actor, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	app, job, err := s.load(ctx, op, applicationID)
	if err != nil {
		return nil, err
	}
	if job.CreatedBy != actor {
		return nil, utils.E(utils.CodeForbidden, op, "You can only update applications to your own jobs.", nil)
	}
	if !app.Status.CanTransition(next, s.Policy.StrictTransitions) {
		return nil, utils.E(utils.CodeConflict, op, fmt.Sprintf("Cannot change status from %s to %s.", app.Status, next), nil)
	}

	// a schedule only makes sense for an accepted application
	if next != models.StatusAccepted {
		details = nil
	}
	if details != nil {
		d := *details
		details = &d
	}

	// strict mode only holds if nobody decided the application since we read it
	var from models.ApplicationStatus
	if s.Policy.StrictTransitions {
		from = app.Status
	}
	now := time.Now().UTC()
	updated, err := s.Applications.UpdateStatus(ctx, app.ID, from, next, details, now)
	if errors.Is(err, utils.ErrStale) {
		return nil, utils.E(utils.CodeConflict, op, "Application status changed, please reload and retry.", err)
	}
	if err != nil {
		return nil, lookupErr(op, "Application not found.", err)
	}
	metrics.StatusChanged(string(next))

	change := models.StatusChange{
		ApplicationID:    app.ID.Hex(),
		JobID:            job.ID.Hex(),
		ActorID:          actor.Hex(),
		From:             app.Status,
		To:               next,
		InterviewDetails: details,
		At:               now,
	}
	change.Fields = models.ChangedFields(change, app.InterviewDetails)
	if err := s.Recorder.Record(ctx, change); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"op":             op,
			"application_id": change.ApplicationID,
			"to":             change.To,
		}).Warn("failed to record status change")
	}
	return updated, nil
}

func (s *applicationService) History(ctx context.Context, userID, applicationID string, limit int) ([]models.ApplicationHistory, error) {
	const op = "ApplicationService.History"

	if s.HistoryRepo == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "Application history is not enabled.", nil)
	}
	owner, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	app, job, err := s.load(ctx, op, applicationID)
	if err != nil {
		return nil, err
	}
	if job.CreatedBy != owner {
		return nil, utils.E(utils.CodeForbidden, op, "You can only view history of your own jobs.", nil)
	}

	rows, err := s.HistoryRepo.ListByApplication(ctx, app.ID.Hex(), limit)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to load history", err)
	}
	return rows, nil
}

// load fetches an application together with the job it belongs to.
func (s *applicationService) load(ctx context.Context, op, applicationID string) (*models.Application, *models.Job, error) {
	id, err := parseID(op, "application id", applicationID)
	if err != nil {
		return nil, nil, err
	}
	app, err := s.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, nil, lookupErr(op, "Application not found.", err)
	}
	job, err := s.Jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, nil, lookupErr(op, "Job not found.", err)
	}
	return app, job, nil
}

func (s *applicationService) attachJobs(ctx context.Context, apps []models.Application) error {
	if len(apps) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.JobID)
	}
	jobs, err := s.Jobs.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if err := populateCompanies(ctx, s.Companies, jobs); err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]*models.Job, len(jobs))
	for i := range jobs {
		byID[jobs[i].ID] = &jobs[i]
	}
	for i := range apps {
		apps[i].Job = byID[apps[i].JobID]
	}
	return nil
}

func (s *applicationService) attachApplicants(ctx context.Context, apps []models.Application) error {
	if len(apps) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.ApplicantID)
	}
	users, err := s.Users.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range apps {
		apps[i].Applicant = byID[apps[i].ApplicantID]
	}
	return nil
}
