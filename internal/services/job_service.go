package services

import (
	"context"
	"strings"
	"time"

	"github.com/hirehub/jobportal/internal/cache"
	"github.com/hirehub/jobportal/internal/metrics"
	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
	"github.com/hirehub/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobInput is the payload of post and update. Salary and Position are nil
// when the client left them out.
type JobInput struct {
	Title        string
	Description  string
	Requirements []string
	Salary       *float64
	Location     string
	JobType      string
	Experience   string
	Position     *int
	CompanyID    string
}

type JobService interface {
	Post(ctx context.Context, userID string, in JobInput) (*models.Job, error)
	List(ctx context.Context, keyword string) ([]models.Job, error)
	Get(ctx context.Context, jobID string) (*models.Job, error)
	ListMine(ctx context.Context, userID string) ([]models.Job, error)
	Update(ctx context.Context, userID, jobID string, in JobInput) (*models.Job, error)
	Delete(ctx context.Context, userID, jobID string) error
}

type jobService struct {
	jobs         repositories.JobRepository
	companies    repositories.CompanyRepository
	applications repositories.ApplicationRepository
	cache        cache.Cache
	cacheTTL     time.Duration
}

func NewJobService(
	jobs repositories.JobRepository,
	companies repositories.CompanyRepository,
	applications repositories.ApplicationRepository,
	c cache.Cache,
	cacheTTL time.Duration,
) JobService {
	if c == nil {
		c = cache.Nop{}
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &jobService{jobs: jobs, companies: companies, applications: applications, cache: c, cacheTTL: cacheTTL}
}

func (s *jobService) Post(ctx context.Context, userID string, in JobInput) (*models.Job, error) {
	const op = "JobService.Post"

	owner, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	job := &models.Job{CreatedBy: owner}
	if err := s.fill(ctx, op, owner, job, in); err != nil {
		return nil, err
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}
	s.invalidate(ctx)
	return job, nil
}

func (s *jobService) List(ctx context.Context, keyword string) ([]models.Job, error) {
	const op = "JobService.List"

	// read the version before the database: a fill that races an
	// invalidation is stored under a key nobody reads any more
	version, verr := s.cache.Version(ctx, cache.JobListPrefix())
	key := cache.JobListKey(version, keyword)
	if verr != nil {
		metrics.JobCacheLookup("error")
	} else {
		var cached []models.Job
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		switch {
		case err != nil:
			metrics.JobCacheLookup("error")
		case hit:
			metrics.JobCacheLookup("hit")
			return cached, nil
		default:
			metrics.JobCacheLookup("miss")
		}
	}

	jobs, err := s.jobs.Search(ctx, strings.TrimSpace(keyword))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to search jobs", err)
	}
	if err := populateCompanies(ctx, s.companies, jobs); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load companies", err)
	}
	if verr == nil {
		_ = s.cache.SetJSON(ctx, key, jobs, s.cacheTTL)
	}
	return jobs, nil
}

func (s *jobService) Get(ctx context.Context, jobID string) (*models.Job, error) {
	const op = "JobService.Get"

	id, err := parseID(op, "job id", jobID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(op, "Job not found.", err)
	}

	one := []models.Job{*job}
	if err := populateCompanies(ctx, s.companies, one); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load company", err)
	}
	job = &one[0]

	apps, err := s.applications.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load applications", err)
	}
	job.Applications = apps
	return job, nil
}

func (s *jobService) ListMine(ctx context.Context, userID string) ([]models.Job, error) {
	const op = "JobService.ListMine"

	owner, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.ListByCreator(ctx, owner)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	if err := populateCompanies(ctx, s.companies, jobs); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load companies", err)
	}
	return jobs, nil
}

func (s *jobService) Update(ctx context.Context, userID, jobID string, in JobInput) (*models.Job, error) {
	const op = "JobService.Update"

	job, err := s.loadOwned(ctx, op, userID, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.fill(ctx, op, job.CreatedBy, job, in); err != nil {
		return nil, err
	}
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, lookupErr(op, "Job not found.", err)
	}
	s.invalidate(ctx)
	return job, nil
}

func (s *jobService) Delete(ctx context.Context, userID, jobID string) error {
	const op = "JobService.Delete"

	job, err := s.loadOwned(ctx, op, userID, jobID)
	if err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, job.ID); err != nil {
		return lookupErr(op, "Job not found.", err)
	}
	s.invalidate(ctx)
	return nil
}

// fill validates in and copies it onto job. The company must exist and belong
// to owner.
func (s *jobService) fill(ctx context.Context, op string, owner primitive.ObjectID, job *models.Job, in JobInput) error {
	reqs := make([]string, 0, len(in.Requirements))
	for _, r := range in.Requirements {
		if r = strings.TrimSpace(r); r != "" {
			reqs = append(reqs, r)
		}
	}
	if len(missingFields(
		"title", in.Title,
		"description", in.Description,
		"location", in.Location,
		"jobType", in.JobType,
		"experience", in.Experience,
		"companyId", in.CompanyID,
	)) > 0 || len(reqs) == 0 || in.Salary == nil || in.Position == nil {
		return utils.E(utils.CodeInvalidArgument, op, "Something is missing.", nil)
	}
	if *in.Salary < 0 {
		return utils.E(utils.CodeInvalidArgument, op, "salary must not be negative", nil)
	}
	if *in.Position < 1 {
		return utils.E(utils.CodeInvalidArgument, op, "position must be at least 1", nil)
	}

	companyID, err := parseID(op, "company id", in.CompanyID)
	if err != nil {
		return err
	}
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return lookupErr(op, "Company not found.", err)
	}
	if company.UserID != owner {
		return utils.E(utils.CodeForbidden, op, "You can only post jobs for your own companies.", nil)
	}

	job.Title = strings.TrimSpace(in.Title)
	job.Description = strings.TrimSpace(in.Description)
	job.Requirements = reqs
	job.Salary = *in.Salary
	job.Location = strings.TrimSpace(in.Location)
	job.JobType = strings.TrimSpace(in.JobType)
	job.ExperienceLevel = strings.TrimSpace(in.Experience)
	job.Position = *in.Position
	job.CompanyID = company.ID
	job.Company = company
	return nil
}

func (s *jobService) loadOwned(ctx context.Context, op, userID, jobID string) (*models.Job, error) {
	owner, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	id, err := parseID(op, "job id", jobID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(op, "Job not found.", err)
	}
	if job.CreatedBy != owner {
		return nil, utils.E(utils.CodeForbidden, op, "You can only manage your own jobs.", nil)
	}
	return job, nil
}

func (s *jobService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, cache.JobListPrefix())
}

// populateCompanies sets Company on every job with one batched lookup.
func populateCompanies(ctx context.Context, repo repositories.CompanyRepository, jobs []models.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.CompanyID)
	}
	companies, err := repo.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]*models.Company, len(companies))
	for i := range companies {
		byID[companies[i].ID] = &companies[i]
	}
	for i := range jobs {
		jobs[i].Company = byID[jobs[i].CompanyID]
	}
	return nil
}
