package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hirehub/jobportal/internal/auth"
	"github.com/hirehub/jobportal/internal/cache"
	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
	"github.com/hirehub/jobportal/internal/repositories/memory"
	"github.com/hirehub/jobportal/internal/storage"
)

type memCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	versions map[string]int64
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, versions: map[string]int64{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	b, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = b
	c.mu.Unlock()
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) Version(_ context.Context, prefix string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[prefix], nil
}

func (c *memCache) Invalidate(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[prefix]++
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

// listKey is the job-list key readers currently use for keyword.
func (c *memCache) listKey(keyword string) string {
	v, _ := c.Version(context.Background(), cache.JobListPrefix())
	return cache.JobListKey(v, keyword)
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type fixture struct {
	users     UserService
	companies CompanyService
	jobs      JobService
	apps      ApplicationService

	userRepo    repositories.UserRepository
	companyRepo repositories.CompanyRepository
	jobRepo     repositories.JobRepository
	appRepo     repositories.ApplicationRepository
	history     repositories.HistoryRepository
	cache       *memCache
}

func newFixture(t *testing.T, policy ApplicationPolicy) *fixture {
	t.Helper()

	store := memory.NewStore()
	users := memory.NewUserRepo(store)
	companies := memory.NewCompanyRepo(store)
	jobs := memory.NewJobRepo(store)
	applications := memory.NewApplicationRepo(store)
	history := memory.NewHistoryRepo()

	up := storage.InlineUploader{MaxBytes: 1 << 10}
	c := newMemCache()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	return &fixture{
		users:     NewUserService(users, up, tokens, 4),
		companies: NewCompanyService(companies, up, c),
		jobs:      NewJobService(jobs, companies, applications, c, time.Minute),
		apps: NewApplicationService(ApplicationDeps{
			Applications: applications,
			Jobs:         jobs,
			Companies:    companies,
			Users:        users,
			HistoryRepo:  history,
			Recorder:     NewRepositoryRecorder(history),
			Policy:       policy,
		}),
		userRepo:    users,
		companyRepo: companies,
		jobRepo:     jobs,
		appRepo:     applications,
		history:     history,
		cache:       c,
	}
}

func (f *fixture) register(t *testing.T, email string, role models.UserRole) *models.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), RegisterInput{
		FullName:    "User " + email,
		Email:       email,
		PhoneNumber: "555-0100",
		Password:    "secret123",
		Role:        string(role),
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func (f *fixture) company(t *testing.T, owner *models.User, name string) *models.Company {
	t.Helper()
	c, err := f.companies.Register(context.Background(), owner.ID.Hex(), name)
	if err != nil {
		t.Fatalf("register company %s: %v", name, err)
	}
	return c
}

func jobInput(companyID, title, description string) JobInput {
	salary := 120000.0
	position := 2
	return JobInput{
		Title:        title,
		Description:  description,
		Requirements: []string{"Go", " SQL ", ""},
		Salary:       &salary,
		Location:     "Remote",
		JobType:      "Full-time",
		Experience:   "3",
		Position:     &position,
		CompanyID:    companyID,
	}
}

func (f *fixture) job(t *testing.T, owner *models.User, c *models.Company, title, description string) *models.Job {
	t.Helper()
	j, err := f.jobs.Post(context.Background(), owner.ID.Hex(), jobInput(c.ID.Hex(), title, description))
	if err != nil {
		t.Fatalf("post job %s: %v", title, err)
	}
	return j
}
