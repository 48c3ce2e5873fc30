// Package server assembles repositories, services and handlers into a gin
// engine. main wires it to real backends; tests wire it to memory.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/hirehub/jobportal/config"
	"github.com/hirehub/jobportal/internal/api/handlers"
	"github.com/hirehub/jobportal/internal/api/routes"
	"github.com/hirehub/jobportal/internal/auth"
	"github.com/hirehub/jobportal/internal/cache"
	"github.com/hirehub/jobportal/internal/repositories"
	"github.com/hirehub/jobportal/internal/repositories/memory"
	"github.com/hirehub/jobportal/internal/services"
	"github.com/hirehub/jobportal/internal/storage"
	"github.com/sirupsen/logrus"
)

type Backends struct {
	Users        repositories.UserRepository
	Companies    repositories.CompanyRepository
	Jobs         repositories.JobRepository
	Applications repositories.ApplicationRepository

	// History may be nil when no audit store is configured.
	History  repositories.HistoryRepository
	Recorder services.HistoryRecorder

	Cache    cache.Cache
	Uploader storage.Uploader

	Health func(*gin.Context) error
}

// MemoryBackends keeps everything in process, including the history trail.
func MemoryBackends(maxUpload int64) Backends {
	store := memory.NewStore()
	history := memory.NewHistoryRepo()
	return Backends{
		Users:        memory.NewUserRepo(store),
		Companies:    memory.NewCompanyRepo(store),
		Jobs:         memory.NewJobRepo(store),
		Applications: memory.NewApplicationRepo(store),
		History:      history,
		Recorder:     services.NewRepositoryRecorder(history),
		Cache:        cache.Nop{},
		Uploader:     storage.InlineUploader{MaxBytes: maxUpload},
	}
}

func New(cfg *config.AppConfig, l *logrus.Logger, b Backends) *gin.Engine {
	if b.Cache == nil {
		b.Cache = cache.Nop{}
	}
	if b.Recorder == nil {
		b.Recorder = services.NopRecorder{}
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL())

	userSvc := services.NewUserService(b.Users, b.Uploader, tokens, cfg.BcryptCost)
	companySvc := services.NewCompanyService(b.Companies, b.Uploader, b.Cache)
	jobSvc := services.NewJobService(b.Jobs, b.Companies, b.Applications, b.Cache, cfg.CacheTTL())
	appSvc := services.NewApplicationService(services.ApplicationDeps{
		Applications: b.Applications,
		Jobs:         b.Jobs,
		Companies:    b.Companies,
		Users:        b.Users,
		HistoryRepo:  b.History,
		Recorder:     b.Recorder,
		Policy: services.ApplicationPolicy{
			AllowDuplicates:   cfg.AllowDuplicateApplications,
			StrictTransitions: cfg.StrictStatusTransitions,
		},
		Logger: l,
	})

	r := routes.NewEngine(l, routes.EngineOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout(),
	})
	routes.RegisterRoutes(r, routes.Deps{
		Tokens:      tokens,
		User:        handlers.NewUserHandler(userSvc, int(tokens.TTL().Seconds()), cfg.IsProduction(), cfg.UploadMaxBytes),
		Company:     handlers.NewCompanyHandler(companySvc, cfg.UploadMaxBytes),
		Job:         handlers.NewJobHandler(jobSvc),
		Application: handlers.NewApplicationHandler(appSvc),
		Health:      b.Health,
	})
	return r
}
