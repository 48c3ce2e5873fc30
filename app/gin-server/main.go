package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/hirehub/jobportal/config"
	"github.com/hirehub/jobportal/internal/cache"
	"github.com/hirehub/jobportal/internal/logger"
	mongorepo "github.com/hirehub/jobportal/internal/repositories/mongo"
	pgrepo "github.com/hirehub/jobportal/internal/repositories/postgres"
	"github.com/hirehub/jobportal/internal/server"
	"github.com/hirehub/jobportal/internal/services"
	"github.com/hirehub/jobportal/internal/storage"
	"github.com/hirehub/jobportal/internal/workers"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := server.MemoryBackends(cfg.UploadMaxBytes)

	if cfg.StoreDriver == "mongo" {
		if err := config.InitMongo(); err != nil {
			log.WithError(err).Fatal("MongoDB init error")
		}
		if err := config.EnsureMongoIndexes(); err != nil {
			log.WithError(err).Fatal("MongoDB index error")
		}
		db := config.MongoDatabase()
		b.Users = mongorepo.NewUserRepo(db)
		b.Companies = mongorepo.NewCompanyRepo(db)
		b.Jobs = mongorepo.NewJobRepo(db)
		b.Applications = mongorepo.NewApplicationRepo(db)
		b.History = nil
		b.Recorder = services.NopRecorder{}
		b.Health = func(c *gin.Context) error { return config.MongoClient.Ping(c.Request.Context(), nil) }
		log.Info("MongoDB connected")
	} else {
		log.Warn("using in-memory store; data is lost on restart")
	}

	redisOK := initOptional(log, "Redis", config.InitRedis)
	if redisOK {
		b.Cache = cache.NewRedisCache(config.RedisClient)
	}

	if initOptional(log, "PostgreSQL", config.InitPostgres) {
		if err := pgrepo.Migrate(config.PostgresDB); err != nil {
			log.WithError(err).Fatal("PostgreSQL migration error")
		}
		b.History = pgrepo.NewHistoryRepo(config.PostgresDB)
		sink := services.NewRepositoryRecorder(b.History)
		b.Recorder = sink

		if redisOK {
			pool := &workers.HistoryWorkerPool{
				Redis:         config.RedisClient,
				Sink:          sink,
				NumWorkers:    cfg.HistoryWorkers,
				Logger:        log,
				ClaimIdle:     time.Duration(cfg.HistoryClaimIdleSecs) * time.Second,
				MaxDeliveries: int64(cfg.HistoryMaxDeliveries),
			}
			if err := pool.Start(ctx); err != nil {
				log.WithError(err).Fatal("history workers")
			}
			b.Recorder = &workers.StreamRecorder{Redis: config.RedisClient, MaxLen: 100000}
		}
	}

	if cfg.GCSBucket != "" {
		up, err := storage.NewGCSUploader(ctx, cfg.GCSBucket, cfg.UploadMaxBytes)
		if err != nil {
			log.WithError(err).Fatal("GCS init error")
		}
		defer up.Close()
		b.Uploader = up
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.New(cfg, log, b),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	if config.MongoClient != nil {
		_ = config.MongoClient.Disconnect(shutdownCtx)
	}
	if config.RedisClient != nil {
		_ = config.RedisClient.Close()
	}
}

// initOptional runs a backend initializer. A backend that is not configured
// is skipped; one that is configured but unreachable is fatal.
func initOptional(log *logrus.Logger, name string, initFn func() error) bool {
	err := initFn()
	switch {
	case errors.Is(err, config.ErrNotConfigured):
		log.WithField("backend", name).Info("not configured, skipping")
		return false
	case err != nil:
		log.WithError(err).WithField("backend", name).Fatal("init error")
		return false
	default:
		log.WithField("backend", name).Info("connected")
		return true
	}
}
