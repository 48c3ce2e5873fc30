package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrNotConfigured marks an optional backend whose address is not set.
var ErrNotConfigured = errors.New("not configured")

// AppConfig holds everything read from the environment at startup.
type AppConfig struct {
	Env  string
	Port string

	RequestTimeoutSeconds int
	AllowedOrigins        []string

	JWTSecret     string
	TokenTTLHours int
	BcryptCost    int

	StoreDriver    string // mongo | memory
	GCSBucket      string
	UploadMaxBytes int64

	CacheTTLSeconds      int
	HistoryWorkers       int
	HistoryMaxDeliveries int
	HistoryClaimIdleSecs int

	AllowDuplicateApplications bool
	StrictStatusTransitions    bool
}

// Load reads .env (if any) and the process environment.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		Env:                        getEnv("GO_ENV", "development"),
		Port:                       getEnv("PORT", "8080"),
		RequestTimeoutSeconds:      getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		AllowedOrigins:             splitCSV(os.Getenv("CORS_ALLOWED_ORIGINS")),
		JWTSecret:                  os.Getenv("AUTH_JWT_SECRET"),
		TokenTTLHours:              getEnvAsInt("AUTH_TOKEN_TTL_HOURS", 24),
		BcryptCost:                 getEnvAsInt("AUTH_BCRYPT_COST", 10),
		StoreDriver:                strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		GCSBucket:                  os.Getenv("GCS_BUCKET"),
		UploadMaxBytes:             int64(getEnvAsInt("UPLOAD_MAX_BYTES", 5<<20)),
		CacheTTLSeconds:            getEnvAsInt("CACHE_TTL_SECONDS", 60),
		HistoryWorkers:             getEnvAsInt("HISTORY_WORKERS", 2),
		HistoryMaxDeliveries:       getEnvAsInt("HISTORY_MAX_DELIVERIES", 5),
		HistoryClaimIdleSecs:       getEnvAsInt("HISTORY_CLAIM_IDLE_SECONDS", 30),
		AllowDuplicateApplications: getEnvAsBool("ALLOW_DUPLICATE_APPLICATIONS", false),
		StrictStatusTransitions:    getEnvAsBool("STRICT_STATUS_TRANSITIONS", false),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("AUTH_JWT_SECRET environment variable is not set")
		}
		cfg.JWTSecret = "dev-secret"
	}
	if cfg.StoreDriver != "mongo" && cfg.StoreDriver != "memory" {
		return nil, fmt.Errorf("invalid STORE_DRIVER %q (want mongo or memory)", cfg.StoreDriver)
	}
	return cfg, nil
}

func (c *AppConfig) IsProduction() bool { return c.Env == "production" }

func (c *AppConfig) Addr() string { return ":" + c.Port }

func (c *AppConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *AppConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c *AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
