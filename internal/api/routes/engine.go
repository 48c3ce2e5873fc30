package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hirehub/jobportal/internal/api/middleware"
	"github.com/sirupsen/logrus"
)

type EngineOptions struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewEngine builds a gin engine with the standard middleware chain.
func NewEngine(l *logrus.Logger, opts EngineOptions) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(l))
	r.Use(middleware.RequestLogger(l))
	r.Use(middleware.Metrics())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-Id")
	corsCfg.ExposeHeaders = []string{"X-Request-Id"}
	if len(opts.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = opts.AllowedOrigins
	} else {
		// credentials rule out "*", so reflect the caller's origin
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.RequestTimeout(opts.RequestTimeout))
	return r
}
