package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirehub/jobportal/internal/api/handlers"
	"github.com/hirehub/jobportal/internal/api/middleware"
	"github.com/hirehub/jobportal/internal/auth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Tokens *auth.TokenManager

	User        *handlers.UserHandler
	Company     *handlers.CompanyHandler
	Job         *handlers.JobHandler
	Application *handlers.ApplicationHandler

	// Health reports backing store readiness; nil means always ready.
	Health func(*gin.Context) error
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "success": false})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "success": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	authed := middleware.JWTAuth(d.Tokens)
	recruiter := middleware.RequireRecruiter()
	seeker := middleware.RequireSeeker()

	user := v1.Group("/user")
	user.POST("/register", d.User.Register)
	user.POST("/login", d.User.Login)
	user.GET("/logout", d.User.Logout)
	user.POST("/profile/update", authed, d.User.UpdateProfile)
	user.GET("/me", authed, d.User.Me)

	company := v1.Group("/company", authed)
	company.POST("/register", recruiter, d.Company.Register)
	company.GET("/get", recruiter, d.Company.List)
	company.GET("", recruiter, d.Company.List)
	company.GET("/get/:id", d.Company.Get)
	company.GET("/:id", d.Company.Get)
	company.PUT("/update/:id", recruiter, d.Company.Update)
	company.PATCH("/edit/:id", recruiter, d.Company.Edit)
	company.DELETE("/delete/:id", recruiter, d.Company.Delete)

	job := v1.Group("/job", authed)
	job.POST("/post", recruiter, d.Job.Post)
	job.GET("/get", d.Job.List)
	job.GET("", d.Job.List)
	job.GET("/get/:id", d.Job.Get)
	job.GET("/:id", d.Job.Get)
	job.GET("/getadminjobs", recruiter, d.Job.ListMine)
	job.GET("/admin/jobs", recruiter, d.Job.ListMine)
	job.PUT("/update/:id", recruiter, d.Job.Update)
	job.DELETE("/delete/:id", recruiter, d.Job.Delete)

	app := v1.Group("/application", authed)
	app.GET("/apply/:id", seeker, d.Application.Apply)
	app.POST("/apply/:id", seeker, d.Application.Apply)
	app.GET("/get", seeker, d.Application.Applied)
	app.GET("/:id/applicants", recruiter, d.Application.Applicants)
	app.POST("/status/:id/update", recruiter, d.Application.UpdateStatus)
	app.GET("/:id/history", recruiter, d.Application.History)
	app.GET("/:id", d.Application.Get)
}
