package middleware

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hirehub/jobportal/internal/utils"
	"github.com/sirupsen/logrus"
)

// Recovery turns a panic into the standard 500 envelope.
func Recovery(l *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		l.WithFields(logrus.Fields{
			"panic": recovered,
			"stack": string(debug.Stack()),
			"route": c.FullPath(),
		}).Error("panic recovered")
		abort(c, http.StatusInternalServerError, utils.CodeInternal, "Internal server error")
	})
}

// RequestTimeout bounds the context handed to services and stores.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
