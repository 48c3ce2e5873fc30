package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/utils"
)

func RequireRole(allowed ...models.UserRole) gin.HandlerFunc {
	allow := map[models.UserRole]struct{}{}
	for _, a := range allowed {
		allow[a] = struct{}{}
	}

	return func(c *gin.Context) {
		v, _ := c.Get("role")
		s, _ := v.(string)
		role, ok := models.ParseRole(strings.TrimSpace(s))
		if !ok {
			abort(c, http.StatusForbidden, utils.CodeForbidden, "You are not allowed to access this resource.")
			return
		}
		if _, ok := allow[role]; !ok {
			abort(c, http.StatusForbidden, utils.CodeForbidden, "Only "+roleList(allowed)+" can access this resource.")
			return
		}
		c.Next()
	}
}

func RequireRecruiter() gin.HandlerFunc { return RequireRole(models.RoleRecruiter) }

func RequireSeeker() gin.HandlerFunc { return RequireRole(models.RoleSeeker) }

func roleList(roles []models.UserRole) string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r)+"s")
	}
	return strings.Join(names, " and ")
}
