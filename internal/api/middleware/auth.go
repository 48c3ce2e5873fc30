package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hirehub/jobportal/internal/auth"
	"github.com/hirehub/jobportal/internal/utils"
)

// TokenCookie is the name of the session cookie set at login.
const TokenCookie = "token"

// JWTAuth accepts the session cookie or an Authorization bearer token and
// puts user_id and role in the context.
func JWTAuth(tm *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(TokenCookie)
		if raw == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				raw = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
		}
		if raw == "" {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "User not authenticated")
			return
		}

		claims, err := tm.ParseToken(raw)
		if err != nil {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "User not authenticated")
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("role", claims.Role)
		c.Next()
	}
}
