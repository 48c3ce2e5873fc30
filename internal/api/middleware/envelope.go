package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/hirehub/jobportal/internal/utils"
)

func abort(c *gin.Context, status int, code utils.Code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code":    code,
		"message": message,
		"success": false,
	})
}
