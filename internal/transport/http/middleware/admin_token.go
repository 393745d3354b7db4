package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/dogami567/noval-for-one/internal/transport/http/response"
)

// AdminToken guards the admin console routes with a shared-secret header.
// An empty configured secret rejects everything: the console stays closed
// rather than open when the deployment forgot to set it.
func AdminToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("x-admin-token")
		if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			response.Error(c, 401, response.CodeUnauthorized, "无效的管理员口令")
			c.Abort()
			return
		}
		c.Next()
	}
}
