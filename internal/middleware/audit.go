package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuditAdminActions trace les mutations effectuées par un admin, après exécution
func AuditAdminActions() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet {
			return
		}
		id, ok := IdentityFrom(c)
		if !ok || !id.IsAdmin() {
			return
		}
		zap.L().Info("🛡️ audit admin",
			zap.String("admin_uid", id.User.UID),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("target", c.Param("id")),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
