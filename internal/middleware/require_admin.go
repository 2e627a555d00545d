package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin vérifie que l'utilisateur a le rôle "admin". À placer après AuthRequired.
func RequireAdmin(c *gin.Context) {
	id, ok := IdentityFrom(c)
	if !ok {
		abort(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !id.IsAdmin() {
		abort(c, http.StatusForbidden, "Access denied. Admin privileges required.")
		return
	}
	c.Next()
}
