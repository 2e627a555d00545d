package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

const (
	msgNoToken      = "No token provided"
	msgInvalidToken = "Invalid or expired token"
	msgUserNotFound = "User not found"
)

type UserLookup interface {
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
}

// Resolver transforme le header Authorization en Identity
type Resolver struct {
	verifier auth.Verifier
	users    UserLookup
}

func NewResolver(v auth.Verifier, users UserLookup) *Resolver {
	return &Resolver{verifier: v, users: users}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}

func bearer(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(h, "Bearer ")
	raw = strings.TrimSpace(raw)
	return raw, ok && raw != ""
}

// AuthRequired exige un token valide et un utilisateur local
func (r *Resolver) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			abort(c, http.StatusUnauthorized, msgNoToken)
			return
		}

		tok, err := r.verifier.VerifyIDToken(c.Request.Context(), raw)
		if err != nil {
			zap.L().Debug("❌ Token refusé", zap.Error(err))
			abort(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		user, err := r.users.GetUserByUID(c.Request.Context(), tok.UID)
		if errors.Is(err, store.ErrNotFound) {
			zap.L().Debug("❌ Utilisateur local absent", zap.String("uid", tok.UID))
			abort(c, http.StatusUnauthorized, msgUserNotFound)
			return
		}
		if err != nil {
			zap.L().Error("❌ Lecture utilisateur", zap.String("uid", tok.UID), zap.Error(err))
			abort(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		SetIdentity(c, &Identity{User: user, Token: tok})
		c.Next()
	}
}

// OptionalAuth résout l'identité si possible, sinon continue en anonyme
func (r *Resolver) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			c.Next()
			return
		}
		tok, err := r.verifier.VerifyIDToken(c.Request.Context(), raw)
		if err != nil {
			c.Next()
			return
		}
		if user, err := r.users.GetUserByUID(c.Request.Context(), tok.UID); err == nil {
			SetIdentity(c, &Identity{User: user, Token: tok})
		}
		c.Next()
	}
}

// TokenOnly vérifie le token sans exiger d'utilisateur local (inscription)
func (r *Resolver) TokenOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			abort(c, http.StatusUnauthorized, msgNoToken)
			return
		}
		tok, err := r.verifier.VerifyIDToken(c.Request.Context(), raw)
		if err != nil {
			zap.L().Debug("❌ Token refusé", zap.Error(err))
			abort(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}
		c.Set(tokenKey, tok)
		c.Next()
	}
}
