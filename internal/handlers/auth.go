package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

const msgUserNotFound = "User not found"

// registerRequest complète les claims du token; le corps est facultatif
type registerRequest struct {
	DisplayName string `json:"displayName" validate:"omitempty,max=100"`
	PhotoURL    string `json:"photoURL" validate:"omitempty,url"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=30"`
}

func newUserFromToken(tok *auth.Token, req registerRequest) models.User {
	email := strings.ToLower(strings.TrimSpace(tok.Email))
	u := models.User{
		UID:         tok.UID,
		Email:       email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		PhoneNumber: req.PhoneNumber,
		Role:        models.RoleUser,
	}
	if u.DisplayName == "" {
		u.DisplayName = tok.Name
	}
	if u.DisplayName == "" {
		u.DisplayName, _, _ = strings.Cut(email, "@")
	}
	if u.PhotoURL == "" {
		u.PhotoURL = tok.Picture
	}
	if u.PhoneNumber == "" {
		u.PhoneNumber = tok.PhoneNumber
	}
	return u
}

// 👤 POST /api/auth/register (token seul, idempotent)
func (h *Handler) Register(c *gin.Context) {
	tok, found := middleware.TokenFrom(c)
	if !found {
		h.fail(c, apperr.Unauthorized("No token provided"))
		return
	}
	var req registerRequest
	if c.Request.ContentLength != 0 && !h.bind(c, &req) {
		return
	}
	ctx := c.Request.Context()

	existing, err := h.store.GetUserByUID(ctx, tok.UID)
	if err == nil {
		ok(c, http.StatusOK, gin.H{"message": "User already registered", "user": existing})
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		h.fail(c, apperr.Internal("Failed to register user", err))
		return
	}

	user := newUserFromToken(tok, req)
	if err := h.store.CreateUser(ctx, &user); err != nil {
		h.registerConflict(ctx, c, tok.UID, err)
		return
	}

	zap.L().Info("👤 Nouvel utilisateur", zap.String("uid", user.UID), zap.String("email", user.Email))
	ok(c, http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
}

// registerConflict: deux inscriptions simultanées du même uid renvoient le même utilisateur,
// un email déjà pris par un autre uid est un conflit
func (h *Handler) registerConflict(ctx context.Context, c *gin.Context, uid string, err error) {
	if !errors.Is(err, store.ErrDuplicate) {
		h.fail(c, apperr.Internal("Failed to register user", err))
		return
	}
	if existing, gerr := h.store.GetUserByUID(ctx, uid); gerr == nil {
		ok(c, http.StatusOK, gin.H{"message": "User already registered", "user": existing})
		return
	}
	h.fail(c, apperr.Conflict("Email already registered"))
}

// POST /api/auth/verify-token
func (h *Handler) VerifyToken(c *gin.Context) {
	me, err := identity(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"user": me.User})
}

// GET /api/auth/user/:uid (soi-même ou admin)
func (h *Handler) GetUser(c *gin.Context) {
	me, err := identity(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	uid := c.Param("uid")
	if me.User.UID != uid && !me.IsAdmin() {
		h.fail(c, apperr.Forbidden("Access denied. You can only access your own resources."))
		return
	}
	user, err := h.store.GetUserByUID(c.Request.Context(), uid)
	if err != nil {
		h.fail(c, storeErr(err, msgUserNotFound, "Failed to fetch user"))
		return
	}
	ok(c, http.StatusOK, gin.H{"user": user})
}

// PUT /api/auth/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	me, err := identity(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var upd models.UserUpdate
	if !h.bind(c, &upd) {
		return
	}
	user, err := h.store.UpdateUser(c.Request.Context(), me.User.ID, upd)
	if err != nil {
		h.fail(c, storeErr(err, msgUserNotFound, "Failed to update profile"))
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}
