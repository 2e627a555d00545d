package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := newEnv(t)

	res := env.do(http.MethodPost, "/api/auth/register", "newbie", nil)
	require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
	assert.Equal(t, "User registered successfully", res.Body["message"])
	user := res.Body["user"].(map[string]any)
	assert.Equal(t, "newbie@example.com", user["email"])
	assert.Equal(t, "New Bie", user["displayName"])
	assert.Equal(t, "http://img.test/n.png", user["photoURL"])
	assert.Equal(t, "user", user["role"])

	// idempotent
	res = env.do(http.MethodPost, "/api/auth/register", "newbie", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "User already registered", res.Body["message"])

	// le profil local est maintenant résolu par AuthRequired
	res = env.do(http.MethodPost, "/api/auth/verify-token", "newbie", nil)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRegisterFallbacks(t *testing.T) {
	env := newEnv(t)

	res := env.do(http.MethodPost, "/api/auth/register", "anon", map[string]any{"phoneNumber": "555-0199"})
	require.Equal(t, http.StatusCreated, res.Code)
	user := res.Body["user"].(map[string]any)
	assert.Equal(t, "anon.person", user["displayName"])
	assert.Equal(t, "555-0199", user["phoneNumber"])

	res = env.do(http.MethodPost, "/api/auth/register", "thief", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Email already registered", res.Body["message"])

	res = env.do(http.MethodPost, "/api/auth/register", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	res = env.do(http.MethodPost, "/api/auth/register", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Invalid or expired token", res.Body["message"])
}

func TestVerifyTokenRequiresLocalUser(t *testing.T) {
	env := newEnv(t)

	res := env.do(http.MethodPost, "/api/auth/verify-token", "alice", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "uid-alice", res.Body["user"].(map[string]any)["uid"])

	res = env.do(http.MethodPost, "/api/auth/verify-token", "anon", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "User not found", res.Body["message"])
}

func TestGetUser(t *testing.T) {
	env := newEnv(t)

	res := env.do(http.MethodGet, "/api/auth/user/uid-alice", "alice", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	res = env.do(http.MethodGet, "/api/auth/user/uid-alice", "bob", nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = env.do(http.MethodGet, "/api/auth/user/uid-alice", "admin", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	res = env.do(http.MethodGet, "/api/auth/user/uid-nobody", "admin", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "User not found", res.Body["message"])
}

func TestUpdateProfile(t *testing.T) {
	env := newEnv(t)

	res := env.do(http.MethodPut, "/api/auth/profile", "alice", map[string]any{
		"displayName": "Alice L.",
		"address":     address,
	})
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	assert.Equal(t, "Profile updated successfully", res.Body["message"])
	user := res.Body["user"].(map[string]any)
	assert.Equal(t, "Alice L.", user["displayName"])
	assert.Equal(t, "USA", user["address"].(map[string]any)["country"])
	assert.Equal(t, "user", user["role"])

	res = env.do(http.MethodPut, "/api/auth/profile", "alice", map[string]any{"photoURL": "not a url"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}
