package api_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	engine, _ := setupServer(t)

	w := doJSON(t, engine, http.MethodPost, "/api/auth/signup", gin.H{
		"username": "alice",
		"password": "hunter22",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]interface{}
	decodeBody(t, w, &body)
	assert.Equal(t, "alice", body["username"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "password_hash")

	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	// The signup session works immediately
	w = doJSON(t, engine, http.MethodGet, "/api/auth/user", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignupValidation(t *testing.T) {
	engine, _ := setupServer(t)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing password", gin.H{"username": "alice"}},
		{"short username", gin.H{"username": "ab", "password": "hunter22"}},
		{"short password", gin.H{"username": "alice", "password": "12345"}},
		{"bad characters", gin.H{"username": "a lice!", "password": "hunter22"}},
		{"password mismatch", gin.H{"username": "alice", "password": "hunter22", "confirmPassword": "other"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, engine, http.MethodPost, "/api/auth/signup", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	engine, _ := setupServer(t)
	signupUser(t, engine, "alice")

	w := doJSON(t, engine, http.MethodPost, "/api/auth/signup", gin.H{
		"username": "alice",
		"password": "hunter22",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	decodeBody(t, w, &body)
	assert.Equal(t, "Username already exists", body["message"])
}

func TestLogin(t *testing.T) {
	engine, _ := setupServer(t)
	signupUser(t, engine, "alice")

	w := doJSON(t, engine, http.MethodPost, "/api/auth/login", gin.H{
		"username": "alice",
		"password": "hunter22",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, w)
	w = doJSON(t, engine, http.MethodGet, "/api/auth/user", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	decodeBody(t, w, &body)
	assert.Equal(t, "alice", body["username"])
}

func TestLoginBadCredentials(t *testing.T) {
	engine, _ := setupServer(t)
	signupUser(t, engine, "alice")

	wrongPassword := doJSON(t, engine, http.MethodPost, "/api/auth/login", gin.H{
		"username": "alice",
		"password": "wrong",
	}, nil)
	unknownUser := doJSON(t, engine, http.MethodPost, "/api/auth/login", gin.H{
		"username": "mallory",
		"password": "hunter22",
	}, nil)

	// Both failure modes look the same from the outside
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestGetUserRequiresSession(t *testing.T) {
	engine, _ := setupServer(t)

	w := doJSON(t, engine, http.MethodGet, "/api/auth/user", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A made-up token is just as anonymous as none at all
	w = doJSON(t, engine, http.MethodGet, "/api/auth/user", nil, &http.Cookie{Name: "cb_session", Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	engine, _ := setupServer(t)
	cookie := signupUser(t, engine, "alice")

	w := doJSON(t, engine, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	// The old token no longer resolves
	w = doJSON(t, engine, http.MethodGet, "/api/auth/user", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Logging out again, or without a session, still succeeds
	w = doJSON(t, engine, http.MethodPost, "/api/auth/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, engine, http.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
