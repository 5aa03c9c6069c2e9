package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comfortbites/backend/internal/middleware"
	"github.com/comfortbites/backend/internal/service"
)

// AuthHandler handles signup, login, logout, and session introspection
type AuthHandler struct {
	auth        *service.AuthService
	rateLimiter *middleware.RateLimiter
}

// NewAuthHandler creates a new AuthHandler. rateLimiter may be nil when
// Redis is unavailable.
func NewAuthHandler(auth *service.AuthService, rateLimiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{auth: auth, rateLimiter: rateLimiter}
}

// RegisterRoutes registers the auth endpoints
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	if h.rateLimiter != nil {
		auth.POST("/signup", h.rateLimiter.ByClientIP(), h.Signup)
		auth.POST("/login", h.rateLimiter.ByClientIP(), h.Login)
	} else {
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
	}
	auth.POST("/logout", h.Logout)
	auth.GET("/user", middleware.RequireAuth(), h.GetUser)
}

type credentialsRequest struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Signup creates a user and establishes a session immediately
func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Passwords do not match"})
		return
	}

	user, token, err := h.auth.Signup(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Message})
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
		default:
			log.Printf("signup failed (username=%s): %v", req.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	setSessionCookie(c, token)
	c.JSON(http.StatusCreated, NewUserView(user))
}

// Login verifies credentials and establishes a session
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
			return
		}
		log.Printf("login failed (username=%s): %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	setSessionCookie(c, token)
	c.JSON(http.StatusOK, NewUserView(user))
}

// GetUser returns the session user
func (h *AuthHandler) GetUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, NewUserView(user))
}

// Logout tears down the session. Safe to call without one.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(middleware.SessionCookie)
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		log.Printf("logout failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error during logout"})
		return
	}
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(service.SessionTTL.Seconds()), "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
}
