package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comfortbites/backend/internal/models"
)

// SessionCookie is the cookie carrying the opaque session token
const SessionCookie = "cb_session"

const userContextKey = "current_user"

// SessionResolver resolves a session token to a user identity
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, bool, error)
}

// Session resolves the session cookie, if any, and stores the user in the
// request context. Anonymous requests pass through untouched; only
// RequireAuth rejects them.
func Session(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, ok, err := resolver.CurrentUser(c.Request.Context(), token)
		if err != nil {
			// Session store trouble: treat the request as anonymous
			// rather than failing every public page.
			log.Printf("session resolution failed: %v", err)
			c.Next()
			return
		}
		if ok {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

// RequireAuth aborts with 401 when no session user was resolved
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the session user stored by Session, if any
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// SetCurrentUser stores the user in the request context. Exposed for
// handlers that establish a session mid-request (login, signup).
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userContextKey, user)
}
