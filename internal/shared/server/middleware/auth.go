package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthtrack-backend/internal/shared/server/respond"
	"healthtrack-backend/internal/shared/session"
)

const userIDKey = "userId"

// Auth validates the session cookie and stores the user id in context.
// Requests without a valid session are rejected with a generic 401.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		token := session.TokenFromRequest(c)
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
			return
		}

		userID, err := session.Verify(secret, token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// MaybeAuth stores the user id when a valid session cookie is present but
// never rejects the request. Used by routes that render for both states.
func MaybeAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := session.TokenFromRequest(c); token != "" {
			if userID, err := session.Verify(secret, token); err == nil {
				c.Set(userIDKey, userID)
			}
		}
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
