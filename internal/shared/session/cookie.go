package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie set on login and register.
const CookieName = "auth"

// SetCookie attaches the session token as an httponly, SameSite=Lax cookie.
// Secure is only set in production so local development over http still works.
func SetCookie(c *gin.Context, token string, production bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   production,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest reads the session token from the request cookie.
func TokenFromRequest(c *gin.Context) string {
	cookie, err := c.Request.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
