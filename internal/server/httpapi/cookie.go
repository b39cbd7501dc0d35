package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie the session token travels in.
const SessionCookieName = "token"

// CookieConfig is the security baseline for the session cookie. The cookie
// is always HTTP-only and SameSite=Lax; Secure is on in production.
type CookieConfig struct {
	Secure bool
	MaxAge int
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, s.cookie.MaxAge, "/", "", s.cookie.Secure, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", s.cookie.Secure, true)
}
