package middleware

import (
	"net/http"

	"tech-selector/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionIDKey is the gin context key holding the caller's session ID
const SessionIDKey = "session_id"

// Session makes sure every request carries a session cookie and stores its
// value under SessionIDKey.
func Session(sessions *session.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || !session.ValidID(id) {
			id = sessions.NewID()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		c.Set(SessionIDKey, id)
		c.Next()
	}
}

// SessionID returns the ID stored by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
