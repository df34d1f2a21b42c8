package middleware

import (
	"net/http"

	"corkboard/internal/models"
	"corkboard/internal/session"
	"corkboard/internal/store"

	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "sessionId"

// LoadUser resolves the session cookie into the current user and stores a
// password-redacted copy in the request context. Any failure along the way
// (no cookie, unknown token, vanished user) just means "not logged in".
func LoadUser(st *store.Store, sessions *session.Table) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err == nil && token != "" {
			if userID, ok := sessions.Resolve(token); ok {
				if user, ok := st.FindUser(userID); ok {
					redacted := user.Redacted()
					c.Set(CheckUserKey, &redacted)
				}
			}
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in. Anonymous requests are sent to
// the login page. Assumes LoadUser ran earlier in the chain.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the redacted user set by LoadUser, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(CheckUserKey); exists {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
