package middlewares

import (
	"net/http"

	"gatekeeper/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type SessionReader interface {
	Current(c *gin.Context) (user.Identity, bool)
}

type SessionMiddleware struct {
	sessions SessionReader
}

func NewSessionMiddleware(sessions SessionReader) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// RequireSession rejects requests that carry no active session. The
// rejection message matches what the whoami surface promises.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := m.sessions.Current(c)

		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Please log in",
				},
			})
			return
		}

		// Stash useful bits of identity on the context
		c.Set(ctxUserIDKey, id.ID)
		c.Set(ctxEmailKey, id.Email)

		c.Next()
	}
}

// Optional helpers so handlers don’t need to know the magic keys.

func IdentityFromContext(c *gin.Context) (user.Identity, bool) {
	idv, ok := c.Get(ctxUserIDKey)
	if !ok {
		return user.Identity{}, false
	}

	id, ok := idv.(string)
	if !ok || id == "" {
		return user.Identity{}, false
	}

	email, _ := c.Get(ctxEmailKey)
	emailStr, _ := email.(string)

	return user.Identity{ID: id, Email: emailStr}, true
}
