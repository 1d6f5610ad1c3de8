package middleware

import (
	"errors"
	"net/http"
	"strings"

	"coursematch.com/backend/pkg/logger"
	"coursematch.com/backend/pkg/response"
	"coursematch.com/backend/pkg/session"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	sessions *session.Manager
	log      *logger.Logger
}

func NewAuthMiddleware(sessions *session.Manager, log *logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, log: log}
}

// LoadSession resolves the session when one is present and never aborts.
func (m *AuthMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.resolve(c, false)
		c.Next()
	}
}

// RequireAuth aborts with 401 "NotAuthenticated" unless a valid session is
// present in the cookie or a Bearer header.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return m.require(false)
}

// RequireStreamAuth is RequireAuth that also accepts a "token" query
// parameter, for websocket clients that cannot set headers.
func (m *AuthMiddleware) RequireStreamAuth() gin.HandlerFunc {
	return m.require(true)
}

func (m *AuthMiddleware) require(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.resolve(c, allowQuery) {
			response.Text(c, http.StatusUnauthorized, "NotAuthenticated")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) resolve(c *gin.Context, allowQuery bool) bool {
	if _, ok := session.FromContext(c); ok {
		return true
	}

	tokenString := m.tokenFrom(c, allowQuery)
	if tokenString == "" {
		return false
	}

	claims, err := m.sessions.Parse(c.Request.Context(), tokenString)
	if err != nil {
		if !errors.Is(err, session.ErrInvalidSession) {
			m.log.Warn("session lookup failed", "error", err)
		}
		return false
	}

	c.Set(session.ContextKey, claims)
	c.Set("user_id", claims.Subject)
	return true
}

// tokenFrom checks the session cookie, then a Bearer header, then the
// "token" query parameter when allowQuery is set.
func (m *AuthMiddleware) tokenFrom(c *gin.Context, allowQuery bool) string {
	if cookie, err := c.Cookie(m.sessions.CookieName()); err == nil && cookie != "" {
		return cookie
	}

	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	if allowQuery {
		return c.Query("token")
	}
	return ""
}
