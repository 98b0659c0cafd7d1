package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/folio-hub/portfolio-service/internal/models"
	"github.com/folio-hub/portfolio-service/internal/session"
	"github.com/folio-hub/portfolio-service/internal/utils"
)

const (
	sessionContextKey = "session"
	authContextKey    = "auth"
)

// AuthContext is the caller identity resolved once per request.
type AuthContext struct {
	UserID   uint
	Username string
	Role     models.UserRole
}

func (a AuthContext) IsAuthenticated() bool {
	return a.UserID != 0
}

func (a AuthContext) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// GetAuth returns the caller identity; guests get a zero AuthContext with RoleGuest.
func GetAuth(c *gin.Context) AuthContext {
	if v, ok := c.Get(authContextKey); ok {
		if auth, ok := v.(AuthContext); ok {
			return auth
		}
	}
	return AuthContext{Role: models.RoleGuest}
}

func getSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// SessionAuthMiddleware resolves the session cookie into an AuthContext
type SessionAuthMiddleware struct {
	sessions *session.Manager
	logger   utils.Logger
}

func NewSessionAuthMiddleware(sessions *session.Manager, logger utils.Logger) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{sessions: sessions, logger: logger}
}

// AuthMiddleware loads the session for every request. A store failure
// degrades the caller to a guest instead of failing the request.
func (m *SessionAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := m.sessions.Load(c.Request.Context(), c.Writer, c.Request)
		if err != nil {
			utils.FromContext(c, m.logger).Error("Failed to load session", "error", err)
			s = nil
		}

		auth := AuthContext{Role: models.RoleGuest}
		if s.Authenticated() {
			auth = AuthContext{UserID: s.UserID, Username: s.Username, Role: s.Role}
		}

		if s != nil {
			c.Set(sessionContextKey, s)
		}
		c.Set(authContextKey, auth)
		c.Next()
	}
}

// RequireRoleMiddleware sends guests to the login page and authenticated
// callers without a required role to their own landing page. Admin passes
// every check.
func (m *SessionAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := GetAuth(c)
		if !auth.IsAuthenticated() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		if auth.Role != models.RoleAdmin && !slices.Contains(requiredRoles, auth.Role) {
			utils.FromContext(c, m.logger).Warn("Role check failed",
				"user_id", auth.UserID, "role", auth.Role, "required", requiredRoles)
			c.Redirect(http.StatusFound, landingPage(auth))
			c.Abort()
			return
		}

		c.Next()
	}
}
