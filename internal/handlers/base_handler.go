package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"

	"github.com/folio-hub/portfolio-service/internal/session"
	"github.com/folio-hub/portfolio-service/internal/utils"
)

// BaseHandler provides logging and the session-aware render/redirect helpers
// shared by all page handlers.
type BaseHandler struct {
	logger   utils.Logger
	sessions *session.Manager
}

func NewBaseHandler(logger utils.Logger, sessions *session.Manager) BaseHandler {
	return BaseHandler{logger: logger, sessions: sessions}
}

// LogRequest logs an incoming request with the request-scoped logger
func (h *BaseHandler) LogRequest(c *gin.Context, message string, args ...any) {
	l := utils.FromContext(c, h.logger)
	args = append(args, "method", c.Request.Method, "path", c.Request.URL.Path)
	if auth := GetAuth(c); auth.IsAuthenticated() {
		args = append(args, "user_id", auth.UserID)
	}
	l.Info(message, args...)
}

// LogError logs err and records it on the gin context
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, args ...any) {
	l := utils.FromContext(c, h.logger)
	args = append(args, "error", err, "method", c.Request.Method, "path", c.Request.URL.Path)
	l.Error(message, args...)
	_ = c.Error(err)
}

// flash queues a message on the current session, starting a guest session
// when the request has none.
func (h *BaseHandler) flash(c *gin.Context, kind session.FlashKind, message string) {
	s := getSession(c)
	if s == nil {
		s = h.sessions.Ensure(nil)
		c.Set(sessionContextKey, s)
	}
	s.AddFlash(kind, message)
}

// commitSession writes back a modified session. It must run before the
// response status is written so the cookie header is still mutable.
func (h *BaseHandler) commitSession(c *gin.Context) {
	s := getSession(c)
	if !s.Dirty() {
		return
	}
	if err := h.sessions.Save(c.Request.Context(), c.Writer, s); err != nil {
		h.LogError(c, err, "Failed to save session")
	}
}

func (h *BaseHandler) redirect(c *gin.Context, location string) {
	h.commitSession(c)
	c.Redirect(http.StatusFound, location)
}

// render executes a page template inside the layout. Pending flashes are
// consumed and shown on this page.
func (h *BaseHandler) render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Auth"] = GetAuth(c)
	data["Flashes"] = getSession(c).PopFlashes()
	data["CSRFField"] = csrf.TemplateField(c.Request)

	h.commitSession(c)
	c.HTML(status, page, data)
}

// renderError shows a bare error page, used where no better page exists
func (h *BaseHandler) renderError(c *gin.Context, status int, message string) {
	h.render(c, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}

// landingPage is where an account goes after login
func landingPage(auth AuthContext) string {
	if auth.IsAdmin() {
		return "/admin"
	}
	return "/user"
}
