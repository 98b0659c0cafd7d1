package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folio-hub/portfolio-service/internal/services"
	"github.com/folio-hub/portfolio-service/internal/session"
	"github.com/folio-hub/portfolio-service/internal/utils"
	"github.com/folio-hub/portfolio-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, sessions *session.Manager, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger, sessions),
		authService: authService,
	}
}

// Index sends visitors to the login page
func (h *AuthHandler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
}

// ShowRegister renders the registration form
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	if auth := GetAuth(c); auth.IsAuthenticated() {
		h.redirect(c, landingPage(auth))
		return
	}
	h.renderRegister(c, http.StatusOK, "", nil)
}

// Register creates an account and sends the new user to the login page
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderRegister(c, http.StatusBadRequest, "", []string{"Invalid form submission"})
		return
	}

	h.LogRequest(c, "Registering user", "username", req.Username)

	_, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if verrs, ok := validator.AsValidationErrors(err); ok {
			h.renderRegister(c, http.StatusBadRequest, req.Username, verrs.Messages())
			return
		}
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			h.renderRegister(c, http.StatusConflict, req.Username, []string{"Username already exists"})
		default:
			h.LogError(c, err, "Failed to register user")
			h.renderRegister(c, http.StatusInternalServerError, req.Username, []string{"Registration failed"})
		}
		return
	}

	h.flash(c, session.FlashSuccess, "Registration successful, you can now log in")
	h.redirect(c, "/login")
}

func (h *AuthHandler) renderRegister(c *gin.Context, status int, username string, errs []string) {
	h.render(c, status, "register.html", gin.H{
		"Title":    "Register",
		"Username": username,
		"Errors":   errs,
	})
}

// ShowLogin renders the login form
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if auth := GetAuth(c); auth.IsAuthenticated() {
		h.redirect(c, landingPage(auth))
		return
	}
	h.renderLogin(c, http.StatusOK, "", nil)
}

// Login checks the credentials and starts a fresh authenticated session
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, "", []string{"Invalid form submission"})
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			h.renderLogin(c, http.StatusUnauthorized, req.Username, []string{"Invalid username or password"})
		default:
			h.LogError(c, err, "Failed to authenticate user")
			h.renderLogin(c, http.StatusInternalServerError, req.Username, []string{"Login failed, try again later"})
		}
		return
	}

	s, err := h.sessions.Login(c.Request.Context(), c.Writer, getSession(c), user)
	if err != nil {
		h.LogError(c, err, "Failed to start session")
		h.renderLogin(c, http.StatusInternalServerError, req.Username, []string{"Login failed, try again later"})
		return
	}
	c.Set(sessionContextKey, s)

	auth := AuthContext{UserID: s.UserID, Username: s.Username, Role: s.Role}
	c.Set(authContextKey, auth)
	h.LogRequest(c, "User logged in", "role", auth.Role)
	h.redirect(c, landingPage(auth))
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, username string, errs []string) {
	h.render(c, status, "login.html", gin.H{
		"Title":    "Log in",
		"Username": username,
		"Errors":   errs,
	})
}

// Logout drops the session record and expires the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Destroy(c.Request.Context(), c.Writer, getSession(c)); err != nil {
		h.LogError(c, err, "Failed to destroy session")
	}
	c.Redirect(http.StatusFound, "/login")
}
