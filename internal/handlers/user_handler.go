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

const notReviewedMessage = "Your portfolio has not been reviewed by an administrator yet"

// UserHandler serves the profile self-service pages under /user
type UserHandler struct {
	BaseHandler
	profileService services.ProfileService
	maxPhotoBytes  int64
}

func NewUserHandler(profileService services.ProfileService, sessions *session.Manager, logger utils.Logger, maxPhotoBytes int64) *UserHandler {
	return &UserHandler{
		BaseHandler:    NewBaseHandler(logger, sessions),
		profileService: profileService,
		maxPhotoBytes:  maxPhotoBytes,
	}
}

// Dashboard renders the landing page with the review status
func (h *UserHandler) Dashboard(c *gin.Context) {
	auth := GetAuth(c)
	overview, err := h.profileService.Overview(c.Request.Context(), auth.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.render(c, http.StatusOK, "user.html", gin.H{
		"Title":    "My portfolio",
		"Overview": overview,
	})
}

// ShowPortfolioForm renders the editor prefilled with the stored profile in any state
func (h *UserHandler) ShowPortfolioForm(c *gin.Context) {
	auth := GetAuth(c)
	profile, err := h.profileService.GetOwn(c.Request.Context(), auth.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	data := profileFormData(nil, profile, nil)
	data["Title"] = "Edit portfolio"
	data["Action"] = "/user/save_portfolio"
	h.render(c, http.StatusOK, "portfolio_form.html", data)
}

// SavePortfolio stores the submitted profile and sends it back for review
func (h *UserHandler) SavePortfolio(c *gin.Context) {
	auth := GetAuth(c)
	h.LogRequest(c, "Saving portfolio")

	form, photoUpdate, msgs := readProfileForm(c, h.maxPhotoBytes)
	if len(msgs) > 0 {
		h.renderFormError(c, form, msgs)
		return
	}

	if _, err := h.profileService.SaveDraft(c.Request.Context(), auth.UserID, form, photoUpdate); err != nil {
		if verrs, ok := validator.AsValidationErrors(err); ok {
			h.renderFormError(c, form, verrs.Messages())
			return
		}
		h.handleServiceError(c, err)
		return
	}

	h.flash(c, session.FlashSuccess, "Your portfolio was submitted for review")
	h.redirect(c, "/user")
}

func (h *UserHandler) renderFormError(c *gin.Context, form *services.ProfileForm, msgs []string) {
	existing, err := h.profileService.GetOwn(c.Request.Context(), GetAuth(c).UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	data := profileFormData(form, existing, msgs)
	data["Title"] = "Edit portfolio"
	data["Action"] = "/user/save_portfolio"
	h.render(c, http.StatusBadRequest, "portfolio_form.html", data)
}

// ViewPortfolio renders the published portfolio
func (h *UserHandler) ViewPortfolio(c *gin.Context) {
	h.renderPublished(c, "portfolio.html", "Portfolio")
}

// GenerateResume renders the printable resume of the published portfolio
func (h *UserHandler) GenerateResume(c *gin.Context) {
	h.renderPublished(c, "resume.html", "Resume")
}

func (h *UserHandler) renderPublished(c *gin.Context, page, title string) {
	auth := GetAuth(c)
	overview, err := h.profileService.GetPublished(c.Request.Context(), auth.UserID)
	if err != nil {
		if errors.Is(err, services.ErrPortfolioNotPublished) {
			h.flash(c, session.FlashWarning, notReviewedMessage)
			h.redirect(c, "/user")
			return
		}
		h.handleServiceError(c, err)
		return
	}

	h.render(c, http.StatusOK, page, gin.H{
		"Title":   title,
		"User":    overview.User,
		"Profile": overview.Profile,
	})
}

// handleServiceError covers the failures every /user page shares. A session
// whose account no longer exists is dropped.
func (h *UserHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		utils.FromContext(c, h.logger).Warn("Session refers to a missing user", "user_id", GetAuth(c).UserID)
		if derr := h.sessions.Destroy(c.Request.Context(), c.Writer, getSession(c)); derr != nil {
			h.LogError(c, derr, "Failed to destroy session")
		}
		c.Redirect(http.StatusFound, "/login")
	default:
		h.LogError(c, err, "Profile request failed")
		h.renderError(c, http.StatusInternalServerError, "Something went wrong, try again later")
	}
}
