package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/folio-hub/portfolio-service/internal/services"
	"github.com/folio-hub/portfolio-service/internal/session"
	"github.com/folio-hub/portfolio-service/internal/utils"
	"github.com/folio-hub/portfolio-service/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler serves the review queue and the profile editor under /admin
type AdminHandler struct {
	BaseHandler
	reviewService services.ReviewService
	exportService services.ExportService
	maxPhotoBytes int64
}

func NewAdminHandler(reviewService services.ReviewService, exportService services.ExportService, sessions *session.Manager, logger utils.Logger, maxPhotoBytes int64) *AdminHandler {
	return &AdminHandler{
		BaseHandler:   NewBaseHandler(logger, sessions),
		reviewService: reviewService,
		exportService: exportService,
		maxPhotoBytes: maxPhotoBytes,
	}
}

// ReviewQueue lists every non-admin user, unreviewed profiles first
func (h *AdminHandler) ReviewQueue(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.reviewService.Queue(ctx)
	if err != nil {
		h.LogError(c, err, "Failed to load review queue")
		h.renderError(c, http.StatusInternalServerError, "Failed to load review queue")
		return
	}

	summary, err := h.reviewService.Summary(ctx)
	if err != nil {
		h.LogError(c, err, "Failed to load review summary")
		h.renderError(c, http.StatusInternalServerError, "Failed to load review queue")
		return
	}

	h.render(c, http.StatusOK, "admin.html", gin.H{
		"Title":   "Review queue",
		"Items":   items,
		"Summary": summary,
	})
}

// ShowEditUser renders the editor for one user's profile
func (h *AdminHandler) ShowEditUser(c *gin.Context) {
	userID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	target, err := h.reviewService.GetForEdit(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.renderEditor(c, http.StatusOK, target, nil, nil)
}

// EditUser saves the submitted profile for the user and publishes it
func (h *AdminHandler) EditUser(c *gin.Context) {
	userID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	h.LogRequest(c, "Publishing profile", "target_user_id", userID)

	form, photoUpdate, msgs := readProfileForm(c, h.maxPhotoBytes)
	if len(msgs) > 0 {
		h.renderEditorError(c, userID, form, msgs)
		return
	}

	if _, err := h.reviewService.Publish(c.Request.Context(), userID, form, photoUpdate); err != nil {
		if verrs, ok := validator.AsValidationErrors(err); ok {
			h.renderEditorError(c, userID, form, verrs.Messages())
			return
		}
		h.handleServiceError(c, err)
		return
	}

	h.flash(c, session.FlashSuccess, "Profile saved and published")
	h.redirect(c, "/admin")
}

func (h *AdminHandler) renderEditorError(c *gin.Context, userID uint, form *services.ProfileForm, msgs []string) {
	target, err := h.reviewService.GetForEdit(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.renderEditor(c, http.StatusBadRequest, target, form, msgs)
}

func (h *AdminHandler) renderEditor(c *gin.Context, status int, target *services.ReviewTarget, form *services.ProfileForm, msgs []string) {
	data := profileFormData(form, target.Profile, msgs)
	data["Title"] = "Edit " + target.User.Username
	data["Action"] = fmt.Sprintf("/admin/edit_user/%d", target.User.ID)
	data["Target"] = target
	data["Status"] = target.Profile.Status()
	h.render(c, status, "admin_edit.html", data)
}

// Export streams the review queue as an XLSX workbook
func (h *AdminHandler) Export(c *gin.Context) {
	h.LogRequest(c, "Exporting review queue")

	var buf bytes.Buffer
	rows, err := h.exportService.ExportReviewQueue(c.Request.Context(), &buf)
	if err != nil {
		h.LogError(c, err, "Failed to export review queue")
		h.flash(c, session.FlashError, "Export failed, try again later")
		h.redirect(c, "/admin")
		return
	}

	filename := fmt.Sprintf("review-queue-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("X-Export-Rows", strconv.Itoa(rows))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// parseIDParam treats a malformed id the same as an unknown user
func (h *AdminHandler) parseIDParam(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		h.userNotFound(c)
		return 0, false
	}
	return uint(id), true
}

func (h *AdminHandler) userNotFound(c *gin.Context) {
	h.flash(c, session.FlashError, "User not found")
	h.redirect(c, "/admin")
}

func (h *AdminHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		h.userNotFound(c)
	default:
		h.LogError(c, err, "Review request failed")
		h.renderError(c, http.StatusInternalServerError, "Something went wrong, try again later")
	}
}
