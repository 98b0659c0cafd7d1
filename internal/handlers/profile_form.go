package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folio-hub/portfolio-service/internal/models"
	"github.com/folio-hub/portfolio-service/internal/photo"
	"github.com/folio-hub/portfolio-service/internal/services"
	"github.com/folio-hub/portfolio-service/internal/validator"
)

// formOverheadBytes is the request body allowance on top of the photo limit
const formOverheadBytes = 1 << 20

// readProfileForm binds the profile fields and the optional photo upload.
// A non-empty message slice means the submission must be rejected with 400.
func readProfileForm(c *gin.Context, maxPhotoBytes int64) (*services.ProfileForm, *services.PhotoUpdate, []string) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBytes+formOverheadBytes)

	form := &services.ProfileForm{}
	if err := c.ShouldBind(form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return form, nil, []string{photoLimitMessage(maxPhotoBytes)}
		}
		return form, nil, []string{"Invalid form submission"}
	}

	// urlencoded submissions carry no file parts
	if c.Request.MultipartForm == nil {
		return form, nil, nil
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return form, nil, nil
		}
		return form, nil, []string{"Photo could not be read"}
	}
	if fh.Size > maxPhotoBytes {
		return form, nil, []string{photoLimitMessage(maxPhotoBytes)}
	}

	f, err := fh.Open()
	if err != nil {
		return form, nil, []string{"Photo could not be read"}
	}
	defer f.Close()

	dataURI, err := photo.Normalize(f, maxPhotoBytes)
	switch {
	case errors.Is(err, photo.ErrDimensions):
		return form, nil, []string{fmt.Sprintf("Photo must be at most %d megapixels", photo.MaxPixels/1_000_000)}
	case errors.Is(err, photo.ErrTooLarge):
		return form, nil, []string{photoLimitMessage(maxPhotoBytes)}
	case errors.Is(err, photo.ErrUnsupported):
		return form, nil, []string{"Photo must be a PNG, JPEG or GIF image"}
	case err != nil:
		return form, nil, []string{"Photo could not be read"}
	}

	return form, &services.PhotoUpdate{DataURI: dataURI}, nil
}

func photoLimitMessage(maxBytes int64) string {
	return fmt.Sprintf("Photo must be at most %.1f MB", float64(maxBytes)/(1<<20))
}

// profileFormData is the template data shared by the user and admin editors.
// Each structured section ends with one blank row for a new entry.
func profileFormData(form *services.ProfileForm, existing *models.UserProfile, errs []string) gin.H {
	if form == nil {
		form = validator.ProfileFormFrom(existing)
	}
	experience := append(form.ExperienceRows(), validator.ExperienceRow{})
	languages := append(form.LanguageRows(), validator.LanguageRow{})

	var photoURI string
	if existing != nil {
		photoURI = existing.Photo
	}

	return gin.H{
		"Form":       form,
		"Experience": experience,
		"Languages":  languages,
		"Photo":      photoURI,
		"Errors":     errs,
	}
}
