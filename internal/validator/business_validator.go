package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,64}$`)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// BusinessValidator handles form validation and the rules spanning several fields
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	// report fields by their form names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates any struct against its tags
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateRegister trims and validates a registration form
func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	req.Normalize()
	return bv.Validate(req)
}

// ValidateLogin trims and validates a login form
func (bv *BusinessValidator) ValidateLogin(req *LoginRequest) ValidationErrors {
	req.Normalize()
	return bv.Validate(req)
}

// ValidateProfile trims and validates a portfolio form including its rows
func (bv *BusinessValidator) ValidateProfile(form *ProfileForm) ValidationErrors {
	form.Normalize()

	var errs ValidationErrors
	errs = append(errs, bv.Validate(form)...)

	for i, row := range form.ExperienceRows() {
		prefix := fmt.Sprintf("experience[%d].", i)
		for _, e := range bv.Validate(&row) {
			e.Field = prefix + e.Field
			errs = append(errs, e)
		}
		if row.Company == "" && row.Position == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + "company",
				Message: "or position is required",
				Rule:    "business_logic",
			})
		}
	}

	for i, row := range form.LanguageRows() {
		prefix := fmt.Sprintf("languages[%d].", i)
		for _, e := range bv.Validate(&row) {
			e.Field = prefix + e.Field
			errs = append(errs, e)
		}
		if row.Language == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + "language",
				Message: "is required",
				Value:   row.Level,
				Rule:    "business_logic",
			})
		}
	}

	return errs
}

// registerBusinessRules registers custom validators
func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	// bcrypt refuses passwords longer than 72 bytes, whatever their rune count
	bv.validate.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
}
