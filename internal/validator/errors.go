package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single rejected form field
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

// Text renders the error for display next to a form.
func (e ValidationError) Text() string {
	return fmt.Sprintf("%s %s", fieldLabel(e.Field), e.Message)
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Messages returns one display line per error, in field order.
func (ve ValidationErrors) Messages() []string {
	out := make([]string, 0, len(ve))
	for _, e := range ve {
		out = append(out, e.Text())
	}
	return out
}

// AsValidationErrors unwraps err into ValidationErrors when it carries them.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ToValidationErrors converts go-playground errors into ValidationErrors
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "form", Message: err.Error(), Rule: "invalid"}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: errorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

// errorMessage returns user-friendly error messages
func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "eqfield":
		return fmt.Sprintf("must match %s", fieldLabelLower(fe.Param()))
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "bcryptlen":
		return fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes)
	case "username":
		return "must be 3 to 64 characters of letters, digits, dots, dashes or underscores"
	default:
		return fmt.Sprintf("failed rule '%s'", fe.Tag())
	}
}

func fieldLabel(field string) string {
	label := fieldLabelLower(field)
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func fieldLabelLower(field string) string {
	// struct names like ConfirmPassword come through eqfield params
	var b strings.Builder
	for i, r := range field {
		switch {
		case r == '_':
			b.WriteByte(' ')
		case r >= 'A' && r <= 'Z':
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
