// Package validate checks entities before they are written to the store.
// Field rules live in `validate` struct tags on the models; this package
// registers the site-specific rules and turns validator output into a single
// readable error wrapping models.ErrInvalid.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"engsite/internal/models"
	"engsite/internal/slug"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.Valid(fl.Field().String())
	})
	val.RegisterValidation("category_type", func(fl validator.FieldLevel) bool {
		return models.CategoryType(fl.Field().String()).Valid()
	})
	return val
}

// Struct validates s against its struct tags. The returned error wraps
// models.ErrInvalid and names the first failing field.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", models.ErrInvalid, err)
	}
	return fmt.Errorf("%w: %s", models.ErrInvalid, describe(verrs[0]))
}

// describe renders one field error as a short sentence.
func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s is too long (max %s)", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "slug":
		return field + " must contain only letters, digits, hyphens and underscores"
	case "category_type":
		return fmt.Sprintf("%s %q is not a known category type", field, fe.Value())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
