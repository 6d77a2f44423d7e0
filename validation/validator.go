// Package validation wraps go-playground/validator with the rules shared by every
// portfolio payload: trimmed strings, JSON field names in messages, GitHub and
// http(s) URLs, letters-and-spaces names and ISO 8601 dates.
//
// A failed check reports every violated rule, not just the first:
//
//	if err := validation.ValidateStruct(&payload); err != nil {
//	    return err // *errs.ApiErr with Fields populated
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rpupo63/portfolio-api/errs"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var (
	githubURLPattern  = regexp.MustCompile(`^https?://(www\.)?github\.com/.+`)
	httpURLPattern    = regexp.MustCompile(`^https?://[^\s/$.?#][^\s]*$`)
	alphaSpacePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

// dateLayouts are the ISO 8601 shapes accepted for dates
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
}

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// report JSON names so clients can map errors back to form fields
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		mustRegister("githuburl", func(fl validator.FieldLevel) bool {
			return githubURLPattern.MatchString(fl.Field().String())
		})
		mustRegister("httpurl", func(fl validator.FieldLevel) bool {
			return httpURLPattern.MatchString(fl.Field().String())
		})
		mustRegister("alphaspace", func(fl validator.FieldLevel) bool {
			return alphaSpacePattern.MatchString(fl.Field().String())
		})
		mustRegister("isodate", func(fl validator.FieldLevel) bool {
			_, err := ParseDate(fl.Field().String())
			return err == nil
		})
	})

	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

// ValidateStruct validates s and returns an *errs.ApiErr listing every violated rule, or nil.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return errs.NewValidationErr([]errs.FieldError{{Field: "payload", Message: err.Error()}})
	}

	return errs.NewValidationErr(FieldErrors(validationErrs))
}

// FieldErrors converts validator errors into the response shape
func FieldErrors(validationErrs validator.ValidationErrors) []errs.FieldError {
	out := make([]errs.FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		out[i] = errs.FieldError{
			Field:   fieldPath(fe),
			Message: translateError(fe),
			Tag:     fe.Tag(),
		}
	}
	return out
}

// fieldPath drops the struct name from the namespace: ProjectPayload.technologies[0] -> technologies[0]
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// ParseDate accepts the ISO 8601 layouts clients send (full timestamps or plain dates).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO 8601 date %q", s)
}

// TrimSlice trims every entry in place and returns the slice
func TrimSlice(values []string) []string {
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}
	return values
}

// TrimPtr trims *s, turning a blank value into nil
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

var errorMessageTemplates = map[string]string{
	"required":   "%s is required",
	"email":      "%s must be a valid email address",
	"githuburl":  "%s must be a valid GitHub URL",
	"httpurl":    "%s must be a valid http(s) URL",
	"alphaspace": "%s can only contain letters and spaces",
	"isodate":    "%s must be a valid ISO 8601 date",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := fieldPath(fe)
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}

	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, strings.ReplaceAll(param, " ", ", "))
	}

	return translateMinMax(fe, field, tag, param)
}

func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	switch fe.Kind() {
	case reflect.String:
		if tag == "min" {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		if tag == "max" {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
	case reflect.Slice, reflect.Array:
		if tag == "min" {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, param)
		}
		if tag == "max" {
			return fmt.Sprintf("%s must contain at most %s item(s)", field, param)
		}
	default:
		if tag == "min" {
			return fmt.Sprintf("%s must be at least %s", field, param)
		}
		if tag == "max" {
			return fmt.Sprintf("%s must be at most %s", field, param)
		}
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}
