package core

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("isbn_digits", func(fl validator.FieldLevel) bool {
		return IsValidISBN(fl.Field().String())
	})

	return v
}

// NormalizeISBN strips hyphens and spaces.
func NormalizeISBN(isbn string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, isbn)
}

// IsValidISBN accepts 10 or 13 digits once hyphens and spaces are removed.
// An ISBN-10 may end in the check character X.
func IsValidISBN(isbn string) bool {
	cleaned := NormalizeISBN(isbn)

	switch len(cleaned) {
	case 10:
		return allDigits(cleaned[:9]) && (unicode.IsDigit(rune(cleaned[9])) || cleaned[9] == 'X' || cleaned[9] == 'x')
	case 13:
		return allDigits(cleaned)
	default:
		return false
	}
}

// ValidateBookDraft checks a draft and reports every violated rule in one ValidationError.
func ValidateBookDraft(d BookDraft) *Failure {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return NewFailure(KindValidation, "%s", err.Error())
	}

	reasons := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		reasons = append(reasons, describeFieldError(fe))
	}

	return NewFailure(KindValidation, "%s", strings.Join(reasons, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "isbn_digits":
		return fmt.Sprintf("%s must contain 10 or 13 digits", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
