// Package validation provides custom rules for jellydator/validation.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/rememberme/internal/errors"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// optional leading plus, then digits, spaces, dashes and parentheses
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)
)

// WrapValidationError marks err as apperrors.ErrInvalidInput so transports answer 422.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email checks the address shape. Deliverability is not checked.
var Email = validation.NewStringRuleWithError(
	emailRegex.MatchString,
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// Phone validates a loosely formatted phone number. Empty strings pass; combine with
// Required when the field is mandatory.
var Phone = validation.NewStringRuleWithError(
	phoneRegex.MatchString,
	validation.NewError("validation_phone_format", "must be a valid phone number"),
)

// NotBlank rejects strings made only of whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
