package validation

import (
	"fmt"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"
)

// PasswordStrength is a validation.Rule enforcing a minimum length and the
// character classes a password must contain.
type PasswordStrength struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

// DefaultPasswordPolicy is applied to account registration.
var DefaultPasswordPolicy = PasswordStrength{
	MinLength:      8,
	RequireUpper:   true,
	RequireLower:   true,
	RequireNumber:  true,
	RequireSpecial: true,
}

type charClasses struct {
	upper, lower, number, special bool
}

func scanClasses(s string) charClasses {
	var cc charClasses
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			cc.upper = true
		case unicode.IsLower(r):
			cc.lower = true
		case unicode.IsNumber(r):
			cc.number = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			cc.special = true
		}
	}
	return cc
}

// Validate reports every unmet requirement in a single error.
func (p PasswordStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}
	if len(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			fmt.Sprintf("password must be at least %d characters", p.MinLength),
		)
	}

	cc := scanClasses(s)
	var missing []string
	if p.RequireUpper && !cc.upper {
		missing = append(missing, "one uppercase letter")
	}
	if p.RequireLower && !cc.lower {
		missing = append(missing, "one lowercase letter")
	}
	if p.RequireNumber && !cc.number {
		missing = append(missing, "one number")
	}
	if p.RequireSpecial && !cc.special {
		missing = append(missing, "one special character")
	}
	if len(missing) > 0 {
		return validation.NewError(
			"validation_password_classes",
			"password must contain at least "+strings.Join(missing, ", "),
		)
	}
	return nil
}
