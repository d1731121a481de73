package validation

import (
	"time"

	validation "github.com/jellydator/validation"
)

// DateLayout is the calendar date format accepted by date fields.
const DateLayout = "2006-01-02"

// PastDate validates a DateLayout string that is not in the future. Empty strings pass.
var PastDate = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_date_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	date, err := time.Parse(DateLayout, s)
	if err != nil {
		return validation.NewError("validation_date_format", "must be a date in YYYY-MM-DD format")
	}
	if date.After(time.Now().UTC()) {
		return validation.NewError("validation_date_past", "must not be in the future")
	}
	return nil
})

// Matches validates that the value equals other, e.g. a password confirmation.
func Matches(other string, message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s != other {
			return validation.NewError("validation_matches", message)
		}
		return nil
	})
}
