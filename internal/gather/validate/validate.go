// Package validate checks user-supplied event and RSVP fields.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)
	dateRe  = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
	timeRe  = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

// Email validates an address.
func Email(email string) error {
	if email == "" || len(email) > 254 {
		return fmt.Errorf("Email must be between 1 and 254 characters")
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("Invalid email format")
	}
	return nil
}

// Date validates a YYYY-MM-DD date, rejecting impossible days like
// February 30.
func Date(date string) error {
	if !dateRe.MatchString(date) {
		return fmt.Errorf("Date must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("Invalid date")
	}
	return nil
}

// Time validates a 24-hour HH:MM time.
func Time(value string) error {
	if !timeRe.MatchString(value) {
		return fmt.Errorf("Time must be in HH:MM format (24-hour)")
	}
	return nil
}

// Length validates a string field's length bounds.
func Length(value, fieldName string, min, max int) error {
	if len(value) < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if len(value) > max {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, max)
	}
	return nil
}

var (
	controlRe    = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// SanitizeForAI strips control characters, collapses whitespace and caps
// length before user text is interpolated into a generation prompt.
func SanitizeForAI(input string) string {
	out := controlRe.ReplaceAllString(input, "")
	out = whitespaceRe.ReplaceAllString(out, " ")
	out = strings.TrimSpace(out)
	if len(out) > 500 {
		out = out[:500]
	}
	return out
}
