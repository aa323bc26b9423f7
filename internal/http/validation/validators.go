// Package validation checks submitted form fields and collects per-field
// messages for re-rendering the form.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Rule inspects one form value and returns a user-facing message, or "" when
// the value passes. Values are trimmed before any rule sees them.
type Rule func(value string) string

// Required rejects blank values and values longer than maxRunes.
func Required(label string, maxRunes int) Rule {
	tooLong := MaxLength(label, maxRunes)
	return func(value string) string {
		if value == "" {
			return label + " is required."
		}
		return tooLong(value)
	}
}

// MaxLength rejects values longer than maxRunes. Blank values pass.
func MaxLength(label string, maxRunes int) Rule {
	return func(value string) string {
		if utf8.RuneCountInString(value) <= maxRunes {
			return ""
		}
		return fmt.Sprintf("%s cannot exceed %d characters.", label, maxRunes)
	}
}

// OneOf accepts blank values and values equal to one of allowed, ignoring case.
func OneOf(label string, allowed ...string) Rule {
	return func(value string) string {
		if value == "" {
			return ""
		}
		for _, a := range allowed {
			if strings.EqualFold(value, a) {
				return ""
			}
		}
		return label + " must be one of: " + strings.Join(allowed, ", ")
	}
}

// Errors maps form field names to the message of their first failing rule.
type Errors map[string]string

// Check runs rules against the trimmed value in order and records the first
// failure under field.
func (e Errors) Check(field, value string, rules ...Rule) {
	value = strings.TrimSpace(value)
	for _, rule := range rules {
		if msg := rule(value); msg != "" {
			e[field] = msg
			return
		}
	}
}
