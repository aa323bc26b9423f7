package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_CheckRequired(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"valid", "Cook", ""},
		{"empty", "", "Title is required."},
		{"whitespace only", "   ", "Title is required."},
		{"exactly max", "Chefs", ""},
		{"too long", "Sous chef", "Title cannot exceed 5 characters."},
		{"unicode counts runes", "Café!", ""},
		{"trimmed before length check", "  Cook  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Errors{}
			errs.Check("title", tt.value, Required("Title", 5))
			assert.Equal(t, tt.want, errs["title"])
		})
	}
}

func TestMaxLength(t *testing.T) {
	rule := MaxLength("Salary", 6)
	assert.Empty(t, rule(""))
	assert.Empty(t, rule("15/hr"))
	assert.Equal(t, "Salary cannot exceed 6 characters.", rule("15-20/hr"))
}

func TestOneOf(t *testing.T) {
	errs := Errors{}
	errs.Check("a", "active", OneOf("Status", "Active", "Closed"))
	errs.Check("b", " CLOSED ", OneOf("Status", "Active", "Closed"))
	errs.Check("c", "", OneOf("Status", "Active", "Closed"))
	errs.Check("d", "Paused", OneOf("Status", "Active", "Closed"))

	assert.Equal(t, Errors{"d": "Status must be one of: Active, Closed"}, errs)
}

func TestErrors_FirstFailingRuleWins(t *testing.T) {
	errs := Errors{}
	errs.Check("title", "", Required("Title", 200))
	errs.Check("location", "NYC", Required("Location", 200))
	errs.Check("description", strings.Repeat("x", 11), Required("Description", 5000), MaxLength("Description", 10))
	errs.Check("salary", "", Required("Salary", 1), MaxLength("Salary", 0))

	assert.Equal(t, Errors{
		"title":       "Title is required.",
		"description": "Description cannot exceed 10 characters.",
		"salary":      "Salary is required.",
	}, errs)
}
