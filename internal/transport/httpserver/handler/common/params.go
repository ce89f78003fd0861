package common

import (
	"errors"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

const cleanPasses = 4

// CleanText strips markup from user text and trims it. Entity-encoded tags
// are decoded before sanitizing, and the result is repeated until it no
// longer changes, so plain text like "Milk & eggs" is stored unescaped while
// no pass can turn escaped text back into a tag. Input that does not settle
// keeps the policy's escaped output.
func CleanText(value string) string {
	current := strings.TrimSpace(value)
	for i := 0; i < cleanPasses; i++ {
		sanitized := textPolicy.Sanitize(html.UnescapeString(current))
		next := strings.TrimSpace(html.UnescapeString(sanitized))
		if next == current {
			return next
		}
		current = next
	}
	return strings.TrimSpace(textPolicy.Sanitize(html.UnescapeString(current)))
}

// CleanOptional applies CleanText to a present value.
func CleanOptional(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := CleanText(*value)
	return &cleaned
}

// ParseDeadline accepts RFC 3339 timestamps or plain dates.
func ParseDeadline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("deadline is empty")
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), nil
	}
	return time.Parse("2006-01-02", value)
}

// QueryParam returns nil for an absent or blank query value.
func QueryParam(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
