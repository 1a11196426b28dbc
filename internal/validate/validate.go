// Package validate provides shared input validation for the admin API.
package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidationError describes a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MultiError collects multiple validation errors for a single request.
type MultiError struct {
	Errors []ValidationError
}

// Add appends a validation error. If err is nil, Add is a no-op.
func (m *MultiError) Add(err error) {
	if err == nil {
		return
	}
	if ve, ok := err.(*ValidationError); ok {
		m.Errors = append(m.Errors, *ve)
	} else {
		m.Errors = append(m.Errors, ValidationError{Field: "request", Message: err.Error()})
	}
}

// HasErrors reports whether any errors have been collected.
func (m *MultiError) HasErrors() bool { return len(m.Errors) > 0 }

// Error returns a pipe-delimited summary of all errors.
func (m *MultiError) Error() string {
	parts := make([]string, len(m.Errors))
	for i, e := range m.Errors {
		parts[i] = e.Error()
	}
	return strings.Join(parts, " | ")
}

// NonEmptyString validates that value is not empty or whitespace-only.
func NonEmptyString(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	return nil
}

// MinLength validates that value contains at least min runes.
func MinLength(field, value string, min int) error {
	if utf8.RuneCountInString(value) < min {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", min)}
	}
	return nil
}

// MaxLength validates that value does not exceed max rune count.
func MaxLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must not exceed %d characters", max)}
	}
	return nil
}

var uuidRE = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// IsUUID validates that value is a valid UUID.
func IsUUID(field, value string) error {
	if !uuidRE.MatchString(strings.TrimSpace(value)) {
		return &ValidationError{Field: field, Message: "must be a valid UUID"}
	}
	return nil
}

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsEmail validates that value looks like an email address.
func IsEmail(field, value string) error {
	v := strings.TrimSpace(value)
	if len(v) > 254 || !emailRE.MatchString(v) {
		return &ValidationError{Field: field, Message: "must be a valid email address"}
	}
	return nil
}

// IsMediaType validates that value is "movie" or "tv".
func IsMediaType(field, value string) error {
	if value != "movie" && value != "tv" {
		return &ValidationError{Field: field, Message: `must be "movie" or "tv"`}
	}
	return nil
}

// apiStrings are the metadata-provider category discriminators a Section
// may reference.
var apiStrings = map[string]bool{
	"popular":      true,
	"top_rated":    true,
	"now_playing":  true,
	"upcoming":     true,
	"airing_today": true,
	"on_the_air":   true,
	"trending":     true,
}

// IsAPIString validates that value is a known provider category.
func IsAPIString(field, value string) error {
	if !apiStrings[value] {
		return &ValidationError{Field: field, Message: "must be a known provider category (popular, top_rated, now_playing, upcoming, airing_today, on_the_air, trending)"}
	}
	return nil
}

// IsMenuPath validates a menu item path: a site-relative route starting
// with "/" or an absolute http(s) URL.
func IsMenuPath(field, value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	if strings.HasPrefix(v, "/") {
		return nil
	}
	u, err := url.ParseRequestURI(v)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ValidationError{Field: field, Message: "must be a site-relative path or an absolute http(s) URL"}
	}
	return nil
}

// IntInRange validates that value is within [min, max] inclusive.
func IntInRange(field string, value, min, max int) error {
	if value < min || value > max {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be between %d and %d", min, max)}
	}
	return nil
}
