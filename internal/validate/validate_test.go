package validate_test

import (
	"testing"

	"github.com/marqueetv/marquee/internal/validate"
)

func TestNonEmptyString(t *testing.T) {
	if err := validate.NonEmptyString("name", "hello"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := validate.NonEmptyString("name", "   "); err == nil {
		t.Error("expected error for whitespace-only string")
	}
	if err := validate.NonEmptyString("name", ""); err == nil {
		t.Error("expected error for empty string")
	}
}

func TestMaxLength(t *testing.T) {
	if err := validate.MaxLength("name", "hello", 10); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := validate.MaxLength("name", "hello world!", 5); err == nil {
		t.Error("expected error for too-long string")
	}
}

func TestIsUUID(t *testing.T) {
	if err := validate.IsUUID("id", "550e8400-e29b-41d4-a716-446655440000"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := validate.IsUUID("id", "not-a-uuid"); err == nil {
		t.Error("expected error for invalid UUID")
	}
	if err := validate.IsUUID("id", "' OR 1=1 --"); err == nil {
		t.Error("expected error for SQL injection string")
	}
}

func TestIsEmail(t *testing.T) {
	if err := validate.IsEmail("email", "user@example.com"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := validate.IsEmail("email", "not-an-email"); err == nil {
		t.Error("expected error for non-email")
	}
	if err := validate.IsEmail("email", "<script>alert(1)</script>"); err == nil {
		t.Error("expected error for XSS payload")
	}
}

func TestIsMediaType(t *testing.T) {
	for _, ok := range []string{"movie", "tv"} {
		if err := validate.IsMediaType("media_type", ok); err != nil {
			t.Errorf("%s: expected nil, got %v", ok, err)
		}
	}
	for _, bad := range []string{"", "film", "MOVIE", "series"} {
		if err := validate.IsMediaType("media_type", bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestIsAPIString(t *testing.T) {
	for _, ok := range []string{"popular", "top_rated", "now_playing", "upcoming", "airing_today", "on_the_air", "trending"} {
		if err := validate.IsAPIString("api_string", ok); err != nil {
			t.Errorf("%s: expected nil, got %v", ok, err)
		}
	}
	if err := validate.IsAPIString("api_string", "most_watched"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestIsMenuPath(t *testing.T) {
	for _, ok := range []string{"/", "/tv-shows", "https://example.com/about", "http://example.com"} {
		if err := validate.IsMenuPath("path", ok); err != nil {
			t.Errorf("%s: expected nil, got %v", ok, err)
		}
	}
	for _, bad := range []string{"", "tv-shows", "javascript:alert(1)", "ftp://example.com"} {
		if err := validate.IsMenuPath("path", bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestIntInRange(t *testing.T) {
	if err := validate.IntInRange("count", 5, 1, 10); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := validate.IntInRange("count", 0, 1, 10); err == nil {
		t.Error("expected error for below minimum")
	}
	if err := validate.IntInRange("count", 100, 1, 10); err == nil {
		t.Error("expected error for above maximum")
	}
}

func TestMultiError(t *testing.T) {
	var me validate.MultiError
	if me.HasErrors() {
		t.Error("expected no errors initially")
	}
	me.Add(validate.NonEmptyString("name", ""))
	me.Add(validate.IsEmail("email", "bad"))
	me.Add(nil) // should be no-op
	if !me.HasErrors() {
		t.Error("expected errors after adding")
	}
	if len(me.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d", len(me.Errors))
	}
}
