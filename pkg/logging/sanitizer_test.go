package logging

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeConnectionString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"url credentials", "postgres://bizget:s3cret@db:5432/bizget", "postgres://[REDACTED]@[REDACTED]/bizget"},
		{"key value password", "host=db user=bizget password=s3cret dbname=bizget", "host=db user=bizget password=[REDACTED] dbname=bizget"},
		{"no credentials", "file:data.db?_journal_mode=WAL", "file:data.db?_journal_mode=WAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeConnectionString(tt.in); got != tt.want {
				t.Errorf("SanitizeConnectionString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeError(t *testing.T) {
	if SanitizeError(nil) != "" {
		t.Error("nil error should sanitize to empty string")
	}

	err := errors.New("request failed: Authorization: Bearer abc.def.ghi api-key: 0123456789abcdef sk-proj-abcdefghijklmnopqrstuvwxyz for dana@harbor.example")
	got := SanitizeError(err)

	for _, leaked := range []string{"abc.def.ghi", "0123456789abcdef", "sk-proj-abcdefghijklmnop", "dana@harbor.example"} {
		if strings.Contains(got, leaked) {
			t.Errorf("sanitized error still contains %q: %s", leaked, got)
		}
	}
	if !strings.Contains(got, "d***@harbor.example") {
		t.Errorf("expected masked email in %q", got)
	}
}

func TestMaskEmail(t *testing.T) {
	tests := map[string]string{
		"dana@harbor.example": "d***@harbor.example",
		"x@y.io":              "x***@y.io",
		"@nobody":             RedactedText,
		"not-an-email":        RedactedText,
	}
	for in, want := range tests {
		if got := MaskEmail(in); got != want {
			t.Errorf("MaskEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("unexpected truncation: %q", got)
	}
	if got := TruncateString("a long subject line", 6); got != "a long..." {
		t.Errorf("got %q", got)
	}
}
