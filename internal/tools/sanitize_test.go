package tools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeRejectsTraversal(t *testing.T) {
	cases := []string{
		"..",
		"../etc",
		"a/../../etc/passwd",
		"foo/../../bar",
	}
	for _, in := range cases {
		if _, err := Sanitize(in); err == nil {
			t.Errorf("Sanitize(%q) = nil error, want PathRejected", in)
		}
	}
}

func TestSanitizeRejectsSensitivePrefixes(t *testing.T) {
	cases := []string{"/etc", "/etc/passwd", "/root", "/var/log", "/usr/bin", "/proc/1"}
	for _, in := range cases {
		if _, err := Sanitize(in); err == nil {
			t.Errorf("Sanitize(%q) = nil error, want PathRejected", in)
		}
	}
}

func TestSanitizeAcceptsWithinCwd(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	cases := []string{".", "subdir", "./a/b", ""}
	for _, in := range cases {
		got, err := Sanitize(in)
		if err != nil {
			t.Fatalf("Sanitize(%q) returned error: %v", in, err)
		}
		if got != cwd && !strings.HasPrefix(got, cwd+string(filepath.Separator)) {
			t.Errorf("Sanitize(%q) = %q, want a path prefixed by cwd %q", in, got, cwd)
		}
	}
}

func TestSanitizeTrimsWhitespace(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Sanitize("  .  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != cwd {
		t.Errorf("Sanitize(whitespace-padded \".\") = %q, want %q", got, cwd)
	}
}
