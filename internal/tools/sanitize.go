package tools

import (
	"os"
	"path/filepath"
	"strings"
)

// sensitivePrefixes are absolute paths no tool is ever allowed to resolve
// into, independent of the cwd confinement check (spec §4.2).
var sensitivePrefixes = []string{
	"/etc", "/root", "/var", "/usr", "/bin", "/sbin", "/sys", "/proc",
}

// Sanitize resolves a caller-supplied path against the process's working
// directory and rejects anything that could escape it (spec §4.2). The
// policy is applied in a fixed order:
//
//  1. trim surrounding whitespace
//  2. reject any input containing ".." anywhere, not just as a clean
//     path element — this catches both "../x" and "a/../../etc/passwd"
//     before it ever reaches filepath.Join
//  3. reject fixed sensitive absolute prefixes
//  4. resolve the (now presumed-relative) path against the process cwd
//  5. reject if the resolved, absolute path does not have the cwd as a
//     string prefix
//
// A path that survives all five steps is returned absolute and cleaned.
func Sanitize(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		trimmed = "."
	}

	if strings.Contains(trimmed, "..") {
		return "", &PathRejected{Input: input, Reason: "contains .."}
	}

	for _, prefix := range sensitivePrefixes {
		if trimmed == prefix || strings.HasPrefix(trimmed, prefix+"/") {
			return "", &PathRejected{Input: input, Reason: "sensitive prefix"}
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", &PathRejected{Input: input, Reason: "cwd unavailable"}
	}
	cwd = filepath.Clean(cwd)

	var resolved string
	if filepath.IsAbs(trimmed) {
		resolved = filepath.Clean(trimmed)
	} else {
		resolved = filepath.Clean(filepath.Join(cwd, trimmed))
	}

	if resolved != cwd && !strings.HasPrefix(resolved, cwd+string(filepath.Separator)) {
		return "", &PathRejected{Input: input, Reason: "escapes working directory"}
	}

	return resolved, nil
}
