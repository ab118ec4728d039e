package tools

import (
	"context"
	"strings"
	"testing"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}
	return NewExecutor(registry)
}

func TestExecutorUnknownTool(t *testing.T) {
	e := newTestExecutor(t)
	got := e.Run(context.Background(), "delete_everything", "{}")
	if !strings.HasPrefix(got, "Error:") {
		t.Errorf("Run(unknown tool) = %q, want Error:-prefixed string", got)
	}
}

func TestExecutorGetCwd(t *testing.T) {
	e := newTestExecutor(t)
	got := e.Run(context.Background(), "get_cwd", "")
	if strings.HasPrefix(got, "Error:") {
		t.Fatalf("Run(get_cwd) = %q, want cwd output", got)
	}
	if strings.TrimSpace(got) == "" {
		t.Errorf("Run(get_cwd) returned empty output")
	}
}

func TestExecutorPathTraversalRejected(t *testing.T) {
	e := newTestExecutor(t)
	got := e.Run(context.Background(), "list_files_in_path", `{"path":"../../etc"}`)
	if !strings.HasPrefix(got, "Error:") {
		t.Errorf("Run(list_files_in_path, ../../etc) = %q, want Error:-prefixed string", got)
	}
}

func TestExecutorInvalidArgumentsSchema(t *testing.T) {
	e := newTestExecutor(t)
	got := e.Run(context.Background(), "list_files_in_path", `{"path":123}`)
	if !strings.HasPrefix(got, "Error:") {
		t.Errorf("Run(list_files_in_path, non-string path) = %q, want Error:-prefixed string", got)
	}
}

func TestExecutorNiladicToolRejectsExtraArgs(t *testing.T) {
	e := newTestExecutor(t)
	got := e.Run(context.Background(), "get_cwd", `{"path":"x"}`)
	if !strings.HasPrefix(got, "Error:") {
		t.Errorf("Run(get_cwd, extra args) = %q, want Error:-prefixed string (additionalProperties: false)", got)
	}
}

func TestNormalizeDecodeArguments(t *testing.T) {
	cases := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"{}", false},
		{`{"path":"x"}`, false},
		{"not json", true},
	}
	for _, c := range cases {
		_, err := decodeArguments(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("decodeArguments(%q) error = %v, wantErr %v", c.in, err, c.wantErr)
		}
	}
}
