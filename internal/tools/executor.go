package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

const (
	execTimeout   = 10 * time.Second
	outputCapByte = 1 << 20 // 1 MiB
)

// Executor dispatches a single model-requested tool call against the
// Registry and returns its result as a string, never an error — every
// failure mode in spec §7's tool-layer taxonomy (PathRejected, ToolUnknown,
// ToolTimeout, ToolOutputOverflow, ToolRuntime) is absorbed here into an
// "Error:"-prefixed string so the orchestrator can feed it straight back to
// the model as a tool message.
type Executor struct {
	registry *Registry
}

// NewExecutor builds an Executor bound to registry.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Run executes the tool named name with the raw JSON object argumentsJSON
// (as received in a ToolCall's Function.Arguments), and returns the content
// for the tool message that must follow it (spec §4.3).
func (e *Executor) Run(ctx context.Context, name, argumentsJSON string) string {
	descriptor, ok := e.registry.descriptor(name)
	if !ok {
		return errString(&ToolUnknown{Name: name})
	}

	decoded, err := decodeArguments(argumentsJSON)
	if err != nil {
		return errString(fmt.Errorf("decoding arguments for %s: %w", name, err))
	}

	if schema := e.registry.schema(name); schema != nil {
		if err := schema.Validate(decoded); err != nil {
			return errString(fmt.Errorf("arguments for %s failed validation: %w", name, err))
		}
	}

	workDir := ""
	if descriptor.PathParam {
		raw := "."
		if m, ok := decoded.(map[string]any); ok {
			if v, ok := m[pathArgName].(string); ok && v != "" {
				raw = v
			}
		}
		resolved, err := Sanitize(raw)
		if err != nil {
			return errString(err)
		}
		workDir = resolved
	}

	return e.exec(ctx, descriptor, workDir)
}

func (e *Executor) exec(ctx context.Context, descriptor ToolDescriptor, workDir string) string {
	runCtx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	argv := descriptor.Command.Argv
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	if workDir != "" {
		cmd.Dir = workDir
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	stdout := &capWriter{buf: &stdoutBuf, limit: outputCapByte}
	stderr := &capWriter{buf: &stderrBuf, limit: outputCapByte}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	runErr := cmd.Run()

	if runCtx.Err() == context.DeadlineExceeded {
		return errString(&ToolTimeout{Name: descriptor.Name})
	}
	if stdout.overflowed || stderr.overflowed {
		return errString(&ToolOutputOverflow{Name: descriptor.Name})
	}

	if out := stdoutBuf.String(); out != "" {
		return out
	}
	if errOut := stderrBuf.String(); errOut != "" {
		return errOut
	}
	if runErr != nil {
		return errString(&ToolRuntime{Name: descriptor.Name, Err: runErr})
	}
	if descriptor.EmptyFallback != "" {
		return descriptor.EmptyFallback
	}
	return ""
}

func decodeArguments(argumentsJSON string) (any, error) {
	if argumentsJSON == "" {
		return map[string]any{}, nil
	}
	var decoded any
	if err := json.Unmarshal([]byte(argumentsJSON), &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func errString(err error) string {
	return "Error: " + unwrapMessage(err)
}

// unwrapMessage keeps the message user-facing-friendly: the tool-layer
// error types already produce a concise description via Error().
func unwrapMessage(err error) string {
	var rejected *PathRejected
	if errors.As(err, &rejected) {
		return fmt.Sprintf("Path traversal not allowed (%s)", rejected.Reason)
	}
	return err.Error()
}

// capWriter truncates writes once limit total bytes have been written,
// recording that the cap was hit via overflowed, rather than growing buf
// past the cap and discarding the excess later.
type capWriter struct {
	buf        *bytes.Buffer
	limit      int
	overflowed bool
}

func (w *capWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		w.overflowed = true
		return len(p), nil
	}
	if len(p) > remaining {
		w.buf.Write(p[:remaining])
		w.overflowed = true
		return len(p), nil
	}
	w.buf.Write(p)
	return len(p), nil
}
