package tools

import "fmt"

// PathRejected is returned by Sanitize when a caller-supplied path fails the
// confinement policy (spec §4.2). It never reaches the client — the Tool
// Executor absorbs it into an "Error:" tool message.
type PathRejected struct {
	Input  string
	Reason string
}

func (e *PathRejected) Error() string {
	return fmt.Sprintf("path rejected (%s): %q", e.Reason, e.Input)
}

// ToolUnknown indicates a tool name outside the whitelist (spec §7).
type ToolUnknown struct {
	Name string
}

func (e *ToolUnknown) Error() string {
	return fmt.Sprintf("tool %q not found in whitelist", e.Name)
}

// ToolTimeout indicates a subprocess exceeded the wall-clock cap.
type ToolTimeout struct {
	Name string
}

func (e *ToolTimeout) Error() string {
	return fmt.Sprintf("tool %q exceeded the execution timeout", e.Name)
}

// ToolOutputOverflow indicates captured output exceeded the size cap.
type ToolOutputOverflow struct {
	Name string
}

func (e *ToolOutputOverflow) Error() string {
	return fmt.Sprintf("tool %q exceeded the output size cap", e.Name)
}

// ToolRuntime wraps a nonzero exit or spawn failure with no useful output.
type ToolRuntime struct {
	Name string
	Err  error
}

func (e *ToolRuntime) Error() string {
	return fmt.Sprintf("tool %q failed: %v", e.Name, e.Err)
}

func (e *ToolRuntime) Unwrap() error { return e.Err }
