package orchestrator

import "fmt"

// UpstreamError wraps a non-2xx response from the upstream LLM (spec §7).
// It is surfaced to the client, not absorbed, because the turn cannot make
// progress without the model.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream call failed: status=%d", e.Status)
}

// MalformedRequest indicates the inbound client JSON could not be parsed.
type MalformedRequest struct {
	Reason string
}

func (e *MalformedRequest) Error() string {
	return fmt.Sprintf("malformed request: %s", e.Reason)
}
