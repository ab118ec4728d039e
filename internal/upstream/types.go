// Package upstream implements the Upstream Client: buffered chat-completion
// calls through the official OpenAI SDK, and a raw byte-for-byte streaming
// passthrough for the orchestrator's final, tool-free call (spec §4.4).
package upstream

import "github.com/octofence/reactgate/internal/orchestrator"

// ToolSpec is the wire shape of a single advertised tool (spec §3
// ToolDescriptor, flattened for the upstream request body).
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Request is the orchestrator's provider-agnostic view of one upstream call
// (spec §3 UpstreamRequest).
type Request struct {
	Model       string
	Messages    []orchestrator.Message
	Tools       []ToolSpec
	Stream      bool
	Temperature *float64
}

// Response is the orchestrator's provider-agnostic view of one buffered
// upstream reply (spec §3 UpstreamResponse) — the single assistant message
// the model produced, already flattened out of the SDK's typed response.
// RawJSON carries the upstream's original response body verbatim, when the
// SDK exposed one, so the gateway can relay real bytes instead of a
// reconstructed envelope on the no-tool-calls path (spec §4.6).
type Response struct {
	Message orchestrator.Message
	RawJSON string
}
