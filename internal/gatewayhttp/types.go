// Package gatewayhttp implements the Response Adapter and the inbound HTTP
// surface: a single chat-completions endpoint that runs the ReACT loop and
// emits either a buffered JSON turn or a relayed SSE stream (spec §4.6, §6).
package gatewayhttp

import "github.com/octofence/reactgate/internal/orchestrator"

// chatRequest is the inbound OpenAI-compatible request body (spec §6).
type chatRequest struct {
	Model       string                 `json:"model"`
	Messages    []orchestrator.Message `json:"messages"`
	Stream      bool                   `json:"stream"`
	Temperature *float64               `json:"temperature,omitempty"`
}

// errorBody is the JSON shape returned for non-upstream failures (spec §6).
type errorBody struct {
	Error string `json:"error"`
}

// upstreamErrorBody is the JSON shape returned when the upstream call
// itself failed (spec §6, §7 UpstreamError).
type upstreamErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}
