package orchestrator

// BufferedResult is the primary JSON turn plus the client-visible trace
// (spec §4.6): the accumulated conversation with the injected steering
// prompt stripped out. RawJSON is the upstream's original response body for
// the Final turn, when the transport supplied one — the HTTP layer relays
// these bytes verbatim (with __react_messages merged in) instead of
// resynthesizing an envelope, since Final is always the no-tool-calls turn
// and so always has a real upstream body behind it.
type BufferedResult struct {
	Message Message
	Trace   []Message
	RawJSON string
}

// Once Run has terminated, the caller (internal/gatewayhttp) picks one of
// FinalizeBuffered or FinalizeStream depending on the client's original
// stream preference (spec §4.5 Finalization).
//
// Streaming clients get a fresh stream:true, tool-free call built from the
// conversation as it stood before the final answer — the buffered Final
// computed by Run is discarded, because tool-call detection required a
// complete JSON response and a partial SSE stream can't provide that
// (spec §9 "mid-turn mode switch"). The caller is responsible for issuing
// the returned CallRequest against upstream.StreamRelay and relaying the
// raw response.
//
// Non-streaming clients get the Final message Run already obtained, with no
// further upstream call, whether termination was model-decided or forced
// (spec §8 scenario 5: exactly one final call is made).

// FinalizeBuffered returns the buffered result without any further upstream
// call (spec §4.5 Finalization, non-streaming branches).
func (o *Outcome) FinalizeBuffered() *BufferedResult {
	o.Conversation.Append(o.Final)
	return &BufferedResult{
		Message: o.Final,
		Trace:   WithoutFirst(o.Conversation.Messages()),
		RawJSON: o.FinalRawJSON,
	}
}

// FinalizeStream returns the request for a fresh stream:true, tool-free
// call built from the conversation as it stood before the final answer
// (spec §4.5 Finalization, streaming branch).
func (o *Outcome) FinalizeStream() *CallRequest {
	return &CallRequest{
		Model:       o.model,
		Messages:    o.Conversation.Messages(),
		Tools:       nil,
		Stream:      true,
		Temperature: o.temperature,
	}
}
