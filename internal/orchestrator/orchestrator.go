package orchestrator

import (
	"context"
	"log/slog"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxIterations bounds the reason-then-act loop (spec §4.5, Open Question
// resolved in favor of the 10-iteration path).
const maxIterations = 10

// ToolRunner executes a single tool call and returns its result content —
// implemented by *tools.Executor. The orchestrator only depends on this
// narrow interface so it never needs to import the tools package's
// sandboxing internals.
type ToolRunner interface {
	Run(ctx context.Context, name, argumentsJSON string) string
}

// ToolCatalog supplies the fixed tool list advertised to the upstream model
// — implemented by *tools.Registry through its Specs method
// (internal/tools/catalog.go).
type ToolCatalog interface {
	Specs() []ToolSpec
}

// ToolSpec is the orchestrator's view of one advertised tool, independent
// of the upstream wire encoding.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Caller issues one upstream chat-completion call. *upstream.OrchestratorCaller
// (wrapping *upstream.Client) implements this for the buffered leg of every
// iteration.
type Caller interface {
	Complete(ctx context.Context, req CallRequest) (*CallResponse, error)
}

// CallRequest/CallResponse mirror upstream.Request/Response but are defined
// here so this package has no import-cycle dependency on internal/upstream;
// upstream.OrchestratorCaller adapts between the two.
type CallRequest struct {
	Model       string
	Messages    []Message
	Tools       []ToolSpec
	Stream      bool
	Temperature *float64
}

// CallResponse carries the flattened Message plus, when the transport could
// supply it, the upstream's original response body — needed so the
// no-tool-calls path can relay real bytes instead of a reconstructed
// envelope (spec §4.6).
type CallResponse struct {
	Message Message
	RawJSON string
}

// Outcome is the result of running the loop to termination: either the
// model decided to stop (producing a final assistant Message) or the
// iteration cap was hit and the orchestrator forced a plain-text answer.
// Conversation holds every message up to but not including Final —
// FinalizeBuffered appends it (buffered case), while FinalizeStream discards
// it in favor of a fresh streamed re-ask (streaming case, spec §4.5/§9
// "mid-turn mode switch").
type Outcome struct {
	Final        Message
	Conversation *Conversation
	Forced       bool
	FinalRawJSON string
	model        string
	temperature  *float64
}

// Orchestrator runs the bounded ReACT loop described in spec §4.5.
type Orchestrator struct {
	caller Caller
	tools  ToolCatalog
	runner ToolRunner
	logger *slog.Logger
}

// New builds an Orchestrator from its three collaborators.
func New(caller Caller, catalog ToolCatalog, runner ToolRunner, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{caller: caller, tools: catalog, runner: runner, logger: logger}
}

// Run executes the full two-phase state machine against the client's
// initial messages, returning once the model has decided to stop or the
// iteration cap has forced a finish. When the cap is hit, Run itself issues
// the one tool-free buffered call that forces a textual answer. Run never
// issues the streaming call — the caller picks FinalizeBuffered or
// FinalizeStream afterward, once it knows whether the client wants a
// streamed or buffered response.
func (o *Orchestrator) Run(ctx context.Context, model string, temperature *float64, initial []Message) (*Outcome, error) {
	conv := NewConversation(initial)
	conv.Prepend(SteeringMessage())

	specs := o.tools.Specs()

	for iteration := 1; iteration <= maxIterations; iteration++ {
		resp, err := o.caller.Complete(ctx, CallRequest{
			Model:       model,
			Messages:    conv.Messages(),
			Tools:       specs,
			Stream:      false,
			Temperature: temperature,
		})
		if err != nil {
			return nil, err
		}

		turn := resp.Message
		if len(turn.ToolCalls) == 0 {
			return &Outcome{Final: turn, Conversation: conv, Forced: false, FinalRawJSON: resp.RawJSON, model: model, temperature: temperature}, nil
		}

		conv.Append(turn)
		o.runToolCalls(ctx, conv, turn.ToolCalls)
	}

	o.logger.WarnContext(ctx, "iteration cap reached, forcing finish", "max_iterations", maxIterations)

	forced, err := o.caller.Complete(ctx, CallRequest{
		Model:       model,
		Messages:    conv.Messages(),
		Tools:       nil,
		Stream:      false,
		Temperature: temperature,
	})
	if err != nil {
		return nil, err
	}

	return &Outcome{Final: forced.Message, Conversation: conv, Forced: true, FinalRawJSON: forced.RawJSON, model: model, temperature: temperature}, nil
}

// runToolCalls dispatches each ToolCall in the order the model gave them
// and appends the matching tool Message, preserving spec §3 invariant (ii)
// and §5's serialized-per-turn ordering guarantee.
func (o *Orchestrator) runToolCalls(ctx context.Context, conv *Conversation, calls []ToolCall) {
	for _, call := range calls {
		args := normalizeArguments(call.Function.Arguments)
		result := o.runner.Run(ctx, call.Function.Name, args)
		conv.Append(NewToolMessage(call.ID, result))
	}
}

// normalizeArguments implements spec §4.5's tie-break: an empty string or a
// JSON value that doesn't decode to an object is treated as "{}".
func normalizeArguments(raw string) string {
	if raw == "" {
		return "{}"
	}
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return "{}"
	}
	if _, ok := decoded.(map[string]any); !ok {
		return "{}"
	}
	return raw
}
