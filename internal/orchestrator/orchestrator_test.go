package orchestrator

import (
	"context"
	"testing"
)

type fakeCatalog struct{ specs []ToolSpec }

func (f fakeCatalog) Specs() []ToolSpec { return f.specs }

type fakeRunner struct {
	calls   []string
	results map[string]string
}

func (f *fakeRunner) Run(_ context.Context, name, _ string) string {
	f.calls = append(f.calls, name)
	if r, ok := f.results[name]; ok {
		return r
	}
	return "ok"
}

// scriptedCaller returns one CallResponse per call, in order, looping on the
// last entry once exhausted so forced-finish calls never panic a short script.
type scriptedCaller struct {
	turns []Message
	calls int
}

func (s *scriptedCaller) Complete(_ context.Context, _ CallRequest) (*CallResponse, error) {
	idx := s.calls
	if idx >= len(s.turns) {
		idx = len(s.turns) - 1
	}
	s.calls++
	return &CallResponse{Message: s.turns[idx]}, nil
}

func textTurn(content string) Message {
	c := content
	return Message{Role: "assistant", Content: &c}
}

func toolCallTurn(id, name, args string) Message {
	return Message{
		Role: "assistant",
		ToolCalls: []ToolCall{
			{ID: id, Type: "function", Function: FunctionCall{Name: name, Arguments: args}},
		},
	}
}

func TestRunModelDecidedFinish(t *testing.T) {
	caller := &scriptedCaller{turns: []Message{textTurn("hello there")}}
	runner := &fakeRunner{results: map[string]string{}}
	catalog := fakeCatalog{}

	o := New(caller, catalog, runner, nil)
	outcome, err := o.Run(context.Background(), "gpt-test", nil, []Message{NewUserMessage("hi")})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if outcome.Forced {
		t.Error("Forced = true, want false for model-decided finish")
	}
	if outcome.Final.Content == nil || *outcome.Final.Content != "hello there" {
		t.Errorf("Final.Content = %v, want \"hello there\"", outcome.Final.Content)
	}
	if caller.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", caller.calls)
	}
}

func TestRunSingleToolThenFinish(t *testing.T) {
	caller := &scriptedCaller{turns: []Message{
		toolCallTurn("call-1", "current_time", ""),
		textTurn("it is noon"),
	}}
	runner := &fakeRunner{results: map[string]string{"current_time": "Thu Jan 1 00:00:00 UTC 2026"}}
	catalog := fakeCatalog{}

	o := New(caller, catalog, runner, nil)
	outcome, err := o.Run(context.Background(), "gpt-test", nil, []Message{NewUserMessage("what time is it")})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if outcome.Forced {
		t.Error("Forced = true, want false")
	}
	if len(runner.calls) != 1 || runner.calls[0] != "current_time" {
		t.Errorf("runner.calls = %v, want [current_time]", runner.calls)
	}

	result := outcome.FinalizeBuffered()
	// user, assistant-with-tool_calls, tool, assistant-final = 4 (steering prompt stripped).
	if len(result.Trace) != 4 {
		t.Fatalf("len(Trace) = %d, want 4: %+v", len(result.Trace), result.Trace)
	}
	if result.Trace[0].Role != "user" || result.Trace[1].Role != "assistant" ||
		result.Trace[2].Role != "tool" || result.Trace[3].Role != "assistant" {
		t.Errorf("Trace roles = %v, %v, %v, %v", result.Trace[0].Role, result.Trace[1].Role, result.Trace[2].Role, result.Trace[3].Role)
	}
	if result.Trace[2].ToolCallID != "call-1" {
		t.Errorf("Trace[2].ToolCallID = %q, want call-1", result.Trace[2].ToolCallID)
	}
}

func TestSteeringPromptNeverInTrace(t *testing.T) {
	caller := &scriptedCaller{turns: []Message{textTurn("ok")}}
	runner := &fakeRunner{}
	o := New(caller, fakeCatalog{}, runner, nil)

	outcome, err := o.Run(context.Background(), "gpt-test", nil, []Message{NewUserMessage("hi")})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	result := outcome.FinalizeBuffered()
	for _, m := range result.Trace {
		if m.Content != nil && *m.Content == steeringPrompt {
			t.Error("steering prompt found in client-visible trace")
		}
	}
}

func TestRunIterationCapForcesFinish(t *testing.T) {
	turns := make([]Message, 0, maxIterations+1)
	for i := 0; i < maxIterations; i++ {
		turns = append(turns, toolCallTurn("call", "get_cwd", ""))
	}
	turns = append(turns, textTurn("forced answer"))

	caller := &scriptedCaller{turns: turns}
	runner := &fakeRunner{results: map[string]string{"get_cwd": "/tmp"}}

	o := New(caller, fakeCatalog{}, runner, nil)
	outcome, err := o.Run(context.Background(), "gpt-test", nil, []Message{NewUserMessage("loop forever")})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !outcome.Forced {
		t.Error("Forced = false, want true after hitting the iteration cap")
	}
	if caller.calls != maxIterations+1 {
		t.Errorf("upstream calls = %d, want %d (cap + one forced finish)", caller.calls, maxIterations+1)
	}

	result := outcome.FinalizeBuffered()
	// 1 user + 2*maxIterations (assistant-with-tool_calls, tool) + 1 final assistant.
	want := 1 + 2*maxIterations + 1
	if len(result.Trace) != want {
		t.Errorf("len(Trace) = %d, want %d", len(result.Trace), want)
	}
}

func TestFinalizeStreamDiscardsBufferedFinal(t *testing.T) {
	caller := &scriptedCaller{turns: []Message{textTurn("buffered answer")}}
	runner := &fakeRunner{}
	o := New(caller, fakeCatalog{}, runner, nil)

	outcome, err := o.Run(context.Background(), "gpt-test", nil, []Message{NewUserMessage("hi")})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	streamReq := outcome.FinalizeStream()
	if !streamReq.Stream {
		t.Error("FinalizeStream().Stream = false, want true")
	}
	if len(streamReq.Tools) != 0 {
		t.Errorf("FinalizeStream().Tools = %v, want empty", streamReq.Tools)
	}
	for _, m := range streamReq.Messages {
		if m.Content != nil && *m.Content == "buffered answer" {
			t.Error("FinalizeStream() leaked the discarded buffered Final into Messages")
		}
	}
}

func TestNormalizeArguments(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "{}"},
		{"null", "{}"},
		{"[1,2,3]", "{}"},
		{`{"path":"x"}`, `{"path":"x"}`},
		{"not json", "{}"},
	}
	for _, c := range cases {
		if got := normalizeArguments(c.in); got != c.want {
			t.Errorf("normalizeArguments(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
