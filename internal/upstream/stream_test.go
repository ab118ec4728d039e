package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/octofence/reactgate/internal/orchestrator"
)

func TestStreamRelayOpenBuildsExpectedBody(t *testing.T) {
	var captured wireRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q, want /v1/chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q, want Bearer secret", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	content := "hi"
	relay := NewStreamRelay(srv.URL, "secret", srv.Client())
	resp, err := relay.Open(context.Background(), Request{
		Model:  "gpt-test",
		Stream: true,
		Messages: []orchestrator.Message{
			{Role: "user", Content: &content},
		},
	})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer resp.Body.Close()

	if !captured.Stream {
		t.Error("captured request Stream = false, want true")
	}
	if len(captured.Tools) != 0 {
		t.Errorf("captured request Tools = %v, want empty (finalization never advertises tools)", captured.Tools)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Errorf("captured request Messages = %+v", captured.Messages)
	}
}

func TestStreamRelayOpenSurfacesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"overloaded"}`))
	}))
	defer srv.Close()

	relay := NewStreamRelay(srv.URL, "secret", srv.Client())
	_, err := relay.Open(context.Background(), Request{Model: "gpt-test", Stream: true})
	if err == nil {
		t.Fatal("Open() error = nil, want UpstreamError")
	}
	var upstreamErr *orchestrator.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("error = %v, want *orchestrator.UpstreamError", err)
	}
	if upstreamErr.Status != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want 503", upstreamErr.Status)
	}
}
