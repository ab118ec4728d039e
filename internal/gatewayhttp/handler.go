package gatewayhttp

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/octofence/reactgate/internal/config"
	"github.com/octofence/reactgate/internal/orchestrator"
	"github.com/octofence/reactgate/internal/upstream"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handler wires the ReACT orchestrator to the gateway's single
// chat-completions endpoint (spec §6).
type Handler struct {
	cfg      *config.Config
	factory  func() *orchestrator.Orchestrator
	streamer *upstream.StreamRelay
	logger   *slog.Logger
}

// NewHandler builds a Handler. factory returns a fresh Orchestrator per
// request — the orchestrator itself is stateless between requests, but a
// factory keeps request-scoped wiring (e.g. per-request loggers) out of this
// package's concern.
func NewHandler(cfg *config.Config, factory func() *orchestrator.Orchestrator, streamer *upstream.StreamRelay, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{cfg: cfg, factory: factory, streamer: streamer, logger: logger}
}

// Mux builds the gateway's HTTP handler: one chat-completions endpoint plus
// a trivial OPTIONS responder for CORS preflights (spec §6).
func (h *Handler) Mux(chatPath string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(chatPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.serveChat(w, r)
	})
	return mux
}

func (h *Handler) serveChat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 8<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if !h.cfg.ModelAllowed(req.Model) {
		writeError(w, http.StatusForbidden, "model not permitted")
		return
	}

	orch := h.factory()
	outcome, err := orch.Run(r.Context(), req.Model, req.Temperature, req.Messages)
	if err != nil {
		h.writeUpstreamOrInternal(w, err)
		return
	}

	if req.Stream {
		h.relayStream(w, r, outcome)
		return
	}

	h.writeBuffered(w, outcome)
}

func (h *Handler) writeBuffered(w http.ResponseWriter, outcome *orchestrator.Outcome) {
	result := outcome.FinalizeBuffered()

	encoded, err := bufferedBody(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(encoded)
}

// bufferedBody relays the upstream's actual response bytes for the Final
// turn with __react_messages spliced in (spec §4.6's byte-verbatim
// round-trip property), since Final is always the no-tool-calls turn and so
// always has a real upstream body behind it on a live upstream.Client. It
// falls back to reconstructing a minimal chat-completion envelope when no
// raw body is available — a Caller that never populated RawJSON, such as a
// test fake — or when the raw body cannot be spliced (it does not end in a
// JSON object).
func bufferedBody(result *orchestrator.BufferedResult) ([]byte, error) {
	if result.RawJSON != "" {
		spliced, err := spliceReactMessages(result.RawJSON, result.Trace)
		if err == nil {
			return spliced, nil
		}
	}

	finishReason := "stop"
	if len(result.Message.ToolCalls) > 0 {
		finishReason = "tool_calls"
	}
	payload := map[string]any{
		"object": "chat.completion",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       result.Message,
				"finish_reason": finishReason,
			},
		},
		"__react_messages": result.Trace,
	}
	return json.Marshal(payload)
}

// spliceReactMessages appends "__react_messages":<trace> as one more field
// of the top-level JSON object in rawJSON, leaving every other byte of the
// upstream's response untouched.
func spliceReactMessages(rawJSON string, trace []orchestrator.Message) ([]byte, error) {
	trimmed := strings.TrimRight(rawJSON, " \t\r\n")
	if !strings.HasSuffix(trimmed, "}") {
		return nil, errors.New("raw upstream body is not a JSON object")
	}

	traceJSON, err := json.Marshal(trace)
	if err != nil {
		return nil, err
	}

	body := trimmed[:len(trimmed)-1]
	out := body + `,"__react_messages":` + string(traceJSON) + "}"
	return []byte(out), nil
}

func (h *Handler) relayStream(w http.ResponseWriter, r *http.Request, outcome *orchestrator.Outcome) {
	streamReq := outcome.FinalizeStream()

	resp, err := h.streamer.Open(r.Context(), upstream.Request{
		Model:       streamReq.Model,
		Messages:    streamReq.Messages,
		Tools:       nil,
		Stream:      true,
		Temperature: streamReq.Temperature,
	})
	if err != nil {
		h.writeUpstreamOrInternal(w, err)
		return
	}
	defer resp.Body.Close()

	relayHeaders(w.Header(), resp.Header)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(resp.StatusCode)

	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr != nil {
			return
		}
	}
}

// relayHeaders copies upstream's response headers, stripping the ones the
// gateway must not forward (spec §4.4): www-authenticate (the upstream's
// auth scheme is not the client's concern), content-encoding (the body
// is relayed raw, uncompressed relative to what the transport delivers), and
// content-type (relayStream sets its own text/event-stream value).
func relayHeaders(dst, src http.Header) {
	for key, values := range src {
		switch http.CanonicalHeaderKey(key) {
		case "Www-Authenticate", "Content-Encoding", "Content-Type":
			continue
		default:
			for _, v := range values {
				dst.Add(key, v)
			}
		}
	}
}

func (h *Handler) writeUpstreamOrInternal(w http.ResponseWriter, err error) {
	var upstreamErr *orchestrator.UpstreamError
	if errors.As(err, &upstreamErr) {
		encoded, _ := json.Marshal(upstreamErrorBody{Error: "API call failed", Details: upstreamErr.Body})
		w.Header().Set("Content-Type", "application/json")
		status := upstreamErr.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		w.WriteHeader(status)
		_, _ = w.Write(encoded)
		return
	}

	h.logger.Error("internal error serving chat request", "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	encoded, _ := json.Marshal(errorBody{Error: message})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(encoded)
}
