package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/octofence/reactgate/internal/orchestrator"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StreamRelay issues the orchestrator's final, tool-free call as a raw HTTP
// request and hands the response back unparsed, bypassing the SDK entirely
// so the byte stream reaches the client byte-for-byte (spec §4.4/§9) — this
// is the one upstream code path that never touches openai-go.
type StreamRelay struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewStreamRelay builds a StreamRelay pointed at baseURL.
func NewStreamRelay(baseURL, apiKey string, httpClient *http.Client) *StreamRelay {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &StreamRelay{baseURL: baseURL, apiKey: apiKey, http: httpClient}
}

// wireMessage/wireTool mirror just enough of the OpenAI chat-completions
// body to carry a Request over raw JSON — unlike Client.Complete, this path
// never decodes the response, so there is no SDK type on either end.
type wireMessage struct {
	Role       string                  `json:"role"`
	Content    *string                 `json:"content"`
	ToolCallID string                  `json:"tool_call_id,omitempty"`
	ToolCalls  []orchestrator.ToolCall `json:"tool_calls,omitempty"`
}

type wireTool struct {
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Tools       []wireTool    `json:"tools,omitempty"`
	Stream      bool          `json:"stream"`
	Temperature *float64      `json:"temperature,omitempty"`
}

// Open issues req against <baseURL>/v1/chat/completions and returns the raw
// response for the caller to relay. The caller owns closing resp.Body.
func (s *StreamRelay) Open(ctx context.Context, req Request) (*http.Response, error) {
	body := wireRequest{
		Model:       req.Model,
		Stream:      true,
		Temperature: req.Temperature,
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, wireMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
			ToolCalls:  m.ToolCalls,
		})
	}
	for _, t := range req.Tools {
		body.Tools = append(body.Tools, wireTool{
			Type: "function",
			Function: wireFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding streaming request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/chat/completions", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("building streaming request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return nil, &orchestrator.UpstreamError{Status: 502, Body: err.Error()}
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, &orchestrator.UpstreamError{Status: resp.StatusCode, Body: string(errBody)}
	}

	return resp, nil
}
