package upstream

import (
	"context"

	"github.com/octofence/reactgate/internal/orchestrator"
)

// OrchestratorCaller adapts Client to orchestrator.Caller, translating
// between the orchestrator's provider-agnostic call shapes and this
// package's upstream.Request/Response — keeping internal/orchestrator free
// of any import on the openai SDK.
type OrchestratorCaller struct {
	client *Client
}

// NewOrchestratorCaller wraps client for use as an orchestrator.Caller.
func NewOrchestratorCaller(client *Client) *OrchestratorCaller {
	return &OrchestratorCaller{client: client}
}

// Complete implements orchestrator.Caller.
func (a *OrchestratorCaller) Complete(ctx context.Context, req orchestrator.CallRequest) (*orchestrator.CallResponse, error) {
	tools := make([]ToolSpec, 0, len(req.Tools))
	for _, t := range req.Tools {
		tools = append(tools, ToolSpec{Name: t.Name, Description: t.Description, Parameters: t.Parameters})
	}

	resp, err := a.client.Complete(ctx, Request{
		Model:       req.Model,
		Messages:    req.Messages,
		Tools:       tools,
		Stream:      req.Stream,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, err
	}

	return &orchestrator.CallResponse{Message: resp.Message, RawJSON: resp.RawJSON}, nil
}
