package upstream

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/octofence/reactgate/internal/orchestrator"
)

// Client issues buffered chat-completion calls through the official OpenAI
// SDK, mirroring the teacher's openailm.Client construction (base URL +
// bearer key), but only ever used for the non-streaming leg of a turn —
// the streaming leg is handled by StreamRelay instead (spec §4.4).
type Client struct {
	sdk *openai.Client
}

// NewClient builds a Client pointed at baseURL with apiKey as the bearer
// token.
func NewClient(baseURL, apiKey string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	sdk := openai.NewClient(opts...)
	return &Client{sdk: &sdk}
}

// Complete issues one buffered (non-streaming) chat-completion call and
// flattens the SDK's typed response into the orchestrator's Message shape.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: convertMessages(req.Messages),
	}
	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	completion, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, &orchestrator.UpstreamError{Status: statusFromErr(err), Body: err.Error()}
	}
	if len(completion.Choices) == 0 {
		return nil, &orchestrator.UpstreamError{Status: 502, Body: "upstream returned no choices"}
	}

	return &Response{
		Message: flattenChoice(completion.Choices[0].Message),
		RawJSON: completion.JSON.RawJSON(),
	}, nil
}

func flattenChoice(m openai.ChatCompletionMessage) orchestrator.Message {
	out := orchestrator.Message{Role: "assistant"}
	if m.Content != "" {
		content := m.Content
		out.Content = &content
	}
	for _, tc := range m.ToolCalls {
		fn := tc.Function
		out.ToolCalls = append(out.ToolCalls, orchestrator.ToolCall{
			ID:   tc.ID,
			Type: "function",
			Function: orchestrator.FunctionCall{
				Name:      fn.Name,
				Arguments: fn.Arguments,
			},
		})
	}
	return out
}

func convertMessages(messages []orchestrator.Message) []openai.ChatCompletionMessageParamUnion {
	items := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, m := range messages {
		switch m.Role {
		case "tool":
			items = append(items, openai.ChatCompletionMessageParamUnion{
				OfTool: &openai.ChatCompletionToolMessageParam{
					Role:       "tool",
					ToolCallID: m.ToolCallID,
					Content: openai.ChatCompletionToolMessageParamContentUnion{
						OfString: openai.String(contentOf(m)),
					},
				},
			})

		case "assistant":
			if len(m.ToolCalls) > 0 {
				toolCalls := make([]openai.ChatCompletionMessageToolCallUnionParam, 0, len(m.ToolCalls))
				for _, tc := range m.ToolCalls {
					toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallUnionParam{
						OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
							ID:   tc.ID,
							Type: "function",
							Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
								Name:      tc.Function.Name,
								Arguments: tc.Function.Arguments,
							},
						},
					})
				}
				items = append(items, openai.ChatCompletionMessageParamUnion{
					OfAssistant: &openai.ChatCompletionAssistantMessageParam{
						Role:      "assistant",
						ToolCalls: toolCalls,
					},
				})
			} else {
				items = append(items, openai.ChatCompletionMessageParamUnion{
					OfAssistant: &openai.ChatCompletionAssistantMessageParam{
						Role: "assistant",
						Content: openai.ChatCompletionAssistantMessageParamContentUnion{
							OfString: openai.String(contentOf(m)),
						},
					},
				})
			}

		case "system":
			items = append(items, openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Role: "system",
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(contentOf(m)),
					},
				},
			})

		default: // "user"
			items = append(items, openai.ChatCompletionMessageParamUnion{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Role: "user",
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(contentOf(m)),
					},
				},
			})
		}
	}

	return items
}

func convertTools(tools []ToolSpec) []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.ChatCompletionToolUnionParam{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Type: "function",
				Function: openai.FunctionDefinitionParam{
					Name:        t.Name,
					Description: openai.String(t.Description),
					Parameters:  openai.FunctionParameters(t.Parameters),
				},
			},
		})
	}
	return out
}

func contentOf(m orchestrator.Message) string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

func statusFromErr(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 502
}
