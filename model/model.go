// Package model abstracts language-model providers behind a synchronous
// Generate call. The conversation engine is strictly sequential turn-taking,
// so a request produces exactly one response; streaming belongs to the
// provider adapters' internals if they ever need it.
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopchat-ai/shopchat/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the
// model. Parameters is a minimal JSON Schema object.
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request is the normalized model input: a system instruction, the
// conversation so far and the tool surface the speaking agent may use.
type Request struct {
	Instructions string           `json:"instructions"`
	Messages     []core.Message   `json:"messages"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the provider's completed turn. Content and ToolCalls may both
// be populated; a turn with ToolCalls is a tool proposal.
type Response struct {
	Content      string          `json:"content,omitempty"`
	ToolCalls    []core.ToolCall `json:"tool_calls,omitempty"`
	FinishReason string          `json:"finish_reason"`
	Usage        *TokenUsage     `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface agents use to drive generation.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Info() Info
}

// MockModel is a lightweight in-memory Model for tests and examples. Canned
// responses are matched by substring against the last message's content;
// unmatched input yields a deterministic echo.
type MockModel struct {
	info      Info
	responses []mockRule
}

type mockRule struct {
	match string
	resp  Response
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{info: Info{Name: name, Provider: provider, SupportsTools: true}}
}

// AddResponse registers a canned text completion for inputs containing match.
func (m *MockModel) AddResponse(match, text string) {
	m.responses = append(m.responses, mockRule{match: match, resp: Response{Content: text, FinishReason: "stop"}})
}

// AddToolCallResponse registers a canned tool proposal for inputs containing match.
func (m *MockModel) AddToolCallResponse(match, toolName, arguments string) {
	m.responses = append(m.responses, mockRule{match: match, resp: Response{
		ToolCalls:    []core.ToolCall{{ID: core.NewID(), Name: toolName, Arguments: arguments}},
		FinishReason: "tool_calls",
	}})
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}
	last := req.Messages[len(req.Messages)-1].Content
	for _, rule := range m.responses {
		if rule.match != "" && strings.Contains(last, rule.match) {
			resp := rule.resp
			return &resp, nil
		}
	}
	return &Response{Content: fmt.Sprintf("Mock response to: %s", last), FinishReason: "stop"}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
