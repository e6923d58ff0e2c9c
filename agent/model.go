package agent

import (
	"context"
	"fmt"

	"github.com/shopchat-ai/shopchat/core"
	"github.com/shopchat-ai/shopchat/logging"
	"github.com/shopchat-ai/shopchat/model"
	"github.com/shopchat-ai/shopchat/tool"
)

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	// Registry supplies the tool surface. Only tools granted to this agent's
	// name are exposed to the model; a nil registry means no tools.
	Registry *tool.Registry
	// MaxHistoryMessages bounds how much transcript tail is sent per turn.
	MaxHistoryMessages int
	// Logger receives per-turn diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// ModelAgent is an LLM-backed speaker. Each turn it sends its instruction,
// the transcript tail and its granted tools to the model, and converts the
// completion into exactly one message: a tool proposal when the model called
// a function, a plain assistant message otherwise. Extra tool calls beyond
// the first are dropped; the dispatcher handles one invocation per turn.
type ModelAgent struct {
	name        core.AgentID
	role        core.AgentRole
	llm         model.Model
	instruction string
	registry    *tool.Registry
	maxHistory  int
	logger      logging.Logger
}

// NewModelAgent creates a model-backed agent with the given name, routing
// role and system instruction.
func NewModelAgent(name core.AgentID, role core.AgentRole, llm model.Model, instruction string, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		MaxHistoryMessages: 20,
		Logger:             logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ModelAgent{
		name:        name,
		role:        role,
		llm:         llm,
		instruction: instruction,
		registry:    opts.Registry,
		maxHistory:  opts.MaxHistoryMessages,
		logger:      logging.OrNoOp(opts.Logger),
	}
}

// Name implements core.Agent.
func (a *ModelAgent) Name() core.AgentID { return a.name }

// Role implements core.Agent.
func (a *ModelAgent) Role() core.AgentRole { return a.role }

// Produce implements core.Agent by generating one completion over the
// transcript tail.
func (a *ModelAgent) Produce(ctx context.Context, t *core.Transcript) (core.Message, error) {
	msgs := t.Messages()
	if a.maxHistory > 0 && len(msgs) > a.maxHistory {
		msgs = msgs[len(msgs)-a.maxHistory:]
	}

	req := model.Request{
		Instructions: a.instruction,
		Messages:     msgs,
		Tools:        a.toolDefinitions(),
	}

	resp, err := a.llm.Generate(ctx, req)
	if err != nil {
		return core.Message{}, fmt.Errorf("agent %s: generate: %w", a.name, err)
	}

	if len(resp.ToolCalls) > 0 {
		call := resp.ToolCalls[0]
		a.logger.Debug("agent.tool_call", "agent", string(a.name), "tool", call.Name)
		return core.NewToolCallMessage(a.name, call), nil
	}

	a.logger.Debug("agent.reply", "agent", string(a.name), "content_len", len(resp.Content))
	return core.NewAssistantMessage(a.name, resp.Content), nil
}

func (a *ModelAgent) toolDefinitions() []model.ToolDefinition {
	if a.registry == nil {
		return nil
	}
	tools := a.registry.ToolsFor(a.name)
	if len(tools) == 0 {
		return nil
	}
	defs := make([]model.ToolDefinition, 0, len(tools))
	for _, tl := range tools {
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        tl.Name(),
				Description: tl.Description(),
				Parameters:  tl.Parameters(),
			},
		})
	}
	return defs
}
