package agent

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopchat-ai/shopchat/core"
	"github.com/shopchat-ai/shopchat/memory"
	"github.com/shopchat-ai/shopchat/model"
	"github.com/shopchat-ai/shopchat/tool"
)

func echoTool(t *testing.T, name string) *tool.FunctionTool {
	t.Helper()
	return tool.NewFunctionTool(name, "echoes its keyword argument",
		map[string]any{
			"type":       "object",
			"properties": map[string]any{"keyword": map[string]any{"type": "string"}},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{"echo": args["keyword"]}, nil
		})
}

func registryWith(t *testing.T, owner core.AgentID, tools ...tool.Tool) *tool.Registry {
	t.Helper()
	reg, err := tool.NewRegistry(tools...)
	require.NoError(t, err)
	for _, tl := range tools {
		require.NoError(t, reg.Grant(owner, tl.Name()))
	}
	return reg
}

func TestModelAgentProduce(t *testing.T) {
	t.Run("plain completion becomes an assistant message", func(t *testing.T) {
		llm := model.NewMockModel("mock", "test")
		llm.AddResponse("greeting", "Hello! How can I help you shop today?")

		a := NewModelAgent("general_assistant", core.AgentRoleGeneral, llm, InstructionGeneral)
		tr := core.NewTranscript()
		tr.Append(core.NewAssistantMessage("query_analyzer", "Instruction for GeneralAssistant: greeting"))

		msg, err := a.Produce(context.Background(), tr)
		require.NoError(t, err)
		assert.Equal(t, core.RoleAssistant, msg.Role)
		assert.Equal(t, core.AgentID("general_assistant"), msg.Sender)
		assert.False(t, msg.HasToolCall())
		assert.Contains(t, msg.Content, "Hello")
	})

	t.Run("tool proposal becomes a tool-call message", func(t *testing.T) {
		llm := model.NewMockModel("mock", "test")
		llm.AddToolCallResponse("search for laptops", "search_amazon_products", `{"keyword":"laptops","limit":3}`)

		reg := registryWith(t, "ecommerce_assistant", echoTool(t, "search_amazon_products"))
		a := NewModelAgent("ecommerce_assistant", core.AgentRoleProposer, llm, InstructionProposer,
			func(o *ModelAgentOptions) { o.Registry = reg })

		tr := core.NewTranscript()
		tr.Append(core.NewAssistantMessage("query_analyzer", "Instruction for EcommerceAssistant: search for laptops"))

		msg, err := a.Produce(context.Background(), tr)
		require.NoError(t, err)
		require.True(t, msg.HasToolCall())
		assert.Equal(t, "search_amazon_products", msg.ToolCall.Name)
		assert.NotEmpty(t, msg.ToolCall.ID)
	})

	t.Run("history is trimmed to the configured tail", func(t *testing.T) {
		llm := model.NewMockModel("mock", "test")
		a := NewModelAgent("general_assistant", core.AgentRoleGeneral, llm, InstructionGeneral,
			func(o *ModelAgentOptions) { o.MaxHistoryMessages = 2 })

		tr := core.NewTranscript()
		for i := 0; i < 5; i++ {
			tr.Append(core.NewAssistantMessage("someone", "turn"))
		}
		tr.Append(core.NewAssistantMessage("someone", "latest"))

		msg, err := a.Produce(context.Background(), tr)
		require.NoError(t, err)
		// MockModel echoes the last message it saw.
		assert.Contains(t, msg.Content, "latest")
	})
}

func TestDispatcherProduce(t *testing.T) {
	owner := core.AgentID("ecommerce_assistant")

	newDispatcher := func(t *testing.T, tools ...tool.Tool) *Dispatcher {
		return NewDispatcher("executor", registryWith(t, owner, tools...))
	}

	invoke := func(call core.ToolCall) *core.Transcript {
		tr := core.NewTranscript()
		tr.Append(core.NewToolCallMessage(owner, call))
		return tr
	}

	t.Run("executes tool and replies with tool role", func(t *testing.T) {
		d := newDispatcher(t, echoTool(t, "search_amazon_products"))
		msg, err := d.Produce(context.Background(), invoke(core.ToolCall{Name: "search_amazon_products", Arguments: `{"keyword":"earbuds"}`}))
		require.NoError(t, err)
		assert.Equal(t, core.RoleTool, msg.Role)
		assert.JSONEq(t, `{"echo":"earbuds"}`, msg.Content)
	})

	t.Run("unknown tool yields error payload", func(t *testing.T) {
		d := newDispatcher(t, echoTool(t, "search_amazon_products"))
		msg, err := d.Produce(context.Background(), invoke(core.ToolCall{Name: "nonexistent", Arguments: "{}"}))
		require.NoError(t, err)
		assert.Equal(t, core.RoleTool, msg.Role)
		assert.Contains(t, msg.Content, `"error"`)
		assert.Contains(t, msg.Content, "unknown tool")
	})

	t.Run("ungranted caller yields error payload", func(t *testing.T) {
		reg, err := tool.NewRegistry(echoTool(t, "search_amazon_products"))
		require.NoError(t, err)
		d := NewDispatcher("executor", reg)

		msg, err := d.Produce(context.Background(), invoke(core.ToolCall{Name: "search_amazon_products", Arguments: "{}"}))
		require.NoError(t, err)
		assert.Contains(t, msg.Content, "not allowed")
	})

	t.Run("malformed arguments yield error payload", func(t *testing.T) {
		d := newDispatcher(t, echoTool(t, "search_amazon_products"))
		msg, err := d.Produce(context.Background(), invoke(core.ToolCall{Name: "search_amazon_products", Arguments: "{not json"}))
		require.NoError(t, err)
		assert.Contains(t, msg.Content, "invalid arguments")
	})

	t.Run("panicking tool is contained", func(t *testing.T) {
		boom := tool.NewFunctionTool("boom", "always panics", map[string]any{"type": "object"},
			func(context.Context, map[string]any) (any, error) { panic("kaboom") })
		d := newDispatcher(t, boom)
		msg, err := d.Produce(context.Background(), invoke(core.ToolCall{Name: "boom", Arguments: "{}"}))
		require.NoError(t, err)
		assert.Contains(t, msg.Content, "panicked")
	})

	t.Run("string results pass through unquoted", func(t *testing.T) {
		status := tool.NewFunctionTool("status", "returns text", map[string]any{"type": "object"},
			func(context.Context, map[string]any) (any, error) { return memory.LogSuccess, nil })
		d := newDispatcher(t, status)
		msg, err := d.Produce(context.Background(), invoke(core.ToolCall{Name: "status", Arguments: "{}"}))
		require.NoError(t, err)
		assert.Equal(t, memory.LogSuccess, msg.Content)
	})

	t.Run("no pending invocation is an error", func(t *testing.T) {
		d := newDispatcher(t, echoTool(t, "search_amazon_products"))
		tr := core.NewTranscript()
		tr.Append(core.NewAssistantMessage(owner, "no call here"))
		_, err := d.Produce(context.Background(), tr)
		assert.Error(t, err)
	})

	t.Run("tool timeout is honored", func(t *testing.T) {
		slow := tool.NewFunctionTool("slow", "sleeps past deadline", map[string]any{"type": "object"},
			func(ctx context.Context, _ map[string]any) (any, error) {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(5 * time.Second):
					return "never", nil
				}
			})
		reg := registryWith(t, owner, slow)
		d := NewDispatcher("executor", reg, func(o *DispatcherOptions) { o.ToolTimeout = 10 * time.Millisecond })
		msg, err := d.Produce(context.Background(), invoke(core.ToolCall{Name: "slow", Arguments: "{}"}))
		require.NoError(t, err)
		assert.Contains(t, msg.Content, `"error"`)
	})
}

func TestLoggerProduce(t *testing.T) {
	l := NewLogger("conversation_logger")
	seed := core.NewUserMessage("user_proxy", core.ComposeSeed("find earbuds", "sess-42"))

	t.Run("proposes log_conversation for a successful answer", func(t *testing.T) {
		tr := core.NewTranscript()
		tr.Append(seed)
		tr.Append(core.NewAssistantMessage("response_formatter", "🛍️ Top earbuds for you."))

		msg, err := l.Produce(context.Background(), tr)
		require.NoError(t, err)
		require.True(t, msg.HasToolCall())
		assert.Equal(t, memory.ToolNameLog, msg.ToolCall.Name)

		var args map[string]string
		require.NoError(t, json.Unmarshal([]byte(msg.ToolCall.Arguments), &args))
		assert.Equal(t, "find earbuds", args["user_query"])
		assert.Equal(t, "sess-42", args["session_id"])
		assert.Contains(t, args["assistant_response"], "earbuds")
	})

	t.Run("terminates after the write is reported", func(t *testing.T) {
		tr := core.NewTranscript()
		tr.Append(seed)
		tr.Append(core.NewToolResultMessage("executor", memory.LogSuccess))

		msg, err := l.Produce(context.Background(), tr)
		require.NoError(t, err)
		assert.True(t, msg.SignalsTermination())
	})

	t.Run("skips logging failure responses", func(t *testing.T) {
		tr := core.NewTranscript()
		tr.Append(seed)
		tr.Append(core.NewAssistantMessage("response_formatter", "The search tool returned an error, please try again."))

		msg, err := l.Produce(context.Background(), tr)
		require.NoError(t, err)
		assert.False(t, msg.HasToolCall())
		assert.True(t, msg.SignalsTermination())
	})

	t.Run("terminates when the seed is missing", func(t *testing.T) {
		tr := core.NewTranscript()
		tr.Append(core.NewAssistantMessage("response_formatter", "an answer from nowhere"))

		msg, err := l.Produce(context.Background(), tr)
		require.NoError(t, err)
		assert.True(t, msg.SignalsTermination())
	})

	t.Run("clamps oversized payloads", func(t *testing.T) {
		tr := core.NewTranscript()
		tr.Append(seed)
		tr.Append(core.NewAssistantMessage("response_formatter", strings.Repeat("x", 2000)))

		msg, err := l.Produce(context.Background(), tr)
		require.NoError(t, err)
		require.True(t, msg.HasToolCall())

		var args map[string]string
		require.NoError(t, json.Unmarshal([]byte(msg.ToolCall.Arguments), &args))
		assert.Len(t, args["assistant_response"], maxLoggedLen)
	})
}

func TestInitiator(t *testing.T) {
	i := NewInitiator("user_proxy")
	seed := i.Seed("find a cheap blender", "sess-1")

	assert.Equal(t, core.RoleUser, seed.Role)
	q, s, ok := core.ParseSeed(seed.Content)
	require.True(t, ok)
	assert.Equal(t, "find a cheap blender", q)
	assert.Equal(t, "sess-1", s)

	_, err := i.Produce(context.Background(), core.NewTranscript())
	assert.Error(t, err)
}
