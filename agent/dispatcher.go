package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopchat-ai/shopchat/core"
	"github.com/shopchat-ai/shopchat/logging"
	"github.com/shopchat-ai/shopchat/tool"
)

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	// ToolTimeout bounds each tool execution.
	ToolTimeout time.Duration
	// Logger receives execution diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Dispatcher is the deterministic tool executor. It never talks to a model:
// it reads the pending invocation from the last transcript message, checks
// the caller's capability grant, runs the tool with a bounded context, and
// always answers with a tool-role message. Failures are encoded into the
// payload as {"error": ...} so the conversation can surface them to the user
// instead of crashing mid-flight.
type Dispatcher struct {
	name     core.AgentID
	registry *tool.Registry
	timeout  time.Duration
	logger   logging.Logger
}

// NewDispatcher creates the executor over a shared tool registry.
func NewDispatcher(name core.AgentID, registry *tool.Registry, optFns ...func(o *DispatcherOptions)) *Dispatcher {
	opts := DispatcherOptions{
		ToolTimeout: 30 * time.Second,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Dispatcher{
		name:     name,
		registry: registry,
		timeout:  opts.ToolTimeout,
		logger:   logging.OrNoOp(opts.Logger),
	}
}

// Name implements core.Agent.
func (d *Dispatcher) Name() core.AgentID { return d.name }

// Role implements core.Agent.
func (d *Dispatcher) Role() core.AgentRole { return core.AgentRoleDispatcher }

// Produce implements core.Agent by executing the invocation proposed in the
// last transcript message.
func (d *Dispatcher) Produce(ctx context.Context, t *core.Transcript) (core.Message, error) {
	msg, ok := t.Last()
	if !ok || !msg.HasToolCall() {
		return core.Message{}, fmt.Errorf("dispatcher %s: no pending tool invocation", d.name)
	}
	call := *msg.ToolCall

	payload := d.execute(ctx, msg.Sender, call)
	return core.NewToolResultMessage(d.name, payload), nil
}

// execute runs one tool call end to end and returns the serialized payload.
func (d *Dispatcher) execute(ctx context.Context, caller core.AgentID, call core.ToolCall) (payload string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dispatcher.panic", "tool", call.Name, "panic", fmt.Sprint(r))
			payload = errorPayload(fmt.Sprintf("tool %s panicked: %v", call.Name, r))
		}
	}()

	tl, ok := d.registry.Get(call.Name)
	if !ok {
		return errorPayload(fmt.Sprintf("unknown tool %q", call.Name))
	}
	if !d.registry.Allowed(caller, call.Name) {
		return errorPayload(fmt.Sprintf("agent %s is not allowed to call %q", caller, call.Name))
	}

	args := make(map[string]any)
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return errorPayload(fmt.Sprintf("invalid arguments for %s: %v", call.Name, err))
		}
	}

	callCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := tl.Call(callCtx, args)
	if err != nil {
		d.logger.Warn("dispatcher.tool_error", "tool", call.Name, "error", err.Error())
		return errorPayload(err.Error())
	}
	d.logger.Debug("dispatcher.tool_done", "tool", call.Name, "duration", time.Since(start).String())

	return encodeResult(result)
}

// encodeResult serializes a tool result for the transcript. Strings pass
// through untouched so formatted text stays readable to the model.
func encodeResult(result any) string {
	if s, ok := result.(string); ok {
		return s
	}
	data, err := json.Marshal(result)
	if err != nil {
		return errorPayload(fmt.Sprintf("unserializable tool result: %v", err))
	}
	return string(data)
}

func errorPayload(msg string) string {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return string(data)
}
