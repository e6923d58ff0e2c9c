// Package shopchat provides a high-level façade over the conversation
// orchestrator and its services (memory, product search tools and logging)
// enabling quick construction of the shopping assistant. Most applications
// interact with this package by:
//  1. Creating an Assistant via New() with a backing model
//  2. Optionally supplying a durable memory store and product tools
//  3. Asking questions with Ask()
//
// The façade delegates the conversation to orchestrator.Orchestrator while
// keeping setup concise. All defaults are safe for local development and
// testing; production deployments typically supply a Redis memory store and a
// structured logger.
package shopchat

import (
	"context"
	"time"

	"github.com/shopchat-ai/shopchat/core"
	"github.com/shopchat-ai/shopchat/logging"
	"github.com/shopchat-ai/shopchat/memory"
	"github.com/shopchat-ai/shopchat/model"
	"github.com/shopchat-ai/shopchat/orchestrator"
	"github.com/shopchat-ai/shopchat/tool"
)

// Options configures the Assistant.
type Options struct {
	// Memory persists per-session interactions. Defaults to an in-process store.
	Memory core.MemoryStore

	// ProductTools are granted to the e-commerce agent. Without them the
	// assistant still answers, it just cannot look up live product data.
	ProductTools []tool.Tool

	// MaxRounds caps agent turns per query; <= 0 uses the orchestrator default.
	MaxRounds int

	// ContextDepth is how many prior interactions the context lookup loads.
	ContextDepth int

	// ToolTimeout bounds each tool execution.
	ToolTimeout time.Duration

	// StrictAnalyzerRouting ends the conversation instead of falling back to
	// the general assistant when the analyzer output cannot be parsed.
	StrictAnalyzerRouting bool

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Assistant is the high-level façade aggregating the orchestrator and its memory.
type Assistant struct {
	orch *orchestrator.Orchestrator
	mem  core.MemoryStore
}

// New creates an Assistant backed by the given model. Any unset service
// defaults to an in-memory implementation.
func New(llm model.Model, optFns ...func(o *Options)) (*Assistant, error) {
	opts := Options{
		Memory: memory.NewInMemoryStore(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	orch, err := orchestrator.New(orchestrator.BuildConfig{
		Model:                 llm,
		Memory:                opts.Memory,
		ProductTools:          opts.ProductTools,
		ContextDepth:          opts.ContextDepth,
		ToolTimeout:           opts.ToolTimeout,
		MaxRounds:             opts.MaxRounds,
		StrictAnalyzerRouting: opts.StrictAnalyzerRouting,
		Logger:                logging.OrNoOp(opts.Logger),
	})
	if err != nil {
		return nil, err
	}
	return &Assistant{orch: orch, mem: opts.Memory}, nil
}

// Ask runs one query through the agent team and returns the final answer.
// It never returns an error; failures surface as an apologetic response.
func (a *Assistant) Ask(ctx context.Context, query, sessionID string) string {
	return a.orch.ProcessQuery(ctx, query, sessionID)
}

// Memory exposes the backing store, for history inspection or cleanup.
func (a *Assistant) Memory() core.MemoryStore { return a.mem }

// ClearSession drops all remembered interactions for the session.
func (a *Assistant) ClearSession(ctx context.Context, sessionID string) error {
	return a.mem.Clear(ctx, sessionID)
}
