package orchestrator

import (
	"fmt"
	"time"

	"github.com/shopchat-ai/shopchat/agent"
	"github.com/shopchat-ai/shopchat/core"
	"github.com/shopchat-ai/shopchat/logging"
	"github.com/shopchat-ai/shopchat/memory"
	"github.com/shopchat-ai/shopchat/model"
	"github.com/shopchat-ai/shopchat/tool"
)

// Default names of the conversation agents.
const (
	NameUserProxy          core.AgentID = "UserProxy"
	NameContextAssistant   core.AgentID = "ContextAssistant"
	NameQueryAnalyzer      core.AgentID = "QueryAnalyzer"
	NameEcommerceAssistant core.AgentID = "EcommerceAssistant"
	NameToolExecutor       core.AgentID = "ToolExecutor"
	NameResponseFormatter  core.AgentID = "ResponseFormatter"
	NameGeneralAssistant   core.AgentID = "GeneralAssistant"
	NameConversationLogger core.AgentID = "ConversationLogger"
)

// BuildConfig assembles the standard shopping roster.
type BuildConfig struct {
	// Model backs all model-driven agents.
	Model model.Model
	// Memory backs the context and logging tools.
	Memory core.MemoryStore
	// ProductTools are granted to the e-commerce assistant.
	ProductTools []tool.Tool
	// ContextDepth is how many prior interactions the context tool loads;
	// <= 0 uses memory.DefaultContextDepth.
	ContextDepth int
	// ToolTimeout bounds each tool execution; <= 0 uses the dispatcher default.
	ToolTimeout time.Duration
	// MaxRounds caps turns per query; <= 0 uses DefaultMaxRounds.
	MaxRounds int
	// StrictAnalyzerRouting terminates instead of falling back to the
	// general assistant on unparseable analyzer output.
	StrictAnalyzerRouting bool
	// Logger receives diagnostics from all components. Defaults to NoOp.
	Logger logging.Logger
}

// New builds a ready-to-use Orchestrator with the standard agent lineup:
// memory tools over cfg.Memory, product tools granted to the e-commerce
// assistant, and per-role capability grants enforced by the dispatcher.
func New(cfg BuildConfig) (*Orchestrator, error) {
	if cfg.Model == nil {
		return nil, fmt.Errorf("orchestrator: model is required")
	}
	if cfg.Memory == nil {
		return nil, fmt.Errorf("orchestrator: memory store is required")
	}
	logger := logging.OrNoOp(cfg.Logger)

	contextTool := memory.NewContextTool(cfg.Memory, cfg.ContextDepth)
	logTool := memory.NewLogTool(cfg.Memory)

	all := make([]tool.Tool, 0, len(cfg.ProductTools)+2)
	all = append(all, contextTool, logTool)
	all = append(all, cfg.ProductTools...)

	registry, err := tool.NewRegistry(all...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: registry: %w", err)
	}
	if err := registry.Grant(NameContextAssistant, memory.ToolNameContext); err != nil {
		return nil, err
	}
	if err := registry.Grant(NameConversationLogger, memory.ToolNameLog); err != nil {
		return nil, err
	}
	for _, tl := range cfg.ProductTools {
		if err := registry.Grant(NameEcommerceAssistant, tl.Name()); err != nil {
			return nil, err
		}
	}

	withRegistry := func(o *agent.ModelAgentOptions) {
		o.Registry = registry
		o.Logger = logger
	}
	withLogger := func(o *agent.ModelAgentOptions) { o.Logger = logger }

	roster, err := core.NewRoster(
		agent.NewInitiator(NameUserProxy),
		agent.NewModelAgent(NameContextAssistant, core.AgentRoleContext, cfg.Model, agent.InstructionContext, withRegistry),
		agent.NewModelAgent(NameQueryAnalyzer, core.AgentRoleAnalyzer, cfg.Model, agent.InstructionAnalyzer, withLogger),
		agent.NewModelAgent(NameEcommerceAssistant, core.AgentRoleProposer, cfg.Model, agent.InstructionProposer, withRegistry),
		agent.NewDispatcher(NameToolExecutor, registry, func(o *agent.DispatcherOptions) {
			o.Logger = logger
			if cfg.ToolTimeout > 0 {
				o.ToolTimeout = cfg.ToolTimeout
			}
		}),
		agent.NewModelAgent(NameResponseFormatter, core.AgentRoleFormatter, cfg.Model, agent.InstructionFormatter, withLogger),
		agent.NewModelAgent(NameGeneralAssistant, core.AgentRoleGeneral, cfg.Model, agent.InstructionGeneral, withLogger),
		agent.NewLogger(NameConversationLogger, func(o *agent.LoggerOptions) { o.Logger = logger }),
	)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: roster: %w", err)
	}

	return NewOrchestrator(roster, func(o *Options) {
		o.MaxRounds = cfg.MaxRounds
		o.StrictAnalyzerRouting = cfg.StrictAnalyzerRouting
		o.Logger = logger
	})
}
