package core

import "context"

// AgentRole categorizes a roster member for routing purposes. The speaker
// selector is keyed on roles rather than agent names so that renaming an
// agent never silently changes the conversation graph.
type AgentRole int

const (
	// AgentRoleUnknown is the zero value; it matches no routing rule.
	AgentRoleUnknown AgentRole = iota
	// AgentRoleInitiator seeds the transcript with the user query.
	AgentRoleInitiator
	// AgentRoleContext retrieves prior conversational memory.
	AgentRoleContext
	// AgentRoleAnalyzer classifies the query and directs the next agent.
	AgentRoleAnalyzer
	// AgentRoleProposer proposes product-search tool invocations.
	AgentRoleProposer
	// AgentRoleDispatcher deterministically executes tool invocations.
	AgentRoleDispatcher
	// AgentRoleFormatter turns tool results into the user-facing answer.
	AgentRoleFormatter
	// AgentRoleGeneral handles queries that need no tools; also the
	// fallback target for ambiguous analyzer output.
	AgentRoleGeneral
	// AgentRoleLogger records the finished interaction, then terminates.
	AgentRoleLogger
)

// String returns the routing-table label for the role.
func (r AgentRole) String() string {
	switch r {
	case AgentRoleInitiator:
		return "initiator"
	case AgentRoleContext:
		return "context"
	case AgentRoleAnalyzer:
		return "analyzer"
	case AgentRoleProposer:
		return "proposer"
	case AgentRoleDispatcher:
		return "dispatcher"
	case AgentRoleFormatter:
		return "formatter"
	case AgentRoleGeneral:
		return "general"
	case AgentRoleLogger:
		return "logger"
	default:
		return "unknown"
	}
}

// Agent is a named turn-producing participant. Produce is the only capability
// every roster member must implement, whether it is LLM-backed or
// deterministic. It receives the full transcript and returns exactly one
// message; it must respect ctx cancellation since model and tool calls may
// block on network I/O.
type Agent interface {
	Name() AgentID
	Role() AgentRole
	Produce(ctx context.Context, t *Transcript) (Message, error)
}
