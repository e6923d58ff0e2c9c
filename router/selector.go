// Package router implements the speaker-selection state machine: a pure
// function over (transcript, last speaker) deciding which agent runs next or
// that the conversation is over. Routing is keyed on agent roles, never on
// name comparison, and every unmatched combination terminates; the machine
// fails closed rather than looping.
package router

import (
	"github.com/shopchat-ai/shopchat/core"
	"github.com/shopchat-ai/shopchat/logging"
)

// Verdict is the outcome of one selection step. When Terminate is false,
// Next names the agent to run; Reason carries a diagnostic either way.
type Verdict struct {
	Next      core.AgentID
	Terminate bool
	Reason    string
}

// Options configure a Selector.
type Options struct {
	// StrictAnalyzerRouting terminates the conversation when the analyzer's
	// output matches no known marker, instead of falling back to the general
	// assistant. The permissive fallback is the default contract.
	StrictAnalyzerRouting bool
	// Logger receives selection diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Selector holds the fixed roster and routing configuration. NextSpeaker has
// no side effects beyond diagnostics; it inspects only the last message and,
// for tool-result correlation, the one immediately preceding it.
type Selector struct {
	roster *core.Roster
	strict bool
	logger logging.Logger
}

// NewSelector builds a Selector over a fixed roster.
func NewSelector(roster *core.Roster, optFns ...func(o *Options)) *Selector {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Selector{
		roster: roster,
		strict: opts.StrictAnalyzerRouting,
		logger: logging.OrNoOp(opts.Logger),
	}
}

// NextSpeaker decides who speaks after the given agent's turn. The global
// kill switch (termination token in the last message) takes priority over
// every role-specific rule.
func (s *Selector) NextSpeaker(t *core.Transcript, last core.AgentID) Verdict {
	msg, ok := t.Last()
	if !ok {
		return s.terminate(last, "empty transcript")
	}
	if msg.SignalsTermination() {
		return s.terminate(last, "termination token present")
	}

	switch s.roster.RoleOf(last) {
	case core.AgentRoleInitiator:
		return s.route(last, core.AgentRoleContext)

	case core.AgentRoleContext:
		if msg.HasToolCall() {
			return s.route(last, core.AgentRoleDispatcher)
		}
		return s.route(last, core.AgentRoleAnalyzer)

	case core.AgentRoleAnalyzer:
		return s.routeAnalyzer(last, msg)

	case core.AgentRoleProposer:
		if msg.HasToolCall() {
			return s.route(last, core.AgentRoleDispatcher)
		}
		// A proposer that called no tool has nothing actionable to hand
		// off; the formatter explains the situation to the user.
		return s.route(last, core.AgentRoleFormatter)

	case core.AgentRoleDispatcher:
		return s.routeToolResult(last, t, msg)

	case core.AgentRoleFormatter, core.AgentRoleGeneral:
		if msg.HasToolCall() {
			return s.terminate(last, "output agent proposed a tool call")
		}
		// Candidate final answer; funnel through the logger so every
		// successful conversation is recorded exactly once.
		return s.route(last, core.AgentRoleLogger)

	case core.AgentRoleLogger:
		if msg.HasToolCall() {
			return s.route(last, core.AgentRoleDispatcher)
		}
		return s.terminate(last, "conversation complete")

	default:
		return s.terminate(last, "no routing rule for speaker")
	}
}

// routeAnalyzer resolves the analyzer's free-form directive into a target,
// applying the configured fallback when no marker matches. Ambiguous analyzer
// output must never silently strand the conversation.
func (s *Selector) routeAnalyzer(last core.AgentID, msg core.Message) Verdict {
	d, err := ParseDirective(msg.Content)
	if err != nil {
		if s.strict {
			return s.terminate(last, "analyzer output matched no marker (strict)")
		}
		s.logger.Warn("router.analyzer.fallback", "speaker", string(last), "content_len", len(msg.Content))
		return s.route(last, core.AgentRoleGeneral)
	}
	return s.route(last, d.Target)
}

// routeToolResult correlates the dispatcher's tool-role message back to the
// invocation one position earlier and routes to the caller's designated
// downstream consumer.
func (s *Selector) routeToolResult(last core.AgentID, t *core.Transcript, msg core.Message) Verdict {
	if msg.Role != core.RoleTool {
		return s.terminate(last, "dispatcher produced a non-tool message")
	}
	prev, ok := t.BeforeLast()
	if !ok || !prev.HasToolCall() {
		return s.terminate(last, "tool result without a preceding invocation")
	}
	switch s.roster.RoleOf(prev.Sender) {
	case core.AgentRoleContext:
		// Context lookups return to the context agent for summarizing.
		return s.route(last, core.AgentRoleContext)
	case core.AgentRoleProposer:
		return s.route(last, core.AgentRoleFormatter)
	case core.AgentRoleLogger:
		return s.route(last, core.AgentRoleLogger)
	default:
		return s.terminate(last, "no consumer for tool result from "+s.roster.RoleOf(prev.Sender).String())
	}
}

func (s *Selector) route(last core.AgentID, target core.AgentRole) Verdict {
	next, ok := s.roster.ByRole(target)
	if !ok {
		return s.terminate(last, "roster has no "+target.String()+" agent")
	}
	s.logger.Debug("router.next", "from", string(last), "to", string(next.Name()))
	return Verdict{Next: next.Name()}
}

func (s *Selector) terminate(last core.AgentID, reason string) Verdict {
	s.logger.Info("router.terminate", "from", string(last), "reason", reason)
	return Verdict{Terminate: true, Reason: reason}
}
