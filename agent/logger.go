package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shopchat-ai/shopchat/core"
	"github.com/shopchat-ai/shopchat/logging"
	"github.com/shopchat-ai/shopchat/memory"
)

// failureMarkers identify answers that describe a failure rather than a
// result. Those conversations are not persisted; replaying an apology as
// "context" would only confuse the next turn.
var failureMarkers = []string{"error", "apologize", "could not"}

// LoggerOptions configures a Logger agent.
type LoggerOptions struct {
	Logger logging.Logger
}

// Logger is the deterministic persistence agent that closes every successful
// conversation. On its first turn it receives the candidate final answer,
// recovers the original query and session from the seed message and proposes
// a log_conversation call; on its second turn, after the dispatcher reports
// the write, it emits the termination token. Failed conversations skip the
// write and terminate directly.
type Logger struct {
	name   core.AgentID
	logger logging.Logger
}

// NewLogger creates the conversation logger agent.
func NewLogger(name core.AgentID, optFns ...func(o *LoggerOptions)) *Logger {
	opts := LoggerOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Logger{name: name, logger: logging.OrNoOp(opts.Logger)}
}

// Name implements core.Agent.
func (l *Logger) Name() core.AgentID { return l.name }

// Role implements core.Agent.
func (l *Logger) Role() core.AgentRole { return core.AgentRoleLogger }

// Produce implements core.Agent.
func (l *Logger) Produce(_ context.Context, t *core.Transcript) (core.Message, error) {
	last, ok := t.Last()
	if !ok {
		return core.NewAssistantMessage(l.name, core.TerminationToken), nil
	}

	// The dispatcher reported our write; nothing left to do.
	if last.Role == core.RoleTool {
		return core.NewAssistantMessage(l.name, core.TerminationToken), nil
	}

	answer := last.Content
	if describesFailure(answer) {
		l.logger.Info("logger.skip", "reason", "failure response not persisted")
		return core.NewAssistantMessage(l.name, core.TerminationToken), nil
	}

	query, sessionID, found := seedOf(t)
	if !found {
		l.logger.Warn("logger.skip", "reason", "no seed message in transcript")
		return core.NewAssistantMessage(l.name, core.TerminationToken), nil
	}

	args, err := json.Marshal(map[string]string{
		"user_query":         clamp(query, maxLoggedLen),
		"assistant_response": clamp(answer, maxLoggedLen),
		"session_id":         sessionID,
	})
	if err != nil {
		return core.NewAssistantMessage(l.name, core.TerminationToken), nil
	}

	return core.NewToolCallMessage(l.name, core.ToolCall{
		Name:      memory.ToolNameLog,
		Arguments: string(args),
	}), nil
}

// seedOf walks the transcript from the start looking for the seed message.
func seedOf(t *core.Transcript) (query, sessionID string, ok bool) {
	for _, m := range t.Messages() {
		if q, s, parsed := core.ParseSeed(m.Content); parsed {
			return q, s, true
		}
	}
	return "", "", false
}

// maxLoggedLen caps persisted queries and answers so one verbose turn cannot
// bloat the memory store.
const maxLoggedLen = 500

func clamp(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func describesFailure(answer string) bool {
	lower := strings.ToLower(answer)
	for _, marker := range failureMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
