package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopchat-ai/shopchat/core"
	"github.com/shopchat-ai/shopchat/tool"
)

// NoContextFound is returned by the context tool when a session has no prior
// memory. It is a normal outcome, not an error.
const NoContextFound = "No previous conversation context found."

// LogSuccess is the status returned by the logging tool on success.
const LogSuccess = "Conversation successfully logged."

// DefaultContextDepth is how many prior interactions the context tool loads.
const DefaultContextDepth = 3

// Tool names, referenced wherever an agent proposes these calls in code.
const (
	ToolNameContext = "get_conversation_context"
	ToolNameLog     = "log_conversation"
)

type contextArgs struct {
	Query     string `json:"query" description:"The user query to search context for"`
	SessionID string `json:"session_id" description:"The session ID to retrieve context from"`
}

type logArgs struct {
	UserQuery         string `json:"user_query" description:"The user query to log"`
	AssistantResponse string `json:"assistant_response" description:"The assistant response to log"`
	SessionID         string `json:"session_id" description:"The session the interaction belongs to"`
}

// NewContextTool builds the get_conversation_context tool over a MemoryStore.
// depth <= 0 uses DefaultContextDepth.
func NewContextTool(store core.MemoryStore, depth int) *tool.FunctionTool {
	if depth <= 0 {
		depth = DefaultContextDepth
	}
	return tool.NewFunctionToolFromStruct(
		ToolNameContext,
		"Get previous conversation context from memory",
		contextArgs{},
		func(ctx context.Context, args map[string]any) (any, error) {
			sessionID, _ := args["session_id"].(string)
			records, err := store.Recent(ctx, sessionID, depth)
			if err != nil {
				return nil, fmt.Errorf("retrieve context: %w", err)
			}
			if len(records) == 0 {
				return NoContextFound, nil
			}
			entries := make([]string, 0, len(records))
			for _, rec := range records {
				entries = append(entries, fmt.Sprintf("User: %s\nAgent: %s", rec.Query, rec.Response))
			}
			return "Previous context:\n" + strings.Join(entries, "\n---\n"), nil
		})
}

// NewLogTool builds the log_conversation tool over a MemoryStore.
func NewLogTool(store core.MemoryStore) *tool.FunctionTool {
	return tool.NewFunctionToolFromStruct(
		ToolNameLog,
		"Log conversation to memory for future reference",
		logArgs{},
		func(ctx context.Context, args map[string]any) (any, error) {
			query, _ := args["user_query"].(string)
			response, _ := args["assistant_response"].(string)
			sessionID, _ := args["session_id"].(string)
			if err := store.Append(ctx, sessionID, query, response, time.Now().UTC()); err != nil {
				return nil, fmt.Errorf("log conversation: %w", err)
			}
			return LogSuccess, nil
		})
}
