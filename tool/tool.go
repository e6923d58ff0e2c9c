// Package tool implements the function-calling subsystem: named callables
// with JSON-schema validated arguments, a fixed registry, and per-agent
// capability sets assigned once at roster construction.
package tool

import (
	"context"
	"fmt"

	"github.com/shopchat-ai/shopchat/internal/util"
)

// Tool is a named capability an agent may invoke. Implementations must be
// safe for concurrent use and must never panic; the dispatcher converts
// returned errors into structured error payloads, it does not crash on them.
type Tool interface {
	// Name returns the unique identifier (snake_case) used in tool invocations.
	Name() string

	// Description is shown to models to decide when to use the tool.
	Description() string

	// Parameters returns a minimal JSON schema describing accepted arguments.
	Parameters() map[string]any

	// Call executes the tool with already-decoded arguments. Implementations
	// must respect ctx for any network I/O.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ValidationError is re-exported so callers don't import internal/util.
type ValidationError = util.ValidationError

// Error codes attached to ToolError for categorization.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
	CodeUnknown    = "UNKNOWN_TOOL"
)

// ToolError describes a tool failure in a structured, serializable form.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a ToolError with the given details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
