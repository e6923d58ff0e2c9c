package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TerminationToken is the global kill switch. A message whose content contains
// the token (after trimming trailing whitespace) ends the conversation
// regardless of any role-specific routing rule.
const TerminationToken = "TERMINATE"

// Role identifies the conversational role of a message.
type Role string

const (
	// RoleUser marks the seed query and anything speaking on the user's behalf.
	RoleUser Role = "user"
	// RoleAssistant marks output produced by an agent turn.
	RoleAssistant Role = "assistant"
	// RoleTool marks a tool execution result produced by the dispatcher.
	RoleTool Role = "tool"
)

// AgentID is the stable name uniquely identifying an agent within a roster.
type AgentID string

// ToolCall is a structured request embedded in a message naming a tool and its
// serialized JSON arguments. ID is unique within a transcript; correlation of
// the tool result to its invocation is positional (the result message
// immediately follows), the ID exists for provider round-trips and diagnostics.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

// Message is the unit of communication appended to a Transcript. It is
// immutable once appended; constructors below stamp ID and UTC timestamp.
// Content and ToolCall are mutually informative: a tool-proposing message
// carries a ToolCall and usually no content, a tool-result message has
// Role = RoleTool and the serialized result as content.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Sender    AgentID   `json:"sender"`
	Content   string    `json:"content,omitempty"`
	ToolCall  *ToolCall `json:"tool_call,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewID generates a unique identifier for messages and tool calls.
func NewID() string { return uuid.NewString() }

func newMessage(role Role, sender AgentID) Message {
	return Message{
		ID:        NewID(),
		Role:      role,
		Sender:    sender,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserMessage creates the user-role message used to seed a transcript.
func NewUserMessage(sender AgentID, content string) Message {
	m := newMessage(RoleUser, sender)
	m.Content = content
	return m
}

// NewAssistantMessage creates a plain text agent turn.
func NewAssistantMessage(sender AgentID, content string) Message {
	m := newMessage(RoleAssistant, sender)
	m.Content = content
	return m
}

// NewToolCallMessage creates an agent turn proposing a tool invocation.
// A zero-valued call ID is filled in.
func NewToolCallMessage(sender AgentID, call ToolCall) Message {
	if call.ID == "" {
		call.ID = NewID()
	}
	m := newMessage(RoleAssistant, sender)
	m.ToolCall = &call
	return m
}

// NewToolResultMessage creates the tool-role message produced by the
// dispatcher after executing an invocation. Payload is the serialized result
// (or structured error descriptor).
func NewToolResultMessage(sender AgentID, payload string) Message {
	m := newMessage(RoleTool, sender)
	m.Content = payload
	return m
}

// HasToolCall reports whether this message carries a tool invocation.
func (m Message) HasToolCall() bool { return m.ToolCall != nil }

// SignalsTermination reports whether the message content contains the
// termination token after trailing whitespace is trimmed.
func (m Message) SignalsTermination() bool {
	return strings.Contains(strings.TrimRight(m.Content, " \t\r\n"), TerminationToken)
}
