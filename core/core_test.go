package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageConstructors(t *testing.T) {
	u := NewUserMessage("UserProxy", "hello")
	assert.Equal(t, RoleUser, u.Role)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.HasToolCall())

	tc := NewToolCallMessage("EcommerceAssistant", ToolCall{Name: "search_amazon_products", Arguments: `{"keyword":"mouse"}`})
	assert.Equal(t, RoleAssistant, tc.Role)
	require.True(t, tc.HasToolCall())
	assert.NotEmpty(t, tc.ToolCall.ID, "constructor must stamp a call id")

	tr := NewToolResultMessage("ToolExecutor", `{"ok":true}`)
	assert.Equal(t, RoleTool, tr.Role)
	assert.Equal(t, `{"ok":true}`, tr.Content)
}

func TestSignalsTermination(t *testing.T) {
	cases := []struct {
		content string
		want    bool
	}{
		{"all done TERMINATE", true},
		{"TERMINATE\n\t ", true},
		{"mid TERMINATE sentence", true},
		{"nothing to see", false},
		{"", false},
	}
	for _, c := range cases {
		m := NewAssistantMessage("ResponseFormatter", c.content)
		assert.Equal(t, c.want, m.SignalsTermination(), "content %q", c.content)
	}
}

func TestTranscriptAppendOrderAndCopies(t *testing.T) {
	tr := NewTranscript()
	_, ok := tr.Last()
	assert.False(t, ok)

	tr.Append(NewUserMessage("UserProxy", "seed"))
	tr.Append(NewAssistantMessage("QueryAnalyzer", "analysis"))
	require.Equal(t, 2, tr.Len())

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, AgentID("QueryAnalyzer"), last.Sender)

	prev, ok := tr.BeforeLast()
	require.True(t, ok)
	assert.Equal(t, AgentID("UserProxy"), prev.Sender)

	// Returned slice is a copy; external mutation must not leak in.
	msgs := tr.Messages()
	msgs[0].Content = "mutated"
	fresh := tr.Messages()
	assert.Equal(t, "seed", fresh[0].Content)
}

type stubAgent struct {
	name AgentID
	role AgentRole
}

func (s stubAgent) Name() AgentID   { return s.name }
func (s stubAgent) Role() AgentRole { return s.role }
func (s stubAgent) Produce(context.Context, *Transcript) (Message, error) {
	return Message{}, nil
}

func agentStub(name AgentID, role AgentRole) Agent { return stubAgent{name: name, role: role} }

var _ Agent = stubAgent{}

func TestRosterUniqueness(t *testing.T) {
	_, err := NewRoster(agentStub("A", AgentRoleAnalyzer), agentStub("B", AgentRoleAnalyzer))
	assert.Error(t, err, "duplicate role must be rejected")

	_, err = NewRoster(agentStub("A", AgentRoleAnalyzer), agentStub("A", AgentRoleFormatter))
	assert.Error(t, err, "duplicate name must be rejected")

	r, err := NewRoster(agentStub("A", AgentRoleAnalyzer), agentStub("B", AgentRoleFormatter))
	require.NoError(t, err)
	assert.Equal(t, AgentRoleAnalyzer, r.RoleOf("A"))
	assert.Equal(t, AgentRoleUnknown, r.RoleOf("missing"))
	a, ok := r.ByRole(AgentRoleFormatter)
	require.True(t, ok)
	assert.Equal(t, AgentID("B"), a.Name())
	assert.Equal(t, []AgentID{"A", "B"}, r.Names())
}
