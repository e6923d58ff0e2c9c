package agent

import (
	"context"
	"fmt"

	"github.com/shopchat-ai/shopchat/core"
)

// Initiator stands in for the human user. It opens every conversation with a
// seed message carrying the query and session identifier and never takes a
// turn afterwards; the router only routes away from it.
type Initiator struct {
	name core.AgentID
}

// NewInitiator creates the user proxy agent.
func NewInitiator(name core.AgentID) *Initiator {
	return &Initiator{name: name}
}

// Name implements core.Agent.
func (i *Initiator) Name() core.AgentID { return i.name }

// Role implements core.Agent.
func (i *Initiator) Role() core.AgentRole { return core.AgentRoleInitiator }

// Seed builds the opening message for a query.
func (i *Initiator) Seed(query, sessionID string) core.Message {
	return core.NewUserMessage(i.name, core.ComposeSeed(query, sessionID))
}

// Produce implements core.Agent. The initiator is never selected to speak.
func (i *Initiator) Produce(context.Context, *core.Transcript) (core.Message, error) {
	return core.Message{}, fmt.Errorf("initiator %s only opens conversations", i.name)
}
