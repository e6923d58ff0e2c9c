package core

import "fmt"

// Roster is the fixed agent lineup of one conversation type. Composition is
// set once at construction and known to the speaker selector; there is no
// later mutation.
type Roster struct {
	byID   map[AgentID]Agent
	byRole map[AgentRole]Agent
	order  []AgentID
}

// NewRoster builds a roster from the given agents. Names and roles must be
// unique: the selector resolves the next speaker by role, so a duplicate role
// would make routing ambiguous.
func NewRoster(agents ...Agent) (*Roster, error) {
	r := &Roster{
		byID:   make(map[AgentID]Agent, len(agents)),
		byRole: make(map[AgentRole]Agent, len(agents)),
	}
	for _, a := range agents {
		if a.Role() == AgentRoleUnknown {
			return nil, fmt.Errorf("agent %q has no role", a.Name())
		}
		if _, dup := r.byID[a.Name()]; dup {
			return nil, fmt.Errorf("duplicate agent name %q", a.Name())
		}
		if prev, dup := r.byRole[a.Role()]; dup {
			return nil, fmt.Errorf("role %s held by both %q and %q", a.Role(), prev.Name(), a.Name())
		}
		r.byID[a.Name()] = a
		r.byRole[a.Role()] = a
		r.order = append(r.order, a.Name())
	}
	return r, nil
}

// ByID resolves an agent by name.
func (r *Roster) ByID(id AgentID) (Agent, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// ByRole resolves an agent by routing role.
func (r *Roster) ByRole(role AgentRole) (Agent, bool) {
	a, ok := r.byRole[role]
	return a, ok
}

// RoleOf returns the role held by the named agent, or AgentRoleUnknown.
func (r *Roster) RoleOf(id AgentID) AgentRole {
	if a, ok := r.byID[id]; ok {
		return a.Role()
	}
	return AgentRoleUnknown
}

// Names returns agent names in registration order.
func (r *Roster) Names() []AgentID {
	out := make([]AgentID, len(r.order))
	copy(out, r.order)
	return out
}
