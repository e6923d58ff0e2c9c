package tool

import (
	"fmt"
	"sort"

	"github.com/shopchat-ai/shopchat/core"
)

// Registry maps tool names to implementations. It is built once and never
// mutated afterwards; per-agent access is expressed through capability sets
// assigned at roster construction rather than by re-registering functions.
type Registry struct {
	tools        map[string]Tool
	capabilities map[core.AgentID]map[string]struct{}
}

// NewRegistry builds a registry from the given tools. Duplicate names are an error.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools:        make(map[string]Tool, len(tools)),
		capabilities: make(map[core.AgentID]map[string]struct{}),
	}
	for _, t := range tools {
		if _, dup := r.tools[t.Name()]; dup {
			return nil, fmt.Errorf("duplicate tool %q", t.Name())
		}
		r.tools[t.Name()] = t
	}
	return r, nil
}

// Grant assigns an agent the right to invoke the named tools. Call during
// roster construction only; granting an unregistered tool is an error.
func (r *Registry) Grant(agent core.AgentID, names ...string) error {
	set, ok := r.capabilities[agent]
	if !ok {
		set = make(map[string]struct{}, len(names))
		r.capabilities[agent] = set
	}
	for _, n := range names {
		if _, exists := r.tools[n]; !exists {
			return fmt.Errorf("cannot grant unknown tool %q to %s", n, agent)
		}
		set[n] = struct{}{}
	}
	return nil
}

// Get resolves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Allowed reports whether the agent may invoke the named tool.
func (r *Registry) Allowed(agent core.AgentID, name string) bool {
	set, ok := r.capabilities[agent]
	if !ok {
		return false
	}
	_, ok = set[name]
	return ok
}

// ToolsFor returns the tools the agent may invoke, sorted by name so tool
// definitions presented to models are stable across runs.
func (r *Registry) ToolsFor(agent core.AgentID) []Tool {
	set, ok := r.capabilities[agent]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]Tool, 0, len(names))
	for _, n := range names {
		out = append(out, r.tools[n])
	}
	return out
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
