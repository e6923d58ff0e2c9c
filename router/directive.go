package router

import (
	"errors"
	"strings"

	"github.com/shopchat-ai/shopchat/core"
)

// Routing markers the analyzer embeds in its output. They are the wire format
// of an upstream model and therefore free-form; ParseDirective is the single
// place that turns them into a typed value.
const (
	MarkerEcommerce = "Instruction for EcommerceAssistant:"
	MarkerGeneral   = "Instruction for GeneralAssistant:"
)

// ErrNoDirective is returned when analyzer output contains no known marker.
var ErrNoDirective = errors.New("no routing directive found")

// Directive is the parsed form of an analyzer turn: which role should handle
// the query next, and the instruction text addressed to it.
type Directive struct {
	Target      core.AgentRole
	Instruction string
}

// ParseDirective scans content for a routing marker and returns the typed
// directive. When both markers appear the earliest occurrence wins. The
// instruction is the trimmed text following the marker.
func ParseDirective(content string) (Directive, error) {
	type candidate struct {
		idx    int
		marker string
		target core.AgentRole
	}
	best := candidate{idx: -1}
	for _, c := range []candidate{
		{idx: strings.Index(content, MarkerEcommerce), marker: MarkerEcommerce, target: core.AgentRoleProposer},
		{idx: strings.Index(content, MarkerGeneral), marker: MarkerGeneral, target: core.AgentRoleGeneral},
	} {
		if c.idx < 0 {
			continue
		}
		if best.idx < 0 || c.idx < best.idx {
			best = c
		}
	}
	if best.idx < 0 {
		return Directive{}, ErrNoDirective
	}
	instruction := strings.TrimSpace(content[best.idx+len(best.marker):])
	return Directive{Target: best.target, Instruction: instruction}, nil
}
