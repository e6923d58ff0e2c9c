// Package orchestrator runs complete conversations: it seeds a fresh
// transcript for each query, drives the speaker-selection loop until
// termination or the round cap, and distills the transcript into a single
// user-facing answer. ProcessQuery never fails upward; every internal error
// becomes an apologetic response.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopchat-ai/shopchat/agent"
	"github.com/shopchat-ai/shopchat/core"
	"github.com/shopchat-ai/shopchat/logging"
	"github.com/shopchat-ai/shopchat/router"
)

// NoAnswer is returned when no output agent produced a usable response.
const NoAnswer = "I processed your request but could not form a clear final response."

// DefaultMaxRounds caps the number of agent turns per query. Twelve rounds
// covers the longest legitimate path (context lookup, analysis, product tool
// call, formatting, logging) with little room for a runaway loop.
const DefaultMaxRounds = 12

// Options configure an Orchestrator.
type Options struct {
	// MaxRounds caps agent turns per query. Defaults to DefaultMaxRounds.
	MaxRounds int
	// StrictAnalyzerRouting is forwarded to the router.
	StrictAnalyzerRouting bool
	// Logger receives orchestration diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Orchestrator owns a fixed roster and processes queries one at a time.
// Each query gets its own transcript; the orchestrator itself is stateless
// across queries and safe for sequential reuse.
type Orchestrator struct {
	roster    *core.Roster
	selector  *router.Selector
	initiator *agent.Initiator
	maxRounds int
	logger    logging.Logger
}

// NewOrchestrator wires an orchestrator over a roster. The roster must
// contain an agent.Initiator holding the initiator role.
func NewOrchestrator(roster *core.Roster, optFns ...func(o *Options)) (*Orchestrator, error) {
	opts := Options{
		MaxRounds: DefaultMaxRounds,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}

	init, ok := roster.ByRole(core.AgentRoleInitiator)
	if !ok {
		return nil, fmt.Errorf("roster has no initiator agent")
	}
	initiator, ok := init.(*agent.Initiator)
	if !ok {
		return nil, fmt.Errorf("initiator agent %s must be an *agent.Initiator", init.Name())
	}

	logger := logging.OrNoOp(opts.Logger)
	selector := router.NewSelector(roster, func(o *router.Options) {
		o.StrictAnalyzerRouting = opts.StrictAnalyzerRouting
		o.Logger = logger
	})

	return &Orchestrator{
		roster:    roster,
		selector:  selector,
		initiator: initiator,
		maxRounds: opts.MaxRounds,
		logger:    logger,
	}, nil
}

// ProcessQuery runs one conversation end to end and returns the final answer.
// It never panics and never returns an empty string.
func (o *Orchestrator) ProcessQuery(ctx context.Context, query, sessionID string) (response string) {
	log := logging.WithSession(o.logger, sessionID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("orchestrator.panic", "panic", fmt.Sprint(r))
			response = apology(fmt.Sprintf("%v", r))
		}
	}()

	log.Info("orchestrator.query.start", "query_len", len(query))

	transcript := core.NewTranscript()
	transcript.Append(o.initiator.Seed(query, sessionID))
	last := o.initiator.Name()

	for round := 0; round < o.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			log.Warn("orchestrator.canceled", "round", round)
			return apology(err.Error())
		}

		verdict := o.selector.NextSpeaker(transcript, last)
		if verdict.Terminate {
			log.Info("orchestrator.terminated", "round", round, "reason", verdict.Reason)
			break
		}

		speaker, ok := o.roster.ByID(verdict.Next)
		if !ok {
			log.Error("orchestrator.unknown_speaker", "speaker", string(verdict.Next))
			break
		}

		msg, err := speaker.Produce(ctx, transcript)
		if err != nil {
			log.Error("orchestrator.turn_failed", "speaker", string(verdict.Next), "error", err.Error())
			return apology(err.Error())
		}
		transcript.Append(msg)
		last = verdict.Next
	}

	response = o.extractResponse(transcript)
	log.Info("orchestrator.query.done", "turns", transcript.Len(), "response_len", len(response))
	return response
}

// extractResponse walks the transcript backwards looking for the newest
// substantive message from an output agent, stripping internal markers. Seed
// echoes do not count as answers.
func (o *Orchestrator) extractResponse(t *core.Transcript) string {
	msgs := t.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		role := o.roster.RoleOf(m.Sender)
		if role != core.AgentRoleFormatter && role != core.AgentRoleGeneral {
			continue
		}
		if cleaned := cleanResponse(m.Content); cleaned != "" {
			return cleaned
		}
	}

	// Last resort: whatever spoke last, as long as it is not the seed.
	if last, ok := t.Last(); ok {
		if cleaned := cleanResponse(last.Content); cleaned != "" && last.Role != core.RoleTool {
			return cleaned
		}
	}
	return NoAnswer
}

func cleanResponse(content string) string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(content, core.TerminationToken, ""))
	if cleaned == "" || core.IsSeed(cleaned) {
		return ""
	}
	return cleaned
}

func apology(detail string) string {
	return fmt.Sprintf("I apologize, but I encountered an error processing your request: %s. Please try rephrasing.", detail)
}
