// Package agent provides the concrete agent implementations of the shopping
// conversation: model-backed agents that turn transcripts into completions,
// and deterministic agents (dispatcher, logger, initiator) whose behavior is
// pure code. All of them satisfy core.Agent; which one speaks when is decided
// by the router, never by the agents themselves.
package agent
