// Package memory provides core.MemoryStore implementations: a process-local
// store for tests and demos, and a Redis-backed store for deployments. It
// also exposes the conversational memory tools (context retrieval and
// interaction logging) built on top of a store.
package memory
