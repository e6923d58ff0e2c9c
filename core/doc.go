// Package core defines the shared conversation model: messages, the
// append-only transcript, the agent contract and the fixed roster. Everything
// else in the module builds on these types; core itself depends on nothing
// but the standard library and uuid generation.
package core
