package core

import "sync"

// Transcript is the append-only ordered message log for one conversation. It
// is the single shared mutable state of a conversation: the orchestrator
// appends, the speaker selector inspects. A fresh Transcript is created per
// user query; messages are never mutated or removed. Safe for concurrent
// access, though turn-taking within one conversation is strictly sequential.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript { return &Transcript{} }

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(m Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, m)
}

// Len returns the number of appended messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Messages returns a defensive copy of the full message slice.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Last returns the most recent message; ok is false on an empty transcript.
func (t *Transcript) Last() (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// BeforeLast returns the message immediately preceding the last one. The
// selector uses it to correlate a tool result with the invocation that
// produced it; it never looks further back.
func (t *Transcript) BeforeLast() (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) < 2 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-2], true
}
