package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Transcript is the append-only message log of one widget session.
// Messages are never edited or removed; the zero value is not usable, use NewTranscript.
type Transcript struct {
	mu        sync.RWMutex
	sessionID string
	messages  []Message
}

// NewTranscript starts an empty session log.
func NewTranscript() *Transcript {
	return &Transcript{
		sessionID: uuid.NewString(),
		messages:  make([]Message, 0, 16),
	}
}

// SessionID identifies the in-memory session the transcript belongs to.
func (t *Transcript) SessionID() string {
	return t.sessionID
}

// Append records a new message at the end of the log and returns it.
func (t *Transcript) Append(sender Sender, text string) Message {
	message := Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	t.mu.Lock()
	t.messages = append(t.messages, message)
	t.mu.Unlock()

	return message
}

// Messages returns a copy of the log in insertion order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	copied := make([]Message, len(t.messages))
	copy(copied, t.messages)
	return copied
}

// Len returns the number of recorded messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}
