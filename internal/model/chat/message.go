package chat

import "time"

// Sender identifies who authored a transcript entry.
type Sender string

const (
	SenderUser Sender = "User"
	SenderBot  Sender = "Wave"
)

// Message is a single immutable turn in the widget conversation.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsBot reports whether the message was produced by the chatbot.
func (m Message) IsBot() bool {
	return m.Sender == SenderBot
}
