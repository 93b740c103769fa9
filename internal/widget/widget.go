// Package widget implements the Wave chat widget: input validation, the profanity
// gate, the session transcript and the round trip to the answer resolver. The
// Bubble Tea front end in tui.go is a thin view over Widget.
package widget

import (
	"context"
	"io"
	"log"
	"strings"

	"github.com/zhouzirui/wave-chatbot/backend/internal/analysis/profanity"
	"github.com/zhouzirui/wave-chatbot/backend/internal/model/chat"
)

const (
	Greeting       = "Hello! I'm Wave your friendly interweb chatbot."
	WarningMessage = "Your message contains inappropriate language. Please rephrase."
	FallbackAnswer = "Sorry, I couldn't find information on that for you."
)

// DefaultSuggestions are shown until the server provides its own question list.
var DefaultSuggestions = []string{
	"How do I install the chatbot?",
	"What technologies are used in this chatbot?",
}

// Asker sends a query to the answer resolver.
type Asker interface {
	Ask(ctx context.Context, query string) (string, error)
}

// Widget holds one session's state. It is driven from a single goroutine.
type Widget struct {
	asker       Asker
	detector    profanity.Detector
	transcript  *chat.Transcript
	suggestions []string
	input       string
	status      string
	logger      *log.Logger
}

// Option customizes a Widget.
type Option func(*Widget)

// WithSuggestions replaces DefaultSuggestions.
func WithSuggestions(questions []string) Option {
	return func(w *Widget) {
		w.SetSuggestions(questions)
	}
}

// WithLogger sets the destination for transport errors.
func WithLogger(logger *log.Logger) Option {
	return func(w *Widget) {
		w.logger = logger
	}
}

// New creates a widget with an empty transcript.
func New(asker Asker, detector profanity.Detector, opts ...Option) *Widget {
	w := &Widget{
		asker:       asker,
		detector:    detector,
		transcript:  chat.NewTranscript(),
		suggestions: append([]string(nil), DefaultSuggestions...),
		logger:      log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Input returns the current contents of the input field.
func (w *Widget) Input() string { return w.input }

// SetInput mirrors the input field as the user types.
func (w *Widget) SetInput(text string) { w.input = text }

// Status is the last transport error shown to the user, empty when none.
func (w *Widget) Status() string { return w.status }

// Messages returns the transcript in insertion order.
func (w *Widget) Messages() []chat.Message { return w.transcript.Messages() }

// SessionID identifies the in-memory session.
func (w *Widget) SessionID() string { return w.transcript.SessionID() }

// Suggestions returns the suggested questions.
func (w *Widget) Suggestions() []string {
	return append([]string(nil), w.suggestions...)
}

// SetSuggestions replaces the suggested questions; empty input keeps the current list.
func (w *Widget) SetSuggestions(questions []string) {
	cleaned := make([]string, 0, len(questions))
	for _, q := range questions {
		if q = strings.TrimSpace(q); q != "" {
			cleaned = append(cleaned, q)
		}
	}
	if len(cleaned) > 0 {
		w.suggestions = cleaned
	}
}

// SelectSuggestion copies suggestion i into the input field. It never submits.
func (w *Widget) SelectSuggestion(i int) bool {
	if i < 0 || i >= len(w.suggestions) {
		return false
	}
	w.input = w.suggestions[i]
	return true
}

// Begin runs the synchronous half of a submission. It returns the query to send and
// true when a resolver call should follow. Blank input is ignored; profane input
// yields a bot warning instead of a request.
func (w *Widget) Begin(raw string) (string, bool) {
	query := strings.TrimSpace(raw)
	if query == "" {
		return "", false
	}

	if w.detector != nil && w.detector.IsOffensive(query) {
		w.transcript.Append(chat.SenderBot, WarningMessage)
		w.input = ""
		return "", false
	}

	w.transcript.Append(chat.SenderUser, query)
	w.input = ""
	w.status = ""
	return query, true
}

// Complete records the resolver outcome. Errors are logged and surfaced through
// Status but never added to the transcript.
func (w *Widget) Complete(answer string, err error) {
	if err != nil {
		w.logger.Printf("[widget] error fetching response: %v", err)
		w.status = "Wave is unreachable right now: " + err.Error()
		return
	}

	if strings.TrimSpace(answer) == "" {
		answer = FallbackAnswer
	}
	w.transcript.Append(chat.SenderBot, answer)
}

// Submit performs a full submission and blocks until the resolver answers.
func (w *Widget) Submit(ctx context.Context, raw string) {
	query, ok := w.Begin(raw)
	if !ok {
		return
	}
	w.Complete(w.asker.Ask(ctx, query))
}

// SubmitInput submits the current input field.
func (w *Widget) SubmitInput(ctx context.Context) {
	w.Submit(ctx, w.input)
}
