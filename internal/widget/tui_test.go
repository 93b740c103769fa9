package widget

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/wave-chatbot/backend/internal/model/chat"
)

func typeText(t *testing.T, m tea.Model, text string) tea.Model {
	t.Helper()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

// drain runs cmd and feeds every answerMsg/suggestionsMsg it yields back into the model.
func drain(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
	case answerMsg, suggestionsMsg:
		m, _ = m.Update(msg)
	}
	return m
}

func TestModelAltEnterSubmits(t *testing.T) {
	asker := &fakeAsker{answer: "Run go install."}
	var m tea.Model = NewModel(context.Background(), New(asker, nil), nil)

	m = typeText(t, m, "How do I install the chatbot?")
	require.Equal(t, "How do I install the chatbot?", m.(Model).Widget().Input())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	require.NotNil(t, cmd)
	require.True(t, m.(Model).pending)
	require.Len(t, m.(Model).Widget().Messages(), 1)

	m = drain(t, m, cmd)
	model := m.(Model)
	require.False(t, model.pending)

	messages := model.Widget().Messages()
	require.Len(t, messages, 2)
	require.Equal(t, chat.SenderBot, messages[1].Sender)
	require.Equal(t, "Run go install.", messages[1].Text)
	require.Equal(t, []string{"How do I install the chatbot?"}, asker.queries)
	require.Empty(t, model.textarea.Value())
	require.Contains(t, model.View(), "Run go install.")
}

func TestModelCtrlSMatchesSendAction(t *testing.T) {
	asker := &fakeAsker{answer: "ok"}
	var m tea.Model = NewModel(context.Background(), New(asker, nil), nil)

	m = typeText(t, m, "ping")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = drain(t, m, cmd)

	require.Len(t, m.(Model).Widget().Messages(), 2)
}

func TestModelIgnoresSubmitWhilePending(t *testing.T) {
	asker := &fakeAsker{answer: "ok"}
	var m tea.Model = NewModel(context.Background(), New(asker, nil), nil)

	m = typeText(t, m, "first")
	m, first := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = typeText(t, m, "second")
	m, second := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	require.NotNil(t, first)
	require.Nil(t, second)
	require.Len(t, m.(Model).Widget().Messages(), 1)
}

func TestModelSuggestionHotkeyPopulatesInput(t *testing.T) {
	asker := &fakeAsker{answer: "unused"}
	var m tea.Model = NewModel(context.Background(), New(asker, nil), nil)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}, Alt: true})
	require.Nil(t, cmd)

	model := m.(Model)
	require.Equal(t, DefaultSuggestions[1], model.textarea.Value())
	require.Equal(t, DefaultSuggestions[1], model.Widget().Input())
	require.Empty(t, model.Widget().Messages())
	require.Empty(t, asker.queries)
}

func TestModelProfaneInputShowsWarning(t *testing.T) {
	asker := &fakeAsker{answer: "unused"}
	var m tea.Model = NewModel(context.Background(), New(asker, wordDetector{word: "heck"}), nil)

	m = typeText(t, m, "what the heck")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Nil(t, cmd)

	messages := m.(Model).Widget().Messages()
	require.Len(t, messages, 1)
	require.Equal(t, WarningMessage, messages[0].Text)
	require.Empty(t, asker.queries)
}

func TestModelTransportErrorShowsStatus(t *testing.T) {
	asker := &fakeAsker{err: errors.New("connection refused")}
	var m tea.Model = NewModel(context.Background(), New(asker, nil), nil)

	m = typeText(t, m, "hello")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = drain(t, m, cmd)

	model := m.(Model)
	require.Len(t, model.Widget().Messages(), 1)
	require.Contains(t, model.View(), "connection refused")
}

func TestModelLoadsSuggestionsFromServer(t *testing.T) {
	source := func(context.Context) ([]string, error) {
		return []string{"What is Wave?"}, nil
	}
	var m tea.Model = NewModel(context.Background(), New(&fakeAsker{}, nil), source)

	m = drain(t, m, m.Init())

	require.Equal(t, []string{"What is Wave?"}, m.(Model).Widget().Suggestions())
	require.True(t, strings.Contains(m.View(), "What is Wave?"))
}

func TestModelQuitKeys(t *testing.T) {
	m := NewModel(context.Background(), New(&fakeAsker{}, nil), nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}
