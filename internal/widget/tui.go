package widget

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zhouzirui/wave-chatbot/backend/internal/model/chat"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	inputHeight   = 4
	maxHotkeys    = 9
)

// QuestionSource loads suggested questions from the server.
type QuestionSource func(ctx context.Context) ([]string, error)

type answerMsg struct {
	answer string
	err    error
}

type suggestionsMsg struct {
	questions []string
	err       error
}

type styles struct {
	header     lipgloss.Style
	avatar     lipgloss.Style
	title      lipgloss.Style
	suggestion lipgloss.Style
	hotkey     lipgloss.Style
	user       lipgloss.Style
	bot        lipgloss.Style
	status     lipgloss.Style
	help       lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header:     lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("39")),
		avatar:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		title:      lipgloss.NewStyle().Bold(true).MarginTop(1),
		suggestion: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		hotkey:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		user:       lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		bot:        lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		status:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		help:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Model is the Bubble Tea view over a Widget.
type Model struct {
	ctx       context.Context
	widget    *Widget
	questions QuestionSource

	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   styles

	pending bool
	width   int
	height  int
}

// NewModel builds the terminal UI. questions may be nil to keep the widget's suggestions.
func NewModel(ctx context.Context, w *Widget, questions QuestionSource) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.ShowLineNumbers = false
	ta.SetHeight(inputHeight)
	ta.SetWidth(defaultWidth - 2)
	ta.CharLimit = 2000
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		widget:    w,
		questions: questions,
		textarea:  ta,
		viewport:  viewport.New(defaultWidth, 8),
		spinner:   sp,
		styles:    defaultStyles(),
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.refresh()
	return m
}

// Widget exposes the underlying session state.
func (m Model) Widget() *Widget {
	return m.widget
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.questions != nil {
		cmds = append(cmds, m.fetchSuggestions())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "alt+enter", "ctrl+s":
			// Send 按钮的等价快捷键
			if m.pending {
				return m, nil
			}
			return m.submit()
		}

		if i, ok := suggestionHotkey(msg); ok {
			if m.widget.SelectSuggestion(i) {
				m.textarea.SetValue(m.widget.Input())
				m.textarea.Focus()
			}
			return m, nil
		}

	case answerMsg:
		m.pending = false
		m.widget.Complete(msg.answer, msg.err)
		m.refresh()
		return m, nil

	case suggestionsMsg:
		if msg.err != nil {
			m.widget.logger.Printf("[widget] failed to load suggestions: %v", msg.err)
			return m, nil
		}
		m.widget.SetSuggestions(msg.questions)
		m.resize()
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var taCmd, vpCmd tea.Cmd
	m.textarea, taCmd = m.textarea.Update(msg)
	m.widget.SetInput(m.textarea.Value())
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(taCmd, vpCmd)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	query, ok := m.widget.Begin(m.textarea.Value())
	m.textarea.SetValue(m.widget.Input())
	m.textarea.Focus()
	m.refresh()
	if !ok {
		return m, nil
	}

	m.pending = true
	return m, tea.Batch(m.spinner.Tick, m.ask(query))
}

func (m Model) ask(query string) tea.Cmd {
	asker, ctx := m.widget.asker, m.ctx
	return func() tea.Msg {
		answer, err := asker.Ask(ctx, query)
		return answerMsg{answer: answer, err: err}
	}
}

func (m Model) fetchSuggestions() tea.Cmd {
	source, ctx := m.questions, m.ctx
	return func() tea.Msg {
		questions, err := source(ctx)
		return suggestionsMsg{questions: questions, err: err}
	}
}

func suggestionHotkey(msg tea.KeyMsg) (int, bool) {
	if !msg.Alt || msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '0'+maxHotkeys {
		return 0, false
	}
	return int(r - '1'), true
}

func (m *Model) resize() {
	m.textarea.SetWidth(max(m.width-2, 10))
	fixed := lipgloss.Height(m.headerView()) + lipgloss.Height(m.suggestionsView()) + inputHeight + 4
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-fixed, 3)
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.transcriptView())
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.suggestionsView())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("alt+enter / ctrl+s send · alt+1..9 pick a suggestion · esc quit"))
	return b.String()
}

func (m Model) headerView() string {
	avatar := m.styles.avatar.Render("(~‿~)")
	greeting := strings.Replace(Greeting, "Wave", m.styles.bot.Render("Wave"), 1)
	return m.styles.header.Render(lipgloss.JoinHorizontal(lipgloss.Center, avatar, "  ", greeting))
}

func (m Model) suggestionsView() string {
	suggestions := m.widget.Suggestions()
	if len(suggestions) == 0 {
		return ""
	}

	lines := []string{m.styles.title.Render("Suggested questions")}
	for i, q := range suggestions {
		if i >= maxHotkeys {
			break
		}
		lines = append(lines, fmt.Sprintf("%s %s", m.styles.hotkey.Render(fmt.Sprintf("[alt+%d]", i+1)), m.styles.suggestion.Render(q)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) transcriptView() string {
	messages := m.widget.Messages()
	if len(messages) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("Message Log"))
	for _, msg := range messages {
		author := m.styles.user.Render(string(msg.Sender))
		if msg.Sender == chat.SenderBot {
			author = m.styles.bot.Render(string(msg.Sender))
		}
		fmt.Fprintf(&b, "\nAuthor: %s\nText: %s\n", author, msg.Text)
	}
	return b.String()
}

func (m Model) statusView() string {
	switch {
	case m.pending:
		return m.spinner.View() + " Wave is thinking..."
	case m.widget.Status() != "":
		return m.styles.status.Render(m.widget.Status())
	default:
		return ""
	}
}

// Run starts the terminal widget and blocks until the user quits.
func Run(ctx context.Context, w *Widget, questions QuestionSource) error {
	p := tea.NewProgram(NewModel(ctx, w, questions), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
