package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/basecamp/when/internal/span"
)

// TryResult is the outcome of one live parse.
type TryResult struct {
	Input      string
	Normalized string
	Tokens     []TryToken
	Handler    string
	Span       *span.Span
	Guess      time.Time
	Relative   string
	Err        error
}

// Matched reports whether the input resolved to a span.
func (r TryResult) Matched() bool {
	return r.Err == nil && r.Span != nil
}

// TryToken is a scanned word and the names of its tags.
type TryToken struct {
	Word string
	Tags []string
}

// Resolver parses one input for the try prompt.
type Resolver func(input string) TryResult

// ConfigReloadedMsg swaps the resolver after the config file changes.
type ConfigReloadedMsg struct {
	Resolve Resolver
	Err     error
}

type parseRequestMsg struct{ seq int }

type parsedMsg struct {
	seq    int
	result TryResult
}

// DefaultDebounce is how long typing must pause before a parse runs.
const DefaultDebounce = 150 * time.Millisecond

// TryOptions configures the try prompt.
type TryOptions struct {
	Resolve  Resolver
	Recent   []string // previous inputs, newest first
	OnAccept func(TryResult)
	Debounce time.Duration
	Styles   *Styles
}

type tryModel struct {
	input    textinput.Model
	spinner  spinner.Model
	styles   *Styles
	resolve  Resolver
	onAccept func(TryResult)
	debounce time.Duration

	seq     int
	pending bool
	result  *TryResult
	notice  string

	recent   []string
	histPos  int
	accepted []TryResult
	quitting bool
}

func newTryModel(opts TryOptions) tryModel {
	styles := opts.Styles
	if styles == nil {
		styles = NewStyles(ResolveTheme())
	}

	ti := textinput.New()
	ti.Prompt = styles.Prompt.Render("when › ")
	ti.Placeholder = "next friday at 5pm"
	ti.Width = 60
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return tryModel{
		input:    ti,
		spinner:  s,
		styles:   styles,
		resolve:  opts.Resolve,
		onAccept: opts.OnAccept,
		debounce: debounce,
		recent:   opts.Recent,
		histPos:  -1,
	}
}

func (m tryModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// schedule debounces a parse of the current input.
func (m *tryModel) schedule() tea.Cmd {
	m.seq++
	if strings.TrimSpace(m.input.Value()) == "" {
		m.pending = false
		m.result = nil
		return nil
	}
	m.pending = true
	seq := m.seq
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return parseRequestMsg{seq: seq}
	})
}

func (m tryModel) parse(seq int) tea.Cmd {
	resolve, input := m.resolve, m.input.Value()
	return func() tea.Msg {
		return parsedMsg{seq: seq, result: resolve(input)}
	}
}

func (m tryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.accept()
			return m, nil
		case tea.KeyUp:
			return m, m.recall(1)
		case tea.KeyDown:
			return m, m.recall(-1)
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.notice = ""
			return m, tea.Batch(cmd, m.schedule())
		}
		return m, cmd

	case parseRequestMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m, m.parse(msg.seq)

	case parsedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.pending = false
		m.result = &msg.result
		return m, nil

	case ConfigReloadedMsg:
		if msg.Err != nil {
			m.notice = "config reload failed: " + msg.Err.Error()
			return m, nil
		}
		m.resolve = msg.Resolve
		m.notice = "config reloaded"
		return m, m.schedule()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// accept keeps the current result when it matched and clears the input.
func (m *tryModel) accept() {
	if m.result == nil || !m.result.Matched() || m.pending {
		return
	}
	r := *m.result
	m.accepted = append(m.accepted, r)
	m.recent = append([]string{r.Input}, m.recent...)
	if m.onAccept != nil {
		m.onAccept(r)
	}
	m.input.SetValue("")
	m.result = nil
	m.histPos = -1
	m.seq++
}

// recall moves through previous inputs; step 1 is older, -1 newer.
func (m *tryModel) recall(step int) tea.Cmd {
	if len(m.recent) == 0 {
		return nil
	}
	pos := m.histPos + step
	if pos < -1 {
		pos = -1
	}
	if pos >= len(m.recent) {
		pos = len(m.recent) - 1
	}
	m.histPos = pos
	if pos == -1 {
		m.input.SetValue("")
	} else {
		m.input.SetValue(m.recent[pos])
	}
	m.input.CursorEnd()
	return m.schedule()
}

func (m tryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.pending:
		b.WriteString(m.spinner.View() + " " + m.styles.Muted.Render("parsing..."))
		b.WriteString("\n")
	case m.result != nil:
		b.WriteString(m.renderResult(*m.result))
	default:
		b.WriteString(m.styles.Muted.Render("Type a date or time expression."))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n" + m.styles.Miss.Render(m.notice) + "\n")
	}
	b.WriteString("\n" + m.styles.Muted.Render("enter keep · ↑/↓ history · esc quit"))
	return b.String()
}

func (m tryModel) renderResult(r TryResult) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  %-11s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("normalized", m.styles.Body.Render(r.Normalized))
	if len(r.Tokens) == 0 {
		row("tokens", m.styles.Muted.Render("(none tagged)"))
	} else {
		parts := make([]string, len(r.Tokens))
		for i, tok := range r.Tokens {
			parts[i] = m.styles.RenderToken(tok.Word, tok.Tags)
		}
		row("tokens", strings.Join(parts, "  "))
	}

	switch {
	case r.Err != nil:
		row("error", m.styles.Error.Render(r.Err.Error()))
	case r.Span == nil:
		row("result", m.styles.Miss.Render("no match"))
	default:
		row("handler", m.styles.Handler.Render(r.Handler))
		row("span", m.styles.Body.Render(formatSpan(*r.Span)))
		guess := r.Guess.Format("Mon Jan 2 2006 15:04:05 MST")
		if r.Relative != "" {
			guess += "  " + m.styles.Muted.Render("("+r.Relative+")")
		}
		row("guess", m.styles.Guess.Render(guess))
	}
	return b.String()
}

func formatSpan(s span.Span) string {
	const layout = "Mon Jan 2 2006 15:04:05"
	if s.Begin.Equal(s.End) {
		return s.Begin.Format(layout)
	}
	return s.Begin.Format(layout) + " → " + s.End.Format(layout)
}

// Accepted returns the results kept with enter.
func (m tryModel) Accepted() []TryResult {
	return m.accepted
}

// NewTryProgram returns the try prompt program. Callers may Send a
// ConfigReloadedMsg while it runs.
func NewTryProgram(opts TryOptions) *tea.Program {
	return tea.NewProgram(newTryModel(opts))
}

// AcceptedResults extracts the kept results from a finished program's
// final model.
func AcceptedResults(final tea.Model) []TryResult {
	if m, ok := final.(tryModel); ok {
		return m.Accepted()
	}
	return nil
}
