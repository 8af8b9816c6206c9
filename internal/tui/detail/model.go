package detail

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Field is one labelled line of a detail screen. An empty Label renders Value
// as a section heading.
type Field struct {
	Label string
	Value string
}

// Loader fetches the fields of the record being shown.
type Loader func(ctx context.Context) ([]Field, error)

// State is the load state of a detail screen.
type State int

const (
	// StateLoading means the loader is running.
	StateLoading State = iota
	// StateLoaded means fields are available.
	StateLoaded
	// StateFailed means the loader returned an error; 'r' retries.
	StateFailed
)

const retryKey = "r"

// loadedMsg carries the result of one loader run. gen fences stale results
// when the user retries before an earlier run returns.
type loadedMsg struct {
	gen    uint64
	fields []Field
	err    error
}

//nolint:gochecknoglobals // lipgloss styles are immutable values.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("57"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// Model is a detail screen whose data is loaded when it is opened.
type Model struct {
	ctx     context.Context
	title   string
	load    Loader
	state   State
	gen     uint64
	fields  []Field
	err     error
	spinner spinner.Model
}

// New creates a detail screen. Nothing is fetched until Init runs.
func New(ctx context.Context, title string, load Loader) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &Model{ctx: ctx, title: title, load: load, state: StateLoading, spinner: s}
}

// Static creates a detail screen with fields that are already known.
func Static(title string, fields []Field) *Model {
	return &Model{title: title, state: StateLoaded, fields: fields}
}

// Init starts loading.
func (m *Model) Init() tea.Cmd {
	if m.state == StateLoaded {
		return nil
	}
	return m.start()
}

func (m *Model) start() tea.Cmd {
	m.gen++
	m.state = StateLoading
	m.err = nil
	gen, ctx, load := m.gen, m.ctx, m.load
	fetch := func() tea.Msg {
		if load == nil {
			return loadedMsg{gen: gen}
		}
		fields, err := load(ctx)
		return loadedMsg{gen: gen, fields: fields, err: err}
	}
	return tea.Batch(m.spinner.Tick, fetch)
}

// Update applies loader results, spinner ticks and the retry key.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.state = StateFailed
			m.err = msg.err
			return m, nil
		}
		m.state = StateLoaded
		m.fields = msg.fields
		return m, nil
	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.state == StateFailed && msg.String() == retryKey {
			return m, m.start()
		}
	}
	return m, nil
}

// State returns the load state.
func (m *Model) State() State {
	return m.state
}

// Err returns the last loader error.
func (m *Model) Err() error {
	return m.err
}

// Fields returns the loaded fields.
func (m *Model) Fields() []Field {
	return m.fields
}

// View renders the screen.
func (m *Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(strings.ToUpper(m.title)))
	sb.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		sb.WriteString(m.spinner.View() + " Loading...")
	case StateFailed:
		sb.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		sb.WriteString("\n")
		sb.WriteString(hintStyle.Render("[r] Retry"))
	case StateLoaded:
		sb.WriteString(renderFields(m.fields))
	}

	sb.WriteString("\n\n")
	sb.WriteString(hintStyle.Render("[Esc] Back to list  [q] Quit"))
	return sb.String()
}

func renderFields(fields []Field) string {
	if len(fields) == 0 {
		return hintStyle.Render("No details available.")
	}
	width := 0
	for _, f := range fields {
		width = max(width, len(f.Label))
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Label == "" {
			lines = append(lines, "", sectionStyle.Render(f.Value))
			continue
		}
		label := fmt.Sprintf("%-*s", width+1, f.Label+":")
		lines = append(lines, labelStyle.Render(label)+" "+f.Value)
	}
	return strings.TrimPrefix(strings.Join(lines, "\n"), "\n")
}
