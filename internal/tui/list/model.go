package list

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders one row. selected is true for the highlighted row.
type RenderFunc[T any] func(item T, selected bool) string

// Model is a scrolling row list that only renders the rows inside the viewport.
// It never fetches; the owner replaces the rows with SetItems when a page loads.
type Model[T any] struct {
	items  []T
	render RenderFunc[T]

	selected int
	offset   int
	height   int
	width    int
}

// New creates a list showing height rows at a time.
func New[T any](items []T, height, width int, render RenderFunc[T]) *Model[T] {
	m := &Model[T]{render: render, width: width}
	m.SetHeight(height)
	m.SetItems(items)
	return m
}

// Init implements tea.Model.
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update moves the selection on navigation keys and tracks the window size.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.SetHeight(msg.Height)
	}
	return m, nil
}

func (m *Model[T]) handleKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		m.SetSelected(m.selected - 1)
	case "down", "j":
		m.SetSelected(m.selected + 1)
	case "pgup":
		m.SetSelected(m.selected - m.height)
	case "pgdown":
		m.SetSelected(m.selected + m.height)
	case "home", "g":
		m.SetSelected(0)
	case "end", "G":
		m.SetSelected(len(m.items) - 1)
	}
}

// SetItems replaces the rows, keeping the selection in bounds.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.SetSelected(m.selected)
}

// SetHeight changes the number of visible rows (at least 1).
func (m *Model[T]) SetHeight(height int) {
	m.height = max(height, 1)
	m.scroll()
}

// SetSelected moves the selection, clamped to the rows.
func (m *Model[T]) SetSelected(index int) {
	m.selected = max(min(index, len(m.items)-1), 0)
	m.scroll()
}

// scroll keeps the selected row inside [offset, offset+height).
func (m *Model[T]) scroll() {
	switch {
	case m.selected < m.offset:
		m.offset = m.selected
	case m.selected >= m.offset+m.height:
		m.offset = m.selected - m.height + 1
	}
	if last := len(m.items) - m.height; m.offset > last {
		m.offset = max(last, 0)
	}
}

// View renders the visible rows.
func (m *Model[T]) View() string {
	if len(m.items) == 0 || m.render == nil {
		return ""
	}
	end := min(m.offset+m.height, len(m.items))
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.render(m.items[i], i == m.selected))
	}
	return strings.Join(lines, "\n")
}

// Len returns the number of rows.
func (m *Model[T]) Len() int {
	return len(m.items)
}

// Selected returns the selected row index.
func (m *Model[T]) Selected() int {
	return m.selected
}

// Offset returns the index of the first visible row.
func (m *Model[T]) Offset() int {
	return m.offset
}

// Height returns the viewport height.
func (m *Model[T]) Height() int {
	return m.height
}

// Width returns the viewport width.
func (m *Model[T]) Width() int {
	return m.width
}

// SelectedItem returns the selected row, or false when the list is empty.
func (m *Model[T]) SelectedItem() (T, bool) {
	var zero T
	if m.selected < 0 || m.selected >= len(m.items) {
		return zero, false
	}
	return m.items[m.selected], true
}
