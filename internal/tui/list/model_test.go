package list

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderInt(item int, selected bool) string {
	if selected {
		return fmt.Sprintf("> %d", item)
	}
	return fmt.Sprintf("  %d", item)
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func press(m *Model[int], key string) {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "pgdown":
		msg = tea.KeyMsg{Type: tea.KeyPgDown}
	case "pgup":
		msg = tea.KeyMsg{Type: tea.KeyPgUp}
	case "end":
		msg = tea.KeyMsg{Type: tea.KeyEnd}
	case "home":
		msg = tea.KeyMsg{Type: tea.KeyHome}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m.Update(msg)
}

func TestNew(t *testing.T) {
	m := New(seq(20), 5, 80, renderInt)

	assert.Equal(t, 20, m.Len())
	assert.Equal(t, 0, m.Selected())
	assert.Equal(t, 5, m.Height())
	assert.Equal(t, 80, m.Width())
	assert.Nil(t, m.Init())
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		selected int
		offset   int
	}{
		{"down", []string{"down", "down"}, 2, 0},
		{"vim keys", []string{"j", "j", "j", "k"}, 2, 0},
		{"up at top stays", []string{"up", "k"}, 0, 0},
		{"scrolls past viewport", []string{"down", "down", "down", "down", "down", "down"}, 6, 2},
		{"page down", []string{"pgdown"}, 5, 1},
		{"page up clamps", []string{"pgdown", "pgup", "pgup"}, 0, 0},
		{"end", []string{"end"}, 19, 15},
		{"G jumps to end", []string{"G"}, 19, 15},
		{"home after end", []string{"end", "home"}, 0, 0},
		{"down at bottom stays", []string{"end", "down", "j"}, 19, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(seq(20), 5, 80, renderInt)
			for _, k := range tt.keys {
				press(m, k)
			}
			assert.Equal(t, tt.selected, m.Selected())
			assert.Equal(t, tt.offset, m.Offset())
		})
	}
}

func TestView(t *testing.T) {
	m := New(seq(20), 3, 80, renderInt)
	press(m, "down")

	assert.Equal(t, "  0\n> 1\n  2", m.View())

	press(m, "end")
	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "> 19", lines[2])
}

func TestEmptyList(t *testing.T) {
	m := New[int](nil, 5, 80, renderInt)
	press(m, "down")
	press(m, "end")

	assert.Empty(t, m.View())
	assert.Equal(t, 0, m.Selected())
	_, ok := m.SelectedItem()
	assert.False(t, ok)
}

func TestSetItemsClampsSelection(t *testing.T) {
	m := New(seq(20), 5, 80, renderInt)
	m.SetSelected(15)

	m.SetItems(seq(4))
	assert.Equal(t, 3, m.Selected())
	assert.Equal(t, 0, m.Offset())

	item, ok := m.SelectedItem()
	require.True(t, ok)
	assert.Equal(t, 3, item)
}

func TestWindowResize(t *testing.T) {
	m := New(seq(20), 5, 80, renderInt)
	m.SetSelected(10)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 2})
	assert.Equal(t, 2, m.Height())
	assert.Equal(t, 100, m.Width())
	assert.Len(t, strings.Split(m.View(), "\n"), 2)
	assert.Contains(t, m.View(), "> 10")

	m.SetHeight(0)
	assert.Equal(t, 1, m.Height())
}
