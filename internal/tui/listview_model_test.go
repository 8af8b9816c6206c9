package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupredict/edupredict/internal/listview"
	"github.com/edupredict/edupredict/internal/tui/detail"
	"github.com/edupredict/edupredict/internal/views"
)

type studentBackend struct {
	mu      sync.Mutex
	records []listview.Record
	calls   int
	err     error
}

func newStudentBackend(n int) *studentBackend {
	majors := []string{"Biología", "Matemáticas"}
	records := make([]listview.Record, n)
	for i := range records {
		records[i] = listview.Record{
			"id":         float64(i + 1),
			"first_name": fmt.Sprintf("Student%02d", n-i),
			"last_name":  "Test",
			"email":      fmt.Sprintf("s%02d@example.com", i+1),
			"grade":      float64(8 + i%10),
			"major":      majors[i%2],
		}
	}
	return &studentBackend{records: records}
}

func (b *studentBackend) fetch(_ context.Context, req listview.PageRequest, _ listview.FilterState) ([]listview.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	start := min(req.Skip(), len(b.records))
	end := min(start+req.Limit(), len(b.records))
	return append([]listview.Record(nil), b.records[start:end]...), nil
}

func (b *studentBackend) setErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

func newTestListView(t *testing.T, b *studentBackend, loader DetailLoader) *ListViewModel {
	t.Helper()
	ctrl, err := listview.NewController(b.fetch, views.Students().Schema, 10)
	require.NoError(t, err)
	return NewListViewModel(context.Background(), views.Students(), ctrl, loader)
}

// drain runs cmd and any batched commands, returning the page results.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if _, ok := msg.(pageLoadedMsg); ok {
		return []tea.Msg{msg}
	}
	return nil
}

func deliver(m *ListViewModel, msgs []tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(m *ListViewModel, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func loaded(t *testing.T, b *studentBackend) *ListViewModel {
	t.Helper()
	m := newTestListView(t, b, nil)
	deliver(m, drain(m.Init()))
	require.Equal(t, ViewStateList, m.State())
	return m
}

func TestListViewModel_InitialLoad(t *testing.T) {
	b := newStudentBackend(25)
	m := newTestListView(t, b, nil)

	assert.Equal(t, ViewStateLoading, m.State())
	cmd := m.Init()
	assert.Equal(t, ViewStateLoading, m.State())
	assert.Contains(t, m.View(), "Loading students")

	deliver(m, drain(cmd))
	assert.Equal(t, ViewStateList, m.State())
	snap := m.Snapshot()
	assert.Len(t, snap.Records, 10)
	assert.True(t, snap.HasMore)
	assert.Contains(t, m.View(), "Student25 Test")
	assert.Contains(t, m.View(), "[n] Next")
}

func TestListViewModel_Paging(t *testing.T) {
	b := newStudentBackend(15)
	m := loaded(t, b)

	cmd := key(m, runes("n"))
	require.NotNil(t, cmd)
	assert.Equal(t, ViewStateLoading, m.State())
	assert.Nil(t, m.Snapshot().Records, "no stale rows while loading")

	deliver(m, drain(cmd))
	snap := m.Snapshot()
	assert.Equal(t, 2, snap.Page)
	assert.Len(t, snap.Records, 5)
	assert.False(t, snap.HasMore)
	assert.NotContains(t, m.View(), "[n] Next")

	assert.Nil(t, key(m, runes("n")), "next is disabled without more results")
	assert.Equal(t, 2, m.Snapshot().Page)

	deliver(m, drain(key(m, tea.KeyMsg{Type: tea.KeyLeft})))
	assert.Equal(t, 1, m.Snapshot().Page)
	assert.Equal(t, 3, b.calls)

	assert.Nil(t, key(m, runes("p")), "previous on page 1 does nothing")
	assert.Equal(t, ViewStateList, m.State())
}

func TestListViewModel_StalePageIgnored(t *testing.T) {
	b := newStudentBackend(40)
	m := loaded(t, b)

	toPage2 := key(m, runes("n"))
	backToPage1 := key(m, runes("p"))
	require.NotNil(t, backToPage1)

	latest := drain(backToPage1)
	stale := drain(toPage2)
	deliver(m, latest)
	deliver(m, stale)

	snap := m.Snapshot()
	assert.Equal(t, 1, snap.Page)
	id, _ := snap.Records[0].Number("id")
	assert.InDelta(t, 1.0, id, 0)
}

func TestListViewModel_ErrorAndRetry(t *testing.T) {
	b := newStudentBackend(30)
	m := loaded(t, b)

	b.setErr(errors.New("connection refused"))
	deliver(m, drain(key(m, runes("n"))))
	assert.Equal(t, ViewStateError, m.State())
	assert.Contains(t, m.View(), "connection refused")
	assert.Contains(t, m.View(), "[r] Retry")

	assert.Nil(t, key(m, runes("s")), "sorting does not leave the error state")
	assert.Equal(t, ViewStateError, m.State())

	b.setErr(nil)
	cmd := key(m, runes("r"))
	assert.Equal(t, ViewStateLoading, m.State())
	deliver(m, drain(cmd))
	assert.Equal(t, ViewStateList, m.State())
	assert.Equal(t, 2, m.Snapshot().Page)
}

func TestListViewModel_RefreshKeysInList(t *testing.T) {
	for _, k := range []string{"r", "R"} {
		t.Run(k, func(t *testing.T) {
			b := newStudentBackend(25)
			m := loaded(t, b)

			cmd := key(m, runes(k))
			require.NotNil(t, cmd)
			assert.Equal(t, ViewStateLoading, m.State())
			deliver(m, drain(cmd))
			assert.Equal(t, ViewStateList, m.State())
			assert.Equal(t, 1, m.Snapshot().Page)
			assert.Equal(t, 2, b.calls)
		})
	}
}

func TestListViewModel_LogsRejectedControlChange(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())

	b := newStudentBackend(5)
	ctrl, err := listview.NewController(b.fetch, views.Students().Schema, 10)
	require.NoError(t, err)
	m := NewListViewModel(ctx, views.Students(), ctrl, nil)

	m.logControlError("flip_sort", nil)
	assert.Zero(t, buf.Len(), "accepted changes are not logged")

	m.logControlError("flip_sort", ctrl.ToggleSort("nickname"))
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "flip_sort", line["operation"])
	assert.Equal(t, "students", line["view"])
	assert.NotEmpty(t, line["error"])
}

func TestListViewModel_EmptyPage(t *testing.T) {
	m := loaded(t, newStudentBackend(0))
	assert.Contains(t, m.View(), noRecordsLabel)
	assert.False(t, m.Snapshot().HasMore)
}

func TestListViewModel_SearchIsLocal(t *testing.T) {
	b := newStudentBackend(10)
	m := loaded(t, b)

	key(m, runes("/"))
	key(m, runes("student03"))
	assert.Len(t, m.Snapshot().Records, 1)
	assert.Contains(t, m.View(), "Search:")

	key(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.Snapshot().Records, 1, "enter keeps the search")
	assert.True(t, m.Snapshot().HasMore, "hasMore follows the fetched page")

	key(m, runes("x"))
	assert.Len(t, m.Snapshot().Records, 10)
	assert.Equal(t, 1, b.calls)
}

func TestListViewModel_SortKeys(t *testing.T) {
	b := newStudentBackend(10)
	m := loaded(t, b)

	key(m, runes("s"))
	snap := m.Snapshot()
	assert.Equal(t, listview.SortState{Key: "name"}, snap.Sort)
	assert.Equal(t, "Student01 Test", listview.FullName(snap.Records[0]))

	key(m, runes("S"))
	snap = m.Snapshot()
	assert.Equal(t, listview.Descending, snap.Sort.Direction)
	assert.Equal(t, "Student10 Test", listview.FullName(snap.Records[0]))

	key(m, runes("s"))
	assert.Equal(t, "email", m.Snapshot().Sort.Key)
	assert.Equal(t, 1, b.calls)
}

func TestListViewModel_CategoryCycle(t *testing.T) {
	m := loaded(t, newStudentBackend(10))

	// First category is risk; tab moves to major.
	key(m, tea.KeyMsg{Type: tea.KeyTab})
	key(m, runes("c"))
	snap := m.Snapshot()
	assert.Equal(t, "Biología", snap.Filters.Categories["major"])
	assert.Len(t, snap.Records, 5)

	key(m, runes("c"))
	assert.Equal(t, "Matemáticas", m.Snapshot().Filters.Categories["major"])

	key(m, runes("c"))
	snap = m.Snapshot()
	assert.Equal(t, listview.AllValues, snap.Filters.Categories["major"])
	assert.Len(t, snap.Records, 10)
}

func TestListViewModel_Detail(t *testing.T) {
	t.Run("static detail from the record", func(t *testing.T) {
		m := loaded(t, newStudentBackend(3))
		key(m, tea.KeyMsg{Type: tea.KeyDown})
		key(m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.Equal(t, ViewStateDetail, m.State())
		assert.Contains(t, m.View(), "s02@example.com")

		key(m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.Equal(t, ViewStateList, m.State())
	})

	t.Run("loader is used when set", func(t *testing.T) {
		b := newStudentBackend(3)
		var got listview.Record
		m := newTestListView(t, b, func(_ context.Context, r listview.Record) ([]detail.Field, error) {
			got = r
			return []detail.Field{{Label: "Dropout risk", Value: "0.42"}}, nil
		})
		deliver(m, drain(m.Init()))

		cmd := key(m, tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		assert.Contains(t, m.View(), "Loading")
		assert.Contains(t, m.View(), "STUDENTS #1")

		// Run the loader the way the program would and feed the result back.
		msg := runDetail(cmd)
		require.NotNil(t, msg)
		m.Update(msg)
		assert.Contains(t, m.View(), "0.42")
		id, _ := got.Number("id")
		assert.InDelta(t, 1.0, id, 0)
	})
}

// runDetail returns the first non-spinner message produced by cmd.
func runDetail(cmd tea.Cmd) tea.Msg {
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return msg
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		m := runDetail(c)
		if _, tick := m.(spinner.TickMsg); m != nil && !tick {
			return m
		}
	}
	return nil
}

func TestListViewModel_Quit(t *testing.T) {
	m := loaded(t, newStudentBackend(3))
	cmd := key(m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, ViewStateQuitting, m.State())
	assert.Empty(t, m.View())
}

func TestPad(t *testing.T) {
	assert.Equal(t, "abc  ", pad("abc", 5))
	assert.Equal(t, "abc…", pad("abcdef", 4))
	assert.Equal(t, "abcdef", pad("abcdef", 0))
}

func TestRecordFields(t *testing.T) {
	fields := RecordFields(listview.Record{"name": "Ana", "age": 20.0, "major": nil})
	assert.Equal(t, []detail.Field{
		{Label: "age", Value: "20"},
		{Label: "major", Value: "-"},
		{Label: "name", Value: "Ana"},
	}, fields)
}
