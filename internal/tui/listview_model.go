package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/edupredict/edupredict/internal/listview"
	"github.com/edupredict/edupredict/internal/logging"
	"github.com/edupredict/edupredict/internal/tui/detail"
	"github.com/edupredict/edupredict/internal/tui/list"
	"github.com/edupredict/edupredict/internal/views"
)

// Keys specific to the list view.
const (
	keyNext        = "n"
	keyRight       = "right"
	keyPrev        = "p"
	keyLeft        = "left"
	keySort        = "s"
	keyFlipSort    = "S"
	keyCategory    = "c"
	keyClear       = "x"
	keyRefresh     = "R"
	keyRetry       = "r"
	cellSeparator  = "  "
	chromeHeight   = 6
	ellipsis       = "…"
	noRecordsLabel = "No records found."
	riskHeader     = "RISK"
)

// DetailLoader fetches the detail fields of one record.
type DetailLoader func(ctx context.Context, r listview.Record) ([]detail.Field, error)

// pageLoadedMsg carries one fetch outcome back to Update.
type pageLoadedMsg struct {
	ticket  listview.Ticket
	records []listview.Record
	err     error
}

// ListViewModel is the interactive screen of one list view. All list state
// lives in the controller; the model only translates keys into controller
// calls and renders snapshots.
type ListViewModel struct {
	ctx  context.Context
	view views.View
	ctrl *listview.Controller[listview.Record]

	detailLoader DetailLoader
	detail       *detail.Model

	state      ViewState
	loading    *LoadingState
	textInput  textinput.Model
	showFilter bool
	rows       *list.Model[listview.Record]
	snap       listview.Snapshot[listview.Record]

	// categoryIdx is the category that 'c' cycles.
	categoryIdx int
	// seen collects category values observed on fetched pages.
	seen map[string]map[string]struct{}

	width  int
	height int
}

// NewListViewModel creates a list screen over ctrl. The first page is
// fetched by Init.
func NewListViewModel(
	ctx context.Context,
	view views.View,
	ctrl *listview.Controller[listview.Record],
	loader DetailLoader,
) *ListViewModel {
	m := &ListViewModel{
		ctx:          ctx,
		view:         view,
		ctrl:         ctrl,
		detailLoader: loader,
		state:        ViewStateLoading,
		loading:      NewLoadingState("Loading " + strings.ToLower(view.Title) + "..."),
		textInput:    newFilterInput(view.Title),
		seen:         make(map[string]map[string]struct{}),
		width:        TerminalWidth(),
		height:       defaultHeight,
	}
	m.textInput.SetValue(ctrl.Snapshot().Filters.SearchText)
	m.rows = list.New[listview.Record](nil, m.rowsHeight(), m.width, m.renderRow)
	return m
}

func newFilterInput(title string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Search " + strings.ToLower(title) + "..."
	ti.CharLimit = filterInputCharLimit
	ti.Width = filterInputWidth
	return ti
}

// Init starts the spinner and fetches the current page.
func (m *ListViewModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.fetchCmd())
}

// State returns the screen being shown.
func (m *ListViewModel) State() ViewState {
	return m.state
}

// Snapshot returns the last rendered controller snapshot.
func (m *ListViewModel) Snapshot() listview.Snapshot[listview.Record] {
	return m.snap
}

// fetchCmd issues a ticket synchronously, so the sequence number is taken at
// the moment of the user action, and runs the fetch in the returned command.
func (m *ListViewModel) fetchCmd() tea.Cmd {
	ticket := m.ctrl.Begin()
	m.sync()
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		records, err := ctrl.Fetch(ctx, ticket)
		return pageLoadedMsg{ticket: ticket, records: records, err: err}
	}
}

// Update handles messages and updates the model state.
func (m *ListViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rows.Update(tea.WindowSizeMsg{Width: m.width, Height: m.rowsHeight()})
		return m, nil
	case pageLoadedMsg:
		return m.handlePageLoaded(msg)
	}

	if m.showFilter {
		return m.handleFilterInput(msg)
	}

	switch m.state {
	case ViewStateLoading:
		return m.handleLoadingUpdate(msg)
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateError:
		return m.handleErrorUpdate(msg)
	default:
		return m, nil
	}
}

func (m *ListViewModel) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.Resolve(msg.ticket, msg.records, msg.err) {
		logging.FromContext(m.ctx).Debug().Ctx(m.ctx).
			Str("component", "tui").
			Str("view", m.view.Name).
			Uint64("seq", msg.ticket.Seq).
			Msg("discarding stale page")
		return m, nil
	}
	m.observe(msg.records)
	m.sync()
	return m, nil
}

// logControlError records a rejected sort or filter change. The key handlers
// only offer values from the schema, so this is not shown to the user.
func (m *ListViewModel) logControlError(operation string, err error) {
	if err == nil {
		return
	}
	logging.FromContext(m.ctx).Debug().Ctx(m.ctx).
		Str("component", "tui").
		Str("view", m.view.Name).
		Str("operation", operation).
		Err(err).
		Msg("ignoring list control change")
}

func (m *ListViewModel) handleLoadingUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			return m.quit()
		case keyPrev, keyLeft:
			return m, m.navigate(m.ctrl.PreviousPage())
		}
		return m, nil
	}
	return m, m.loading.Update(msg)
}

//nolint:gocyclo // One case per key binding.
func (m *ListViewModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		return m.quit()
	case keyNext, keyRight:
		if !m.snap.HasMore {
			return m, nil
		}
		return m, m.navigate(m.ctrl.NextPage())
	case keyPrev, keyLeft:
		return m, m.navigate(m.ctrl.PreviousPage())
	case keyRefresh, keyRetry:
		m.ctrl.Refresh()
		return m, m.navigate(true)
	case keySlash:
		m.showFilter = true
		return m, m.textInput.Focus()
	case keySort:
		m.cycleSort()
		return m, nil
	case keyFlipSort:
		if !m.snap.Sort.IsNone() {
			m.logControlError("flip_sort", m.ctrl.ToggleSort(m.snap.Sort.Key))
			m.sync()
		}
		return m, nil
	case keyTab:
		if n := len(m.view.Schema.Categories); n > 0 {
			m.categoryIdx = (m.categoryIdx + 1) % n
		}
		return m, nil
	case keyCategory:
		m.cycleCategory()
		return m, nil
	case keyClear, keyEsc:
		m.textInput.SetValue("")
		m.ctrl.ClearFilters()
		m.sync()
		return m, nil
	case keyEnter:
		return m.openDetail()
	}

	m.rows.Update(keyMsg)
	return m, nil
}

func (m *ListViewModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter:
			m.showFilter = false
			m.textInput.Blur()
			return m, nil
		case keyEsc:
			m.showFilter = false
			m.textInput.Blur()
			m.textInput.SetValue("")
			m.ctrl.SetSearch("")
			m.sync()
			return m, nil
		case keyCtrlC:
			return m.quit()
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.textInput.Value() != m.snap.Filters.SearchText {
		m.ctrl.SetSearch(m.textInput.Value())
		m.sync()
	}
	return m, cmd
}

func (m *ListViewModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			return m.quit()
		case keyEsc:
			m.detail = nil
			m.sync()
			return m, nil
		}
	}
	if m.detail == nil {
		m.sync()
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *ListViewModel) handleErrorUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			return m.quit()
		case keyRetry, keyRefresh:
			m.ctrl.Refresh()
			return m, m.navigate(true)
		case keyPrev, keyLeft:
			return m, m.navigate(m.ctrl.PreviousPage())
		}
	}
	return m, nil
}

func (m *ListViewModel) quit() (tea.Model, tea.Cmd) {
	m.state = ViewStateQuitting
	return m, tea.Quit
}

// navigate fetches the current position when the controller moved.
func (m *ListViewModel) navigate(moved bool) tea.Cmd {
	if !moved {
		return nil
	}
	m.rows.SetSelected(0)
	return tea.Batch(m.loading.Init(), m.fetchCmd())
}

func (m *ListViewModel) openDetail() (tea.Model, tea.Cmd) {
	r, ok := m.rows.SelectedItem()
	if !ok {
		return m, nil
	}
	title := m.view.Title
	if id := m.view.ID(r); id != "" {
		title += " #" + id
	}
	if m.detailLoader == nil {
		m.detail = detail.Static(title, RecordFields(r))
	} else {
		loader := m.detailLoader
		m.detail = detail.New(m.ctx, title, func(ctx context.Context) ([]detail.Field, error) {
			return loader(ctx, r)
		})
	}
	m.state = ViewStateDetail
	return m, m.detail.Init()
}

// cycleSort moves to the next sort key ascending; after the last key sorting
// is cleared.
func (m *ListViewModel) cycleSort() {
	keys := m.view.Schema.SortKeys
	if len(keys) == 0 {
		return
	}
	next := listview.SortState{Key: keys[0].Name}
	for i, k := range keys {
		if k.Name != m.snap.Sort.Key {
			continue
		}
		if i+1 < len(keys) {
			next = listview.SortState{Key: keys[i+1].Name}
		} else {
			next = listview.SortState{}
		}
		break
	}
	m.logControlError("cycle_sort", m.ctrl.SetSort(next))
	m.sync()
}

// cycleCategory steps the focused category through all and every value seen.
func (m *ListViewModel) cycleCategory() {
	cats := m.view.Schema.Categories
	if len(cats) == 0 {
		return
	}
	name := cats[m.categoryIdx%len(cats)].Name
	options := append([]string{listview.AllValues}, m.categoryValues(name)...)

	current := m.snap.Filters.Categories[name]
	if current == "" {
		current = listview.AllValues
	}
	next := options[0]
	for i, o := range options {
		if o == current && i+1 < len(options) {
			next = options[i+1]
			break
		}
	}
	m.logControlError("cycle_category", m.ctrl.SetCategory(name, next))
	m.sync()
}

func (m *ListViewModel) observe(records []listview.Record) {
	for _, c := range m.view.Schema.Categories {
		set, ok := m.seen[c.Name]
		if !ok {
			set = make(map[string]struct{})
			m.seen[c.Name] = set
		}
		for _, r := range records {
			if v, ok := c.Derive(r); ok {
				set[v] = struct{}{}
			}
		}
	}
}

func (m *ListViewModel) categoryValues(name string) []string {
	out := make([]string, 0, len(m.seen[name]))
	for v := range m.seen[name] {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// sync pulls a fresh snapshot and derives the screen from it.
func (m *ListViewModel) sync() {
	m.snap = m.ctrl.Snapshot()
	m.rows.SetItems(m.snap.Records)
	if m.state == ViewStateQuitting || (m.state == ViewStateDetail && m.detail != nil) {
		return
	}
	switch m.snap.State {
	case listview.StateIdle, listview.StateLoading:
		m.state = ViewStateLoading
	case listview.StateError:
		m.state = ViewStateError
	case listview.StateReady:
		m.state = ViewStateList
	}
}

func (m *ListViewModel) rowsHeight() int {
	return max(m.height-chromeHeight, minHeight)
}

// View renders the current screen.
func (m *ListViewModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return lipgloss.JoinVertical(lipgloss.Left, m.renderTitle(), RenderLoading(m.loading))
	case ViewStateError:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderTitle(),
			CriticalStyle.Render(fmt.Sprintf("Error: %v", m.snap.Err)),
			SubtleStyle.Render("[r] Retry  [p] Previous page  [q] Quit"),
		)
	case ViewStateDetail:
		if m.detail != nil {
			return m.detail.View()
		}
		return ""
	case ViewStateList:
		return m.renderList()
	default:
		return ""
	}
}

func (m *ListViewModel) renderTitle() string {
	return HeaderStyle.Render(fmt.Sprintf("%s  ·  page %d", m.view.Title, m.snap.Page))
}

func (m *ListViewModel) renderList() string {
	var body string
	if len(m.snap.Records) == 0 {
		body = InfoStyle.Render(noRecordsLabel)
	} else {
		header := TableHeaderStyle.Render(m.formatCells(m.view.Headers()))
		body = header + "\n" + m.rows.View()
	}

	parts := []string{m.renderTitle(), m.renderStatus(), body}
	if m.showFilter {
		parts = append(parts, "Search: "+m.textInput.View())
	}
	parts = append(parts, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *ListViewModel) renderStatus() string {
	items := []string{
		LabelStyle.Render("showing ") + ValueStyle.Render(fmt.Sprintf("%d/%d", len(m.snap.Records), m.snap.Fetched)),
		LabelStyle.Render("sort ") + ValueStyle.Render(m.snap.Sort.String()),
	}
	if s := strings.TrimSpace(m.snap.Filters.SearchText); s != "" {
		items = append(items, LabelStyle.Render("search ")+ValueStyle.Render(strconv.Quote(s)))
	}
	if cats := m.view.Schema.Categories; len(cats) > 0 {
		name := cats[m.categoryIdx%len(cats)].Name
		value := m.snap.Filters.Categories[name]
		if value == "" {
			value = listview.AllValues
		}
		items = append(items, LabelStyle.Render(name+" ")+ValueStyle.Render(value))
	}
	if m.snap.HasMore {
		items = append(items, InfoStyle.Render("more →"))
	}
	return strings.Join(items, "   ")
}

func (m *ListViewModel) renderHelp() string {
	next := "[n] Next  "
	if !m.snap.HasMore {
		next = ""
	}
	return SubtleStyle.Render(next + "[p] Prev  [/] Search  [s/S] Sort  [tab/c] Filter  " +
		"[x] Clear  [R] Refresh  [Enter] Details  [q] Quit")
}

func (m *ListViewModel) renderRow(r listview.Record, selected bool) string {
	cells := m.view.Row(r)
	if selected {
		return TableSelectedStyle.Render(m.formatCells(cells))
	}
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = pad(cell, m.columnWidth(i))
		if i < len(m.view.Columns) && m.view.Columns[i].Header == riskHeader {
			out[i] = RiskStyle(cell).Render(out[i])
		}
	}
	return strings.Join(out, cellSeparator)
}

func (m *ListViewModel) formatCells(cells []string) string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = pad(cell, m.columnWidth(i))
	}
	return strings.Join(out, cellSeparator)
}

func (m *ListViewModel) columnWidth(i int) int {
	if i < len(m.view.Columns) {
		return m.view.Columns[i].Width
	}
	return 0
}

// pad truncates or right-pads s to width runes; width 0 leaves s unchanged.
func pad(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-1]) + ellipsis
	}
	return s + strings.Repeat(" ", width-len(runes))
}

// RecordFields lists a record's fields sorted by name.
func RecordFields(r listview.Record) []detail.Field {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]detail.Field, 0, len(keys))
	for _, k := range keys {
		v, ok := r.String(k)
		if !ok {
			v = "-"
		}
		fields = append(fields, detail.Field{Label: k, Value: v})
	}
	return fields
}
