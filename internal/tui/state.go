package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState is the screen a model is currently showing.
type ViewState int

const (
	// ViewStateLoading shows a spinner while a page is fetched.
	ViewStateLoading ViewState = iota
	// ViewStateList shows the current page.
	ViewStateList
	// ViewStateDetail shows one record.
	ViewStateDetail
	// ViewStateError shows the last fetch error and a retry hint.
	ViewStateError
	// ViewStateQuitting renders nothing while the program exits.
	ViewStateQuitting
)

// Keys shared by the interactive models.
const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyEsc   = "esc"
	keySlash = "/"
	keyTab   = "tab"
)

// Layout defaults used until the first WindowSizeMsg arrives.
const (
	defaultWidth         = 120
	defaultHeight        = 30
	minHeight            = 5
	filterInputCharLimit = 64
	filterInputWidth     = 40
)

const defaultLoadingMessage = "Loading..."

// LoadingState wraps the spinner shown while data loads.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState creates a loading state with the given message.
func NewLoadingState(message string) *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = InfoStyle
	if message == "" {
		message = defaultLoadingMessage
	}
	return &LoadingState{spinner: s, message: message}
}

// Init starts the spinner.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on tick messages.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// SetMessage changes the text next to the spinner.
func (l *LoadingState) SetMessage(message string) {
	l.message = message
}

// RenderLoading returns the spinner followed by the loading message.
func RenderLoading(loading *LoadingState) string {
	if loading == nil {
		return defaultLoadingMessage
	}
	return loading.spinner.View() + " " + loading.message
}
