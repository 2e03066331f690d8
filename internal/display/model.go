package display

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/zbxboard/internal/board"
)

// clockInterval is how often the header's "updated" age is redrawn.
const clockInterval = time.Second

// DefaultTitle is shown in the header when none is configured.
const DefaultTitle = "ZABBIX PROBLEMS"

// frameMsg carries a frame from the controller goroutine into the program.
type frameMsg struct {
	frame board.Frame
}

// clockMsg redraws the header age.
type clockMsg time.Time

// Handlers are called from the program goroutine when the matching key is
// pressed. Either may be nil.
type Handlers struct {
	OnRefresh func()
	OnAdvance func()
}

// Model is the bubbletea model of the full-screen dashboard.
type Model struct {
	title    string
	frame    board.Frame
	hasFrame bool

	width    int
	height   int
	showHelp bool
	quitting bool

	keys     KeyMap
	help     help.Model
	handlers Handlers

	now func() time.Time
}

// NewModel creates a dashboard model with nothing to show yet.
func NewModel(title string, handlers Handlers) Model {
	if title == "" {
		title = DefaultTitle
	}
	return Model{
		title:    title,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		handlers: handlers,
		now:      time.Now,
	}
}

// Init starts the header clock.
func (m Model) Init() tea.Cmd {
	return clockCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case frameMsg:
		m.frame = msg.frame
		m.hasFrame = true

	case clockMsg:
		return m, clockCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp

	case key.Matches(msg, m.keys.Refresh):
		if m.handlers.OnRefresh != nil {
			m.handlers.OnRefresh()
		}

	case key.Matches(msg, m.keys.Advance):
		if m.handlers.OnAdvance != nil {
			m.handlers.OnAdvance()
		}
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

// Frame returns the frame currently on screen.
func (m Model) Frame() (board.Frame, bool) {
	return m.frame, m.hasFrame
}

// Quitting reports whether the quit key was pressed.
func (m Model) Quitting() bool {
	return m.quitting
}

func clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}
