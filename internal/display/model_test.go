package display

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/zbxboard/internal/board"
	"github.com/rileyhilliard/zbxboard/internal/problems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

var fetchedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func webFrame() board.Frame {
	set := problems.HostProblemSet{
		Host: problems.Host{ID: "10084", Name: "web1"},
		Problems: []problems.Problem{
			{EventID: 101, Name: "Disk space low", Severity: problems.Warning},
			{EventID: 102, Name: "Nginx down", Severity: problems.Disaster},
		},
	}
	return board.HostFrame(set, 1, 5, fetchedAt)
}

func TestNewModel(t *testing.T) {
	m := NewModel("", Handlers{})
	assert.Equal(t, DefaultTitle, m.title)
	_, ok := m.Frame()
	assert.False(t, ok)
	assert.NotNil(t, m.Init())

	m = NewModel("NOC", Handlers{})
	assert.Equal(t, "NOC", m.title)
}

func TestModel_FrameMsg(t *testing.T) {
	m := NewModel("", Handlers{})
	m, cmd := update(t, m, frameMsg{frame: webFrame()})
	assert.Nil(t, cmd)

	f, ok := m.Frame()
	require.True(t, ok)
	assert.Equal(t, "web1", f.HostName())
}

func TestModel_Keys(t *testing.T) {
	var refreshes, advances int
	m := NewModel("", Handlers{
		OnRefresh: func() { refreshes++ },
		OnAdvance: func() { advances++ },
	})

	m, _ = update(t, m, runes("r"))
	assert.Equal(t, 1, refreshes)

	m, _ = update(t, m, runes("n"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 3, advances)

	// Unbound keys do nothing.
	m, cmd := update(t, m, runes("x"))
	assert.Nil(t, cmd)
	assert.Equal(t, 1, refreshes)
	assert.Equal(t, 3, advances)
	assert.False(t, m.Quitting())
}

func TestModel_KeysWithoutHandlers(t *testing.T) {
	m := NewModel("", Handlers{})
	assert.NotPanics(t, func() {
		m, _ = update(t, m, runes("r"))
		m, _ = update(t, m, runes("n"))
	})
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		m := NewModel("", Handlers{})
		m, cmd := update(t, m, k)
		require.NotNil(t, cmd, "key %s", k)
		assert.Equal(t, tea.QuitMsg{}, cmd())
		assert.True(t, m.Quitting())
		assert.Empty(t, m.View())
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m := NewModel("", Handlers{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, _ = update(t, m, runes("?"))
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	assert.Contains(t, m.View(), "next host")

	m, _ = update(t, m, runes("?"))
	assert.False(t, m.showHelp)
	assert.NotContains(t, m.View(), "Keyboard Shortcuts")
}

func TestModel_WindowSize(t *testing.T) {
	m := NewModel("", Handlers{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 30, m.height)
	assert.Equal(t, 100, m.help.Width)
}

func TestModel_ClockReschedules(t *testing.T) {
	m := NewModel("", Handlers{})
	_, cmd := update(t, m, clockMsg(time.Now()))
	assert.NotNil(t, cmd)
}

func TestModel_ViewHost(t *testing.T) {
	m := NewModel("NOC", Handlers{})
	m.now = func() time.Time { return fetchedAt.Add(3 * time.Minute) }
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	m, _ = update(t, m, frameMsg{frame: webFrame()})

	view := m.View()
	assert.Contains(t, view, "NOC")
	assert.Contains(t, view, "2/5")
	assert.Contains(t, view, "updated 3m ago")
	assert.Contains(t, view, "web1")
	assert.Contains(t, view, "[Warning] Disk space low")
	assert.Contains(t, view, "[Disaster] Nginx down")
	assert.Less(t, strings.Index(view, "Disk space low"), strings.Index(view, "Nginx down"), "fetch order kept")
}

func TestModel_ViewHostIcon(t *testing.T) {
	f := webFrame()
	f.Regions[0] = board.RegionHost{Text: "web1", Icon: "[W]"}

	m := NewModel("NOC", Handlers{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	m, _ = update(t, m, frameMsg{frame: f})
	assert.Contains(t, m.View(), "[W] web1")
}

func TestModel_ViewBanners(t *testing.T) {
	tests := []struct {
		name  string
		frame board.Frame
		want  string
	}{
		{"updating", board.UpdatingFrame(time.Time{}), board.UpdatingText},
		{"no issues", board.NoIssuesFrame(fetchedAt), board.NoIssuesText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel("", Handlers{})
			m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 12})
			m, _ = update(t, m, frameMsg{frame: tt.frame})

			view := m.View()
			assert.Contains(t, view, tt.want)
			assert.NotContains(t, view, "/0", "banner frames carry no position")
		})
	}
}

func TestModel_ViewBeforeFirstFrame(t *testing.T) {
	m := NewModel("", Handlers{})
	view := m.View()
	assert.Contains(t, view, board.UpdatingText)
	assert.Contains(t, view, "updated never")
}

func TestModel_ViewNote(t *testing.T) {
	m := NewModel("", Handlers{})
	set := problems.HostProblemSet{Host: problems.Host{Name: "db1"}}
	m, _ = update(t, m, frameMsg{frame: board.HostFrame(set, 0, 1, fetchedAt)})
	assert.Contains(t, m.View(), board.NoProblemsText)
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"now", 0, "just now"},
		{"seconds", 42 * time.Second, "42s ago"},
		{"minutes", 9*time.Minute + 59*time.Second, "9m ago"},
		{"hours", 2*time.Hour + 5*time.Minute, "2h05m ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatAge(fetchedAt, fetchedAt.Add(tt.ago)))
		})
	}
	assert.Equal(t, "never", formatAge(time.Time{}, fetchedAt))
}
