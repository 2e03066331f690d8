package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/zbxboard/internal/board"
)

// Rows used by the header and footer.
const chromeHeight = 4

// renderDashboard renders header, body and footer.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(m.renderHelp())
	} else {
		b.WriteString(m.renderBody())
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader shows the title, host position and snapshot age.
func (m Model) renderHeader() string {
	parts := []string{m.title}
	if m.hasFrame && m.frame.Total > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", m.frame.Index+1, m.frame.Total))
	}
	info := "updated " + formatAge(m.frame.UpdatedAt, m.now())

	return HeaderStyle.Render(strings.Join(parts, "  ")) + HeaderInfoStyle.Render(info)
}

// renderBody draws the current frame.
func (m Model) renderBody() string {
	if !m.hasFrame {
		return m.renderBanner(board.RegionBanner{Text: board.UpdatingText, Tone: board.ToneUpdating})
	}
	if banner, ok := m.frame.Banner(); ok {
		return m.renderBanner(banner)
	}

	lines := make([]string, 0, len(m.frame.Regions))
	for _, r := range m.frame.Regions {
		lines = append(lines, m.renderRegion(r))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRegion(r board.Region) string {
	switch r := r.(type) {
	case board.RegionHost:
		return HostBandStyle.Width(m.width).Render(r.Label())
	case board.RegionProblem:
		return SeverityStyle(r.Severity).Width(m.width).Render(fmt.Sprintf("[%s] %s", r.Severity, r.Text))
	case board.RegionNote:
		return NoteStyle.Render(r.Text)
	case board.RegionBanner:
		return BannerStyle(r.Tone).Padding(0, 1).Render(r.Text)
	default:
		return ""
	}
}

// renderBanner fills the body area with the banner color and centers the text.
func (m Model) renderBanner(b board.RegionBanner) string {
	style := BannerStyle(b.Tone)
	height := m.height - chromeHeight
	if m.width <= 0 || height <= 0 {
		return style.Padding(0, 1).Render(b.Text)
	}
	return style.
		Width(m.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(b.Text)
}

func (m Model) renderHelp() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Render("Keyboard Shortcuts\n\n" + m.help.FullHelpView(m.keys.FullHelp()))

	height := m.height - chromeHeight
	if m.width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderFooter() string {
	return FooterStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// formatAge renders how long ago t was, relative to now.
func formatAge(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d/time.Second))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	default:
		return fmt.Sprintf("%dh%02dm ago", int(d/time.Hour), int(d%time.Hour/time.Minute))
	}
}
