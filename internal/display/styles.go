package display

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/zbxboard/internal/board"
	"github.com/rileyhilliard/zbxboard/internal/problems"
)

// Severity palette, matching the Zabbix frontend defaults.
const (
	ColorNotClassified = lipgloss.Color("#97AAB3")
	ColorInformation   = lipgloss.Color("#0C5679")
	ColorWarning       = lipgloss.Color("#F28A0F")
	ColorAverage       = lipgloss.Color("#E5340B")
	ColorHigh          = lipgloss.Color("#E97659")
	ColorDisaster      = lipgloss.Color("#E45959")
	ColorUnknown       = lipgloss.Color("#000000")
)

// Banner and chrome colors
const (
	ColorHostBand = lipgloss.Color("#990000")
	ColorUpdating = lipgloss.Color("#990000")
	ColorClear    = lipgloss.Color("#00FF00")

	ColorText      = lipgloss.Color("#FFFFFF")
	ColorTextDark  = lipgloss.Color("#000000")
	ColorTextMuted = lipgloss.Color("#8A8A8A")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	HeaderInfoStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	HostBandStyle = lipgloss.NewStyle().
			Background(ColorHostBand).
			Foreground(ColorText).
			Bold(true).
			Padding(0, 1)

	NoteStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// severityColors maps each valid severity to its background.
var severityColors = map[problems.Severity]lipgloss.Color{
	problems.NotClassified: ColorNotClassified,
	problems.Information:   ColorInformation,
	problems.Warning:       ColorWarning,
	problems.Average:       ColorAverage,
	problems.High:          ColorHigh,
	problems.Disaster:      ColorDisaster,
}

// SeverityColor returns the background color for a severity.
// Anything outside 0..5 gets the neutral color.
func SeverityColor(s problems.Severity) lipgloss.Color {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return ColorUnknown
}

// SeverityStyle returns the row style for a problem of the given severity.
func SeverityStyle(s problems.Severity) lipgloss.Style {
	style := lipgloss.NewStyle().
		Background(SeverityColor(s)).
		Padding(0, 1)
	if s.Valid() {
		return style.Foreground(ColorText)
	}
	return style
}

// BannerStyle returns the full-screen style for a banner tone.
func BannerStyle(t board.Tone) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch t {
	case board.ToneClear:
		return style.Background(ColorClear).Foreground(ColorTextDark)
	default:
		return style.Background(ColorUpdating).Foreground(ColorText)
	}
}

// ColorProfile resolves a display.color setting against the output.
// "auto" asks termenv what w supports.
func ColorProfile(mode string, w io.Writer) termenv.Profile {
	switch mode {
	case "always":
		return termenv.TrueColor
	case "never":
		return termenv.Ascii
	default:
		if w == nil {
			return termenv.Ascii
		}
		return termenv.NewOutput(w).EnvColorProfile()
	}
}

// ApplyColor sets the lipgloss color profile for the whole process.
func ApplyColor(mode string, w io.Writer) termenv.Profile {
	p := ColorProfile(mode, w)
	lipgloss.SetColorProfile(p)
	return p
}
