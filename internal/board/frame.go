package board

import (
	"time"

	"github.com/rileyhilliard/zbxboard/internal/problems"
)

// Banner texts.
const (
	UpdatingText   = "UPDATING ISSUES"
	NoIssuesText   = "NO ISSUES"
	NoProblemsText = "No current problems for this host"
)

// Tone is the color role of a banner.
type Tone int

const (
	ToneUpdating Tone = iota
	ToneClear
)

func (t Tone) String() string {
	switch t {
	case ToneUpdating:
		return "updating"
	case ToneClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Region is one visual block of a frame.
type Region interface {
	region()
}

// RegionBanner is a full-screen status message.
type RegionBanner struct {
	Text string
	Tone Tone
}

// RegionHost is the host title band.
type RegionHost struct {
	Text string
	Icon string
}

// Label is the host name prefixed by its icon, if any.
func (r RegionHost) Label() string {
	if r.Icon == "" {
		return r.Text
	}
	return r.Icon + " " + r.Text
}

// RegionProblem is one problem line colored by severity.
type RegionProblem struct {
	Text     string
	Severity problems.Severity
}

// RegionNote is informational text with no severity.
type RegionNote struct {
	Text string
}

func (RegionBanner) region()  {}
func (RegionHost) region()    {}
func (RegionProblem) region() {}
func (RegionNote) region()    {}

// Frame is one complete screen. Displays redraw everything on each frame.
type Frame struct {
	Regions []Region

	// Index and Total give the host position; Total is 0 for banner frames.
	Index int
	Total int

	// UpdatedAt is when the snapshot behind the frame was fetched.
	UpdatedAt time.Time
}

// Banner returns the frame's banner, if it is a banner frame.
func (f Frame) Banner() (RegionBanner, bool) {
	if len(f.Regions) == 1 {
		if b, ok := f.Regions[0].(RegionBanner); ok {
			return b, true
		}
	}
	return RegionBanner{}, false
}

// HostName returns the host title, or "" for banner frames.
func (f Frame) HostName() string {
	for _, r := range f.Regions {
		if h, ok := r.(RegionHost); ok {
			return h.Text
		}
	}
	return ""
}

// UpdatingFrame is shown while a fetch is in progress or retrying.
func UpdatingFrame(lastFetch time.Time) Frame {
	return Frame{
		Regions:   []Region{RegionBanner{Text: UpdatingText, Tone: ToneUpdating}},
		UpdatedAt: lastFetch,
	}
}

// NoIssuesFrame is shown when the snapshot has no hosts.
func NoIssuesFrame(fetchedAt time.Time) Frame {
	return Frame{
		Regions:   []Region{RegionBanner{Text: NoIssuesText, Tone: ToneClear}},
		UpdatedAt: fetchedAt,
	}
}

// HostFrame renders one host and its problems in fetch order.
func HostFrame(set problems.HostProblemSet, index, total int, fetchedAt time.Time) Frame {
	regions := make([]Region, 0, len(set.Problems)+1)
	regions = append(regions, RegionHost{Text: set.Host.Name})
	if len(set.Problems) == 0 {
		regions = append(regions, RegionNote{Text: NoProblemsText})
	}
	for _, p := range set.Problems {
		regions = append(regions, RegionProblem{Text: p.Name, Severity: p.Severity})
	}
	return Frame{
		Regions:   regions,
		Index:     index,
		Total:     total,
		UpdatedAt: fetchedAt,
	}
}
