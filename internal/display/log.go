package display

import (
	"fmt"

	"github.com/rileyhilliard/zbxboard/internal/board"
	"github.com/rileyhilliard/zbxboard/internal/logger"
)

// LogDisplay is a headless board.Display that writes each frame as log
// records. Used when stdout isn't a terminal.
type LogDisplay struct {
	log logger.Logger
}

var _ board.Display = (*LogDisplay)(nil)

// NewLogDisplay creates a log display. A nil logger discards frames.
func NewLogDisplay(log logger.Logger) *LogDisplay {
	if log == nil {
		log = logger.Noop()
	}
	return &LogDisplay{log: log}
}

// Render logs the frame: one record for a banner, a title record plus one
// per problem for a host.
func (d *LogDisplay) Render(frame board.Frame) error {
	if banner, ok := frame.Banner(); ok {
		d.log.Info("%s", banner.Text)
		return nil
	}

	for _, r := range frame.Regions {
		switch r := r.(type) {
		case board.RegionHost:
			d.log.Info("%s", hostTitle(r.Label(), frame))
		case board.RegionProblem:
			d.log.Info("  [%s] %s", r.Severity, r.Text)
		case board.RegionNote:
			d.log.Info("  %s", r.Text)
		}
	}
	return nil
}

func hostTitle(name string, frame board.Frame) string {
	if frame.Total == 0 {
		return name
	}
	return fmt.Sprintf("[%d/%d] %s", frame.Index+1, frame.Total, name)
}
