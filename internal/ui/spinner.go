package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// spinnerInterval is the animation frame period.
const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner draws an animated one-line status while a call is in flight,
// then replaces it with a final success or failure line.
type Spinner struct {
	mu       sync.Mutex
	w        io.Writer
	label    string
	frame    int
	start    time.Time
	running  bool
	stopChan chan struct{}
	doneChan chan struct{}
	lastLen  int
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, label string) *Spinner {
	return &Spinner{w: w, label: label}
}

// Start begins the animation. Calling Start on a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.start = time.Now()
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.mu.Unlock()

	s.render()
	go s.animate()
}

// Success stops the spinner with a check mark and the elapsed time.
func (s *Spinner) Success() {
	s.finish(SuccessStyle.Render(SymbolSuccess))
}

// Fail stops the spinner with a cross.
func (s *Spinner) Fail() {
	s.finish(ErrorStyle.Render(SymbolFail))
}

func (s *Spinner) stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	<-s.doneChan
}

func (s *Spinner) finish(symbol string) {
	s.stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := time.Duration(0)
	if !s.start.IsZero() {
		elapsed = time.Since(s.start).Round(time.Millisecond)
	}
	s.clear()
	fmt.Fprintf(s.w, "%s %s %s\n", symbol, s.label, MutedStyle.Render(fmt.Sprintf("(%s)", elapsed)))
}

func (s *Spinner) animate() {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	defer close(s.doneChan)

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.mu.Unlock()
			s.render()
		}
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := fmt.Sprintf("%s %s...", lipgloss.NewStyle().Foreground(ColorInfo).Render(spinnerFrames[s.frame]), s.label)
	s.clear()
	fmt.Fprint(s.w, line)
	s.lastLen = lipgloss.Width(line)
}

// clear blanks the previously drawn line. Callers hold mu.
func (s *Spinner) clear() {
	if s.lastLen == 0 {
		return
	}
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.lastLen)+"\r")
	s.lastLen = 0
}
