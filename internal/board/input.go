package board

import "github.com/rileyhilliard/zbxboard/internal/logger"

// Pin is one digital input. Level must not block.
type Pin interface {
	Level() (bool, error)
}

// Button turns a pin's level into press events. "Pressed" means the level
// differs from the one sampled at construction, so it works for pull-up
// (idle high) and pull-down wiring alike.
type Button struct {
	name     string
	pin      Pin
	idle     bool
	asserted bool
	log      logger.Logger
}

// NewButton samples pin once to learn its idle level. If that sample fails
// the button assumes pull-up wiring (idle high).
func NewButton(name string, pin Pin, log logger.Logger) *Button {
	if log == nil {
		log = logger.Noop()
	}
	idle := true
	if level, err := pin.Level(); err == nil {
		idle = level
	} else {
		log.Debug("button %s: idle sample failed, assuming pull-up: %v", name, err)
	}
	return &Button{name: name, pin: pin, idle: idle, log: log}
}

// Name returns the button's label.
func (b *Button) Name() string {
	return b.name
}

// Poll samples the pin and returns true exactly once per idle-to-pressed
// transition. A held button keeps returning false until an idle sample
// re-arms it. A failed sample counts as no edge and leaves the latch alone.
func (b *Button) Poll() bool {
	level, err := b.pin.Level()
	if err != nil {
		b.log.Debug("button %s: sample failed: %v", b.name, err)
		return false
	}
	if level == b.idle {
		b.asserted = false
		return false
	}
	if b.asserted {
		return false
	}
	b.asserted = true
	b.log.Debug("button %s pressed", b.name)
	return true
}

// InputMonitor owns the manual-refresh and manual-advance buttons.
// Either may be nil, in which case it never fires.
type InputMonitor struct {
	refresh *Button
	advance *Button
}

// NewInputMonitor wraps the two buttons.
func NewInputMonitor(refresh, advance *Button) *InputMonitor {
	return &InputMonitor{refresh: refresh, advance: advance}
}

// PollManualRefresh reports a fresh press of the refresh button.
func (m *InputMonitor) PollManualRefresh() bool {
	if m == nil || m.refresh == nil {
		return false
	}
	return m.refresh.Poll()
}

// PollManualAdvance reports a fresh press of the advance button.
func (m *InputMonitor) PollManualAdvance() bool {
	if m == nil || m.advance == nil {
		return false
	}
	return m.advance.Poll()
}
