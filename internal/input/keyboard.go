package input

import (
	"sync"
	"time"

	"github.com/rileyhilliard/zbxboard/internal/board"
)

// DefaultHold is how long a key press keeps a keyboard pin low.
const DefaultHold = 250 * time.Millisecond

// KeyboardPin is a virtual pull-up pin. Press pulls it low for the hold
// window, long enough for the controller's poll loop to see the edge.
// Press and Level may be called from different goroutines.
type KeyboardPin struct {
	mu    sync.Mutex
	hold  time.Duration
	until time.Time
	now   func() time.Time
}

var _ board.Pin = (*KeyboardPin)(nil)

// NewKeyboardPin creates an idle pin. A non-positive hold uses DefaultHold.
func NewKeyboardPin(hold time.Duration) *KeyboardPin {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &KeyboardPin{hold: hold, now: time.Now}
}

// Press pulls the pin low. Presses inside an active window extend it.
func (p *KeyboardPin) Press() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.until = p.now().Add(p.hold)
}

// Level reports false while a press is held, true otherwise.
func (p *KeyboardPin) Level() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.now().Before(p.until), nil
}
