package board

import "math"

// Watermark tracks the highest problem event id seen so far. An id above
// the watermark is a new problem, except during cold start, when the first
// fetch only establishes the baseline.
type Watermark struct {
	value     int64
	coldStart bool
}

// NewWatermark returns a watermark below every event id, in cold start.
func NewWatermark() *Watermark {
	return &Watermark{value: math.MinInt64, coldStart: true}
}

// Observe records eventID and reports whether it is new. It always raises
// the watermark to max(current, eventID), but only reports true once cold
// start has ended.
func (w *Watermark) Observe(eventID int64) bool {
	if eventID <= w.value {
		return false
	}
	w.value = eventID
	return !w.coldStart
}

// EndColdStart ends the grace period. Calling it again has no effect.
func (w *Watermark) EndColdStart() {
	w.coldStart = false
}

// Value returns the highest event id observed.
func (w *Watermark) Value() int64 {
	return w.value
}

// ColdStart reports whether the grace period is still active.
func (w *Watermark) ColdStart() bool {
	return w.coldStart
}

// Seen reports whether any event id has been observed.
func (w *Watermark) Seen() bool {
	return w.value != math.MinInt64
}
