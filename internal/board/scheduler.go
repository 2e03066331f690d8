package board

import "time"

const (
	// RefreshInterval is how old a snapshot may get before it's re-fetched.
	RefreshInterval = 10 * time.Minute

	// DwellInterval is how long each host stays on screen.
	DwellInterval = 10 * time.Second

	// TickInterval is the controller's polling period.
	TickInterval = 50 * time.Millisecond

	// RetryBase is the first backoff after a failed fetch.
	RetryBase = 5 * time.Second

	// RetryCap bounds the fetch backoff.
	RetryCap = time.Minute
)

// Scheduler decides when to re-fetch, advance, and retry. It holds no state;
// the zero value is ready to use.
type Scheduler struct{}

// DueForRefresh reports whether more than RefreshInterval has passed since
// lastFetch. Exactly RefreshInterval is not yet due.
func (Scheduler) DueForRefresh(lastFetch, now time.Time) bool {
	return now.Sub(lastFetch) > RefreshInterval
}

// DwellElapsed reports whether more than DwellInterval has passed since
// dwellStart.
func (Scheduler) DwellElapsed(dwellStart, now time.Time) bool {
	return now.Sub(dwellStart) > DwellInterval
}

// RetryDelay returns the wait after the given number of consecutive fetch
// failures: RetryBase, doubling, capped at RetryCap.
func (Scheduler) RetryDelay(failures int) time.Duration {
	if failures <= 1 {
		return RetryBase
	}
	delay := RetryBase
	for i := 1; i < failures; i++ {
		delay *= 2
		if delay >= RetryCap {
			return RetryCap
		}
	}
	return delay
}
