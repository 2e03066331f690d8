// Package board is the dashboard core: the refresh/dwell/alert state
// machine and the pieces it drives (watermark, scheduler, buttons).
// It talks to the outside world only through Fetcher, Display, Audio and Pin.
package board

import (
	"context"
	"strings"
	"time"

	"github.com/rileyhilliard/zbxboard/internal/logger"
	"github.com/rileyhilliard/zbxboard/internal/problems"
)

// State is the controller's phase.
type State int

const (
	Fetching State = iota
	Displaying
	Idle
)

func (s State) String() string {
	switch s {
	case Fetching:
		return "fetching"
	case Displaying:
		return "displaying"
	case Idle:
		return "idle"
	default:
		return "unknown"
	}
}

// Status is a read-only view of the controller.
type Status struct {
	State               State
	HostIndex           int
	HostCount           int
	Watermark           int64
	WatermarkSeen       bool
	ColdStart           bool
	LastFetch           time.Time
	ConsecutiveFailures int
	LastError           error
	NextAttempt         time.Time
	PendingAlerts       int
}

// Options wires a Controller to its collaborators.
type Options struct {
	Fetcher Fetcher
	Display Display

	// Audio may be nil for a silent board.
	Audio Audio

	// Input may be nil when there are no buttons.
	Input *InputMonitor

	// Logger defaults to a no-op logger.
	Logger logger.Logger

	// Now is the clock Run uses. Defaults to time.Now.
	Now func() time.Time

	// HostIcons maps host names to glyphs shown beside them. Keys match
	// case-insensitively.
	HostIcons map[string]string
}

// Controller runs the dashboard loop. It is not safe for concurrent use;
// one goroutine calls Step or Run.
type Controller struct {
	fetcher   Fetcher
	display   Display
	audio     Audio
	input     *InputMonitor
	log       logger.Logger
	now       func() time.Time
	scheduler Scheduler
	watermark *Watermark
	icons     map[string]string

	state      State
	snapshot   problems.Snapshot
	hostIndex  int
	dwellStart time.Time
	lastFetch  time.Time

	// alertPending holds the keys of hosts whose scan found a new event
	// and that haven't been shown since. Marks survive refreshes for hosts
	// still in the snapshot.
	alertPending map[string]bool

	// resumeAfter is the key of the host on screen when a timed refresh
	// interrupted the rotation. The next snapshot continues after it.
	resumeAfter string

	bannerShown bool
	failures    int
	lastErr     error
	nextAttempt time.Time
}

// NewController builds a controller in the Fetching state with cold start active.
func NewController(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	icons := make(map[string]string, len(opts.HostIcons))
	for name, icon := range opts.HostIcons {
		icons[strings.ToLower(name)] = icon
	}
	return &Controller{
		fetcher:      opts.Fetcher,
		display:      opts.Display,
		audio:        opts.Audio,
		input:        opts.Input,
		log:          log,
		now:          now,
		watermark:    NewWatermark(),
		state:        Fetching,
		alertPending: make(map[string]bool),
		icons:        icons,
	}
}

// Run calls Step every TickInterval until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	c.log.Info("dashboard started")
	c.Step(ctx, c.now())
	for {
		select {
		case <-ctx.Done():
			c.log.Info("dashboard stopped")
			return nil
		case <-ticker.C:
			c.Step(ctx, c.now())
		}
	}
}

// Step advances the state machine to now. It blocks only while fetching.
func (c *Controller) Step(ctx context.Context, now time.Time) {
	if ctx.Err() != nil {
		return
	}

	switch c.state {
	case Fetching:
		c.stepFetching(ctx, now)
	case Displaying:
		c.stepDisplaying(now)
	case Idle:
		c.stepIdle(now)
	}
}

func (c *Controller) stepFetching(ctx context.Context, now time.Time) {
	if !c.bannerShown {
		c.render(UpdatingFrame(c.lastFetch))
		c.bannerShown = true
	}

	if now.Before(c.nextAttempt) {
		// Keep sampling during backoff so held buttons stay latched.
		// A refresh press skips the rest of the wait.
		if c.input.PollManualRefresh() {
			c.log.Info("manual refresh during backoff, retrying now")
			c.nextAttempt = now
		}
		c.input.PollManualAdvance()
		if now.Before(c.nextAttempt) {
			return
		}
	}

	snap, err := c.fetcher.FetchAll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.failures++
		c.lastErr = err
		delay := c.scheduler.RetryDelay(c.failures)
		c.nextAttempt = now.Add(delay)
		c.log.Warn("fetch failed (%d consecutive), retrying in %s: %s", c.failures, delay, oneLine(err))
		return
	}

	if c.failures > 0 {
		c.log.Info("fetch recovered after %d failures", c.failures)
	}
	c.failures = 0
	c.lastErr = nil
	c.nextAttempt = time.Time{}
	c.lastFetch = now
	c.accept(snap, now)
}

// accept scans a fresh snapshot against the watermark and starts showing it.
func (c *Controller) accept(snap problems.Snapshot, now time.Time) {
	c.snapshot = snap

	pending := make(map[string]bool, len(c.alertPending))
	for _, set := range snap.Sets {
		key := hostKey(set.Host)
		if c.alertPending[key] {
			pending[key] = true
			delete(c.alertPending, key)
		}
		for _, p := range set.Problems {
			if c.watermark.Observe(p.EventID) {
				pending[key] = true
			}
			c.log.Debug("event %d >> watermark %d", p.EventID, c.watermark.Value())
		}
	}
	// Hosts that left the snapshot have no active problems left to show.
	for key := range c.alertPending {
		c.log.Debug("dropping alert for %s, host no longer has problems", key)
	}
	c.alertPending = pending
	if c.watermark.ColdStart() {
		c.log.Info("baseline established at event %d", c.watermark.Value())
		c.watermark.EndColdStart()
	}
	c.log.Info("snapshot: %d hosts, %d problems, %d with new events", snap.Len(), snap.ProblemCount(), len(c.alertPending))

	c.bannerShown = false
	if snap.Empty() {
		c.resumeAfter = ""
		c.state = Idle
		c.render(NoIssuesFrame(c.lastFetch))
		return
	}
	c.state = Displaying
	c.hostIndex = c.startIndex()
	c.dwellStart = now
	c.showHost()
}

// startIndex is 0, or the host after resumeAfter when it is still present.
func (c *Controller) startIndex() int {
	after := c.resumeAfter
	c.resumeAfter = ""
	if after == "" {
		return 0
	}
	for i, set := range c.snapshot.Sets {
		if hostKey(set.Host) == after {
			return (i + 1) % c.snapshot.Len()
		}
	}
	return 0
}

// hostKey identifies a host across snapshots.
func hostKey(h problems.Host) string {
	if h.ID != "" {
		return h.ID
	}
	return "name:" + h.Name
}

func (c *Controller) stepDisplaying(now time.Time) {
	refresh := c.input.PollManualRefresh()
	advance := c.input.PollManualAdvance()

	if refresh {
		c.log.Info("manual refresh")
		c.enterFetching()
		return
	}
	if c.scheduler.DueForRefresh(c.lastFetch, now) {
		c.resumeAfter = hostKey(c.snapshot.Sets[c.hostIndex].Host)
		c.enterFetching()
		return
	}

	if advance || c.scheduler.DwellElapsed(c.dwellStart, now) {
		c.dwellStart = now
		if c.snapshot.Len() == 1 {
			// The only host is already on screen.
			return
		}
		c.hostIndex = (c.hostIndex + 1) % c.snapshot.Len()
		c.showHost()
	}
}

func (c *Controller) stepIdle(now time.Time) {
	refresh := c.input.PollManualRefresh()
	c.input.PollManualAdvance()

	if refresh || c.scheduler.DueForRefresh(c.lastFetch, now) {
		if refresh {
			c.log.Info("manual refresh")
		}
		c.enterFetching()
	}
}

func (c *Controller) enterFetching() {
	c.state = Fetching
	c.nextAttempt = time.Time{}
	c.render(UpdatingFrame(c.lastFetch))
	c.bannerShown = true
}

// showHost renders the current host and consumes its pending alert.
func (c *Controller) showHost() {
	total := c.snapshot.Len()
	set := c.snapshot.Sets[c.hostIndex]
	frame := HostFrame(set, c.hostIndex, total, c.lastFetch)
	if icon, ok := c.icons[strings.ToLower(set.Host.Name)]; ok {
		frame.Regions[0] = RegionHost{Text: set.Host.Name, Icon: icon}
	}
	c.render(frame)

	key := hostKey(set.Host)
	if !c.alertPending[key] {
		return
	}
	delete(c.alertPending, key)
	c.log.Info("new problem on %s, playing alert", set.Host.Name)
	if c.audio == nil {
		return
	}
	if err := c.audio.PlayAlert(true); err != nil {
		c.log.Warn("alert playback failed: %s", oneLine(err))
	}
}

func (c *Controller) render(frame Frame) {
	if c.display == nil {
		return
	}
	if err := c.display.Render(frame); err != nil {
		c.log.Warn("render failed: %s", oneLine(err))
	}
}

// Status returns a snapshot of the controller's state.
func (c *Controller) Status() Status {
	return Status{
		State:               c.state,
		HostIndex:           c.hostIndex,
		HostCount:           c.snapshot.Len(),
		Watermark:           c.watermark.Value(),
		WatermarkSeen:       c.watermark.Seen(),
		ColdStart:           c.watermark.ColdStart(),
		LastFetch:           c.lastFetch,
		ConsecutiveFailures: c.failures,
		LastError:           c.lastErr,
		NextAttempt:         c.nextAttempt,
		PendingAlerts:       len(c.alertPending),
	}
}

// oneLine flattens a multi-line structured error for log output.
func oneLine(err error) string {
	return strings.Join(strings.Fields(err.Error()), " ")
}
