package board

import (
	"context"
	"errors"
	"time"

	"github.com/rileyhilliard/zbxboard/internal/problems"
)

// fetchResult is one canned FetchAll answer.
type fetchResult struct {
	snap problems.Snapshot
	err  error
}

// fakeFetcher replays results in order and repeats the last one.
type fakeFetcher struct {
	results []fetchResult
	calls   int
}

func (f *fakeFetcher) FetchAll(ctx context.Context) (problems.Snapshot, error) {
	f.calls++
	if err := ctx.Err(); err != nil {
		return problems.Snapshot{}, err
	}
	if len(f.results) == 0 {
		return problems.Snapshot{}, nil
	}
	i := f.calls - 1
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	r := f.results[i]
	return r.snap, r.err
}

func (f *fakeFetcher) push(snap problems.Snapshot) {
	f.results = append(f.results, fetchResult{snap: snap})
}

func (f *fakeFetcher) pushErr(err error) {
	f.results = append(f.results, fetchResult{err: err})
}

// fakeDisplay records every frame.
type fakeDisplay struct {
	frames []Frame
	err    error
}

func (d *fakeDisplay) Render(frame Frame) error {
	d.frames = append(d.frames, frame)
	return d.err
}

func (d *fakeDisplay) last() Frame {
	if len(d.frames) == 0 {
		return Frame{}
	}
	return d.frames[len(d.frames)-1]
}

// hosts returns the host names of all host frames in order.
func (d *fakeDisplay) hosts() []string {
	var names []string
	for _, f := range d.frames {
		if name := f.HostName(); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// banners returns the banner texts of all banner frames in order.
func (d *fakeDisplay) banners() []string {
	var texts []string
	for _, f := range d.frames {
		if b, ok := f.Banner(); ok {
			texts = append(texts, b.Text)
		}
	}
	return texts
}

// fakeAudio counts alerts.
type fakeAudio struct {
	plays       int
	nonBlocking []bool
	err         error
}

func (a *fakeAudio) PlayAlert(nonBlocking bool) error {
	a.plays++
	a.nonBlocking = append(a.nonBlocking, nonBlocking)
	return a.err
}

// fakePin is a settable level. Pull-up convention: true is idle.
type fakePin struct {
	level bool
	err   error
	reads int
}

func (p *fakePin) Level() (bool, error) {
	p.reads++
	return p.level, p.err
}

func (p *fakePin) press()   { p.level = false }
func (p *fakePin) release() { p.level = true }

var errBoom = errors.New("connection refused")

// snapshotOf builds a snapshot from host name -> event ids, in argument order.
func snapshotOf(hosts ...hostSpec) problems.Snapshot {
	snap := problems.Snapshot{FetchedAt: time.Unix(0, 0)}
	for _, h := range hosts {
		set := problems.HostProblemSet{Host: problems.Host{ID: "id-" + h.name, Name: h.name}}
		for _, id := range h.events {
			set.Problems = append(set.Problems, problems.Problem{EventID: id, Name: h.name + " problem", Severity: problems.Average})
		}
		snap.Sets = append(snap.Sets, set)
	}
	return snap
}

type hostSpec struct {
	name   string
	events []int64
}

func host(name string, events ...int64) hostSpec {
	return hostSpec{name: name, events: events}
}
