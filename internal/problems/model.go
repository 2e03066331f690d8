// Package problems holds the problem data model and the repository that
// fetches it from Zabbix.
package problems

import "time"

// Host is a monitored host with at least one active problem.
type Host struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Problem is one active problem event on a host.
type Problem struct {
	EventID  int64    `json:"eventid"`
	Name     string   `json:"name"`
	Severity Severity `json:"severity"`
}

// HostProblemSet is a host with its problems in fetch order.
type HostProblemSet struct {
	Host     Host      `json:"host"`
	Problems []Problem `json:"problems"`
}

// Snapshot is the result of one complete fetch. It is never mutated after
// FetchAll returns it.
type Snapshot struct {
	Sets      []HostProblemSet `json:"sets"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// Len returns the number of hosts.
func (s Snapshot) Len() int {
	return len(s.Sets)
}

// Empty reports whether no host has problems.
func (s Snapshot) Empty() bool {
	return len(s.Sets) == 0
}

// ProblemCount returns the total number of problems across hosts.
func (s Snapshot) ProblemCount() int {
	n := 0
	for _, set := range s.Sets {
		n += len(set.Problems)
	}
	return n
}

// MaxEventID returns the highest event id in the snapshot, and false if
// there are no problems.
func (s Snapshot) MaxEventID() (int64, bool) {
	var max int64
	found := false
	for _, set := range s.Sets {
		for _, p := range set.Problems {
			if !found || p.EventID > max {
				max = p.EventID
				found = true
			}
		}
	}
	return max, found
}
