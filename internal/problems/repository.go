package problems

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rileyhilliard/zbxboard/internal/errors"
	"github.com/rileyhilliard/zbxboard/internal/logger"
	"github.com/rileyhilliard/zbxboard/pkg/zabbix"
)

// DefaultSeverities is the filter used when none is configured:
// Information, Warning and Average.
var DefaultSeverities = []int{1, 2, 3}

const transportSuggestion = "Check api.url and api.auth_token, then run: zbxboard check"

// RepositoryOptions configures a Repository.
type RepositoryOptions struct {
	// Severities filters hosts and problems. Empty means all six.
	Severities []int

	// Now stamps snapshots. Nil means time.Now.
	Now func() time.Time

	// Logger receives debug traces. Nil means no logging.
	Logger logger.Logger
}

// Repository fetches problem snapshots through a JSON-RPC caller.
type Repository struct {
	caller     zabbix.Caller
	severities []int
	now        func() time.Time
	log        logger.Logger
	lastFetch  time.Time
}

// NewRepository builds a Repository over caller.
func NewRepository(caller zabbix.Caller, opts RepositoryOptions) *Repository {
	severities := opts.Severities
	if len(severities) == 0 {
		severities = []int{0, 1, 2, 3, 4, 5}
	} else {
		severities = append([]int(nil), severities...)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	return &Repository{
		caller:     caller,
		severities: severities,
		now:        now,
		log:        log,
	}
}

// Severities returns the filter sent with every call.
func (r *Repository) Severities() []int {
	return append([]int(nil), r.severities...)
}

// LastFetch returns when the last successful FetchAll completed, or the
// zero time before the first.
func (r *Repository) LastFetch() time.Time {
	return r.lastFetch
}

// hostRecord is one row of host.get.
type hostRecord struct {
	HostID lenientString `json:"hostid"`
	Name   lenientString `json:"name"`
}

// problemRecord is one row of problem.get.
type problemRecord struct {
	EventID  lenientString `json:"eventid"`
	Name     lenientString `json:"name"`
	Severity lenientString `json:"severity"`
}

// FetchAll lists hosts with problems in the severity filter, then each
// host's problems, and assembles a Snapshot in host order. Any failure
// aborts the whole fetch with a TRANSPORT error; nothing is retried here.
func (r *Repository) FetchAll(ctx context.Context) (Snapshot, error) {
	var hosts []hostRecord
	err := r.caller.Call(ctx, "host.get", map[string]interface{}{
		"output":     []string{"name"},
		"severities": r.severities,
	}, &hosts)
	if err != nil {
		return Snapshot{}, errors.WrapWithCode(err, errors.ErrTransport,
			"Couldn't list hosts with problems", transportSuggestion)
	}

	sets := make([]HostProblemSet, 0, len(hosts))
	for i, h := range hosts {
		if h.HostID == "" {
			return Snapshot{}, errors.WrapWithCode(
				fmt.Errorf("host.get row %d has no hostid", i),
				errors.ErrTransport, "Zabbix returned a malformed host list", transportSuggestion)
		}
		host := Host{ID: string(h.HostID), Name: string(h.Name)}

		problems, err := r.fetchProblems(ctx, host)
		if err != nil {
			return Snapshot{}, err
		}
		sets = append(sets, HostProblemSet{Host: host, Problems: problems})
	}

	snap := Snapshot{Sets: sets, FetchedAt: r.now()}
	r.lastFetch = snap.FetchedAt
	r.log.Debug("fetched %d hosts, %d problems", snap.Len(), snap.ProblemCount())
	return snap, nil
}

func (r *Repository) fetchProblems(ctx context.Context, host Host) ([]Problem, error) {
	var rows []problemRecord
	err := r.caller.Call(ctx, "problem.get", map[string]interface{}{
		"hostids":    host.ID,
		"output":     []string{"eventid", "name", "severity"},
		"severities": r.severities,
	}, &rows)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Couldn't list problems for %s", host.Name), transportSuggestion)
	}

	problems := make([]Problem, 0, len(rows))
	for _, row := range rows {
		eventID, err := strconv.ParseInt(string(row.EventID), 10, 64)
		if err != nil {
			return nil, errors.WrapWithCode(
				fmt.Errorf("problem.get for host %s: eventid %q: %w", host.ID, row.EventID, err),
				errors.ErrTransport, "Zabbix returned a malformed problem list", transportSuggestion)
		}
		problems = append(problems, Problem{
			EventID:  eventID,
			Name:     string(row.Name),
			Severity: ParseSeverity(string(row.Severity)),
		})
	}
	return problems, nil
}

// lenientString accepts a JSON string, number, or null. Zabbix sends ids
// and severities as strings, but some proxies re-encode them as numbers.
type lenientString string

func (s *lenientString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = lenientString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = lenientString(num.String())
	return nil
}
