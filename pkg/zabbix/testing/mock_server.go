package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/rileyhilliard/zbxboard/pkg/zabbix"
)

// Host is a host known to the mock server.
type Host struct {
	ID   string
	Name string
}

// Problem is an active problem on a mock host. Fields are strings because
// that's how Zabbix serializes them.
type Problem struct {
	EventID  string
	Name     string
	Severity string
}

// Call records one request the mock server received.
type Call struct {
	Method        string
	Params        map[string]interface{}
	Auth          string
	Authorization string
	ContentType   string
	ID            int64
}

// MockServer is an httptest-backed fake of the Zabbix JSON-RPC endpoint.
// It answers host.get, problem.get and apiinfo.version from in-memory state.
type MockServer struct {
	*httptest.Server

	mu       sync.Mutex
	hosts    []Host
	problems map[string][]Problem
	failures map[string]*zabbix.APIError
	status   int
	raw      string
	calls    []Call
	version  string
}

// NewMockServer starts a mock Zabbix API. Close it when done.
func NewMockServer() *MockServer {
	m := &MockServer{
		problems: make(map[string][]Problem),
		failures: make(map[string]*zabbix.APIError),
		version:  "7.0.0",
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// URL returns the api_jsonrpc.php endpoint of the server.
func (m *MockServer) URL() string {
	return m.Server.URL + "/api_jsonrpc.php"
}

// AddHost appends a host; hosts are returned in insertion order.
func (m *MockServer) AddHost(id, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hosts = append(m.hosts, Host{ID: id, Name: name})
}

// AddProblem appends an active problem to hostID.
func (m *MockServer) AddProblem(hostID string, eventID int64, name string, severity int) {
	m.AddRawProblem(hostID, Problem{EventID: strconv.FormatInt(eventID, 10), Name: name, Severity: strconv.Itoa(severity)})
}

// AddRawProblem appends a problem with arbitrary string fields.
func (m *MockServer) AddRawProblem(hostID string, p Problem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.problems[hostID] = append(m.problems[hostID], p)
}

// Reset drops all hosts and problems.
func (m *MockServer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hosts = nil
	m.problems = make(map[string][]Problem)
}

// FailMethod makes method answer with an API error object.
// A nil apiErr clears the failure.
func (m *MockServer) FailMethod(method string, apiErr *zabbix.APIError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if apiErr == nil {
		delete(m.failures, method)
		return
	}
	m.failures[method] = apiErr
}

// SetStatus forces every response to the given HTTP status. 0 restores normal behavior.
func (m *MockServer) SetStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// SetRawResponse makes every response the given body verbatim. "" restores normal behavior.
func (m *MockServer) SetRawResponse(body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = body
}

// Calls returns a copy of the received requests.
func (m *MockServer) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times method was called.
func (m *MockServer) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

type rpcRequest struct {
	JSONRPC string                 `json:"jsonrpc"`
	Method  string                 `json:"method"`
	Params  map[string]interface{} `json:"params"`
	ID      int64                  `json:"id"`
	Auth    string                 `json:"auth"`
}

func (m *MockServer) handle(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{
		Method:        req.Method,
		Params:        req.Params,
		Auth:          req.Auth,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		ID:            req.ID,
	})

	if m.status != 0 {
		http.Error(w, http.StatusText(m.status), m.status)
		return
	}
	if m.raw != "" {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, m.raw)
		return
	}

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if apiErr, ok := m.failures[req.Method]; ok {
		resp["error"] = apiErr
	} else {
		result, apiErr := m.dispatch(req)
		if apiErr != nil {
			resp["error"] = apiErr
		} else {
			resp["result"] = result
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (m *MockServer) dispatch(req rpcRequest) (interface{}, *zabbix.APIError) {
	switch req.Method {
	case "apiinfo.version":
		return m.version, nil
	case "host.get":
		severities := intSet(req.Params["severities"])
		out := []map[string]string{}
		for _, h := range m.hosts {
			if len(severities) > 0 && !m.hasSeverity(h.ID, severities) {
				continue
			}
			out = append(out, map[string]string{"hostid": h.ID, "name": h.Name})
		}
		return out, nil
	case "problem.get":
		severities := intSet(req.Params["severities"])
		hostIDs := stringSet(req.Params["hostids"])
		out := []map[string]string{}
		for _, h := range m.hosts {
			if len(hostIDs) > 0 && !hostIDs[h.ID] {
				continue
			}
			for _, p := range m.problems[h.ID] {
				if len(severities) > 0 && !matchesSeverity(p, severities) {
					continue
				}
				out = append(out, map[string]string{"eventid": p.EventID, "name": p.Name, "severity": p.Severity})
			}
		}
		return out, nil
	default:
		return nil, &zabbix.APIError{Code: -32601, Message: "Method not found.", Data: "Incorrect API \"" + req.Method + "\"."}
	}
}

func (m *MockServer) hasSeverity(hostID string, severities map[int]bool) bool {
	for _, p := range m.problems[hostID] {
		if matchesSeverity(p, severities) {
			return true
		}
	}
	return false
}

func matchesSeverity(p Problem, severities map[int]bool) bool {
	s, err := strconv.Atoi(p.Severity)
	if err != nil {
		// Unparseable severities always pass so tests can exercise them.
		return true
	}
	return severities[s]
}

// intSet reads a JSON number array param.
func intSet(v interface{}) map[int]bool {
	set := make(map[int]bool)
	items, ok := v.([]interface{})
	if !ok {
		return set
	}
	for _, item := range items {
		if f, ok := item.(float64); ok {
			set[int(f)] = true
		}
	}
	return set
}

// stringSet reads a hostids param, which Zabbix accepts as a string or array.
func stringSet(v interface{}) map[string]bool {
	set := make(map[string]bool)
	switch t := v.(type) {
	case string:
		set[t] = true
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok {
				set[s] = true
			}
		}
	}
	return set
}
