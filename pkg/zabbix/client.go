// Package zabbix is a minimal JSON-RPC 2.0 client for the Zabbix API.
package zabbix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/zbxboard/internal/logger"
	"golang.org/x/time/rate"
)

const (
	// ContentType is the media type Zabbix expects on API requests.
	ContentType = "application/json-rpc"

	// DefaultTimeout bounds a single round trip when Options.Timeout is zero.
	DefaultTimeout = 10 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 16 << 20
)

// unauthenticated lists methods Zabbix rejects when an auth token is sent.
var unauthenticated = map[string]bool{
	"apiinfo.version": true,
	"user.login":      true,
}

// Caller issues one JSON-RPC call and decodes the result into result.
// Both Client and test fakes satisfy it.
type Caller interface {
	Call(ctx context.Context, method string, params, result interface{}) error
}

// Options configures a Client.
type Options struct {
	// URL is the api_jsonrpc.php endpoint.
	URL string

	// AuthToken is sent with every authenticated call.
	AuthToken string

	// BearerAuth sends the token in an Authorization header instead of
	// the request body.
	BearerAuth bool

	// Timeout bounds each HTTP round trip. Zero means DefaultTimeout.
	Timeout time.Duration

	// RateLimit caps calls per second with a burst of one. Zero disables pacing.
	RateLimit float64

	// HTTPClient overrides the default client. Its Timeout wins over Timeout.
	HTTPClient *http.Client

	// Logger receives debug traces of each call. Nil means no logging.
	Logger logger.Logger

	// UserAgent is sent on every request.
	UserAgent string
}

// Client talks to one Zabbix API endpoint.
type Client struct {
	url        string
	token      string
	bearer     bool
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        logger.Logger
	nextID     atomic.Int64
}

// request is the JSON-RPC 2.0 request envelope.
type request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      int64       `json:"id"`
	Auth    string      `json:"auth,omitempty"`
}

// response is the JSON-RPC 2.0 response envelope.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *APIError       `json:"error"`
	ID      int64           `json:"id"`
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("zabbix API URL is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "zbxboard"
	}

	c := &Client{
		url:        opts.URL,
		token:      opts.AuthToken,
		bearer:     opts.BearerAuth,
		userAgent:  userAgent,
		httpClient: httpClient,
		log:        log,
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return c, nil
}

// Call issues method with params and decodes the result into result.
// result may be nil to discard it. Every failure is a *TransportError.
func (c *Client) Call(ctx context.Context, method string, params, result interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Method: method, Err: err}
		}
	}

	if params == nil {
		params = map[string]interface{}{}
	}

	req := request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}
	sendToken := c.token != "" && !unauthenticated[method]
	if sendToken && !c.bearer {
		req.Auth = c.token
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return &TransportError{Method: method, Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Method: method, Err: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", ContentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if sendToken && c.bearer {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &TransportError{Method: method, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Method: method, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	c.log.Debug("%s id=%d status=%d bytes=%d took=%s", method, req.ID, resp.StatusCode, len(body), time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Method: method, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var rpcResp response
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return &TransportError{Method: method, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if rpcResp.Error != nil {
		return &TransportError{Method: method, StatusCode: resp.StatusCode, Err: rpcResp.Error}
	}
	if rpcResp.ID != req.ID {
		return &TransportError{Method: method, StatusCode: resp.StatusCode, Err: fmt.Errorf("response id %d does not match request id %d", rpcResp.ID, req.ID)}
	}
	if rpcResp.Result == nil {
		return &TransportError{Method: method, StatusCode: resp.StatusCode, Err: fmt.Errorf("response has neither result nor error")}
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return &TransportError{Method: method, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode result: %w", err)}
	}
	return nil
}

// APIVersion returns the server's API version via apiinfo.version.
func (c *Client) APIVersion(ctx context.Context) (string, error) {
	var version string
	if err := c.Call(ctx, "apiinfo.version", nil, &version); err != nil {
		return "", err
	}
	return version, nil
}
