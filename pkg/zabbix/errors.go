package zabbix

import (
	"errors"
	"fmt"
)

// APIError is the JSON-RPC error object returned by the Zabbix API.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *APIError) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("api error %d: %s %s", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// TransportError is returned for every failed Call: network failures,
// non-2xx statuses, undecodable bodies and API error objects alike.
type TransportError struct {
	Method string
	// StatusCode is the HTTP status, or 0 when no response arrived.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("zabbix %s: http %d: %v", e.Method, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("zabbix %s: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsAPIError reports whether err carries a Zabbix API error object and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
