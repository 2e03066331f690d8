package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/rileyhilliard/zbxboard/internal/errors"
	"github.com/rileyhilliard/zbxboard/pkg/zabbix"
)

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound  = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid   = "CONFIG_INVALID"
	ErrCodeTransportFailed = "TRANSPORT_FAILED"
	ErrCodeAPIError        = "API_ERROR"
	ErrCodeInputFailed     = "INPUT_FAILED"
	ErrCodeUnknown         = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: true, Data: data})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: false, Error: ErrorToJSON(err)})
}

func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var zbErr *errors.Error
	if !stderrors.As(err, &zbErr) {
		return &JSONError{Code: ErrCodeUnknown, Message: err.Error()}
	}

	out := &JSONError{
		Code:       mapErrorCode(zbErr.Code, zbErr.Message),
		Message:    zbErr.Message,
		Suggestion: zbErr.Suggestion,
	}

	if apiErr, ok := zabbix.IsAPIError(err); ok {
		out.Code = ErrCodeAPIError
		out.Details = map[string]interface{}{
			"api_code": apiErr.Code,
			"message":  apiErr.Message,
			"data":     apiErr.Data,
		}
	} else if zbErr.Cause != nil {
		out.Details = map[string]interface{}{"cause": zbErr.Cause.Error()}
	}
	return out
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		msgLower := strings.ToLower(message)
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "couldn't find") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrTransport:
		return ErrCodeTransportFailed
	case errors.ErrInput:
		return ErrCodeInputFailed
	}
	return ErrCodeUnknown
}
