package errors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_RendersWhatWhyHow(t *testing.T) {
	cause := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	err := WrapWithCode(cause, ErrTransport,
		"Couldn't reach the Zabbix API",
		"Check api.url and that the server is up.")

	want := "✗ Couldn't reach the Zabbix API\n" +
		"\n  dial tcp: connection refused\n" +
		"\n  Check api.url and that the server is up.\n"
	assert.Equal(t, want, err.Error())
}

func TestError_OmitsEmptySections(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  New(ErrDisplay, "Terminal is too small for the board", ""),
			want: "✗ Terminal is too small for the board\n",
		},
		{
			name: "suggestion without cause",
			err:  New(ErrInput, "Button address out of range", "Use a coil address below 65536."),
			want: "✗ Button address out of range\n\n  Use a coil address below 65536.\n",
		},
		{
			name: "cause without suggestion",
			err:  Wrap(io.ErrUnexpectedEOF, "Zabbix closed the connection mid-response"),
			want: "✗ Zabbix closed the connection mid-response\n\n  unexpected EOF\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap_DefaultsToTransport(t *testing.T) {
	err := Wrap(context.DeadlineExceeded, "problem.get timed out")

	assert.Equal(t, ErrTransport, err.Code)
	assert.Empty(t, err.Suggestion)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestIsCode(t *testing.T) {
	modbus := WrapWithCode(errors.New("i/o timeout"), ErrInput,
		"Couldn't read the refresh button", "Check input.modbus.endpoint.")
	player := New(ErrAudio, "Alert player exited with status 1", "Check audio.command.")

	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{"direct match", modbus, ErrInput, true},
		{"other code", modbus, ErrAudio, false},
		{"wrapped with %w", fmt.Errorf("poll buttons: %w", player), ErrAudio, true},
		{"plain error", errors.New("boom"), ErrTransport, false},
		{"nil", nil, ErrConfig, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCode(tt.err, tt.code))
		})
	}
}

func TestIsCode_OutermostStructuredErrorWins(t *testing.T) {
	inner := New(ErrTransport, "Zabbix API returned an error", "")
	outer := WrapWithCode(inner, ErrConfig, "api.auth_token was rejected", "Create a new API token.")

	assert.True(t, IsCode(outer, ErrConfig))
	assert.False(t, IsCode(outer, ErrTransport))

	var got *Error
	require.True(t, errors.As(outer.Unwrap(), &got))
	assert.Equal(t, ErrTransport, got.Code)
}

func TestUnwrap_NilWithoutCause(t *testing.T) {
	assert.Nil(t, New(ErrConfig, "Unknown audio mode", "").Unwrap())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOK   bool
	}{
		{"exit error", NewExitError(1), 1, true},
		{"wrapped exit error", fmt.Errorf("check: %w", NewExitError(2)), 2, true},
		{"inside structured error", WrapWithCode(NewExitError(3), ErrTransport, "check failed", ""), 3, true},
		{"structured error", New(ErrTransport, "Zabbix API is unreachable", ""), 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := GetExitCode(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "exit code 1", NewExitError(1).Error())
}
