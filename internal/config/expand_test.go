package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	t.Setenv("USER", "operator")
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "HOME expands",
			input:    "${HOME}/logs/zbxboard.log",
			expected: home + "/logs/zbxboard.log",
		},
		{
			name:     "USER expands",
			input:    "/var/log/${USER}.log",
			expected: "/var/log/operator.log",
		},
		{
			name:     "tilde unchanged",
			input:    "~/sounds/alert.wav",
			expected: "~/sounds/alert.wav",
		},
		{
			name:     "absolute path unchanged",
			input:    "/usr/share/sounds/alert.wav",
			expected: "/usr/share/sounds/alert.wav",
		},
		{
			name:     "multiple variables",
			input:    "${HOME}/${USER}",
			expected: home + "/operator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Expand(tt.input))
		})
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "tilde only", input: "~", expected: home},
		{name: "tilde path", input: "~/sounds/alert.wav", expected: filepath.Join(home, "sounds/alert.wav")},
		{name: "other user unsupported", input: "~bob/x", expected: "~bob/x"},
		{name: "absolute", input: "/tmp/x", expected: "/tmp/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandTilde(tt.input))
		})
	}
}

func TestGetUser_Fallbacks(t *testing.T) {
	t.Setenv("USER", "")
	t.Setenv("LOGNAME", "fallback")
	assert.Equal(t, "fallback", getUser())
}
