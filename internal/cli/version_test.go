package cli

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"dev", "dev"},
		{"1.2.3", "v1.2.3"},
		{"v1.2.3", "v1.2.3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatVersion(tt.in), "input %q", tt.in)
	}
}

func TestPrintVersion(t *testing.T) {
	origV, origC, origD := version, commit, date
	t.Cleanup(func() { SetVersionInfo(origV, origC, origD) })

	SetVersionInfo("1.4.0", "abc123", "2026-01-02")
	assert.Equal(t, "1.4.0", GetVersion())

	var buf bytes.Buffer
	printVersion(&buf, true)
	assert.Equal(t, "1.4.0\n", buf.String())

	buf.Reset()
	printVersion(&buf, false)
	out := buf.String()
	assert.Contains(t, out, "zbxboard v1.4.0")
	assert.Contains(t, out, "commit: abc123")
	assert.Contains(t, out, "built: 2026-01-02")
	assert.Contains(t, out, "go: "+runtime.Version())
}
