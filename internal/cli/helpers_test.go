package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// writeConfig writes a minimal valid config pointing at url and returns its path.
func writeConfig(t *testing.T, url string, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".zbxboard.yaml")
	content := fmt.Sprintf(`version: 1
api:
  url: %s
  auth_token: secret-token-1234
  rate_limit: 0
  severities: [1, 2, 3, 4, 5]
%s`, url, extra)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
