package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rileyhilliard/zbxboard/internal/errors"
	"github.com/rileyhilliard/zbxboard/pkg/zabbix"
	zbtesting "github.com/rileyhilliard/zbxboard/pkg/zabbix/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededServer(t *testing.T) *zbtesting.MockServer {
	t.Helper()
	m := zbtesting.NewMockServer()
	t.Cleanup(m.Close)
	m.AddHost("10084", "web1")
	m.AddProblem("10084", 101, "Disk space low", 2)
	m.AddProblem("10084", 102, "Nginx down", 3)
	m.AddHost("10085", "db1")
	m.AddProblem("10085", 103, "Replication lag", 3)
	return m
}

func TestCheckCommand_Table(t *testing.T) {
	m := seededServer(t)
	path := writeConfig(t, m.URL(), "")

	var out bytes.Buffer
	require.NoError(t, checkCommand(context.Background(), path, false, &out))

	text := out.String()
	assert.Contains(t, text, "Connecting to "+m.URL())
	assert.Contains(t, text, "Fetching problems")
	assert.Contains(t, text, "web1")
	assert.Contains(t, text, "Nginx down")
	assert.Contains(t, text, "db1")
	assert.Contains(t, text, "2 hosts, 3 problems, Zabbix API 7.0.0, newest event 103")
}

func TestCheckCommand_JSON(t *testing.T) {
	m := seededServer(t)
	path := writeConfig(t, m.URL(), "")

	var out bytes.Buffer
	require.NoError(t, checkCommand(context.Background(), path, true, &out))

	var env struct {
		Success bool        `json:"success"`
		Data    CheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &env), out.String())
	assert.True(t, env.Success)
	assert.Equal(t, "7.0.0", env.Data.APIVersion)
	assert.Equal(t, path, env.Data.ConfigPath)
	assert.Equal(t, 2, env.Data.HostCount)
	assert.Equal(t, 3, env.Data.ProblemCount)
	assert.Equal(t, int64(103), env.Data.NewestEventID)
	require.Len(t, env.Data.Snapshot.Sets, 2)
	assert.Equal(t, "web1", env.Data.Snapshot.Sets[0].Host.Name)
	assert.Equal(t, int64(102), env.Data.Snapshot.Sets[0].Problems[1].EventID)
}

func TestCheckCommand_TransportError(t *testing.T) {
	m := zbtesting.NewMockServer()
	path := writeConfig(t, m.URL(), "")
	m.Close()

	var out bytes.Buffer
	err := checkCommand(context.Background(), path, false, &out)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTransport))
	assert.Contains(t, out.String(), "Connecting to")
}

func TestCheckCommand_JSONAPIError(t *testing.T) {
	m := seededServer(t)
	m.FailMethod("host.get", &zabbix.APIError{Code: -32602, Message: "Invalid params.", Data: "Not authorized."})
	path := writeConfig(t, m.URL(), "")

	var out bytes.Buffer
	err := checkCommand(context.Background(), path, true, &out)
	code, ok := errors.GetExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 1, code)

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(out.Bytes(), &env), out.String())
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeAPIError, env.Error.Code)
	details, ok := env.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Not authorized.", details["data"])
}

func TestCheckCommand_SeverityFilter(t *testing.T) {
	m := seededServer(t)
	path := writeConfig(t, m.URL(), "")

	var out bytes.Buffer
	require.NoError(t, checkCommand(context.Background(), path, true, &out))

	var found bool
	for _, c := range m.Calls() {
		if c.Method == "host.get" {
			found = true
			assert.Contains(t, c.Params, "severities")
			assert.Equal(t, "secret-token-1234", c.Auth)
		}
	}
	assert.True(t, found)
}
