package config

import (
	"testing"

	"github.com/rileyhilliard/zbxboard/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a config that passes validation.
func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.API.URL = "https://zabbix.example/api_jsonrpc.php"
	cfg.API.AuthToken = "token"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "version too high",
			mutate:  func(c *Config) { c.Version = CurrentConfigVersion + 1 },
			wantErr: true,
			errMsg:  "from the future",
		},
		{
			name:    "missing url",
			mutate:  func(c *Config) { c.API.URL = "" },
			wantErr: true,
			errMsg:  "No Zabbix API URL",
		},
		{
			name:    "url without scheme",
			mutate:  func(c *Config) { c.API.URL = "zabbix.example/api_jsonrpc.php" },
			wantErr: true,
			errMsg:  "isn't a usable http(s) URL",
		},
		{
			name:    "unparseable url",
			mutate:  func(c *Config) { c.API.URL = "http://[::1" },
			wantErr: true,
			errMsg:  "isn't a usable http(s) URL",
		},
		{
			name:    "missing auth token",
			mutate:  func(c *Config) { c.API.AuthToken = "  " },
			wantErr: true,
			errMsg:  "auth token",
		},
		{
			name:    "severity above range",
			mutate:  func(c *Config) { c.API.Severities = []int{1, 6} },
			wantErr: true,
			errMsg:  "contains 6",
		},
		{
			name:    "negative severity",
			mutate:  func(c *Config) { c.API.Severities = []int{-1} },
			wantErr: true,
			errMsg:  "contains -1",
		},
		{
			name:   "empty severities means all",
			mutate: func(c *Config) { c.API.Severities = nil },
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *Config) { c.API.RateLimit = -1 },
			wantErr: true,
			errMsg:  "rate_limit",
		},
		{
			name:   "zero rate limit disables pacing",
			mutate: func(c *Config) { c.API.RateLimit = 0 },
		},
		{
			name:    "unknown display mode",
			mutate:  func(c *Config) { c.Display.Mode = "hdmi" },
			wantErr: true,
			errMsg:  "display.mode",
		},
		{
			name:    "unknown color mode",
			mutate:  func(c *Config) { c.Display.Color = "sometimes" },
			wantErr: true,
			errMsg:  "display.color",
		},
		{
			name:   "host icons",
			mutate: func(c *Config) { c.Display.HostIcons = map[string]string{"web1": "[W]"} },
		},
		{
			name:    "multi-line host icon",
			mutate:  func(c *Config) { c.Display.HostIcons = map[string]string{"web1": "a\nb"} },
			wantErr: true,
			errMsg:  "display.host_icons.web1",
		},
		{
			name:    "unknown audio mode",
			mutate:  func(c *Config) { c.Audio.Mode = "siren" },
			wantErr: true,
			errMsg:  "audio.mode",
		},
		{
			name:    "command audio without command",
			mutate:  func(c *Config) { c.Audio.Mode = AudioCommand },
			wantErr: true,
			errMsg:  "audio.command is empty",
		},
		{
			name: "command audio with command",
			mutate: func(c *Config) {
				c.Audio.Mode = AudioCommand
				c.Audio.Command = []string{"aplay", "alert.wav"}
			},
		},
		{
			name:    "unknown input mode",
			mutate:  func(c *Config) { c.Input.Mode = "gpio" },
			wantErr: true,
			errMsg:  "input.mode",
		},
		{
			name:    "modbus without endpoint",
			mutate:  func(c *Config) { c.Input.Mode = InputModbus },
			wantErr: true,
			errMsg:  "endpoint is empty",
		},
		{
			name: "modbus with endpoint",
			mutate: func(c *Config) {
				c.Input.Mode = InputModbus
				c.Input.Modbus.Endpoint = "10.0.0.5:502"
			},
		},
		{
			name: "modbus bad function",
			mutate: func(c *Config) {
				c.Input.Mode = InputModbus
				c.Input.Modbus.Endpoint = "10.0.0.5:502"
				c.Input.Modbus.Function = "holding"
			},
			wantErr: true,
			errMsg:  "function",
		},
		{
			name: "modbus shared address",
			mutate: func(c *Config) {
				c.Input.Mode = InputModbus
				c.Input.Modbus.Endpoint = "10.0.0.5:502"
				c.Input.Modbus.AdvanceAddress = c.Input.Modbus.RefreshAddress
			},
			wantErr: true,
			errMsg:  "both 0",
		},
		{
			name: "modbus address out of range",
			mutate: func(c *Config) {
				c.Input.Mode = InputModbus
				c.Input.Modbus.Endpoint = "10.0.0.5:502"
				c.Input.Modbus.AdvanceAddress = 70000
			},
			wantErr: true,
			errMsg:  "advance_address",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "chatty" },
			wantErr: true,
			errMsg:  "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig), "validation errors carry the CONFIG code")
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestValidate_SectionSuggestion(t *testing.T) {
	cfg := validConfig()
	cfg.Audio.Mode = "siren"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Check the 'audio' section")
}
