package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Display modes.
const (
	DisplayAuto = "auto"
	DisplayTUI  = "tui"
	DisplayLog  = "log"
)

// Audio modes.
const (
	AudioBell    = "bell"
	AudioCommand = "command"
	AudioNone    = "none"
)

// Input modes.
const (
	InputKeyboard = "keyboard"
	InputModbus   = "modbus"
	InputNone     = "none"
)

// Modbus read functions.
const (
	ModbusDiscrete = "discrete"
	ModbusCoil     = "coil"
)

// Config represents the complete .zbxboard.yaml configuration file.
type Config struct {
	Version int           `yaml:"version" mapstructure:"version"`
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Display DisplayConfig `yaml:"display" mapstructure:"display"`
	Audio   AudioConfig   `yaml:"audio" mapstructure:"audio"`
	Input   InputConfig   `yaml:"input" mapstructure:"input"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// APIConfig describes how to reach the Zabbix JSON-RPC endpoint.
type APIConfig struct {
	// URL is the full api_jsonrpc.php endpoint.
	URL string `yaml:"url" mapstructure:"url"`

	// AuthToken is an API token or session id.
	// Usually supplied via ZBXBOARD_API_AUTH_TOKEN rather than the file.
	AuthToken string `yaml:"auth_token" mapstructure:"auth_token"`

	// BearerAuth sends the token as an Authorization header instead of
	// the request body "auth" field (Zabbix 6.4+).
	BearerAuth bool `yaml:"bearer_auth" mapstructure:"bearer_auth"`

	// Timeout bounds a single HTTP round trip.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// RateLimit caps outgoing calls per second. 0 disables pacing.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`

	// Severities filters hosts and problems. Empty means all six.
	Severities []int `yaml:"severities" mapstructure:"severities"`
}

// DisplayConfig selects and tunes the display adapter.
type DisplayConfig struct {
	// Mode: "auto", "tui", or "log".
	// "auto" picks the TUI when stdout is a terminal.
	Mode string `yaml:"mode" mapstructure:"mode"`

	// Color mode: "auto", "always", or "never".
	Color string `yaml:"color" mapstructure:"color"`

	// Title shown in the TUI header.
	Title string `yaml:"title" mapstructure:"title"`

	// HostIcons maps a host name to a short glyph drawn beside it.
	// Names match case-insensitively; hosts without an entry get none.
	HostIcons map[string]string `yaml:"host_icons,omitempty" mapstructure:"host_icons"`
}

// AudioConfig selects the alert player.
type AudioConfig struct {
	// Mode: "bell", "command", or "none".
	Mode string `yaml:"mode" mapstructure:"mode"`

	// Command is the argv run for each alert in "command" mode.
	Command []string `yaml:"command" mapstructure:"command"`
}

// InputConfig selects where the two buttons come from.
type InputConfig struct {
	// Mode: "keyboard", "modbus", or "none".
	Mode string `yaml:"mode" mapstructure:"mode"`

	// Hold is how long a key press keeps its virtual pin asserted.
	Hold time.Duration `yaml:"hold" mapstructure:"hold"`

	Modbus ModbusConfig `yaml:"modbus" mapstructure:"modbus"`
}

// ModbusConfig points at a Modbus TCP I/O module wired to the buttons.
type ModbusConfig struct {
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	SlaveID        int           `yaml:"slave_id" mapstructure:"slave_id"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Function       string        `yaml:"function" mapstructure:"function"`
	RefreshAddress int           `yaml:"refresh_address" mapstructure:"refresh_address"`
	AdvanceAddress int           `yaml:"advance_address" mapstructure:"advance_address"`
}

// LogConfig controls structured log output.
type LogConfig struct {
	// Level: "debug", "info", "warn", or "error".
	Level string `yaml:"level" mapstructure:"level"`

	// File receives log lines. Empty means stderr.
	File string `yaml:"file" mapstructure:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		API: APIConfig{
			Timeout:    10 * time.Second,
			RateLimit:  5,
			Severities: []int{1, 2, 3},
		},
		Display: DisplayConfig{
			Mode:  DisplayAuto,
			Color: "auto",
			Title: "ZABBIX PROBLEMS",
		},
		Audio: AudioConfig{
			Mode:    AudioBell,
			Command: []string{},
		},
		Input: InputConfig{
			Mode: InputKeyboard,
			Hold: 250 * time.Millisecond,
			Modbus: ModbusConfig{
				SlaveID:        1,
				Timeout:        40 * time.Millisecond,
				Function:       ModbusDiscrete,
				RefreshAddress: 0,
				AdvanceAddress: 1,
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// EffectiveSeverities returns the severity filter sent to the API.
// An empty filter expands to every severity.
func (c APIConfig) EffectiveSeverities() []int {
	if len(c.Severities) == 0 {
		return []int{0, 1, 2, 3, 4, 5}
	}
	out := make([]int, len(c.Severities))
	copy(out, c.Severities)
	return out
}
