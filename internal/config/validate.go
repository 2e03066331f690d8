package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rileyhilliard/zbxboard/internal/errors"
)

const releasesURL = "https://github.com/rileyhilliard/zbxboard/releases"

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	// Check version
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but zbxboard only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest zbxboard: "+releasesURL)
	}

	if err := validateAPI(cfg.API); err != nil {
		return err
	}

	if err := validateDisplay(cfg.Display); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'display' section in your .zbxboard.yaml.")
	}

	if err := validateAudio(cfg.Audio); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'audio' section in your .zbxboard.yaml.")
	}

	if err := validateInput(cfg.Input); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'input' section in your .zbxboard.yaml.")
	}

	if err := validateLog(cfg.Log); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'log' section in your .zbxboard.yaml.")
	}

	return nil
}

// validateAPI checks the endpoint, credentials and filter.
func validateAPI(api APIConfig) error {
	if strings.TrimSpace(api.URL) == "" {
		return errors.New(errors.ErrConfig,
			"No Zabbix API URL configured",
			"Set api.url, e.g. http://zabbix.example/api_jsonrpc.php, or run 'zbxboard init'.")
	}

	u, err := url.Parse(api.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("api.url '%s' isn't a usable http(s) URL", api.URL),
			"Use the full endpoint, e.g. https://zabbix.example/api_jsonrpc.php")
	}

	if strings.TrimSpace(api.AuthToken) == "" {
		return errors.New(errors.ErrConfig,
			"No Zabbix auth token configured",
			"Set api.auth_token or export ZBXBOARD_API_AUTH_TOKEN.")
	}

	for _, s := range api.Severities {
		if s < 0 || s > 5 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("api.severities contains %d, but Zabbix severities run 0 to 5", s),
				"Use values between 0 (not classified) and 5 (disaster).")
		}
	}

	if api.RateLimit < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("api.rate_limit can't be negative (got %g)", api.RateLimit),
			"Use 0 to disable pacing, or a positive number of requests per second.")
	}

	if api.Timeout < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("api.timeout can't be negative (got %s)", api.Timeout),
			"Use a duration like 10s.")
	}

	return nil
}

func validateDisplay(d DisplayConfig) error {
	switch d.Mode {
	case "", DisplayAuto, DisplayTUI, DisplayLog:
	default:
		return fmt.Errorf("display.mode must be 'auto', 'tui', or 'log', got '%s'", d.Mode)
	}

	switch d.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("display.color must be 'auto', 'always', or 'never', got '%s'", d.Color)
	}

	for host, icon := range d.HostIcons {
		if strings.ContainsAny(icon, "\r\n") {
			return fmt.Errorf("display.host_icons.%s must fit on one line", host)
		}
	}

	return nil
}

func validateAudio(a AudioConfig) error {
	switch a.Mode {
	case "", AudioBell, AudioNone:
	case AudioCommand:
		if len(a.Command) == 0 || strings.TrimSpace(a.Command[0]) == "" {
			return fmt.Errorf("audio.mode is 'command' but audio.command is empty")
		}
	default:
		return fmt.Errorf("audio.mode must be 'bell', 'command', or 'none', got '%s'", a.Mode)
	}
	return nil
}

func validateInput(in InputConfig) error {
	switch in.Mode {
	case "", InputKeyboard, InputNone:
	case InputModbus:
		if err := validateModbus(in.Modbus); err != nil {
			return err
		}
	default:
		return fmt.Errorf("input.mode must be 'keyboard', 'modbus', or 'none', got '%s'", in.Mode)
	}

	if in.Hold < 0 {
		return fmt.Errorf("input.hold can't be negative (got %s)", in.Hold)
	}
	return nil
}

func validateModbus(m ModbusConfig) error {
	if strings.TrimSpace(m.Endpoint) == "" {
		return fmt.Errorf("input.mode is 'modbus' but input.modbus.endpoint is empty")
	}

	switch m.Function {
	case "", ModbusDiscrete, ModbusCoil:
	default:
		return fmt.Errorf("input.modbus.function must be 'discrete' or 'coil', got '%s'", m.Function)
	}

	if m.SlaveID < 0 || m.SlaveID > 247 {
		return fmt.Errorf("input.modbus.slave_id must be between 0 and 247, got %d", m.SlaveID)
	}

	for name, addr := range map[string]int{
		"refresh_address": m.RefreshAddress,
		"advance_address": m.AdvanceAddress,
	} {
		if addr < 0 || addr > 0xFFFF {
			return fmt.Errorf("input.modbus.%s must be between 0 and 65535, got %d", name, addr)
		}
	}

	if m.RefreshAddress == m.AdvanceAddress {
		return fmt.Errorf("input.modbus.refresh_address and advance_address are both %d", m.RefreshAddress)
	}

	return nil
}

func validateLog(l LogConfig) error {
	switch strings.ToLower(l.Level) {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log.level must be 'debug', 'info', 'warn', or 'error', got '%s'", l.Level)
	}
}
