package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/zbxboard/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".zbxboard.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/zbxboard"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. ZBXBOARD_API_AUTH_TOKEN.
	EnvPrefix = "ZBXBOARD"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'zbxboard init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .zbxboard.yaml in current directory
// 3. ~/.config/zbxboard/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if globalConfig := GlobalConfigPath(); globalConfig != "" {
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// GlobalConfigPath returns ~/.config/zbxboard/config.yaml, or "" when the
// home directory is unknown.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// LoadOrDefault loads config from the found path, or returns defaults
// (with environment overrides applied) if no file exists.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "environment")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

// newViper returns a viper instance with defaults and env overrides bound.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	cfg.Log.File = ExpandTilde(Expand(cfg.Log.File))
	for i, arg := range cfg.Audio.Command {
		cfg.Audio.Command[i] = ExpandTilde(Expand(arg))
	}

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// are absent from the file.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("version", d.Version)
	v.SetDefault("api.url", d.API.URL)
	v.SetDefault("api.auth_token", d.API.AuthToken)
	v.SetDefault("api.bearer_auth", d.API.BearerAuth)
	v.SetDefault("api.timeout", d.API.Timeout.String())
	v.SetDefault("api.rate_limit", d.API.RateLimit)
	v.SetDefault("api.severities", d.API.Severities)
	v.SetDefault("display.mode", d.Display.Mode)
	v.SetDefault("display.color", d.Display.Color)
	v.SetDefault("display.title", d.Display.Title)
	v.SetDefault("audio.mode", d.Audio.Mode)
	v.SetDefault("audio.command", d.Audio.Command)
	v.SetDefault("input.mode", d.Input.Mode)
	v.SetDefault("input.hold", d.Input.Hold.String())
	v.SetDefault("input.modbus.endpoint", d.Input.Modbus.Endpoint)
	v.SetDefault("input.modbus.slave_id", d.Input.Modbus.SlaveID)
	v.SetDefault("input.modbus.timeout", d.Input.Modbus.Timeout.String())
	v.SetDefault("input.modbus.function", d.Input.Modbus.Function)
	v.SetDefault("input.modbus.refresh_address", d.Input.Modbus.RefreshAddress)
	v.SetDefault("input.modbus.advance_address", d.Input.Modbus.AdvanceAddress)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}
