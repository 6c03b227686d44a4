package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	yaml "go.yaml.in/yaml/v3"

	preerrors "thoreinstein.com/prepush/pkg/errors"
)

// DefaultHookName is the git hook the installer writes.
const DefaultHookName = "pre-push"

// DefaultFileMode is the permission set on the installed hook: rwx for the
// owner, r-x for group and other, matching the hooks git itself ships.
const DefaultFileMode = "0755"

// Config represents the application configuration.
// Repository layout is derived from the filesystem, not configuration.
type Config struct {
	Install InstallConfig `mapstructure:"install" toml:"install" yaml:"install"`
	Log     LogConfig     `mapstructure:"log" toml:"log" yaml:"log"`
}

// InstallConfig holds hook installation settings
type InstallConfig struct {
	ProjectDir string `mapstructure:"project_dir" toml:"project_dir" yaml:"project_dir"` // Empty means parent of the installer's directory
	Source     string `mapstructure:"source" toml:"source" yaml:"source"`                // Empty means pre-push next to the installer
	HookName   string `mapstructure:"hook_name" toml:"hook_name" yaml:"hook_name"`
	FileMode   string `mapstructure:"file_mode" toml:"file_mode" yaml:"file_mode"` // Octal, e.g. "0755"
}

// LogConfig holds diagnostic logging settings
type LogConfig struct {
	Level string `mapstructure:"level" toml:"level" yaml:"level"` // "debug", "info", "warn", "error"
}

// Load loads the configuration from file and environment variables
func Load() (*Config, error) {
	config := &Config{}

	setDefaults()

	if err := viper.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := expandPaths(config); err != nil {
		return nil, errors.Wrap(err, "failed to expand paths")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return config, nil
}

// Validate validates the configuration and returns any validation errors.
func (c *Config) Validate() error {
	name := c.Install.HookName
	if name == "" {
		return preerrors.NewConfigError("install.hook_name", "must not be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return preerrors.NewConfigError("install.hook_name", "must be a plain file name, got "+strconv.Quote(name))
	}

	mode, err := c.Install.Mode()
	if err != nil {
		return err
	}
	if mode&0o100 == 0 {
		return preerrors.NewConfigError("install.file_mode", "must include the owner execute bit, got "+c.Install.FileMode)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}

// Mode parses FileMode as an octal permission set.
func (c InstallConfig) Mode() (os.FileMode, error) {
	v, err := strconv.ParseUint(c.FileMode, 8, 32)
	if err != nil {
		return 0, preerrors.NewConfigErrorWithCause("install.file_mode", "must be an octal permission such as 0755, got "+strconv.Quote(c.FileMode), err)
	}
	if v > 0o777 {
		return 0, preerrors.NewConfigError("install.file_mode", "must not set bits above 0777, got "+c.FileMode)
	}
	return os.FileMode(v), nil
}

// ParseLevel maps a configured level name to a slog level.
// An empty name means warn.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, preerrors.NewConfigError("log.level", "unknown level "+strconv.Quote(name))
	}
}

// Marshal renders the configuration in the given format ("toml" or "yaml").
func (c *Config) Marshal(format string) ([]byte, error) {
	switch format {
	case "", "toml":
		out, err := toml.Marshal(c)
		return out, errors.Wrap(err, "failed to encode config as toml")
	case "yaml", "yml":
		out, err := yaml.Marshal(c)
		return out, errors.Wrap(err, "failed to encode config as yaml")
	default:
		return nil, errors.Newf("unsupported format %q: must be one of: toml, yaml", format)
	}
}

// setDefaults sets default configuration values
func setDefaults() {
	// Install defaults (empty paths are resolved from the installer location)
	viper.SetDefault("install.project_dir", "")
	viper.SetDefault("install.source", "")
	viper.SetDefault("install.hook_name", DefaultHookName)
	viper.SetDefault("install.file_mode", DefaultFileMode)

	viper.SetDefault("log.level", "warn")
}

// expandPaths expands ~ in configured paths
func expandPaths(config *Config) error {
	var err error

	config.Install.ProjectDir, err = expandPath(config.Install.ProjectDir)
	if err != nil {
		return err
	}

	config.Install.Source, err = expandPath(config.Install.Source)
	if err != nil {
		return err
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, path[1:]), nil
}
