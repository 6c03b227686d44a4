package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"thoreinstein.com/prepush/pkg/config"
	preerrors "thoreinstein.com/prepush/pkg/errors"
)

// RepoConfigName is the repository-local config file, read from the project root.
const RepoConfigName = ".prepush.toml"

// flagBindings maps config keys to the command-line flags that override them.
var flagBindings = map[string]string{
	"install.project_dir": "project-dir",
	"install.source":      "source",
}

// Options controls InitConfig.
type Options struct {
	ConfigFile         string         // Explicit config file; empty means $HOME/.config/prepush/config.toml
	FallbackProjectDir string         // Where .prepush.toml is looked for when no project dir is configured
	Verbose            bool           // Report which config files were used
	Flags              *pflag.FlagSet // Flags named in flagBindings are bound onto their config keys
	Stderr             io.Writer
}

// InitConfig reads in config file and ENV variables if set, binds command
// flags, merges the repository-local config and returns the loaded config.
func InitConfig(opts Options) (*config.Config, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	// Reset Viper state to avoid carrying over stale settings from previous loads.
	viper.Reset()

	// The user config file is optional; without a home directory there is
	// nothing to read.
	readUserConfig := true
	if opts.ConfigFile != "" {
		viper.SetConfigFile(opts.ConfigFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "prepush"))
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	} else {
		readUserConfig = false
		if opts.Verbose {
			fmt.Fprintf(stderr, "Skipping user config: %v\n", err)
		}
	}

	viper.SetEnvPrefix("PREPUSH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if opts.Flags != nil {
		for key, name := range flagBindings {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := viper.BindPFlag(key, flag); err != nil {
				return nil, errors.Wrapf(err, "failed to bind --%s", name)
			}
		}
	}

	if readUserConfig {
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if opts.ConfigFile != "" || !errors.As(err, &notFound) {
				return nil, preerrors.NewConfigErrorWithCause("", "failed to read config file", err)
			}
		} else if opts.Verbose {
			fmt.Fprintln(stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}

	projectDir := viper.GetString("install.project_dir")
	if projectDir == "" {
		projectDir = opts.FallbackProjectDir
	}
	if projectDir != "" {
		LoadRepoLocalConfig(projectDir, opts.Verbose, stderr)
	}

	return config.Load()
}

// LoadRepoLocalConfig merges .prepush.toml from projectDir if present.
func LoadRepoLocalConfig(projectDir string, verbose bool, stderr io.Writer) {
	configPath := filepath.Join(projectDir, RepoConfigName)
	if _, err := os.Stat(configPath); err != nil {
		return
	}

	localViper := viper.New()
	localViper.SetConfigFile(configPath)

	if err := localViper.ReadInConfig(); err != nil {
		fmt.Fprintf(stderr, "Warning: could not read local config %s: %v\n", configPath, err)
		return
	}

	if verbose {
		fmt.Fprintf(stderr, "Using repository config: %s\n", configPath)
	}

	if err := viper.MergeConfigMap(localViper.AllSettings()); err != nil {
		fmt.Fprintf(stderr, "Warning: could not merge local config: %v\n", err)
	}
}

// ToolLocation is where the running installer lives.
type ToolLocation struct {
	Dir        string // Directory containing the installer
	ProjectDir string // Parent of Dir
}

// LocateTool derives the installer's directory and the project root from the
// executable path, following symlinks.
func LocateTool(executable func() (string, error)) (*ToolLocation, error) {
	exe, err := executable()
	if err != nil {
		return nil, errors.Wrap(err, "failed to determine installer location")
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	abs, err := filepath.Abs(exe)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to make %s absolute", exe)
	}

	dir := filepath.Dir(abs)
	return &ToolLocation{Dir: dir, ProjectDir: filepath.Dir(dir)}, nil
}

// NewLogger builds the diagnostic logger. verbose forces debug level.
func NewLogger(w io.Writer, level slog.Level, verbose bool) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Reset clears viper state.
func Reset() {
	viper.Reset()
}
