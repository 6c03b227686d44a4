package cmd

import (
	"log/slog"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"thoreinstein.com/prepush/pkg/bootstrap"
	"thoreinstein.com/prepush/pkg/config"
	"thoreinstein.com/prepush/pkg/hook"
)

// installContext holds everything resolved from the environment at startup.
type installContext struct {
	cfg       *config.Config
	logger    *slog.Logger
	installer *hook.Installer
	request   hook.Request
}

// resolveInstallContext loads configuration and determines the project root
// and hook source. Flags and config win; otherwise both are derived from the
// installer's own location.
func resolveInstallContext(cmd *cobra.Command) (*installContext, error) {
	tool, toolErr := bootstrap.LocateTool(executablePath)

	fallback := ""
	if toolErr == nil {
		fallback = tool.ProjectDir
	}

	cfg, err := bootstrap.InitConfig(bootstrap.Options{
		ConfigFile:         cfgFile,
		FallbackProjectDir: fallback,
		Verbose:            verbose,
		Flags:              cmd.Root().PersistentFlags(),
		Stderr:             cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	// Validated by config.Load
	level, _ := config.ParseLevel(cfg.Log.Level)
	mode, _ := cfg.Install.Mode()
	logger := bootstrap.NewLogger(cmd.ErrOrStderr(), level, verbose)

	flags := cmd.Root().PersistentFlags()

	projectDir, err := resolvePath(cfg.Install.ProjectDir, flags.Changed("project-dir"), fallback)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid project path: %s", cfg.Install.ProjectDir)
	}
	if projectDir == "" {
		if toolErr != nil {
			return nil, toolErr
		}
		projectDir = tool.ProjectDir
	}

	source, err := resolvePath(cfg.Install.Source, flags.Changed("source"), projectDir)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hook source: %s", cfg.Install.Source)
	}
	if source == "" {
		if toolErr != nil {
			return nil, toolErr
		}
		source = filepath.Join(tool.Dir, config.DefaultHookName)
	}

	logger.Debug("install context", "project", projectDir, "source", source, "hook", cfg.Install.HookName, "mode", mode)

	return &installContext{
		cfg:    cfg,
		logger: logger,
		installer: hook.NewInstaller(afero.NewOsFs(),
			hook.WithLogger(logger),
			hook.WithFileMode(mode),
		),
		request: hook.Request{
			ProjectDir: projectDir,
			Source:     source,
			HookName:   cfg.Install.HookName,
		},
	}, nil
}

// resolvePath makes a configured path absolute. Flag values are relative to
// the working directory; values from config files and the environment are
// relative to base, the project they configure. Empty stays empty.
func resolvePath(path string, fromFlag bool, base string) (string, error) {
	switch {
	case path == "":
		return "", nil
	case filepath.IsAbs(path):
		return filepath.Clean(path), nil
	case !fromFlag && base != "":
		return filepath.Join(base, path), nil
	default:
		return filepath.Abs(path)
	}
}
