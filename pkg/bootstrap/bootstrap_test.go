package bootstrap

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	preerrors "thoreinstein.com/prepush/pkg/errors"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PREPUSH_INSTALL_SOURCE", "")
	t.Setenv("PREPUSH_INSTALL_PROJECT_DIR", "")
	t.Cleanup(Reset)
	return home
}

func TestInitConfig_DefaultsWithoutFiles(t *testing.T) {
	isolateHome(t)

	cfg, err := InitConfig(Options{Stderr: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, "pre-push", cfg.Install.HookName)
	assert.Equal(t, "0755", cfg.Install.FileMode)
}

func TestInitConfig_UserConfigFile(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".config", "prepush")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[install]\nfile_mode = \"0750\"\n"), 0o644))

	var stderr bytes.Buffer
	cfg, err := InitConfig(Options{Verbose: true, Stderr: &stderr})
	require.NoError(t, err)
	assert.Equal(t, "0750", cfg.Install.FileMode)
	assert.Contains(t, stderr.String(), "Using config file:")
}

func TestInitConfig_ExplicitFileMissing(t *testing.T) {
	isolateHome(t)

	_, err := InitConfig(Options{ConfigFile: filepath.Join(t.TempDir(), "nope.toml"), Stderr: &bytes.Buffer{}})
	require.Error(t, err)
	assert.True(t, preerrors.IsConfigError(err))
}

func TestInitConfig_NoHomeDirectory(t *testing.T) {
	isolateHome(t)
	t.Setenv("HOME", "")

	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, RepoConfigName), []byte("[install]\nhook_name = \"pre-commit\"\n"), 0o644))

	var stderr bytes.Buffer
	cfg, err := InitConfig(Options{FallbackProjectDir: project, Verbose: true, Stderr: &stderr})
	require.NoError(t, err)
	assert.Equal(t, "pre-commit", cfg.Install.HookName)
	assert.Equal(t, "0755", cfg.Install.FileMode)
	assert.Contains(t, stderr.String(), "Skipping user config")
}

func TestInitConfig_NoHomeDirectoryExplicitFile(t *testing.T) {
	isolateHome(t)
	t.Setenv("HOME", "")

	path := filepath.Join(t.TempDir(), "prepush.toml")
	require.NoError(t, os.WriteFile(path, []byte("[install]\nfile_mode = \"0700\"\n"), 0o644))

	cfg, err := InitConfig(Options{ConfigFile: path, Stderr: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, "0700", cfg.Install.FileMode)

	_, err = InitConfig(Options{ConfigFile: path + ".missing", Stderr: &bytes.Buffer{}})
	require.Error(t, err)
	assert.True(t, preerrors.IsConfigError(err))
}

func TestInitConfig_RepoLocalConfigMerged(t *testing.T) {
	isolateHome(t)
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, RepoConfigName), []byte("[install]\nsource = \"/opt/hooks/pre-push\"\n"), 0o644))

	var stderr bytes.Buffer
	cfg, err := InitConfig(Options{FallbackProjectDir: project, Verbose: true, Stderr: &stderr})
	require.NoError(t, err)
	assert.Equal(t, "/opt/hooks/pre-push", cfg.Install.Source)
	assert.Contains(t, stderr.String(), "Using repository config:")
}

func TestInitConfig_FlagsOverrideFiles(t *testing.T) {
	isolateHome(t)
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, RepoConfigName), []byte("[install]\nsource = \"/from/file\"\n"), 0o644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("project-dir", "", "")
	flags.String("source", "", "")
	require.NoError(t, flags.Parse([]string{"--project-dir", project, "--source", "/from/flag"}))

	cfg, err := InitConfig(Options{Flags: flags, Stderr: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, project, cfg.Install.ProjectDir)
	assert.Equal(t, "/from/flag", cfg.Install.Source)
}

func TestInitConfig_EnvOverride(t *testing.T) {
	isolateHome(t)
	t.Setenv("PREPUSH_INSTALL_SOURCE", "/from/env")

	cfg, err := InitConfig(Options{Stderr: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Install.Source)
}

func TestInitConfig_InvalidLocalValue(t *testing.T) {
	isolateHome(t)
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, RepoConfigName), []byte("[install]\nfile_mode = \"0644\"\n"), 0o644))

	_, err := InitConfig(Options{FallbackProjectDir: project, Stderr: &bytes.Buffer{}})
	require.Error(t, err)
	assert.True(t, preerrors.IsConfigError(err))
}

func TestLocateTool(t *testing.T) {
	root := t.TempDir()
	scripts := filepath.Join(root, "scripts")
	require.NoError(t, os.MkdirAll(scripts, 0o755))
	exe := filepath.Join(scripts, "prepush")
	require.NoError(t, os.WriteFile(exe, []byte{}, 0o755))

	// Resolve the temp dir itself, it may sit behind a symlink (macOS /var).
	realRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)

	loc, err := LocateTool(func() (string, error) { return exe, nil })
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(realRoot, "scripts"), loc.Dir)
	assert.Equal(t, realRoot, loc.ProjectDir)
}

func TestLocateTool_FollowsSymlink(t *testing.T) {
	root := t.TempDir()
	scripts := filepath.Join(root, "project", "scripts")
	require.NoError(t, os.MkdirAll(scripts, 0o755))
	exe := filepath.Join(scripts, "prepush")
	require.NoError(t, os.WriteFile(exe, []byte{}, 0o755))

	bin := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	link := filepath.Join(bin, "prepush")
	if err := os.Symlink(exe, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	realRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)

	loc, err := LocateTool(func() (string, error) { return link, nil })
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(realRoot, "project"), loc.ProjectDir)
}

func TestLocateTool_Error(t *testing.T) {
	_, err := LocateTool(func() (string, error) { return "", os.ErrPermission })
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	quiet := NewLogger(&buf, slog.LevelWarn, false)
	assert.False(t, quiet.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, quiet.Enabled(context.Background(), slog.LevelWarn))

	loud := NewLogger(&buf, slog.LevelWarn, true)
	assert.True(t, loud.Enabled(context.Background(), slog.LevelDebug))
}
