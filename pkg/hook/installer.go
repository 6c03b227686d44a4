// Package hook installs the bundled pre-push script into a repository's git
// hooks directory.
package hook

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"thoreinstein.com/prepush/pkg/config"
	preerrors "thoreinstein.com/prepush/pkg/errors"
	"thoreinstein.com/prepush/pkg/git"
)

// hooksDirPerm is used when the hooks directory has to be created.
const hooksDirPerm os.FileMode = 0o755

// Installer copies a hook script into place and makes it executable.
type Installer struct {
	fs     afero.Fs
	logger *slog.Logger
	mode   os.FileMode
}

// Option configures an Installer.
type Option func(*Installer)

// WithLogger sets the logger used for step-by-step diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Installer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithFileMode sets the permission bits applied to the installed hook.
func WithFileMode(mode os.FileMode) Option {
	return func(i *Installer) {
		i.mode = mode
	}
}

// NewInstaller creates an Installer operating on fsys.
func NewInstaller(fsys afero.Fs, opts ...Option) *Installer {
	i := &Installer{
		fs:     fsys,
		logger: slog.Default(),
		mode:   0o755,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Request names the project to install into and the script to install.
type Request struct {
	ProjectDir string // Repository root containing the .git entry
	Source     string // Hook script to copy
	HookName   string // Defaults to pre-push
}

func (r Request) hookName() string {
	if r.HookName == "" {
		return config.DefaultHookName
	}
	return r.HookName
}

// Result describes a completed installation.
type Result struct {
	Location *git.Location
	HookPath string
	Bytes    int
	Replaced bool // An existing hook was overwritten
	Header   Header
}

// Install resolves the hooks directory for req.ProjectDir, creates it when
// missing, and copies req.Source to <hooks>/<name> with the executable bits set.
//
// The source is read in full before anything is written, and the copy goes
// through a temporary file that is made executable and then renamed into
// place, so a failure never leaves a partial or non-executable hook behind.
func (i *Installer) Install(req Request) (*Result, error) {
	name := req.hookName()

	loc, err := git.ResolveLocation(i.fs, req.ProjectDir)
	if err != nil {
		return nil, err
	}
	i.logger.Debug("resolved git directory", "project", loc.ProjectDir, "git_dir", loc.GitDir, "submodule", loc.Submodule)

	content, err := i.readSource(req.Source)
	if err != nil {
		return nil, err
	}
	i.logger.Debug("read hook source", "source", req.Source, "bytes", len(content))

	hooksDir := loc.HooksDir()
	if err := i.fs.MkdirAll(hooksDir, hooksDirPerm); err != nil {
		return nil, preerrors.NewInstallErrorWithCause(preerrors.KindDirectoryCreation, hooksDir, "cannot create hooks directory", err)
	}
	i.logger.Debug("hooks directory ready", "dir", hooksDir)

	hookPath := filepath.Join(hooksDir, name)
	_, statErr := i.fs.Stat(hookPath)
	replaced := statErr == nil

	if err := i.writeAtomic(hookPath, content); err != nil {
		return nil, err
	}
	i.logger.Debug("wrote hook", "path", hookPath, "replaced", replaced, "mode", i.mode)

	return &Result{
		Location: loc,
		HookPath: hookPath,
		Bytes:    len(content),
		Replaced: replaced,
		Header:   ParseHeader(content),
	}, nil
}

// readSource loads the bundled hook script.
func (i *Installer) readSource(path string) ([]byte, error) {
	if path == "" {
		return nil, preerrors.NewInstallError(preerrors.KindSourceMissing, "", "no hook source configured")
	}

	info, err := i.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, preerrors.NewInstallErrorWithCause(preerrors.KindSourceMissing, path, "bundled hook not found", err)
		}
		return nil, preerrors.NewInstallErrorWithCause(preerrors.KindSourceMissing, path, "cannot inspect bundled hook", err)
	}
	if info.IsDir() {
		return nil, preerrors.NewInstallError(preerrors.KindSourceMissing, path, "bundled hook is a directory")
	}

	content, err := afero.ReadFile(i.fs, path)
	if err != nil {
		return nil, preerrors.NewInstallErrorWithCause(preerrors.KindCopy, path, "cannot read bundled hook", err)
	}
	return content, nil
}

// writeAtomic writes data to a temporary file next to path, sets its mode,
// then renames it over path. An existing hook is only replaced by a file that
// is already executable.
func (i *Installer) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	f, err := afero.TempFile(i.fs, dir, base+".tmp.*")
	if err != nil {
		return preerrors.NewInstallErrorWithCause(preerrors.KindCopy, path, "cannot create temporary file", err)
	}
	tmpName := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = i.fs.Remove(tmpName)
		return preerrors.NewInstallErrorWithCause(preerrors.KindCopy, path, "cannot write hook", err)
	}
	if err := f.Close(); err != nil {
		_ = i.fs.Remove(tmpName)
		return preerrors.NewInstallErrorWithCause(preerrors.KindCopy, path, "cannot write hook", err)
	}

	if err := i.fs.Chmod(tmpName, i.mode); err != nil {
		_ = i.fs.Remove(tmpName)
		return preerrors.NewInstallErrorWithCause(preerrors.KindPermissionChange, path, "cannot mark hook executable", err)
	}

	if err := i.fs.Rename(tmpName, path); err != nil {
		_ = i.fs.Remove(tmpName)
		return preerrors.NewInstallErrorWithCause(preerrors.KindCopy, path, "cannot move hook into place", err)
	}

	return nil
}
