package hook

import (
	"bytes"
	"io/fs"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	preerrors "thoreinstein.com/prepush/pkg/errors"
	"thoreinstein.com/prepush/pkg/git"
)

// Status reports the state of an installed hook relative to the bundled one.
type Status struct {
	Location         *git.Location
	HookPath         string
	Installed        bool
	Executable       bool // Owner execute bit set
	UpToDate         bool // Byte-for-byte equal to the bundled source
	InstalledVersion string
	BundledVersion   string
	Comparison       VersionComparison
}

// Status inspects the hook that Install would write for req without
// modifying anything.
func (i *Installer) Status(req Request) (*Status, error) {
	loc, err := git.ResolveLocation(i.fs, req.ProjectDir)
	if err != nil {
		return nil, err
	}

	bundled, err := i.readSource(req.Source)
	if err != nil {
		return nil, err
	}

	st := &Status{
		Location:       loc,
		HookPath:       filepath.Join(loc.HooksDir(), req.hookName()),
		BundledVersion: ParseHeader(bundled).Version,
		Comparison:     VersionUnknown,
	}

	info, err := i.fs.Stat(st.HookPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return st, nil
		}
		return nil, preerrors.Wrapf(err, "failed to inspect %s", st.HookPath)
	}
	if info.IsDir() {
		return st, nil
	}

	installed, err := afero.ReadFile(i.fs, st.HookPath)
	if err != nil {
		return nil, preerrors.Wrapf(err, "failed to read %s", st.HookPath)
	}

	st.Installed = true
	st.Executable = info.Mode().Perm()&0o100 != 0
	st.UpToDate = bytes.Equal(installed, bundled)
	st.InstalledVersion = ParseHeader(installed).Version
	st.Comparison = CompareVersions(st.InstalledVersion, st.BundledVersion)

	i.logger.Debug("hook status", "path", st.HookPath, "installed", st.Installed, "executable", st.Executable, "up_to_date", st.UpToDate)

	return st, nil
}
