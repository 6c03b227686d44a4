package git

import (
	"bufio"
	"bytes"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	preerrors "thoreinstein.com/prepush/pkg/errors"
)

// gitDirPrefix starts the single line of a .git pointer file.
const gitDirPrefix = "gitdir:"

// Location describes where a project's git metadata lives.
type Location struct {
	ProjectDir string // Repository root the .git entry was found in
	GitDir     string // Directory holding the git metadata
	Submodule  bool   // True when .git was a pointer file
}

// HooksDir returns the directory git reads hook scripts from.
// core.hooksPath is not consulted.
func (l *Location) HooksDir() string {
	return filepath.Join(l.GitDir, "hooks")
}

// ResolveLocation finds the git directory for projectDir.
//
// When <projectDir>/.git is a directory it is the git directory. When it is a
// regular file (submodules, linked worktrees) its "gitdir: <path>" line is
// followed; relative paths are taken relative to projectDir.
func ResolveLocation(fsys afero.Fs, projectDir string) (*Location, error) {
	dotGit := filepath.Join(projectDir, ".git")

	info, err := fsys.Stat(dotGit)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, preerrors.NewInstallErrorWithCause(preerrors.KindNotGitRepository, projectDir, "no .git entry in project directory", err)
		}
		return nil, preerrors.NewInstallErrorWithCause(preerrors.KindNotGitRepository, dotGit, "cannot inspect .git entry", err)
	}

	if !IsGitRepo(fsys, projectDir) {
		return nil, preerrors.NewInstallError(preerrors.KindInvalidGitDirPointer, dotGit, "is neither a directory nor a regular file")
	}

	if info.IsDir() {
		return &Location{ProjectDir: projectDir, GitDir: dotGit}, nil
	}

	content, err := afero.ReadFile(fsys, dotGit)
	if err != nil {
		return nil, preerrors.NewInstallErrorWithCause(preerrors.KindInvalidGitDirPointer, dotGit, "cannot read pointer file", err)
	}

	gitDir, err := ParseGitDirPointer(string(content), projectDir)
	if err != nil {
		var installErr *preerrors.InstallError
		if errors.As(err, &installErr) {
			installErr.Path = dotGit
		}
		return nil, err
	}

	return &Location{ProjectDir: projectDir, GitDir: gitDir, Submodule: true}, nil
}

// ParseGitDirPointer extracts the git directory from the content of a .git
// pointer file. Only the first line is read. A relative path is joined onto
// projectDir; an absolute path is returned cleaned and otherwise unchanged.
func ParseGitDirPointer(content, projectDir string) (string, error) {
	scanner := bufio.NewScanner(bytes.NewBufferString(content))
	line := ""
	if scanner.Scan() {
		line = strings.TrimSpace(scanner.Text())
	}

	if !strings.HasPrefix(line, gitDirPrefix) {
		return "", preerrors.NewInstallError(preerrors.KindInvalidGitDirPointer, "", "first line does not start with \"gitdir:\"")
	}

	target := strings.TrimSpace(strings.TrimPrefix(line, gitDirPrefix))
	if target == "" {
		return "", preerrors.NewInstallError(preerrors.KindInvalidGitDirPointer, "", "gitdir line has no path")
	}

	if filepath.IsAbs(target) {
		return filepath.Clean(target), nil
	}
	return filepath.Join(projectDir, target), nil
}
