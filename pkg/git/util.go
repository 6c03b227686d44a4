package git

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// IsGitRepo checks if a path is a git repository
func IsGitRepo(fsys afero.Fs, path string) bool {
	// A .git directory, or a .git file for submodules and worktrees
	gitPath := filepath.Join(path, ".git")
	if info, err := fsys.Stat(gitPath); err == nil {
		return info.IsDir() || info.Mode().IsRegular()
	}
	return false
}
