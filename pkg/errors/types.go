// Package errors provides typed errors for prepush.
//
// The installer reports every failure as an InstallError whose Kind names the
// step that failed; configuration problems are reported as ConfigError. Both
// support errors.Is() and errors.As() from the standard library and
// cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Kind identifies the installation step that failed.
type Kind string

const (
	KindSourceMissing        Kind = "source_missing"
	KindDirectoryCreation    Kind = "directory_creation"
	KindCopy                 Kind = "copy"
	KindPermissionChange     Kind = "permission_change"
	KindNotGitRepository     Kind = "not_git_repository"
	KindInvalidGitDirPointer Kind = "invalid_gitdir_pointer"
)

// Sentinels for errors.Is matching against an InstallError of the same kind.
var (
	ErrSourceMissing        = &InstallError{Kind: KindSourceMissing}
	ErrDirectoryCreation    = &InstallError{Kind: KindDirectoryCreation}
	ErrCopy                 = &InstallError{Kind: KindCopy}
	ErrPermissionChange     = &InstallError{Kind: KindPermissionChange}
	ErrNotGitRepository     = &InstallError{Kind: KindNotGitRepository}
	ErrInvalidGitDirPointer = &InstallError{Kind: KindInvalidGitDirPointer}
)

// InstallError represents a failed step while installing a hook.
type InstallError struct {
	Kind    Kind
	Path    string // File or directory the step operated on
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *InstallError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("install %s failed for %s: %s", e.Kind, e.Path, e.Message)
	}
	return fmt.Sprintf("install %s failed: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *InstallError) Unwrap() error {
	return e.Cause
}

// Is matches another InstallError with the same Kind, so the package
// sentinels can be used as errors.Is targets.
func (e *InstallError) Is(target error) bool {
	t, ok := target.(*InstallError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewInstallError creates a new InstallError.
func NewInstallError(kind Kind, path, message string) *InstallError {
	return &InstallError{Kind: kind, Path: path, Message: message}
}

// NewInstallErrorWithCause creates a new InstallError with an underlying cause.
func NewInstallErrorWithCause(kind Kind, path, message string, cause error) *InstallError {
	return &InstallError{Kind: kind, Path: path, Message: message, Cause: cause}
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Field   string // Which config field has the issue
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
	}
	return "config error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with an underlying cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// IsInstallError checks if an error or any error in its chain is an InstallError.
func IsInstallError(err error) bool {
	var installErr *InstallError
	return errors.As(err, &installErr)
}

// IsConfigError checks if an error or any error in its chain is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// KindOf returns the Kind of the first InstallError in err's chain, or ""
// when there is none.
func KindOf(err error) Kind {
	var installErr *InstallError
	if errors.As(err, &installErr) {
		return installErr.Kind
	}
	return ""
}

// Re-export commonly used functions from cockroachdb/errors for convenience.
// This allows consumers to use preerrors.Wrap() instead of importing two packages.
var (
	// New creates a new error with the given message.
	New = errors.New

	// Newf creates a new error with formatted message.
	Newf = errors.Newf

	// Wrap wraps an error with additional context.
	Wrap = errors.Wrap

	// Wrapf wraps an error with formatted additional context.
	Wrapf = errors.Wrapf

	// Is reports whether any error in err's chain matches target.
	Is = errors.Is

	// As finds the first error in err's chain that matches target.
	As = errors.As

	// Cause returns the root cause of an error.
	Cause = errors.Cause
)
