package errors

import (
	"fmt"
	"strings"
)

// FormatUserError returns a user-friendly error message with actionable guidance.
// It examines the error chain and provides context-appropriate help text.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	if IsInstallError(err) {
		return formatInstallError(err)
	}

	var configErr *ConfigError
	if As(err, &configErr) {
		return formatConfigError(configErr)
	}

	return err.Error()
}

// formatInstallError formats the InstallError in err's chain with guidance
// for its Kind.
func formatInstallError(err error) string {
	var installErr *InstallError
	if !As(err, &installErr) {
		return err.Error()
	}

	var b strings.Builder

	kind := KindOf(err)
	if installErr.Path != "" {
		fmt.Fprintf(&b, "Hook installation failed (%s): %s\n  Path: %s\n", kind, installErr.Message, installErr.Path)
	} else {
		fmt.Fprintf(&b, "Hook installation failed (%s): %s\n", kind, installErr.Message)
	}

	switch kind {
	case KindSourceMissing:
		b.WriteString("\nThe bundled pre-push script was not found. To fix this:\n")
		b.WriteString("  • Restore the pre-push file next to the installer\n")
		b.WriteString("  • Or point --source at the hook script to install\n")

	case KindNotGitRepository:
		b.WriteString("\nNo .git entry was found in the project directory. To fix this:\n")
		b.WriteString("  • Run 'git init' in the project, or clone it with git\n")
		b.WriteString("  • Or pass --project-dir to select the repository root\n")

	case KindInvalidGitDirPointer:
		b.WriteString("\nThe .git file does not contain a 'gitdir: <path>' line. To fix this:\n")
		b.WriteString("  • Run 'git submodule update --init' from the parent repository\n")
		b.WriteString("  • Or repair the .git file so it points at the module's git directory\n")

	case KindDirectoryCreation, KindCopy, KindPermissionChange:
		b.WriteString("\nThe filesystem rejected the operation. To fix this:\n")
		b.WriteString("  • Check that you own the repository's git directory\n")
		b.WriteString("  • Check free disk space\n")
		b.WriteString("  • Re-run the installer once the problem is resolved\n")
	}

	if installErr.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", installErr.Cause)
	}

	return b.String()
}

// formatConfigError formats a ConfigError with actionable guidance.
func formatConfigError(err *ConfigError) string {
	var b strings.Builder

	if err.Field != "" {
		fmt.Fprintf(&b, "Configuration error in '%s': %s\n", err.Field, err.Message)
	} else {
		fmt.Fprintf(&b, "Configuration error: %s\n", err.Message)
	}

	b.WriteString("\nTo fix this:\n")
	b.WriteString("  • Check your config file: ~/.config/prepush/config.toml\n")
	b.WriteString("  • Check the repository config: .prepush.toml\n")
	b.WriteString("  • Run 'prepush config' to see the effective settings\n")

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}
