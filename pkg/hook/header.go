package hook

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// hookVersionPrefix marks the version line in a hook's leading comment block.
const hookVersionPrefix = "version:"

// Header is the metadata carried in a hook script's leading comment block.
type Header struct {
	Version string   // From a "# version: X.Y.Z" line; empty when absent
	Summary []string // Remaining comment lines, "# " stripped
}

// ParseHeader reads the comment block at the top of a hook script. An
// optional shebang is skipped; parsing stops at the first line that is not a
// comment.
func ParseHeader(content []byte) Header {
	var h Header

	scanner := bufio.NewScanner(bytes.NewReader(content))
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			first = false
			if strings.HasPrefix(line, "#!") {
				continue
			}
		}
		if !strings.HasPrefix(line, "#") {
			break
		}

		text := strings.TrimPrefix(line, "#")
		text = strings.TrimPrefix(text, " ")
		if strings.TrimSpace(text) == "" {
			continue
		}

		if strings.HasPrefix(strings.ToLower(text), hookVersionPrefix) {
			h.Version = strings.TrimSpace(text[len(hookVersionPrefix):])
			continue
		}

		h.Summary = append(h.Summary, strings.TrimRight(text, " \t"))
	}

	return h
}

// VersionComparison is the relation of an installed hook's version to the
// bundled one.
type VersionComparison string

const (
	VersionCurrent  VersionComparison = "current"
	VersionOutdated VersionComparison = "outdated"
	VersionNewer    VersionComparison = "newer"
	VersionUnknown  VersionComparison = "unknown"
)

// CompareVersions compares an installed hook version with the bundled one.
// Missing or unparsable versions compare as unknown.
func CompareVersions(installed, bundled string) VersionComparison {
	if installed == "" || bundled == "" {
		return VersionUnknown
	}

	iv, err := semver.NewVersion(installed)
	if err != nil {
		return VersionUnknown
	}
	bv, err := semver.NewVersion(bundled)
	if err != nil {
		return VersionUnknown
	}

	switch iv.Compare(bv) {
	case -1:
		return VersionOutdated
	case 1:
		return VersionNewer
	default:
		return VersionCurrent
	}
}
