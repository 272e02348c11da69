// Package version represents IronPython release versions and queries the
// version reported by an installed runtime.
package version

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	mm "github.com/Masterminds/semver/v3"
)

// ErrMalformed reports a version string that does not match
// <major>.<minor>.<patch>[suffix].
var ErrMalformed = errors.New("malformed version string")

var (
	versionRe = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)([0-9A-Za-z.-]*)$`)

	// Matches the version token in "ipy.exe -V" output,
	// e.g. "IronPython 2.7.9 (2.7.9.0) on .NET ...".
	reportedRe = regexp.MustCompile(`\d+\.\d+\.\d+[0-9A-Za-z.-]*`)
)

// Version is an immutable, comparable IronPython version.
//
// This is a thin wrapper around github.com/Masterminds/semver/v3. Python-style
// pre-release suffixes ("2.7.0b1") are normalized to semver pre-release form
// before parsing, so pre-releases order before the corresponding final release.
type Version struct {
	v *mm.Version
}

// Parse parses a version string like "2.7.9" or "2.7.0b1".
// It fails with an error wrapping ErrMalformed on anything else.
func Parse(raw string) (Version, error) {
	m := versionRe.FindStringSubmatch(raw)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformed, raw)
	}
	normalized := m[1] + "." + m[2] + "." + m[3]
	if suffix := m[4]; suffix != "" {
		for len(suffix) > 0 && (suffix[0] == '-' || suffix[0] == '.') {
			suffix = suffix[1:]
		}
		if suffix == "" {
			return Version{}, fmt.Errorf("%w: %q", ErrMalformed, raw)
		}
		normalized += "-" + suffix
	}
	v, err := mm.StrictNewVersion(normalized)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: %v", ErrMalformed, raw, err)
	}
	return Version{v: v}, nil
}

// MustParse is Parse for known-good literals; it panics on error.
func MustParse(raw string) Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Major returns the major component.
func (v Version) Major() uint64 { return v.v.Major() }

// Minor returns the minor component.
func (v Version) Minor() uint64 { return v.v.Minor() }

// Patch returns the patch component.
func (v Version) Patch() uint64 { return v.v.Patch() }

// Prerelease returns the pre-release suffix, or "" for a final release.
func (v Version) Prerelease() string { return v.v.Prerelease() }

func (v Version) String() string { return v.v.String() }

// Compare returns -1, 0 or 1 ordering by (major, minor, patch, prerelease),
// with pre-releases ordering before the final release. A zero Version orders
// before everything.
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

// AtLeast reports whether v is version major.minor.0 or newer.
func (v Version) AtLeast(major, minor uint64) bool {
	if v.v == nil {
		return false
	}
	if v.v.Major() != major {
		return v.v.Major() > major
	}
	return v.v.Minor() >= minor
}

// Current asks the runtime at ipyDir for its version and parses it.
// executable is the runtime binary name, e.g. "ipy.exe". A runtime that
// reports an unparseable string fails with ErrMalformed.
func Current(ipyDir, executable string) (Version, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, filepath.Join(ipyDir, executable), "-V")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return Version{}, fmt.Errorf("querying runtime version: %w", err)
	}
	return ParseReported(string(out))
}

// ParseReported extracts the version token from a runtime banner such as
// "IronPython 2.7.9 (2.7.9.0) on .NET 4.0.30319.42000".
func ParseReported(banner string) (Version, error) {
	token := reportedRe.FindString(banner)
	if token == "" {
		return Version{}, fmt.Errorf("%w: runtime reported %q", ErrMalformed, banner)
	}
	return Parse(token)
}
