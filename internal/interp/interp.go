// Package interp locates IronPython installations and derives the module
// search roots used during dependency resolution.
package interp

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// DefaultExecutable is the IronPython binary name on the current platform.
var DefaultExecutable = func() string {
	if runtime.GOOS == "windows" {
		return "ipy.exe"
	}
	return "ipy"
}()

// DetectionError reports that no IronPython installation could be found.
type DetectionError struct {
	Executable string
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("IronPython (%s) cannot be found", e.Executable)
}

// Detect scans every PATH entry for the IronPython executable and returns the
// directories that hold one, sorted descending so the newest install layout
// tends to come first. An empty result is a *DetectionError.
func Detect(executable string) ([]string, error) {
	if executable == "" {
		executable = DefaultExecutable
	}

	seen := make(map[string]struct{})
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, executable)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
			continue
		}
		seen[filepath.Dir(candidate)] = struct{}{}
	}

	if len(seen) == 0 {
		return nil, &DetectionError{Executable: executable}
	}

	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	return dirs, nil
}

// DefaultSearchRoots returns the directories consulted when resolving an
// import name: the runtime's own standard library first, then every ambient
// search-path entry containing a site-packages segment, in original order.
//
// The list is a search order, not a set: duplicates are harmless and
// directories are not validated here. Roots that do not exist simply never
// yield a module.
func DefaultSearchRoots(ipyDir string) []string {
	roots := []string{filepath.Join(ipyDir, "Lib")}
	for _, entry := range ambientSearchPath() {
		if strings.Contains(entry, "site-packages") {
			roots = append(roots, entry)
		}
	}
	return roots
}

// ambientSearchPath reads the runtime module search path from the
// environment: IRONPYTHONPATH when set, PYTHONPATH otherwise.
func ambientSearchPath() []string {
	raw := os.Getenv("IRONPYTHONPATH")
	if raw == "" {
		raw = os.Getenv("PYTHONPATH")
	}
	if raw == "" {
		return nil
	}
	var entries []string
	for _, entry := range filepath.SplitList(raw) {
		if entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}
