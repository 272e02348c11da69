package compiler

import (
	"path/filepath"
	"sort"

	"github.com/hamukichi/ipyc/internal/resolve"
)

// Result is the outcome of one analysis run: the partition of everything the
// entry scripts transitively import. It is built once by classify and
// read-only afterwards.
type Result struct {
	// Compilable holds absolute paths of pure-source module files that can be
	// bundled. Entry scripts are never members.
	Compilable map[string]struct{}
	// Uncompilable holds module names (not paths) that cannot be bundled:
	// unresolved imports and native binary extensions.
	Uncompilable map[string]struct{}
	// SearchRoots is the search order that was actually applied, retained for
	// analyze-mode reporting.
	SearchRoots []string
}

// CompilablePaths returns the compilable set sorted, for argument lists and
// reports.
func (r *Result) CompilablePaths() []string {
	return sortedKeys(r.Compilable)
}

// UncompilableModules returns the uncompilable set sorted.
func (r *Result) UncompilableModules() []string {
	return sortedKeys(r.Uncompilable)
}

// classify merges per-script resolution results into one Result. Entry-script
// paths are removed from the compilable set: a script is never one of its own
// dependencies. When two scripts resolve the same module name to different
// files, the first script's resolution wins.
//
// classify is idempotent: identical inputs produce set-equal Results.
func classify(scripts []string, perScript []*resolve.ScriptResult, roots []string) *Result {
	res := &Result{
		Compilable:   make(map[string]struct{}),
		Uncompilable: make(map[string]struct{}),
		SearchRoots:  roots,
	}

	claimed := make(map[string]string)
	for _, sr := range perScript {
		if sr == nil {
			continue
		}
		for name, path := range sr.Resolved {
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			if prev, ok := claimed[name]; ok && prev != abs {
				continue
			}
			claimed[name] = abs
			res.Compilable[abs] = struct{}{}
		}
		for name := range sr.Unresolved {
			res.Uncompilable[name] = struct{}{}
		}
	}

	for _, script := range scripts {
		delete(res.Compilable, script)
	}
	return res
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
