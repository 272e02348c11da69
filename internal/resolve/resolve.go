// Package resolve statically walks the import graph of IronPython scripts,
// mapping each transitively imported module to a source file under a list of
// search roots.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/hamukichi/ipyc/internal/pyimport"
)

// kind tags the outcome of resolving one module name. The distinction
// between "missing" and "found but binary" is made here, once, so no
// downstream consumer re-derives it from file extensions.
type kind int

const (
	notFound kind = iota
	found
	foundBinary
	builtin
)

// binaryExts are extensions of native extension modules: loadable by the
// runtime, but not bundleable source.
var binaryExts = []string{".pyd", ".dll", ".so"}

// ScriptError reports an entry script that could not be read or parsed. It is
// fatal for that script's contribution only; other scripts in the same batch
// are unaffected.
type ScriptError struct {
	Script string
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("analyzing script %s: %v", e.Script, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// ScriptResult is one script's share of the import graph.
type ScriptResult struct {
	// Resolved maps a module name to the absolute path of its source file.
	Resolved map[string]string
	// Unresolved holds module names that could not be resolved to bundleable
	// source: either nothing was found in any root, or what was found is a
	// native binary extension.
	Unresolved map[string]struct{}
}

// Resolver walks import graphs against a fixed list of search roots.
// The roots are read-only; a Resolver itself is single-goroutine (it owns a
// tree-sitter parser).
type Resolver struct {
	roots  []string
	parser *sitter.Parser
}

// New creates a Resolver consulting roots in order. First match wins; roots
// that do not exist simply never match.
func New(roots []string) *Resolver {
	return &Resolver{roots: roots, parser: pyimport.NewParser()}
}

// Roots returns the search roots this Resolver consults.
func (r *Resolver) Roots() []string { return r.roots }

// ResolveScript walks the import graph rooted at one entry script. Per-module
// misses accumulate in the result; only failure to read or parse the script
// itself is an error, reported as *ScriptError.
func (r *Resolver) ResolveScript(script string) (*ScriptResult, error) {
	source, err := os.ReadFile(script)
	if err != nil {
		return nil, &ScriptError{Script: script, Err: err}
	}
	imports, err := pyimport.Extract(r.parser, source)
	if err != nil {
		return nil, &ScriptError{Script: script, Err: err}
	}

	res := &ScriptResult{
		Resolved:   make(map[string]string),
		Unresolved: make(map[string]struct{}),
	}
	visited := make(map[string]kind)
	r.walkImports(imports, "", res, visited)
	return res, nil
}

// walkImports processes one file's import statements. pkg is the dotted
// package the file belongs to ("" for entry scripts and top-level modules);
// relative imports resolve against it.
func (r *Resolver) walkImports(imports []pyimport.Import, pkg string, res *ScriptResult, visited map[string]kind) {
	for _, imp := range imports {
		target, ok := absoluteTarget(imp, pkg)
		if !ok {
			res.Unresolved[displayName(imp)] = struct{}{}
			continue
		}

		// "from X import a, b": each name may be a submodule of X. Try it
		// only when X is a resolved package; a miss there is an attribute
		// access, not a missing module. An empty target means the relative
		// import reached the top level, where names are plain modules.
		if target != "" {
			if k := r.walkDotted(target, res, visited); k != found || !isPackage(res.Resolved[target]) {
				continue
			}
		}
		for _, name := range imp.Names {
			sub := name
			if target != "" {
				sub = target + "." + name
			}
			r.walkModule(sub, res, visited)
		}
	}
}

// walkDotted resolves a dotted name and all its ancestor packages, in order.
// A miss on any component is recorded in Unresolved and stops the descent.
func (r *Resolver) walkDotted(name string, res *ScriptResult, visited map[string]kind) kind {
	parts := strings.Split(name, ".")
	prefix := ""
	last := notFound
	for _, part := range parts {
		if prefix == "" {
			prefix = part
		} else {
			prefix += "." + part
		}
		last = r.walkModule(prefix, res, visited)
		switch last {
		case notFound:
			res.Unresolved[prefix] = struct{}{}
			return notFound
		case foundBinary, builtin:
			// Terminal: submodules of binaries and builtins are not
			// resolvable on disk, and need no bundling anyway.
			return last
		}
	}
	return last
}

// walkModule resolves a single module name against the roots and, when it
// finds bundleable source, recurses into that file's imports. visited
// short-circuits both repeats and import cycles: a name currently being
// walked reports its provisional kind.
func (r *Resolver) walkModule(name string, res *ScriptResult, visited map[string]kind) kind {
	if k, ok := visited[name]; ok {
		return k
	}

	path, pkg, k := r.lookup(name)
	switch k {
	case found:
		// Mark before descending so cycles terminate.
		visited[name] = found
		res.Resolved[name] = path

		source, err := os.ReadFile(path)
		if err != nil {
			return r.demote(name, res, visited)
		}
		imports, err := pyimport.Extract(r.parser, source)
		if err != nil {
			return r.demote(name, res, visited)
		}
		r.walkImports(imports, packageContext(name, pkg), res, visited)
		return found

	case foundBinary:
		visited[name] = foundBinary
		res.Unresolved[name] = struct{}{}
		return foundBinary

	default:
		if _, ok := builtinModules[name]; ok {
			visited[name] = builtin
			return builtin
		}
		visited[name] = notFound
		return notFound
	}
}

// demote converts a module whose source could not be read or parsed from
// resolved to unresolved. Local module errors never abort the walk.
func (r *Resolver) demote(name string, res *ScriptResult, visited map[string]kind) kind {
	delete(res.Resolved, name)
	res.Unresolved[name] = struct{}{}
	visited[name] = notFound
	return notFound
}

// lookup searches the roots, in order, for a module name. Within one root the
// candidates mirror the runtime's own order: package directory, then native
// binary, then plain source.
func (r *Resolver) lookup(name string) (path string, pkg bool, k kind) {
	rel := filepath.FromSlash(strings.ReplaceAll(name, ".", "/"))
	for _, root := range r.roots {
		base := filepath.Join(root, rel)

		init := filepath.Join(base, "__init__.py")
		if isFile(init) {
			return init, true, found
		}
		for _, ext := range binaryExts {
			if isFile(base + ext) {
				return base + ext, false, foundBinary
			}
		}
		if isFile(base + ".py") {
			return base + ".py", false, found
		}
	}
	return "", false, notFound
}

// absoluteTarget turns an import into an absolute dotted module name using
// the importing file's package. Reports !ok when a relative import reaches
// past the top-level package (or appears in a non-package entry script).
func absoluteTarget(imp pyimport.Import, pkg string) (string, bool) {
	if imp.Dots == 0 {
		return imp.Module, true
	}
	if pkg == "" {
		return "", false
	}
	parts := strings.Split(pkg, ".")
	drop := imp.Dots - 1
	if drop > len(parts) {
		return "", false
	}
	base := strings.Join(parts[:len(parts)-drop], ".")
	switch {
	case imp.Module == "":
		return base, base != "" || len(imp.Names) > 0
	case base == "":
		return imp.Module, true
	default:
		return base + "." + imp.Module, true
	}
}

// packageContext returns the dotted package the module's file belongs to.
func packageContext(name string, pkg bool) string {
	if pkg {
		return name
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i]
	}
	return ""
}

// displayName reconstructs the textual form of an unresolvable import for
// the unresolved set, e.g. "..missing" for "from ..missing import x".
func displayName(imp pyimport.Import) string {
	name := strings.Repeat(".", imp.Dots) + imp.Module
	if name == "" {
		name = "."
	}
	return name
}

func isPackage(path string) bool {
	return filepath.Base(path) == "__init__.py"
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
