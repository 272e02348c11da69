package resolve

// builtinModules lists module names that IronPython provides without an
// on-disk source file (implemented inside the runtime assemblies). Importing
// one requires no bundling action, so the walk excludes them from both the
// resolved and unresolved sets. Names are only consulted after every search
// root has missed: a real file in a root always wins over this table.
//
// Based on IronPython 2.7's clr.GetBuiltinModuleNames(), plus "os"/"os.path",
// which the runtime aliases onto its native layer when no stdlib file is
// shipped.
var builtinModules = map[string]struct{}{
	"__builtin__":     {},
	"_ast":            {},
	"_bisect":         {},
	"_codecs":         {},
	"_collections":    {},
	"_csv":            {},
	"_functools":      {},
	"_heapq":          {},
	"_io":             {},
	"_locale":         {},
	"_md5":            {},
	"_random":         {},
	"_sha":            {},
	"_sha256":         {},
	"_sha512":         {},
	"_socket":         {},
	"_sre":            {},
	"_ssl":            {},
	"_struct":         {},
	"_warnings":       {},
	"_weakref":        {},
	"_winreg":         {},
	"array":           {},
	"binascii":        {},
	"builtins":        {},
	"cPickle":         {},
	"cStringIO":       {},
	"clr":             {},
	"cmath":           {},
	"copy_reg":        {},
	"datetime":        {},
	"errno":           {},
	"exceptions":      {},
	"future_builtins": {},
	"gc":              {},
	"imp":             {},
	"itertools":       {},
	"marshal":         {},
	"math":            {},
	"mmap":            {},
	"msvcrt":          {},
	"nt":              {},
	"operator":        {},
	"os":              {},
	"os.path":         {},
	"select":          {},
	"signal":          {},
	"sys":             {},
	"thread":          {},
	"time":            {},
	"unicodedata":     {},
	"winsound":        {},
	"xxsubtype":       {},
	"zlib":            {},
}
