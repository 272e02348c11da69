// Package pyimport extracts import statements from Python source using
// tree-sitter. Extraction is purely syntactic: the scripts are never executed.
package pyimport

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

//go:embed queries/python.scm
var queryFS embed.FS

var (
	queryOnce sync.Once
	query     *sitter.Query
	queryErr  error
)

// Import is one import statement occurrence.
//
// For "import a.b" the statement yields Module "a.b" and no Names. For
// "from a.b import c, d" it yields Module "a.b" and Names [c d]; the names
// may be submodules or plain attributes, which only resolution can tell
// apart. Dots counts the leading dots of a relative import ("from .. import
// x" has Dots 2 and an empty Module).
type Import struct {
	Module string
	Names  []string
	Dots   int
	Line   int
}

// NewParser creates a fresh Python parser. Parsers are not safe for
// concurrent use; each goroutine needs its own.
func NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return p
}

// tagQuery returns the compiled import query (safe to share across goroutines).
func tagQuery() (*sitter.Query, error) {
	queryOnce.Do(func() {
		data, err := queryFS.ReadFile("queries/python.scm")
		if err != nil {
			queryErr = fmt.Errorf("reading query file: %w", err)
			return
		}
		q, err := sitter.NewQuery(data, python.GetLanguage())
		if err != nil {
			queryErr = fmt.Errorf("compiling query: %w", err)
			return
		}
		query = q
	})
	return query, queryErr
}

// Extract parses source and returns every import statement it contains, in
// document order, at any nesting depth.
func Extract(parser *sitter.Parser, source []byte) ([]Import, error) {
	if len(source) == 0 {
		return nil, nil
	}
	q, err := tagQuery()
	if err != nil {
		return nil, err
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.RootNode())

	var imports []Import
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)
		for _, c := range match.Captures {
			stmt := c.Node
			switch q.CaptureNameForId(c.Index) {
			case "import.plain":
				imports = append(imports, plainImports(stmt, source)...)
			case "import.from":
				if imp, ok := fromImport(stmt, source); ok {
					imports = append(imports, imp)
				}
			}
		}
	}
	return imports, nil
}

// plainImports handles "import a.b, c as d": one Import per operand.
func plainImports(stmt *sitter.Node, source []byte) []Import {
	var imports []Import
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		name := moduleOperand(child, source)
		if name == "" {
			continue
		}
		imports = append(imports, Import{
			Module: name,
			Line:   int(stmt.StartPoint().Row) + 1,
		})
	}
	return imports
}

// fromImport handles "from a.b import c, d as e" and relative forms.
func fromImport(stmt *sitter.Node, source []byte) (Import, bool) {
	moduleNode := stmt.ChildByFieldName("module_name")
	if moduleNode == nil {
		return Import{}, false
	}

	imp := Import{Line: int(stmt.StartPoint().Row) + 1}

	switch moduleNode.Type() {
	case "dotted_name":
		imp.Module = nodeText(moduleNode, source)
	case "relative_import":
		for i := 0; i < int(moduleNode.NamedChildCount()); i++ {
			child := moduleNode.NamedChild(i)
			switch child.Type() {
			case "import_prefix":
				imp.Dots = strings.Count(nodeText(child, source), ".")
			case "dotted_name":
				imp.Module = nodeText(child, source)
			}
		}
	default:
		return Import{}, false
	}

	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		if sameNode(child, moduleNode) {
			continue
		}
		// wildcard_import carries no resolvable name.
		if name := moduleOperand(child, source); name != "" {
			imp.Names = append(imp.Names, name)
		}
	}
	return imp, true
}

// moduleOperand returns the dotted module text of a dotted_name or
// aliased_import node, or "" for anything else.
func moduleOperand(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "dotted_name":
		return nodeText(node, source)
	case "aliased_import":
		if name := node.ChildByFieldName("name"); name != nil && name.Type() == "dotted_name" {
			return nodeText(name, source)
		}
	}
	return ""
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
