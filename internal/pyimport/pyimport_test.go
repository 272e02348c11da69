package pyimport

import (
	"reflect"
	"testing"
)

func extract(t *testing.T, source string) []Import {
	t.Helper()
	imports, err := Extract(NewParser(), []byte(source))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return imports
}

func TestExtractPlainImport(t *testing.T) {
	t.Parallel()

	imports := extract(t, "import os\n")
	if len(imports) != 1 {
		t.Fatalf("got %d imports, want 1: %v", len(imports), imports)
	}
	if imports[0].Module != "os" || imports[0].Dots != 0 || imports[0].Line != 1 {
		t.Errorf("import = %+v", imports[0])
	}
}

func TestExtractDottedAndAliased(t *testing.T) {
	t.Parallel()

	imports := extract(t, "import os.path, xml.dom as dom\n")
	if len(imports) != 2 {
		t.Fatalf("got %d imports, want 2: %v", len(imports), imports)
	}
	if imports[0].Module != "os.path" {
		t.Errorf("imports[0] = %+v", imports[0])
	}
	if imports[1].Module != "xml.dom" {
		t.Errorf("imports[1] = %+v", imports[1])
	}
}

func TestExtractFromImport(t *testing.T) {
	t.Parallel()

	imports := extract(t, "from os import path, sep\n")
	if len(imports) != 1 {
		t.Fatalf("got %d imports, want 1: %v", len(imports), imports)
	}
	imp := imports[0]
	if imp.Module != "os" {
		t.Errorf("module = %q", imp.Module)
	}
	if !reflect.DeepEqual(imp.Names, []string{"path", "sep"}) {
		t.Errorf("names = %v", imp.Names)
	}
}

func TestExtractFromImportAliased(t *testing.T) {
	t.Parallel()

	imports := extract(t, "from xml.dom import minidom as md\n")
	if len(imports) != 1 {
		t.Fatalf("got %d imports, want 1: %v", len(imports), imports)
	}
	if imports[0].Module != "xml.dom" {
		t.Errorf("module = %q", imports[0].Module)
	}
	if !reflect.DeepEqual(imports[0].Names, []string{"minidom"}) {
		t.Errorf("names = %v", imports[0].Names)
	}
}

func TestExtractRelativeImport(t *testing.T) {
	t.Parallel()

	imports := extract(t, "from . import helpers\nfrom ..pkg import thing\n")
	if len(imports) != 2 {
		t.Fatalf("got %d imports, want 2: %v", len(imports), imports)
	}
	if imports[0].Dots != 1 || imports[0].Module != "" ||
		!reflect.DeepEqual(imports[0].Names, []string{"helpers"}) {
		t.Errorf("imports[0] = %+v", imports[0])
	}
	if imports[1].Dots != 2 || imports[1].Module != "pkg" ||
		!reflect.DeepEqual(imports[1].Names, []string{"thing"}) {
		t.Errorf("imports[1] = %+v", imports[1])
	}
}

func TestExtractWildcard(t *testing.T) {
	t.Parallel()

	imports := extract(t, "from os.path import *\n")
	if len(imports) != 1 {
		t.Fatalf("got %d imports, want 1: %v", len(imports), imports)
	}
	if imports[0].Module != "os.path" || len(imports[0].Names) != 0 {
		t.Errorf("import = %+v", imports[0])
	}
}

func TestExtractNestedImports(t *testing.T) {
	t.Parallel()

	source := "def lazy():\n    import json\n    return json\n"
	imports := extract(t, source)
	if len(imports) != 1 {
		t.Fatalf("got %d imports, want 1: %v", len(imports), imports)
	}
	if imports[0].Module != "json" || imports[0].Line != 2 {
		t.Errorf("import = %+v", imports[0])
	}
}

func TestExtractNoImports(t *testing.T) {
	t.Parallel()

	if imports := extract(t, "x = 1\nprint(x)\n"); len(imports) != 0 {
		t.Errorf("got %v, want none", imports)
	}
}
