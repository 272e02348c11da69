package interp

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDetectFindsExecutableOnPath(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	exe := "ipy"
	if runtime.GOOS == "windows" {
		exe = "ipy.exe"
	}
	for _, dir := range []string{dirA, dirB} {
		if err := os.WriteFile(filepath.Join(dir, exe), []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	t.Setenv("PATH", strings.Join([]string{dirA, t.TempDir(), dirB}, string(os.PathListSeparator)))

	dirs, err := Detect(exe)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("got %d dirs, want 2: %v", len(dirs), dirs)
	}
	// Sorted descending.
	if dirs[0] < dirs[1] {
		t.Errorf("dirs not sorted descending: %v", dirs)
	}
}

func TestDetectNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := Detect("ipy-definitely-absent")
	var de *DetectionError
	if !errors.As(err, &de) {
		t.Fatalf("want *DetectionError, got %v", err)
	}
	if de.Executable != "ipy-definitely-absent" {
		t.Errorf("Executable = %q", de.Executable)
	}
	if !strings.Contains(de.Error(), "ipy-definitely-absent") {
		t.Errorf("error message %q does not name the executable", de.Error())
	}
}

func TestDefaultSearchRootsStdlibFirst(t *testing.T) {
	t.Setenv("IRONPYTHONPATH", "")
	t.Setenv("PYTHONPATH", "")

	roots := DefaultSearchRoots(filepath.Join("C:", "IronPython27"))
	if len(roots) != 1 {
		t.Fatalf("got %d roots, want 1: %v", len(roots), roots)
	}
	if roots[0] != filepath.Join("C:", "IronPython27", "Lib") {
		t.Errorf("roots[0] = %q", roots[0])
	}
}

func TestDefaultSearchRootsSitePackages(t *testing.T) {
	sep := string(os.PathListSeparator)
	t.Setenv("IRONPYTHONPATH", strings.Join([]string{
		"/opt/python/lib/site-packages",
		"/opt/python/lib/plain",
		"/home/u/.local/site-packages/extras",
	}, sep))

	roots := DefaultSearchRoots("/opt/ipy")
	want := []string{
		filepath.Join("/opt/ipy", "Lib"),
		"/opt/python/lib/site-packages",
		"/home/u/.local/site-packages/extras",
	}
	if len(roots) != len(want) {
		t.Fatalf("roots = %v, want %v", roots, want)
	}
	for i := range want {
		if roots[i] != want[i] {
			t.Errorf("roots[%d] = %q, want %q", i, roots[i], want[i])
		}
	}
}

func TestDefaultSearchRootsFallsBackToPythonPath(t *testing.T) {
	t.Setenv("IRONPYTHONPATH", "")
	t.Setenv("PYTHONPATH", "/cpython/site-packages")

	roots := DefaultSearchRoots("/opt/ipy")
	if len(roots) != 2 || roots[1] != "/cpython/site-packages" {
		t.Errorf("roots = %v", roots)
	}
}
