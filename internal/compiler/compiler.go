// Package compiler analyzes the module dependencies of IronPython scripts
// and drives pyc.py to bundle them into a single .NET assembly.
package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/hamukichi/ipyc/internal/interp"
	"github.com/hamukichi/ipyc/internal/resolve"
	"github.com/hamukichi/ipyc/internal/version"
)

// Compiler finds the modules required by a set of entry scripts and creates
// a .NET assembly from them. The first script is the program entry point when
// building an executable.
type Compiler struct {
	// Log receives progress and diagnostics; defaults to log.Default().
	Log *log.Logger

	scripts    []string
	ipyDir     string
	executable string
	result     *Result

	// Output captured from the last pyc.py invocation.
	PycStdout string
	PycStderr string
	// ResponseFile is the path of the last response file written. It only
	// outlives the invocation when BuildOptions.KeepResponse is set.
	ResponseFile string
}

// BuildOptions mirror the pyc.py switches relevant to assembly creation.
type BuildOptions struct {
	Out          string // output file name (/out:)
	WinExe       bool   // windows executable instead of console
	Platform     string // "x86" or "x64", empty for pyc.py's default
	Embed        bool   // embed the generated DLL into the executable
	Standalone   bool   // embed the IronPython assemblies too
	MTA          bool   // set MTAThreadAttribute (winexe only)
	KeepResponse bool   // do not delete the response file afterwards
}

// New creates a Compiler for the given entry scripts. ipyDir is the
// IronPython installation directory; when empty the newest detected
// installation is used, and detection failure is a *interp.DetectionError.
// executable defaults to the platform's IronPython binary name.
func New(scripts []string, ipyDir, executable string) (*Compiler, error) {
	if executable == "" {
		executable = interp.DefaultExecutable
	}
	if ipyDir == "" {
		dirs, err := interp.Detect(executable)
		if err != nil {
			return nil, err
		}
		ipyDir = dirs[0]
	}

	abs := make([]string, len(scripts))
	for i, s := range scripts {
		a, err := filepath.Abs(s)
		if err != nil {
			return nil, fmt.Errorf("resolving script path %s: %w", s, err)
		}
		abs[i] = a
	}

	return &Compiler{scripts: abs, ipyDir: ipyDir, executable: executable}, nil
}

// Scripts returns the absolute entry-script paths, in caller order.
func (c *Compiler) Scripts() []string { return c.scripts }

// IPyDir returns the IronPython installation directory in use.
func (c *Compiler) IPyDir() string { return c.ipyDir }

// Result returns the last analysis result, or nil before Analyze has run.
func (c *Compiler) Result() *Result { return c.result }

// Analyze resolves and classifies every module the entry scripts transitively
// import. roots overrides the search order; nil means the default roots for
// the configured installation. A script that cannot be read or parsed does
// not abort the batch: its *resolve.ScriptError is joined into the returned
// error while the other scripts' results stand.
func (c *Compiler) Analyze(roots []string) (*Result, error) {
	if roots == nil {
		roots = interp.DefaultSearchRoots(c.ipyDir)
	}

	r := resolve.New(roots)
	perScript := make([]*resolve.ScriptResult, len(c.scripts))
	var errs []error
	for i, script := range c.scripts {
		sr, err := r.ResolveScript(script)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		perScript[i] = sr
	}

	c.result = classify(c.scripts, perScript, roots)
	return c.result, errors.Join(errs...)
}

// CreateDLL compiles the scripts and their compilable dependencies into a
// .NET library assembly.
func (c *Compiler) CreateDLL(opts BuildOptions) error {
	if err := c.ensureAnalyzed(); err != nil {
		return err
	}
	return c.callPyc(c.dllArgs(opts), opts.KeepResponse)
}

func (c *Compiler) dllArgs(opts BuildOptions) []string {
	args := []string{"/target:dll"}
	if opts.Out != "" {
		args = append(args, "/out:"+opts.Out)
	}
	args = append(args, c.scripts...)
	return append(args, c.result.CompilablePaths()...)
}

// CreateExecutable compiles the scripts into a .NET process assembly, with
// the first script as the program entry point.
func (c *Compiler) CreateExecutable(opts BuildOptions) error {
	if err := c.ensureAnalyzed(); err != nil {
		return err
	}
	return c.callPyc(c.exeArgs(opts), opts.KeepResponse)
}

func (c *Compiler) exeArgs(opts BuildOptions) []string {
	args := []string{"/main:" + c.scripts[0]}
	if opts.Out != "" {
		args = append(args, "/out:"+opts.Out)
	}
	if opts.WinExe {
		args = append(args, "/target:winexe")
		if opts.MTA {
			args = append(args, "/mta")
		}
	} else {
		args = append(args, "/target:exe")
	}
	if opts.Platform == "x86" || opts.Platform == "x64" {
		args = append(args, "/platform:"+opts.Platform)
	}
	if opts.Embed {
		args = append(args, "/embed")
	}
	if opts.Standalone {
		args = append(args, "/standalone")
	}
	args = append(args, c.scripts...)
	return append(args, c.result.CompilablePaths()...)
}

// ensureAnalyzed runs Analyze with default roots when the caller skipped it.
// Per-script analysis failures are logged but do not block compilation of the
// scripts that did analyze.
func (c *Compiler) ensureAnalyzed() error {
	if c.result != nil {
		return nil
	}
	_, err := c.Analyze(nil)
	if err != nil {
		c.logger().Warn("some scripts could not be analyzed", "err", err)
	}
	return nil
}

// callPyc invokes pyc.py through a temporary response file, capturing its
// output. The response file is removed afterwards unless keepResponse is set.
func (c *Compiler) callPyc(args []string, keepResponse bool) error {
	resp, err := writeResponseFile(args)
	if err != nil {
		return err
	}
	c.ResponseFile = resp
	if !keepResponse {
		defer os.Remove(resp)
	}

	ipy := filepath.Join(c.ipyDir, c.executable)
	pyc := c.pycPath()
	c.logger().Debug("invoking pyc.py", "ipy", ipy, "pyc", pyc, "response", resp)

	cmd := exec.Command(ipy, pyc, "@"+resp)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()
	c.PycStdout = stdout.String()
	c.PycStderr = stderr.String()
	if runErr != nil {
		return fmt.Errorf("running pyc.py: %w", runErr)
	}
	return nil
}

// pycPath locates pyc.py inside the installation. The script moved under
// Tools/Scripts in IronPython 2.7; older releases keep it in Tools. When the
// runtime version cannot be determined the newer layout is assumed.
func (c *Compiler) pycPath() string {
	if v, err := version.Current(c.ipyDir, c.executable); err == nil && !v.AtLeast(2, 7) {
		return filepath.Join(c.ipyDir, "Tools", "pyc.py")
	}
	return filepath.Join(c.ipyDir, "Tools", "Scripts", "pyc.py")
}

// writeResponseFile writes one pyc.py argument per line to a fresh temp file
// and returns its path.
func writeResponseFile(args []string) (string, error) {
	f, err := os.CreateTemp("", "ipyc-*.txt")
	if err != nil {
		return "", fmt.Errorf("creating response file: %w", err)
	}
	for _, arg := range args {
		if _, err := f.WriteString(arg + "\n"); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("writing response file: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing response file: %w", err)
	}
	return f.Name(), nil
}

func (c *Compiler) logger() *log.Logger {
	if c.Log != nil {
		return c.Log
	}
	return log.Default()
}
