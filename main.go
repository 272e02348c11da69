// ipyc compiles IronPython scripts into a single .NET assembly, using the
// pyc.py compiler shipped with IronPython.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hamukichi/ipyc/internal/compiler"
	"github.com/hamukichi/ipyc/internal/config"
	"github.com/hamukichi/ipyc/internal/discover"
)

var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ipyc",
	Short: "Compile IronPython scripts into a .NET assembly",
	Long: `ipyc statically analyzes the module dependencies of IronPython scripts
and drives pyc.py to package them, together with every pure-Python module
they require, into a single .NET assembly.

Scripts are analyzed, never executed: ipyc walks their import statements
and resolves each imported module against the IronPython standard library
and any site-packages directories on the module search path.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newCompiler builds a Compiler from positional arguments and the layered
// configuration. Directory arguments expand to the scripts beneath them.
// ipyDirFlag and searchRoots come from command flags; empty or nil means fall
// back to the config file, then to detection/defaults.
func newCompiler(args []string, ipyDirFlag string, searchRoots []string) (*compiler.Compiler, []string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	scripts, err := discover.Expand(args)
	if err != nil {
		return nil, nil, err
	}
	if len(scripts) == 0 {
		return nil, nil, fmt.Errorf("no scripts to process")
	}

	ipyDir := ipyDirFlag
	if ipyDir == "" {
		ipyDir = cfg.IPyDir
	}
	roots := searchRoots
	if len(roots) == 0 {
		roots = cfg.SearchRoots
	}
	if len(roots) == 0 {
		roots = nil // let the compiler derive defaults from the installation
	}

	c, err := compiler.New(scripts, ipyDir, cfg.Executable)
	if err != nil {
		return nil, nil, err
	}
	return c, roots, nil
}
