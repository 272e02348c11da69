package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var analyzeOpts struct {
	ipyDir      string
	searchRoots []string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze SCRIPT...",
	Short: "Only check what modules the scripts require",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeOpts.ipyDir, "ipy-dir", "", "IronPython installation directory (default: detected)")
	f.StringArrayVar(&analyzeOpts.searchRoots, "search-root", nil, "module search root (repeatable; overrides the default roots)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	c, roots, err := newCompiler(args, analyzeOpts.ipyDir, analyzeOpts.searchRoots)
	if err != nil {
		return err
	}

	res, err := c.Analyze(roots)
	if err != nil {
		log.Warn("some scripts could not be analyzed", "err", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Searched for modules in these directories:")
	for _, root := range res.SearchRoots {
		fmt.Fprintln(out, "  "+root)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "These modules are required and compilable:")
	for _, path := range res.CompilablePaths() {
		fmt.Fprintln(out, "  "+path)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "These modules are required but uncompilable:")
	for _, name := range res.UncompilableModules() {
		fmt.Fprintln(out, "  "+name)
	}
	return nil
}
