package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hamukichi/ipyc/internal/compiler"
)

var compileOpts struct {
	out          string
	target       string
	main         string
	platform     string
	embed        bool
	standalone   bool
	mta          bool
	keepResponse bool
	ipyDir       string
	searchRoots  []string
}

var compileCmd = &cobra.Command{
	Use:   "compile [flags] SCRIPT...",
	Short: "Analyze scripts and compile them",
	Long: `Analyze the module dependencies of the given scripts (or every script in
the given directories) and compile them into a .NET assembly. When building
an exe or winexe, the first script is the program entry point unless --main
says otherwise.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func init() {
	f := compileCmd.Flags()
	f.StringVarP(&compileOpts.out, "out", "o", "", "output file name")
	f.StringVarP(&compileOpts.target, "target", "t", "dll", "compile scripts into dll, exe, or winexe")
	f.StringVarP(&compileOpts.main, "main", "m", "", "script to be executed first")
	f.StringVarP(&compileOpts.platform, "platform", "p", "", "target platform (x86 or x64)")
	f.BoolVarP(&compileOpts.embed, "embed", "e", false, "embed the generated DLL into exe/winexe")
	f.BoolVarP(&compileOpts.standalone, "standalone", "s", false, "embed the IronPython assemblies into exe/winexe")
	f.BoolVarP(&compileOpts.mta, "mta", "M", false, "set MTAThreadAttribute (winexe)")
	f.BoolVar(&compileOpts.keepResponse, "keep-response", false, "keep the pyc.py response file after compilation")
	f.StringVar(&compileOpts.ipyDir, "ipy-dir", "", "IronPython installation directory (default: detected)")
	f.StringArrayVar(&compileOpts.searchRoots, "search-root", nil, "module search root (repeatable; overrides the default roots)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	buildsExe := compileOpts.target == "exe" || compileOpts.target == "winexe"
	if compileOpts.target != "dll" && !buildsExe {
		return fmt.Errorf("unknown target %q (want dll, exe, or winexe)", compileOpts.target)
	}

	// The main script leads the list so it becomes the entry point.
	if buildsExe && compileOpts.main != "" && !contains(args, compileOpts.main) {
		args = append([]string{compileOpts.main}, args...)
	}

	c, roots, err := newCompiler(args, compileOpts.ipyDir, compileOpts.searchRoots)
	if err != nil {
		return err
	}

	log.Info("analyzing scripts", "count", len(c.Scripts()))
	if _, err := c.Analyze(roots); err != nil {
		log.Warn("some scripts could not be analyzed", "err", err)
	}

	opts := compiler.BuildOptions{
		Out:          compileOpts.out,
		WinExe:       compileOpts.target == "winexe",
		Platform:     compileOpts.platform,
		Embed:        compileOpts.embed,
		Standalone:   compileOpts.standalone,
		MTA:          compileOpts.mta,
		KeepResponse: compileOpts.keepResponse,
	}

	log.Info("compiling scripts", "target", compileOpts.target)
	if buildsExe {
		err = c.CreateExecutable(opts)
	} else {
		err = c.CreateDLL(opts)
	}
	if err != nil {
		if c.PycStderr != "" {
			fmt.Fprint(cmd.ErrOrStderr(), c.PycStderr)
		}
		return err
	}

	if c.PycStdout != "" {
		fmt.Fprint(cmd.OutOrStdout(), c.PycStdout)
	}
	log.Info("done")
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
