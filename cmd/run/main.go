package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/wippyai/lua-bridge/errors"
	"github.com/wippyai/lua-bridge/rocks"
	"github.com/wippyai/lua-bridge/runtime"
)

func main() {
	var (
		expr        = flag.String("e", "", "Source to evaluate")
		loadPaths   = flag.String("path", "", "Module load paths (comma-separated)")
		pkgPaths    = flag.String("pkgpath", "", "Package search paths (comma-separated)")
		envVars     = flag.String("env", "", "Environment variables (KEY=VAL,KEY2=VAL2)")
		persist     = flag.Bool("persist", false, "Keep top-level bindings across evaluations")
		install     = flag.String("install", "", "Install a package (name or name@version) and exit")
		sources     = flag.String("source", "", "Package source directories (comma-separated)")
		installDir  = flag.String("installdir", "", "Install directory (default: first writable package path)")
		force       = flag.Bool("force", false, "Reinstall even when already installed")
		nodeps      = flag.Bool("nodeps", false, "Skip declared dependencies")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()
	script := flag.Arg(0)

	if *expr == "" && script == "" && *install == "" && !*interactive {
		// Bare invocation: a terminal gets the REPL, a pipe gets evaluated.
		if term.IsTerminal(int(os.Stdin.Fd())) {
			*interactive = true
		} else {
			script = "-"
		}
	}

	cfg := runtime.Config{PersistLocals: *persist || *interactive}
	if *loadPaths != "" {
		cfg.LoadPaths = strings.Split(*loadPaths, ",")
	}
	if *pkgPaths != "" {
		cfg.PackagePaths = strings.Split(*pkgPaths, ",")
	}
	if *envVars != "" {
		cfg.Environment = make(map[string]string)
		for _, kv := range strings.Split(*envVars, ",") {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) == 2 {
				cfg.Environment[parts[0]] = parts[1]
			}
		}
	}

	if *interactive {
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	err := runtime.With(cfg, func(rt *runtime.Runtime) error {
		if *install != "" {
			return installPackage(rt, *install, *sources, *installDir, *force, *nodeps)
		}
		if *expr != "" {
			return evalAndPrint(rt, *expr)
		}
		return runScript(rt, script)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, render(err))
		os.Exit(1)
	}
}

func evalAndPrint(rt *runtime.Runtime, source string) error {
	result, err := rt.Eval(context.Background(), source)
	if err != nil {
		return err
	}
	if result != nil {
		fmt.Printf("%v\n", result)
	}
	return nil
}

func runScript(rt *runtime.Runtime, script string) error {
	if script == "-" {
		_, err := rt.EvalReader(context.Background(), os.Stdin, "stdin")
		return err
	}
	f, err := os.Open(script)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	_, err = rt.EvalReader(context.Background(), f, script)
	return err
}

func installPackage(rt *runtime.Runtime, spec, sourceList, dir string, force, nodeps bool) error {
	name, version := spec, ""
	if at := strings.LastIndex(spec, "@"); at > 0 {
		name, version = spec[:at], spec[at+1:]
	}
	opts := rocks.Options{
		InstallDir:         dir,
		Force:              force,
		IgnoreDependencies: nodeps,
	}
	if sourceList != "" {
		opts.ExtraSources = strings.Split(sourceList, ",")
	}
	if err := rocks.Install(context.Background(), rt, name, version, opts); err != nil {
		return err
	}
	fmt.Printf("installed %s\n", spec)
	return nil
}

// render formats an error for the terminal, surfacing the interpreter
// diagnostic and traceback when the failure came from inside a script.
func render(err error) string {
	if msg, tb, ok := errors.Diagnostic(err); ok {
		if tb != "" {
			return fmt.Sprintf("Error: %s\n%s", msg, tb)
		}
		return "Error: " + msg
	}
	return "Error: " + err.Error()
}
