// Command lumen-check type-checks lumen modules. It consumes the parser's
// JSON module dumps, runs inference and prints coded diagnostics.
//
// Usage:
//
//	lumen-check [flags] <module.json> [<module.json> ...]
//
// Flags:
//
//	-config path   explicit lumen.yaml (default: search upward from cwd)
//	-watch         re-check whenever an input file changes
//	-no-color      disable colored output even on a terminal
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/checker"
	"github.com/funvibe/lumen/internal/config"
	"github.com/funvibe/lumen/internal/diagnostics"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

func main() {
	configPath := flag.String("config", "", "path to lumen.yaml")
	watch := flag.Bool("watch", false, "re-check when input files change")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: lumen-check [flags] <module.json> ...")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	useColor := !*noColor && isatty.IsTerminal(os.Stdout.Fd())

	if *watch {
		if err := watchLoop(paths, cfg, useColor); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		return
	}

	failed, err := runCheck(paths, cfg, useColor)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if failed {
		os.Exit(1)
	}
}

func loadConfig(explicit string) (*config.Config, error) {
	if explicit != "" {
		return config.LoadConfig(explicit)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	found, err := config.FindConfig(cwd)
	if err != nil {
		return nil, err
	}
	if found == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(found)
}

// runCheck loads every input file, checks the whole program at once and
// prints diagnostics. It reports whether the run should fail.
func runCheck(paths []string, cfg *config.Config, useColor bool) (bool, error) {
	var modules []*ast.Module
	for _, path := range paths {
		loaded, err := loadModules(path)
		if err != nil {
			return true, err
		}
		modules = append(modules, loaded...)
	}

	c := checker.New()
	diags := c.CheckModules(modules)
	return printDiagnostics(diags, cfg, useColor), nil
}

// loadModules reads one parser dump, accepting either a single module
// object or an array of modules.
func loadModules(path string) ([]*ast.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		mods, err := ast.DecodeProgram(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return mods, nil
	}
	mod, err := ast.DecodeModule(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return []*ast.Module{mod}, nil
}

// printDiagnostics writes the surviving diagnostics to stdout, honoring
// the config's warning filter and error cap, and reports whether the run
// should fail.
func printDiagnostics(diags *diagnostics.Set, cfg *config.Config, useColor bool) bool {
	errorCount := 0
	warningCount := 0
	for _, d := range diags.Items() {
		if d.Severity == diagnostics.SeverityWarning && cfg.WarningDisabled(string(d.Code)) {
			continue
		}
		if d.Severity == diagnostics.SeverityError {
			errorCount++
			if cfg.Check.MaxErrors > 0 && errorCount > cfg.Check.MaxErrors {
				continue
			}
		} else {
			warningCount++
		}
		printDiagnostic(d, useColor)
	}
	if cfg.Check.MaxErrors > 0 && errorCount > cfg.Check.MaxErrors {
		fmt.Printf("... and %d more error(s)\n", errorCount-cfg.Check.MaxErrors)
	}
	if errorCount > 0 {
		return true
	}
	return cfg.Check.WarningsAsErrors && warningCount > 0
}

func printDiagnostic(d *diagnostics.Diagnostic, useColor bool) {
	severity := d.Severity.String()
	if useColor {
		color := colorRed
		if d.Severity == diagnostics.SeverityWarning {
			color = colorYellow
		}
		fmt.Printf("%s: %s%s[%s]%s %s\n", d.Span, color, severity+" ", d.Code, colorReset, d.Message)
		return
	}
	fmt.Printf("%s: %s [%s] %s\n", d.Span, severity, d.Code, d.Message)
}
