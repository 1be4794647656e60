package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/luma-lang/luma/pkg/driver"
	"github.com/luma-lang/luma/pkg/interpreter"
	"github.com/luma-lang/luma/pkg/lexer"
	"github.com/luma-lang/luma/pkg/parser"
)

const cliVersion = "luma 0.1.0"

var errManifestNotFound = errors.New("luma.yml not found")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		return runREPL()
	}
	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliVersion)
		return 0
	case "run":
		return runFile(args[1:])
	case "tokens":
		return dumpTokens(args[1:])
	case "repl":
		return runREPL()
	case "deps":
		return runDeps(args[1:])
	default:
		return runFile(args)
	}
}

func runFile(args []string) int {
	var path string
	switch len(args) {
	case 0:
		resolved, err := defaultTargetPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		path = resolved
	case 1:
		path = args[0]
	default:
		fmt.Fprintln(os.Stderr, "luma run takes at most one source file")
		return 1
	}
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read %s: %v\n", path, err)
		return 1
	}

	project, err := driver.NewProject(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	tokens, err := lexer.New(string(source)).ScanTokens()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	program, parseErrs := parser.New(tokens).Parse()
	if len(parseErrs) > 0 {
		for _, perr := range parseErrs {
			fmt.Fprintln(os.Stderr, perr)
		}
		return 1
	}

	interp := interpreter.New()
	interp.SetResolver(project)
	if err := interp.Run(program); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func dumpTokens(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "luma tokens requires exactly one source file")
		return 1
	}
	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read %s: %v\n", args[0], err)
		return 1
	}
	tokens, err := lexer.New(string(source)).ScanTokens()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, tok := range tokens {
		fmt.Fprintln(os.Stdout, tok)
	}
	return 0
}

func runDeps(args []string) int {
	if len(args) == 0 || args[0] != "install" {
		fmt.Fprintln(os.Stderr, "luma deps requires the install subcommand")
		return 1
	}
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "luma deps install does not take arguments")
		return 1
	}
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return 1
	}
	manifestPath, err := findManifest(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate %s: %v\n", driver.ManifestName, err)
		return 1
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return 1
	}

	root := filepath.Dir(manifestPath)
	installer := &driver.Installer{
		LibRoot:  filepath.Join(root, "luma_modules"),
		LockPath: filepath.Join(root, driver.LockFileName),
		Log:      os.Stdout,
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(manifest.Dependencies))

	lock, err := installer.Install(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to install dependencies: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "Wrote %s (%d packages)\n", installer.LockPath, len(lock.Packages))
	return 0
}

// defaultTargetPath resolves the manifest's default target relative to
// the manifest directory.
func defaultTargetPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}
	manifestPath, err := findManifest(cwd)
	if err != nil {
		return "", fmt.Errorf("luma run requires a source file or a manifest target: %w", err)
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		return "", err
	}
	target, err := manifest.DefaultTarget()
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target), nil
	}
	return filepath.Join(filepath.Dir(manifestPath), filepath.FromSlash(target)), nil
}

// findManifest walks upward from start until it finds luma.yml.
func findManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, driver.ManifestName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", driver.ManifestName, origin, errManifestNotFound)
		}
		dir = parent
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  luma run [file.lu]")
	fmt.Fprintln(os.Stderr, "  luma <file.lu>")
	fmt.Fprintln(os.Stderr, "  luma tokens <file.lu>")
	fmt.Fprintln(os.Stderr, "  luma repl")
	fmt.Fprintln(os.Stderr, "  luma deps install")
	fmt.Fprintln(os.Stderr, "  luma version")
}
