package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceExtension is the file extension module files must carry.
const SourceExtension = ".lu"

// Project locates module source on disk for the three mounts the
// language knows about:
//
//	@std  standard library scripts layered over the native tables
//	@app  the project's own source tree
//	@lib  installed third-party dependencies
//
// It satisfies the interpreter's ModuleResolver interface.
type Project struct {
	Root     string
	StdRoot  string
	LibRoot  string
	Manifest *Manifest
}

// NewProject derives project layout from the entry script. The project
// root is the entry file's directory, or its parent when the entry
// lives in a src/ directory. A luma.yml at the root is loaded when
// present.
func NewProject(entryFile string) (*Project, error) {
	absEntry, err := filepath.Abs(entryFile)
	if err != nil {
		return nil, fmt.Errorf("resolve entry path %s: %w", entryFile, err)
	}
	root := filepath.Dir(absEntry)
	if filepath.Base(root) == "src" {
		root = filepath.Dir(root)
	}

	project := &Project{
		Root:    root,
		StdRoot: findStdRoot(root),
		LibRoot: filepath.Join(root, "luma_modules"),
	}

	manifestPath := filepath.Join(root, ManifestName)
	if _, statErr := os.Stat(manifestPath); statErr == nil {
		manifest, loadErr := LoadManifest(manifestPath)
		if loadErr != nil {
			return nil, loadErr
		}
		project.Manifest = manifest
	}
	return project, nil
}

// findStdRoot prefers a project-local std/ directory, then one next to
// the interpreter binary, then std/ under the working directory.
func findStdRoot(projectRoot string) string {
	candidates := []string{filepath.Join(projectRoot, "std")}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "std"))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, "std"))
	}
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return candidates[0]
}

// Resolve maps a module id such as @app.net.client to a source file and
// returns its contents.
func (p *Project) Resolve(moduleID string) (string, error) {
	path, err := p.ModulePath(moduleID)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("Module file not found: %s (for %s)", path, moduleID)
	}
	return string(data), nil
}

// ModulePath translates a module id to the file that would hold it,
// without reading it.
func (p *Project) ModulePath(moduleID string) (string, error) {
	mount, segments, err := splitModuleID(moduleID)
	if err != nil {
		return "", err
	}
	switch mount {
	case "std":
		return filepath.Join(p.StdRoot, segmentPath(segments)), nil
	case "app":
		return filepath.Join(p.appSourceRoot(), segmentPath(segments)), nil
	case "lib":
		if len(segments) < 2 {
			return "", fmt.Errorf("Module id %s must name a file inside the dependency.", moduleID)
		}
		dep := segments[0]
		return filepath.Join(p.LibRoot, sanitizeSegment(dep), "src", segmentPath(segments[1:])), nil
	default:
		return "", fmt.Errorf("Unknown module mount '@%s'.", mount)
	}
}

// appSourceRoot is <root>/src when it exists, otherwise the root
// itself, so flat single-directory projects keep working.
func (p *Project) appSourceRoot() string {
	srcDir := filepath.Join(p.Root, "src")
	if info, err := os.Stat(srcDir); err == nil && info.IsDir() {
		return srcDir
	}
	return p.Root
}

func splitModuleID(moduleID string) (mount string, segments []string, err error) {
	if !strings.HasPrefix(moduleID, "@") {
		return "", nil, fmt.Errorf("Invalid module id %q.", moduleID)
	}
	parts := strings.Split(moduleID[1:], ".")
	if len(parts) < 2 || parts[0] == "" {
		return "", nil, fmt.Errorf("Module id %s must name a file inside its mount.", moduleID)
	}
	for _, part := range parts {
		if part == "" {
			return "", nil, fmt.Errorf("Invalid module id %q.", moduleID)
		}
	}
	return parts[0], parts[1:], nil
}

func segmentPath(segments []string) string {
	cleaned := make([]string, len(segments))
	for i, s := range segments {
		cleaned[i] = sanitizeSegment(s)
	}
	return filepath.Join(cleaned...) + SourceExtension
}

// sanitizeSegment keeps module path pieces from escaping their root.
func sanitizeSegment(s string) string {
	s = strings.ReplaceAll(s, "..", "")
	s = strings.ReplaceAll(s, "/", "")
	s = strings.ReplaceAll(s, "\\", "")
	return s
}
