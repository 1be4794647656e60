// Package driver hosts everything around the interpreter core: the
// luma.yml project manifest, module path resolution for the mounts the
// language exposes, and git installation of declared dependencies.
package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the project manifest file looked up at the project
// root.
const ManifestName = "luma.yml"

// Manifest is the parsed contents of luma.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Targets      map[string]string
	Dependencies map[string]*DependencySpec
}

// DependencySpec describes one dependency. Git dependencies pin a rev,
// tag or branch; path dependencies point at a local directory.
type DependencySpec struct {
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"`
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type manifestFile struct {
	Name         string                     `yaml:"name"`
	Version      string                     `yaml:"version"`
	Targets      map[string]string          `yaml:"targets"`
	Dependencies map[string]*DependencySpec `yaml:"dependencies"`
}

// LoadManifest parses luma.yml from disk, returning a validated
// manifest. Unknown keys are rejected so typos fail loudly.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := &Manifest{
		Path:         absPath,
		Name:         strings.TrimSpace(raw.Name),
		Version:      strings.TrimSpace(raw.Version),
		Targets:      map[string]string{},
		Dependencies: map[string]*DependencySpec{},
	}
	for name, main := range raw.Targets {
		manifest.Targets[strings.TrimSpace(name)] = strings.TrimSpace(main)
	}
	for name, dep := range raw.Dependencies {
		if dep == nil {
			continue
		}
		manifest.Dependencies[strings.TrimSpace(name)] = dep.normalized()
	}
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (d *DependencySpec) normalized() *DependencySpec {
	return &DependencySpec{
		Git:    strings.TrimSpace(d.Git),
		Rev:    strings.TrimSpace(d.Rev),
		Tag:    strings.TrimSpace(d.Tag),
		Branch: strings.TrimSpace(d.Branch),
		Path:   strings.TrimSpace(d.Path),
	}
}

// DefaultTarget picks the entry point for a bare `luma run`: the target
// named "main" when present, otherwise a sole target.
func (m *Manifest) DefaultTarget() (string, error) {
	if main, ok := m.Targets["main"]; ok {
		return main, nil
	}
	if len(m.Targets) == 1 {
		for _, main := range m.Targets {
			return main, nil
		}
	}
	if len(m.Targets) == 0 {
		return "", fmt.Errorf("manifest %s declares no targets", m.Path)
	}
	return "", fmt.Errorf("manifest %s has multiple targets and none named main", m.Path)
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for name, main := range m.Targets {
		if name == "" || main == "" {
			errs.Issues = append(errs.Issues, "targets must map a name to a source file")
		}
	}
	for name, dep := range m.Dependencies {
		if name == "" {
			errs.Issues = append(errs.Issues, "dependency names must be non-empty")
			continue
		}
		for _, issue := range dep.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var issues []string
	if d.Git == "" && d.Path == "" {
		issues = append(issues, "must specify git or path")
	}
	if d.Git != "" && d.Path != "" {
		issues = append(issues, "git and path sources are mutually exclusive")
	}
	pins := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pins++
		}
	}
	if pins > 1 {
		issues = append(issues, "rev, tag and branch are mutually exclusive")
	}
	if d.Path != "" && pins > 0 {
		issues = append(issues, "path dependencies cannot pin a revision")
	}
	return issues
}
