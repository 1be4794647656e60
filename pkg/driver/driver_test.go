package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	writeFile(t, path, `
name: demo
version: 0.1.0
targets:
  main: src/main.lu
dependencies:
  strutils:
    git: https://example.com/strutils.git
    tag: v1.2.0
  local:
    path: ../local
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if manifest.Name != "demo" || manifest.Targets["main"] != "src/main.lu" {
		t.Errorf("manifest: %+v", manifest)
	}
	if target, err := manifest.DefaultTarget(); err != nil || target != "src/main.lu" {
		t.Errorf("default target: %q, %v", target, err)
	}
	dep := manifest.Dependencies["strutils"]
	if dep == nil || dep.Git != "https://example.com/strutils.git" || dep.Tag != "v1.2.0" {
		t.Errorf("strutils: %+v", dep)
	}
	if manifest.Dependencies["local"].Path != "../local" {
		t.Errorf("local: %+v", manifest.Dependencies["local"])
	}
}

func TestLoadManifestRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	writeFile(t, path, "name: demo\nauthor: someone\n")
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("unknown keys should fail")
	}
}

func TestManifestValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	writeFile(t, path, `
name: demo
dependencies:
  bad:
    git: https://example.com/x.git
    path: ../x
  worse:
    git: https://example.com/y.git
    tag: v1
    branch: main
`)
	_, err := LoadManifest(path)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "dependencies.bad") || !strings.Contains(msg, "mutually exclusive") {
		t.Errorf("error: %v", msg)
	}
	if !strings.Contains(msg, "dependencies.worse") {
		t.Errorf("error: %v", msg)
	}
}

func TestNewProjectDetectsSrcLayout(t *testing.T) {
	root := t.TempDir()
	entry := filepath.Join(root, "src", "main.lu")
	writeFile(t, entry, "print(1)\n")
	writeFile(t, filepath.Join(root, ManifestName), "name: demo\n")

	project, err := NewProject(entry)
	if err != nil {
		t.Fatalf("NewProject: %v", err)
	}
	if project.Root != root {
		t.Errorf("root = %q, want %q", project.Root, root)
	}
	if project.Manifest == nil || project.Manifest.Name != "demo" {
		t.Errorf("manifest not loaded: %+v", project.Manifest)
	}
}

func TestNewProjectFlatLayout(t *testing.T) {
	root := t.TempDir()
	entry := filepath.Join(root, "main.lu")
	writeFile(t, entry, "print(1)\n")

	project, err := NewProject(entry)
	if err != nil {
		t.Fatalf("NewProject: %v", err)
	}
	if project.Root != root {
		t.Errorf("root = %q, want %q", project.Root, root)
	}
	if project.Manifest != nil {
		t.Error("no manifest expected")
	}
}

func TestModulePaths(t *testing.T) {
	root := t.TempDir()
	entry := filepath.Join(root, "src", "main.lu")
	writeFile(t, entry, "print(1)\n")
	project, err := NewProject(entry)
	if err != nil {
		t.Fatal(err)
	}

	appPath, err := project.ModulePath("@app.net.client")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "src", "net", "client.lu")
	if appPath != want {
		t.Errorf("app path = %q, want %q", appPath, want)
	}

	libPath, err := project.ModulePath("@lib.strutils.case")
	if err != nil {
		t.Fatal(err)
	}
	want = filepath.Join(root, "luma_modules", "strutils", "src", "case.lu")
	if libPath != want {
		t.Errorf("lib path = %q, want %q", libPath, want)
	}

	if _, err := project.ModulePath("@vendor.thing"); err == nil {
		t.Fatal("unknown mount should fail")
	} else if !strings.Contains(err.Error(), "Unknown module mount '@vendor'.") {
		t.Errorf("error: %v", err)
	}

	if _, err := project.ModulePath("@app"); err == nil {
		t.Error("mount without a file should fail")
	}
	if _, err := project.ModulePath("@lib.only"); err == nil {
		t.Error("@lib needs a file inside the dependency")
	}
}

func TestResolveReadsModuleSource(t *testing.T) {
	root := t.TempDir()
	entry := filepath.Join(root, "src", "main.lu")
	writeFile(t, entry, "print(1)\n")
	writeFile(t, filepath.Join(root, "src", "util.lu"), "module @app.util\n")

	project, err := NewProject(entry)
	if err != nil {
		t.Fatal(err)
	}
	src, err := project.Resolve("@app.util")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if src != "module @app.util\n" {
		t.Errorf("source: %q", src)
	}
	if _, err := project.Resolve("@app.ghost"); err == nil {
		t.Fatal("missing module should fail")
	} else if !strings.Contains(err.Error(), "Module file not found") {
		t.Errorf("error: %v", err)
	}
}

func TestSanitizeSegmentBlocksTraversal(t *testing.T) {
	root := t.TempDir()
	entry := filepath.Join(root, "main.lu")
	writeFile(t, entry, "print(1)\n")
	project, err := NewProject(entry)
	if err != nil {
		t.Fatal(err)
	}
	path, err := project.ModulePath("@app..passwd")
	if err == nil && strings.Contains(path, "..") {
		t.Errorf("path escapes root: %q", path)
	}
}

func TestInstallPathDependency(t *testing.T) {
	root := t.TempDir()
	depSrc := filepath.Join(root, "deps", "strutils")
	writeFile(t, filepath.Join(depSrc, "src", "case.lu"), "module @lib.strutils.case\nopen def upper(s) { return s }\n")

	projectRoot := filepath.Join(root, "proj")
	entry := filepath.Join(projectRoot, "main.lu")
	writeFile(t, entry, "print(1)\n")
	manifestPath := filepath.Join(projectRoot, ManifestName)
	writeFile(t, manifestPath, "name: proj\ndependencies:\n  strutils:\n    path: ../deps/strutils\n")

	project, err := NewProject(entry)
	if err != nil {
		t.Fatal(err)
	}
	installer := NewInstaller(project)
	lock, err := installer.Install(project.Manifest)
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if len(lock.Packages) != 1 {
		t.Fatalf("lock packages: %+v", lock.Packages)
	}
	pkg := lock.Packages[0]
	if pkg.Name != "strutils" || !strings.HasPrefix(pkg.Source, "path+") {
		t.Errorf("locked package: %+v", pkg)
	}
	if len(pkg.Checksum) != 64 {
		t.Errorf("checksum: %q", pkg.Checksum)
	}

	installed := filepath.Join(project.LibRoot, "strutils", "src", "case.lu")
	if _, err := os.Stat(installed); err != nil {
		t.Errorf("dependency not installed: %v", err)
	}

	// The installed tree is now reachable through the @lib mount.
	src, err := project.Resolve("@lib.strutils.case")
	if err != nil {
		t.Fatalf("Resolve after install: %v", err)
	}
	if !strings.Contains(src, "open def upper") {
		t.Errorf("source: %q", src)
	}

	reloaded, err := LoadLock(installer.LockPath)
	if err != nil {
		t.Fatalf("LoadLock: %v", err)
	}
	if len(reloaded.Packages) != 1 || reloaded.Packages[0].Checksum != pkg.Checksum {
		t.Errorf("reloaded lock: %+v", reloaded)
	}
}

func TestLoadLockMissingFile(t *testing.T) {
	lock, err := LoadLock(filepath.Join(t.TempDir(), LockFileName))
	if err != nil {
		t.Fatalf("LoadLock: %v", err)
	}
	if len(lock.Packages) != 0 {
		t.Errorf("expected empty lock: %+v", lock)
	}
}
