package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"
)

// LockFileName records the exact dependency revisions last installed.
const LockFileName = "luma.lock"

// LockedPackage is one pinned dependency in luma.lock.
type LockedPackage struct {
	Name     string `yaml:"name"`
	Source   string `yaml:"source"`
	Checksum string `yaml:"checksum"`
}

// LockFile is the parsed luma.lock.
type LockFile struct {
	Packages []LockedPackage `yaml:"packages"`
}

// Installer materializes manifest dependencies under the project's
// luma_modules directory.
type Installer struct {
	LibRoot  string
	LockPath string
	Log      io.Writer
}

// NewInstaller builds an installer for the given project layout.
func NewInstaller(project *Project) *Installer {
	return &Installer{
		LibRoot:  project.LibRoot,
		LockPath: filepath.Join(project.Root, LockFileName),
		Log:      io.Discard,
	}
}

// Install fetches every dependency in the manifest and writes
// luma.lock. Dependencies are processed in name order so lock output
// is deterministic.
func (ins *Installer) Install(manifest *Manifest) (*LockFile, error) {
	names := make([]string, 0, len(manifest.Dependencies))
	for name := range manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	lock := &LockFile{}
	for _, name := range names {
		spec := manifest.Dependencies[name]
		var (
			pkg LockedPackage
			err error
		)
		switch {
		case spec.Git != "":
			pkg, err = ins.installGit(name, spec)
		case spec.Path != "":
			pkg, err = ins.installPath(name, spec, filepath.Dir(manifest.Path))
		default:
			err = fmt.Errorf("dependency %s has no source", name)
		}
		if err != nil {
			return nil, fmt.Errorf("install %s: %w", name, err)
		}
		fmt.Fprintf(ins.Log, "installed %s (%s)\n", name, pkg.Source)
		lock.Packages = append(lock.Packages, pkg)
	}
	if err := ins.writeLock(lock); err != nil {
		return nil, err
	}
	return lock, nil
}

func (ins *Installer) installGit(name string, spec *DependencySpec) (LockedPackage, error) {
	tmp, err := os.MkdirTemp("", "luma-dep-*")
	if err != nil {
		return LockedPackage{}, err
	}
	defer os.RemoveAll(tmp)

	repo, err := git.PlainClone(tmp, false, &git.CloneOptions{URL: spec.Git})
	if err != nil {
		return LockedPackage{}, fmt.Errorf("clone %s: %w", spec.Git, err)
	}
	hash, err := resolveGitRevision(repo, spec)
	if err != nil {
		return LockedPackage{}, err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return LockedPackage{}, err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return LockedPackage{}, fmt.Errorf("checkout %s: %w", hash, err)
	}
	// Drop repository metadata before installing the tree.
	if err := os.RemoveAll(filepath.Join(tmp, ".git")); err != nil {
		return LockedPackage{}, err
	}

	dest, err := ins.place(name, tmp)
	if err != nil {
		return LockedPackage{}, err
	}
	checksum, err := dirChecksum(dest)
	if err != nil {
		return LockedPackage{}, err
	}
	return LockedPackage{
		Name:     name,
		Source:   fmt.Sprintf("git+%s@%s", spec.Git, hash),
		Checksum: checksum,
	}, nil
}

func (ins *Installer) installPath(name string, spec *DependencySpec, baseDir string) (LockedPackage, error) {
	src := spec.Path
	if !filepath.IsAbs(src) {
		src = filepath.Join(baseDir, src)
	}
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return LockedPackage{}, fmt.Errorf("path dependency %s is not a directory", src)
	}
	dest, err := ins.place(name, src)
	if err != nil {
		return LockedPackage{}, err
	}
	checksum, err := dirChecksum(dest)
	if err != nil {
		return LockedPackage{}, err
	}
	return LockedPackage{
		Name:     name,
		Source:   "path+" + src,
		Checksum: checksum,
	}, nil
}

// place copies a prepared source tree into luma_modules/<name>,
// replacing any previous install.
func (ins *Installer) place(name, srcDir string) (string, error) {
	dest := filepath.Join(ins.LibRoot, sanitizeSegment(name))
	if err := os.RemoveAll(dest); err != nil {
		return "", err
	}
	if err := copyDir(srcDir, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// resolveGitRevision pins the commit named by the spec. With no pin the
// clone's HEAD is used.
func resolveGitRevision(repo *git.Repository, spec *DependencySpec) (*plumbing.Hash, error) {
	var revision plumbing.Revision
	switch {
	case spec.Rev != "":
		revision = plumbing.Revision(spec.Rev)
	case spec.Tag != "":
		revision = plumbing.Revision("refs/tags/" + spec.Tag)
	case spec.Branch != "":
		revision = plumbing.Revision("refs/heads/" + spec.Branch)
	default:
		revision = plumbing.Revision("HEAD")
	}
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", revision, err)
	}
	return hash, nil
}

func (ins *Installer) writeLock(lock *LockFile) error {
	data, err := yaml.Marshal(lock)
	if err != nil {
		return err
	}
	return os.WriteFile(ins.LockPath, data, 0o644)
}

// LoadLock reads an existing luma.lock. A missing file yields an empty
// lock.
func LoadLock(path string) (*LockFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LockFile{}, nil
		}
		return nil, err
	}
	var lock LockFile
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("lock: parse %s: %w", path, err)
	}
	return &lock, nil
}

// dirChecksum hashes the tree's relative paths and file contents in
// sorted order.
func dirChecksum(dir string) (string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(files)

	hasher := sha256.New()
	for _, path := range files {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return "", err
		}
		io.WriteString(hasher, filepath.ToSlash(rel))
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		hasher.Write(data)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode().Perm())
	})
}

// String renders the lock for display, one package per line.
func (l *LockFile) String() string {
	var b strings.Builder
	for _, pkg := range l.Packages {
		fmt.Fprintf(&b, "%s %s\n", pkg.Name, pkg.Source)
	}
	return b.String()
}
