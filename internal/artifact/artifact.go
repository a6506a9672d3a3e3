// SPDX-License-Identifier: MPL-2.0

// Package artifact allocates and reclaims the scratch files that hold exported
// geometry between the export step and the upload dialog.
package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// namePrefix starts every scratch file name so stray files are recognizable.
const namePrefix = "sketchpub-"

// maxAllocateAttempts bounds the retry loop when a generated name already exists.
const maxAllocateAttempts = 8

var (
	// ErrInvalidExtension is returned when Allocate is given an unusable extension.
	ErrInvalidExtension = errors.New("invalid artifact extension")
	// ErrNameExhausted is returned when no free name could be generated.
	ErrNameExhausted = errors.New("could not allocate a unique artifact name")
)

type (
	// Manager hands out scratch paths inside one directory.
	// The zero value allocates in os.TempDir().
	Manager struct {
		dir string
	}

	// Artifact is a scratch path reserved for one publish run.
	// The file itself is created by whoever exports into it.
	Artifact struct {
		path     string
		stem     string
		ext      string
		released atomic.Bool
	}
)

// NewManager creates a Manager rooted at dir. An empty dir means os.TempDir().
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Dir returns the directory scratch files are allocated in.
func (m *Manager) Dir() string {
	if m == nil || m.dir == "" {
		return os.TempDir()
	}
	return m.dir
}

// Allocate reserves a path with the given extension that does not exist at call time.
// Names embed a random UUID so concurrent runs in one process never collide.
func (m *Manager) Allocate(ext string) (*Artifact, error) {
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	dir := m.Dir()
	for range maxAllocateAttempts {
		stem := namePrefix + uuid.NewString()
		path := filepath.Join(dir, stem+ext)
		if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
			return &Artifact{path: path, stem: stem, ext: ext}, nil
		} else if err != nil {
			return nil, fmt.Errorf("failed to check artifact path %s: %w", path, err)
		}
	}
	return nil, fmt.Errorf("%w in %s", ErrNameExhausted, dir)
}

// Release deletes the artifact and any per-component siblings an unmerged export
// wrote next to it. It is idempotent: missing files and repeat calls are not errors.
func (m *Manager) Release(a *Artifact) error {
	if a == nil || a.released.Swap(true) {
		return nil
	}

	var errs []error
	if err := os.Remove(a.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, err)
	}

	siblings, err := a.siblings()
	if err != nil {
		errs = append(errs, err)
	}
	for _, s := range siblings {
		if err := os.Remove(s); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to release artifact %s: %w", a.path, errors.Join(errs...))
	}
	return nil
}

// siblings lists files named <stem>-<component><ext> next to the artifact.
// The directory is read rather than globbed so its name is never treated as a pattern.
func (a *Artifact) siblings() ([]string, error) {
	dir := filepath.Dir(a.path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, a.stem+"-") || !strings.HasSuffix(name, a.ext) {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

// Path returns the reserved filesystem path.
func (a *Artifact) Path() string { return a.path }

// Ext returns the extension including the leading dot.
func (a *Artifact) Ext() string { return a.ext }

// Exists reports whether a regular file is currently present at the path.
func (a *Artifact) Exists() bool {
	info, err := os.Stat(a.path)
	return err == nil && info.Mode().IsRegular()
}

// Released reports whether Release has been called.
func (a *Artifact) Released() bool { return a.released.Load() }
