// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/sketchpub/sketchpub/pkg/hostapi"

	"github.com/pelletier/go-toml/v2"
)

// DefaultRevision is reported when no revision is configured (the 2022 release).
const DefaultRevision = "30.2.1"

// ErrUnknownPreference is returned for preference keys the host does not define.
var ErrUnknownPreference = errors.New("unknown host preference")

type (
	// Host is the workspace implementation of hostapi.Host. Preferences are read
	// from and written through to a TOML file on every access, so concurrent
	// processes sharing the file observe each other's changes.
	Host struct {
		mu        sync.Mutex
		prefsPath string
		revision  string
		// mem backs the preferences when no file is configured.
		mem map[hostapi.PreferenceKey]bool
	}

	// prefsFile is the on-disk preferences layout.
	prefsFile struct {
		Toggles map[string]bool `toml:"toggles"`
	}
)

// preferenceDefaults are the values of preferences absent from the file.
var preferenceDefaults = map[hostapi.PreferenceKey]bool{
	hostapi.PrefSTLComponentsIntoOneFile: false,
}

// NewHost creates a host. An empty prefsPath keeps preferences in memory; an
// empty revision reports DefaultRevision.
func NewHost(prefsPath, revision string) *Host {
	if revision == "" {
		revision = DefaultRevision
	}
	return &Host{
		prefsPath: prefsPath,
		revision:  revision,
		mem:       map[hostapi.PreferenceKey]bool{},
	}
}

// RevisionNumber returns the host revision string, e.g. "30.2.1".
func (h *Host) RevisionNumber() string { return h.revision }

// PreferencesPath returns the preferences file, or "" for in-memory preferences.
func (h *Host) PreferencesPath() string { return h.prefsPath }

// PreferenceToggle returns the current value of key.
func (h *Host) PreferenceToggle(key hostapi.PreferenceKey) (bool, error) {
	def, ok := preferenceDefaults[key]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownPreference, key)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	toggles, err := h.load()
	if err != nil {
		return false, err
	}
	if v, ok := toggles[key]; ok {
		return v, nil
	}
	return def, nil
}

// SetPreferenceToggle sets key to value and persists it.
func (h *Host) SetPreferenceToggle(key hostapi.PreferenceKey, value bool) error {
	if _, ok := preferenceDefaults[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPreference, key)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.prefsPath == "" {
		h.mem[key] = value
		return nil
	}

	toggles, err := h.load()
	if err != nil {
		return err
	}
	toggles[key] = value

	out := prefsFile{Toggles: make(map[string]bool, len(toggles))}
	for k, v := range toggles {
		out.Toggles[string(k)] = v
	}
	data, err := toml.Marshal(out)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	return writeFileAtomic(h.prefsPath, data)
}

// load returns the stored toggles. A missing file yields an empty map.
func (h *Host) load() (map[hostapi.PreferenceKey]bool, error) {
	if h.prefsPath == "" {
		toggles := make(map[hostapi.PreferenceKey]bool, len(h.mem))
		for k, v := range h.mem {
			toggles[k] = v
		}
		return toggles, nil
	}

	data, err := os.ReadFile(h.prefsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[hostapi.PreferenceKey]bool{}, nil
		}
		return nil, fmt.Errorf("failed to read preferences %s: %w", h.prefsPath, err)
	}

	var pf prefsFile
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&pf); err != nil {
		return nil, fmt.Errorf("failed to parse preferences %s: %w", h.prefsPath, err)
	}
	toggles := make(map[hostapi.PreferenceKey]bool, len(pf.Toggles))
	for k, v := range pf.Toggles {
		toggles[hostapi.PreferenceKey(k)] = v
	}
	return toggles, nil
}
