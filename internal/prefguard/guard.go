// SPDX-License-Identifier: MPL-2.0

// Package prefguard temporarily overrides a host boolean preference and guarantees
// the original value is written back.
//
// Host preferences are global state. Acquire serializes capture…restore per key
// within the process, so two overlapping guards on the same key cannot interleave
// and restore each other's forced value as the "original".
package prefguard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sketchpub/sketchpub/pkg/hostapi"
)

// ErrNilStore is returned when a Guard is used without a preference store.
var ErrNilStore = errors.New("preference store is nil")

type (
	// Guard captures, forces, and restores preferences on one store.
	Guard struct {
		store hostapi.PreferenceStore
	}

	// Snapshot is the value a preference had before it was forced.
	// It can be restored exactly once; later restores are no-ops.
	Snapshot struct {
		key      hostapi.PreferenceKey
		prior    bool
		once     sync.Once
		restored bool
		unlock   func()
	}
)

// keyLocks holds one mutex per preference key for the lifetime of the process.
var keyLocks sync.Map

// New creates a Guard over store.
func New(store hostapi.PreferenceStore) *Guard {
	return &Guard{store: store}
}

// Capture reads the current value of key.
func (g *Guard) Capture(key hostapi.PreferenceKey) (*Snapshot, error) {
	if g.store == nil {
		return nil, ErrNilStore
	}
	v, err := g.store.PreferenceToggle(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return &Snapshot{key: key, prior: v}, nil
}

// Force sets key to value.
func (g *Guard) Force(key hostapi.PreferenceKey, value bool) error {
	if g.store == nil {
		return ErrNilStore
	}
	if err := g.store.SetPreferenceToggle(key, value); err != nil {
		return fmt.Errorf("failed to set preference %s=%t: %w", key, value, err)
	}
	return nil
}

// Restore writes the captured value back. Only the first call touches the store.
func (g *Guard) Restore(s *Snapshot) error {
	if s == nil {
		return nil
	}
	var err error
	s.once.Do(func() {
		if s.unlock != nil {
			defer s.unlock()
		}
		if g.store == nil {
			err = ErrNilStore
			return
		}
		if setErr := g.store.SetPreferenceToggle(s.key, s.prior); setErr != nil {
			err = fmt.Errorf("failed to restore preference %s=%t: %w", s.key, s.prior, setErr)
			return
		}
		s.restored = true
	})
	return err
}

// Acquire captures key, forces it to value, and returns the snapshot to hand to
// Restore. The per-key lock is held until Restore runs, so callers must defer it.
//
// A capture failure returns a nil snapshot and releases the lock: nothing was
// changed, nothing needs restoring. A force failure still returns the snapshot,
// because a failed host write may have partially applied.
// The host write is skipped when the preference already holds value.
func (g *Guard) Acquire(key hostapi.PreferenceKey, value bool) (*Snapshot, error) {
	mu := lockFor(key)
	mu.Lock()

	snap, err := g.Capture(key)
	if err != nil {
		mu.Unlock()
		return nil, err
	}
	snap.unlock = mu.Unlock

	if snap.prior == value {
		return snap, nil
	}
	if err := g.Force(key, value); err != nil {
		return snap, err
	}
	return snap, nil
}

// Key returns the preference the snapshot was taken of.
func (s *Snapshot) Key() hostapi.PreferenceKey { return s.key }

// Prior returns the captured value.
func (s *Snapshot) Prior() bool { return s.prior }

// Restored reports whether the captured value was successfully written back.
func (s *Snapshot) Restored() bool { return s.restored }

func lockFor(key hostapi.PreferenceKey) *sync.Mutex {
	mu, _ := keyLocks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
