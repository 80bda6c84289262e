// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/paulmach/orb"

	"github.com/MKhiriev/geosync/internal/logger"
	"github.com/MKhiriev/geosync/internal/utils"
	"github.com/MKhiriev/geosync/models"
)

// ChangeKind enumerates the local mutations a host can apply to a feature.
type ChangeKind int

const (
	// ChangeAdd creates a new feature. An empty id generates one.
	ChangeAdd ChangeKind = iota
	// ChangeModify replaces geometry and/or properties of an existing,
	// non-tombstoned feature.
	ChangeModify
	// ChangeDelete tombstones a feature until the deletion is pushed. A
	// feature the remote side has never seen is dropped outright.
	ChangeDelete
	// ChangeUndelete restores a tombstoned feature.
	ChangeUndelete
	// ChangeResolve settles a conflicted feature: KeepLocal re-queues the
	// interrupted local edit, otherwise the retained remote copy wins.
	ChangeResolve
)

// Change describes one local edit. Geometry and Properties are consulted for
// Add and Modify; a nil field keeps the current value. KeepLocal is
// consulted for Resolve only.
type Change struct {
	Kind       ChangeKind
	Geometry   orb.Geometry
	Properties *models.Properties
	KeepLocal  bool
}

// FeatureStore owns all features of one layer together with their sync
// state. All mutations (host edits, merge commits, push confirmations) are
// serialized through a single writer lock, so the two mutating actors, the
// host edit path and the sync cycle, can never interleave partially.
// Readers take copy-on-write snapshots and never block the writer.
type FeatureStore struct {
	layer string
	log   *logger.Logger

	mu         sync.RWMutex
	features   map[string]*models.Feature
	tracker    *editTracker
	generation uint64
}

// NewFeatureStore creates an empty store for the named layer.
func NewFeatureStore(layer string, log *logger.Logger) *FeatureStore {
	return &FeatureStore{
		layer:    layer,
		log:      log.WithLayer(layer),
		features: make(map[string]*models.Feature),
		tracker:  newEditTracker(),
	}
}

// Layer returns the layer name the store belongs to.
func (s *FeatureStore) Layer() string { return s.layer }

// ApplyLocalEdit applies one host edit synchronously and returns the
// resulting feature. It fails with ErrInvalidEdit when the edit violates a
// state precondition and with ErrFeatureNotFound for unknown ids; in both
// cases the store is untouched. Every accepted mutation bumps the feature
// revision.
func (s *FeatureStore) ApplyLocalEdit(id string, change Change) (models.Feature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch change.Kind {
	case ChangeAdd:
		return s.applyAdd(id, change)
	case ChangeModify:
		return s.applyModify(id, change)
	case ChangeDelete:
		return s.applyDelete(id)
	case ChangeUndelete:
		return s.applyUndelete(id)
	case ChangeResolve:
		return s.applyResolve(id, change.KeepLocal)
	default:
		return models.Feature{}, fmt.Errorf("%w: unknown change kind %d", ErrInvalidEdit, change.Kind)
	}
}

func (s *FeatureStore) applyAdd(id string, change Change) (models.Feature, error) {
	if id == "" {
		id = utils.NewFeatureID()
	}
	if _, exists := s.features[id]; exists {
		return models.Feature{}, fmt.Errorf("%w: feature %s already exists", ErrInvalidEdit, id)
	}
	if change.Geometry == nil {
		return models.Feature{}, fmt.Errorf("%w: added feature needs geometry", ErrInvalidEdit)
	}

	f := &models.Feature{
		ID:       id,
		Geometry: orb.Clone(change.Geometry),
		Revision: 1,
		State:    models.StateLocallyAdded,
	}
	if change.Properties != nil {
		f.Properties = change.Properties.Clone()
	} else {
		f.Properties = models.NewProperties()
	}

	s.put(f)
	return f.Clone(), nil
}

func (s *FeatureStore) applyModify(id string, change Change) (models.Feature, error) {
	f, ok := s.features[id]
	if !ok {
		return models.Feature{}, fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}
	if f.State == models.StateLocallyDeleted {
		// Tombstones accept only un-delete; anything else would silently
		// drop the recorded delete intent.
		return models.Feature{}, fmt.Errorf("%w: feature %s is deleted", ErrInvalidEdit, id)
	}

	if change.Geometry != nil {
		f.Geometry = orb.Clone(change.Geometry)
	}
	if change.Properties != nil {
		f.Properties = change.Properties.Clone()
	}
	f.Revision++

	switch f.State {
	case models.StateClean:
		f.State = models.StateLocallyModified
	case models.StateConflicted:
		// Editing a conflicted feature refines the local side; the
		// conflict still needs an explicit resolution.
		if f.ConflictedFrom == models.StateLocallyDeleted {
			f.ConflictedFrom = models.StateLocallyModified
		}
	}

	s.put(f)
	return f.Clone(), nil
}

func (s *FeatureStore) applyDelete(id string) (models.Feature, error) {
	f, ok := s.features[id]
	if !ok {
		return models.Feature{}, fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}

	// A locally added feature was never pushed: dropping it leaves nothing
	// to reconcile on either side.
	if f.State == models.StateLocallyAdded {
		out := f.Clone()
		s.remove(id)
		return out, nil
	}

	if f.State == models.StateConflicted {
		f.ConflictedFrom = models.StateLocallyDeleted
	} else {
		f.State = models.StateLocallyDeleted
	}
	f.Revision++

	s.put(f)
	return f.Clone(), nil
}

func (s *FeatureStore) applyUndelete(id string) (models.Feature, error) {
	f, ok := s.features[id]
	if !ok {
		return models.Feature{}, fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}
	if f.State != models.StateLocallyDeleted {
		return models.Feature{}, fmt.Errorf("%w: feature %s is not deleted", ErrInvalidEdit, id)
	}

	f.Revision++
	switch {
	case f.Baseline == nil:
		f.State = models.StateLocallyAdded
	case utils.FeatureHash(f.Geometry, f.Properties) == f.Baseline.Hash:
		f.State = models.StateClean
	default:
		f.State = models.StateLocallyModified
	}

	s.put(f)
	return f.Clone(), nil
}

func (s *FeatureStore) applyResolve(id string, keepLocal bool) (models.Feature, error) {
	f, ok := s.features[id]
	if !ok {
		return models.Feature{}, fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}
	if f.State != models.StateConflicted {
		return models.Feature{}, fmt.Errorf("%w: feature %s is not conflicted", ErrInvalidEdit, id)
	}

	if keepLocal {
		// Re-queue the interrupted edit, rebased onto the version that
		// caused the conflict so the next merge does not re-flag it.
		if f.Remote != nil {
			version := f.Remote.Version()
			f.Baseline = &version
		}
		f.State = f.ConflictedFrom
		if !f.State.Pending() {
			f.State = models.StateLocallyModified
		}
		f.Remote = nil
		f.ConflictedFrom = 0
		f.Revision++
		s.put(f)
		return f.Clone(), nil
	}

	// Remote wins. A nil retained copy means the remote side deleted the
	// feature; accepting that removes it locally.
	if f.Remote == nil {
		out := f.Clone()
		s.remove(id)
		return out, nil
	}

	version := f.Remote.Version()
	f.Geometry = orb.Clone(f.Remote.Geometry)
	f.Properties = f.Remote.Properties.Clone()
	f.Baseline = &version
	f.State = models.StateClean
	f.Remote = nil
	f.ConflictedFrom = 0
	f.Revision++

	s.put(f)
	return f.Clone(), nil
}

// Get returns a copy of the feature with the given id.
func (s *FeatureStore) Get(id string) (models.Feature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.features[id]
	if !ok {
		return models.Feature{}, fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}
	return f.Clone(), nil
}

// Len returns the number of live (non-tombstoned) features.
func (s *FeatureStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, f := range s.features {
		if f.State != models.StateLocallyDeleted {
			n++
		}
	}
	return n
}

// Snapshot returns a consistent point-in-time deep copy of every feature,
// tombstones included, keyed by id. The copy is fully independent of the
// store, so reconciliation can run against it while the host keeps editing.
func (s *FeatureStore) Snapshot() map[string]models.Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.Feature, len(s.features))
	for id, f := range s.features {
		out[id] = f.Clone()
	}
	return out
}

// Generation returns the store mutation counter. Two equal generations
// bracket a window with no mutations in between.
func (s *FeatureStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// PendingEdits returns the local edits awaiting a push, ordered by feature
// id. Conflicted features are excluded until resolved. Calling twice without
// intervening edits yields identical content.
func (s *FeatureStore) PendingEdits() []models.PendingEdit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PendingEdit, 0, s.tracker.len())
	for _, id := range s.tracker.ids() {
		f, ok := s.features[id]
		if !ok || !f.State.Pending() {
			continue
		}
		out = append(out, models.PendingEdit{ID: id, State: f.State, Feature: f.Clone()})
	}
	return out
}

// ConflictIDs returns the ids of conflicted features, sorted, for the host's
// conflict list.
func (s *FeatureStore) ConflictIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for _, id := range s.tracker.ids() {
		if f, ok := s.features[id]; ok && f.State == models.StateConflicted {
			out = append(out, id)
		}
	}
	return out
}

// CommitMergeResult applies one reconciliation's decisions atomically and
// returns the ids whose stored content changed, sorted.
//
// Decisions were computed against an earlier snapshot, so every application
// is guarded against edits that landed while the fetch was in flight: a
// feature the host dirtied since the snapshot is skipped here and will be
// reconciled (or flagged) by the next cycle.
func (s *FeatureStore) CommitMergeResult(result models.MergeResult) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := make([]string, 0, len(result.Adopt)+len(result.Remove)+len(result.Conflicts))

	for _, rf := range result.Adopt {
		current, exists := s.features[rf.ID]
		if exists && current.State != models.StateClean {
			continue // dirtied in flight
		}

		version := rf.Version()
		f := &models.Feature{
			ID:         rf.ID,
			Geometry:   orb.Clone(rf.Geometry),
			Properties: rf.Properties.Clone(),
			Revision:   1,
			State:      models.StateClean,
			Baseline:   &version,
		}
		if exists {
			f.Revision = current.Revision + 1
		}
		s.put(f)
		changed = append(changed, rf.ID)
	}

	for _, id := range result.Remove {
		current, exists := s.features[id]
		if !exists || current.State != models.StateClean {
			continue
		}
		s.remove(id)
		changed = append(changed, id)
	}

	for _, conflict := range result.Conflicts {
		current, exists := s.features[conflict.ID]
		if !exists {
			continue
		}
		if current.State.Pending() {
			current.ConflictedFrom = current.State
		}
		current.State = models.StateConflicted
		if conflict.Remote != nil {
			remote := conflict.Remote.Clone()
			current.Remote = &remote
		} else {
			current.Remote = nil
		}
		s.put(current)
		changed = append(changed, conflict.ID)
	}

	for _, conf := range result.Confirm {
		current, exists := s.features[conf.ID]
		if !exists || current.Revision != conf.Revision {
			continue // edited again since the merge ran
		}
		version := conf.Version
		current.State = models.StateClean
		current.Baseline = &version
		current.Remote = nil
		current.ConflictedFrom = 0
		s.put(current)
		changed = append(changed, conf.ID)
	}

	sort.Strings(changed)
	if len(changed) > 0 {
		s.log.Debug().Int("changed", len(changed)).Msg("merge result committed")
	}
	return changed
}

// ClearPushed marks successfully pushed edits as settled: added and modified
// features become clean with their pushed content as the new baseline,
// tombstones are finally removed. Edits whose feature was modified again
// while the push was in flight are left pending.
func (s *FeatureStore) ClearPushed(edits []models.PendingEdit) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := make([]string, 0, len(edits))
	for _, edit := range edits {
		current, exists := s.features[edit.ID]
		if !exists || current.Revision != edit.Feature.Revision {
			continue
		}

		if edit.State == models.StateLocallyDeleted {
			s.remove(edit.ID)
			cleared = append(cleared, edit.ID)
			continue
		}

		current.State = models.StateClean
		current.Baseline = &models.RemoteVersion{
			Revision: current.Revision,
			Hash:     utils.FeatureHash(current.Geometry, current.Properties),
		}
		s.put(current)
		cleared = append(cleared, edit.ID)
	}

	sort.Strings(cleared)
	return cleared
}

// put stores f and keeps the dirty index and generation counter in step.
// Callers must hold the writer lock.
func (s *FeatureStore) put(f *models.Feature) {
	s.features[f.ID] = f
	s.tracker.observe(f.ID, f.State)
	s.generation++
}

// remove drops the feature entirely. Callers must hold the writer lock.
func (s *FeatureStore) remove(id string) {
	delete(s.features, id)
	s.tracker.forget(id)
	s.generation++
}
