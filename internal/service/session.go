// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/geosync/internal/adapter"
	"github.com/MKhiriev/geosync/internal/logger"
	"github.com/MKhiriev/geosync/internal/store"
	"github.com/MKhiriev/geosync/models"
)

// SyncSession drives the fetch→merge→push cycle for a single activated
// layer. It owns the layer's phase state machine and reports progress
// through the Events sink. One session exists per active layer; cycles on
// the same session never overlap.
type SyncSession struct {
	bookmark models.Bookmark
	store    *store.FeatureStore
	remote   adapter.RemoteClient
	merger   Merger
	registry store.BookmarkRegistry
	events   models.Events
	log      *logger.Logger

	mu              sync.Mutex
	phase           models.SyncPhase
	lastErr         error
	lastContentHash string

	inFlight atomic.Bool
}

// NewSyncSession wires a session for one layer. The registry may be nil when
// the bookmark is not persisted; last-synced bookkeeping is then skipped.
func NewSyncSession(
	bookmark models.Bookmark,
	featureStore *store.FeatureStore,
	remote adapter.RemoteClient,
	merger Merger,
	registry store.BookmarkRegistry,
	events models.Events,
	log *logger.Logger,
) *SyncSession {
	if events == nil {
		events = models.NopEvents{}
	}
	return &SyncSession{
		bookmark: bookmark,
		store:    featureStore,
		remote:   remote,
		merger:   merger,
		registry: registry,
		events:   events,
		log:      log.WithLayer(bookmark.Name),
		phase:    models.PhaseIdle,
	}
}

// RunCycle implements CycleRunner. A cycle that arrives while another is
// active on this session returns nil immediately; the periodic job and a
// manual trigger firing together must not double-fetch.
func (s *SyncSession) RunCycle(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.log.Debug().Msg("sync cycle already in flight, coalescing")
		return nil
	}
	defer s.inFlight.Store(false)

	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()

	s.setPhase(models.PhaseFetching)

	snapshot, err := s.remote.Fetch(ctx, s.bookmark)
	if err != nil {
		// Transient failures were already retried inside the client; any
		// error surfacing here fails the cycle. Local edits stay intact and
		// the next cycle starts fresh.
		return s.fail(fmt.Errorf("fetch layer %s: %w", s.bookmark.Name, err))
	}

	if s.skipUnchanged(snapshot) {
		return s.pushPending(ctx)
	}

	s.setPhase(models.PhaseMerging)

	result, err := s.merger.Reconcile(ctx, s.store.Snapshot(), snapshot)
	if err != nil {
		s.setPhase(models.PhaseIdle)
		return fmt.Errorf("reconcile layer %s: %w", s.bookmark.Name, err)
	}

	changed := s.store.CommitMergeResult(result)
	for _, conflict := range result.Conflicts {
		s.events.ConflictDetected(s.bookmark.Name, conflict.ID)
	}
	for _, id := range changed {
		s.events.FeatureChanged(s.bookmark.Name, id)
	}

	s.rememberContentHash(snapshot.ContentHash)
	s.log.Debug().
		Int("adopted", len(result.Adopt)).
		Int("removed", len(result.Remove)).
		Int("conflicts", len(result.Conflicts)).
		Int("confirmed", len(result.Confirm)).
		Int("unchanged", result.Unchanged).
		Msg("merge committed")

	return s.pushPending(ctx)
}

// skipUnchanged reports whether the fetched body is byte-identical to the
// previous one, in which case the merge phase is skipped entirely.
func (s *SyncSession) skipUnchanged(snapshot models.RemoteSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snapshot.ContentHash != "" && snapshot.ContentHash == s.lastContentHash {
		s.log.Debug().Msg("remote content unchanged, skipping merge")
		return true
	}
	return false
}

func (s *SyncSession) rememberContentHash(hash string) {
	s.mu.Lock()
	s.lastContentHash = hash
	s.mu.Unlock()
}

// pushPending uploads the queued local edits, if any, and finishes the cycle.
// Conflicted features are never part of the queue.
func (s *SyncSession) pushPending(ctx context.Context) error {
	edits := s.store.PendingEdits()
	if len(edits) == 0 {
		s.setPhase(models.PhaseIdle)
		return nil
	}

	s.setPhase(models.PhasePushing)

	result, err := s.remote.Push(ctx, s.bookmark, edits)
	if err != nil {
		if errors.Is(err, adapter.ErrAuth) {
			return s.fail(fmt.Errorf("push layer %s: %w", s.bookmark.Name, err))
		}
		// Edits stay queued; the cycle ends cleanly and the next one
		// retries the same batch.
		s.setPhase(models.PhaseIdle)
		s.events.SyncError(s.bookmark.Name, adapter.Kind(err), err.Error())
		return fmt.Errorf("push layer %s: %w", s.bookmark.Name, err)
	}

	applied := filterApplied(edits, result.Applied)
	cleared := s.store.ClearPushed(applied)
	for _, id := range cleared {
		s.events.FeatureChanged(s.bookmark.Name, id)
	}

	if s.registry != nil {
		if err = s.registry.TouchSynced(ctx, s.bookmark.Name, time.Now()); err != nil {
			// Bookkeeping only. The push itself succeeded.
			s.log.Warn().Err(err).Msg("failed to record sync time")
		}
	}

	s.log.Info().
		Int("pushed", len(applied)).
		Str("message", result.Message).
		Msg("push completed")

	s.setPhase(models.PhaseIdle)
	return nil
}

// filterApplied keeps only the edits the server acknowledged.
func filterApplied(edits []models.PendingEdit, applied []string) []models.PendingEdit {
	accepted := make(map[string]struct{}, len(applied))
	for _, id := range applied {
		accepted[id] = struct{}{}
	}

	out := make([]models.PendingEdit, 0, len(edits))
	for _, edit := range edits {
		if _, ok := accepted[edit.ID]; ok {
			out = append(out, edit)
		}
	}
	return out
}

// fail parks the session in the error phase until Acknowledge or the next
// cycle. A new cycle is allowed to start from the error phase: the tick
// itself is the retry.
func (s *SyncSession) fail(err error) error {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()

	s.setPhase(models.PhaseError)
	s.events.SyncError(s.bookmark.Name, adapter.Kind(err), err.Error())
	s.log.Error().Err(err).Msg("sync cycle failed")
	return err
}

// Acknowledge clears a parked error and returns the session to idle so the
// periodic job resumes cycling, typically after the user replaced an expired
// token.
func (s *SyncSession) Acknowledge() {
	s.mu.Lock()
	if s.phase != models.PhaseError {
		s.mu.Unlock()
		return
	}
	s.lastErr = nil
	s.mu.Unlock()

	s.setPhase(models.PhaseIdle)
}

// Phase returns the current phase of the session's state machine.
func (s *SyncSession) Phase() models.SyncPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Err returns the error that parked the session, or nil.
func (s *SyncSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Store exposes the layer's feature store for local editing.
func (s *SyncSession) Store() *store.FeatureStore {
	return s.store
}

// Bookmark returns the endpoint configuration this session was built from.
func (s *SyncSession) Bookmark() models.Bookmark {
	return s.bookmark
}

func (s *SyncSession) setPhase(phase models.SyncPhase) {
	s.mu.Lock()
	if s.phase == phase {
		s.mu.Unlock()
		return
	}
	s.phase = phase
	s.mu.Unlock()

	s.events.PhaseChanged(s.bookmark.Name, phase)
}
