// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/MKhiriev/geosync/internal/adapter"
	"github.com/MKhiriev/geosync/internal/logger"
	"github.com/MKhiriev/geosync/internal/store"
	"github.com/MKhiriev/geosync/models"
)

// layerRuntime bundles everything one activated layer owns.
type layerRuntime struct {
	session *SyncSession
	job     *SyncJob
}

// Engine manages the set of activated layers. Each layer gets its own
// feature store, sync session and periodic job; layers never share state and
// their timers are independent.
type Engine struct {
	remote   adapter.RemoteClient
	merger   Merger
	registry store.BookmarkRegistry
	events   models.Events
	log      *logger.Logger

	mu     sync.Mutex
	layers map[string]*layerRuntime
}

// NewEngine wires an engine over the shared remote client and registry.
func NewEngine(
	remote adapter.RemoteClient,
	registry store.BookmarkRegistry,
	events models.Events,
	log *logger.Logger,
) *Engine {
	if events == nil {
		events = models.NopEvents{}
	}
	return &Engine{
		remote:   remote,
		merger:   NewMergeEngine(),
		registry: registry,
		events:   events,
		log:      log,
		layers:   make(map[string]*layerRuntime),
	}
}

// Activate loads the named bookmark from the registry, runs an initial sync
// cycle and starts the periodic job when the bookmark carries a non-zero
// refresh interval. The initial cycle's error is returned but the layer
// stays activated; transient fetch failures should not undo activation.
func (e *Engine) Activate(ctx context.Context, name string) error {
	bookmark, err := e.registry.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("activate layer %s: %w", name, err)
	}
	return e.ActivateBookmark(ctx, bookmark)
}

// ActivateBookmark activates a layer from an explicit bookmark, bypassing
// the registry lookup.
func (e *Engine) ActivateBookmark(ctx context.Context, bookmark models.Bookmark) error {
	if err := bookmark.Validate(); err != nil {
		return fmt.Errorf("activate layer %s: %w", bookmark.Name, err)
	}

	featureStore := store.NewFeatureStore(bookmark.Name, e.log)
	session := NewSyncSession(bookmark, featureStore, e.remote, e.merger, e.registry, e.events, e.log)
	job := NewSyncJob(session)

	e.mu.Lock()
	if _, exists := e.layers[bookmark.Name]; exists {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrLayerActive, bookmark.Name)
	}
	e.layers[bookmark.Name] = &layerRuntime{session: session, job: job}
	e.mu.Unlock()

	e.log.Info().
		Str("layer", bookmark.Name).
		Dur("interval", bookmark.RefreshInterval).
		Msg("layer activated")

	err := session.RunCycle(ctx)
	job.Start(ctx, bookmark.RefreshInterval)
	return err
}

// Deactivate stops the layer's periodic job and discards its runtime. Local
// state held only in memory is gone after this call; pending edits that were
// never pushed are lost with it.
func (e *Engine) Deactivate(name string) error {
	e.mu.Lock()
	rt, exists := e.layers[name]
	if exists {
		delete(e.layers, name)
	}
	e.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrLayerNotActive, name)
	}

	rt.job.Stop()
	e.log.Info().Str("layer", name).Msg("layer deactivated")
	return nil
}

// Trigger runs one manual sync cycle for the named layer, outside the
// periodic schedule.
func (e *Engine) Trigger(ctx context.Context, name string) error {
	session, err := e.Session(name)
	if err != nil {
		return err
	}
	return session.RunCycle(ctx)
}

// Session returns the named layer's sync session.
func (e *Engine) Session(name string) (*SyncSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rt, exists := e.layers[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrLayerNotActive, name)
	}
	return rt.session, nil
}

// ActiveLayers returns the names of all activated layers, sorted.
func (e *Engine) ActiveLayers() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := make([]string, 0, len(e.layers))
	for name := range e.layers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close stops every layer's job and waits for in-flight cycles to finish.
func (e *Engine) Close() {
	e.mu.Lock()
	layers := e.layers
	e.layers = make(map[string]*layerRuntime)
	e.mu.Unlock()

	for name, rt := range layers {
		rt.job.Stop()
		e.log.Debug().Str("layer", name).Msg("layer stopped")
	}
}

// SaveBookmark validates and persists a bookmark through the registry. A
// zero refresh interval is normalized to the default before saving so a
// freshly created bookmark syncs out of the box.
func (e *Engine) SaveBookmark(ctx context.Context, bookmark models.Bookmark, overwrite bool) error {
	if bookmark.RefreshInterval == 0 {
		bookmark.RefreshInterval = models.DefaultRefreshInterval
	}
	if err := e.registry.Save(ctx, bookmark, overwrite); err != nil {
		return fmt.Errorf("save bookmark: %w", err)
	}
	return nil
}
