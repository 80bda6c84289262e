// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Events is the boundary through which the sync engine notifies its host
// (map canvas, status bar, conflict list). Implementations must be safe for
// concurrent use and must return quickly: callbacks run on sync goroutines.
type Events interface {
	// FeatureChanged fires after a merge or push changed the stored feature.
	FeatureChanged(layer, id string)

	// PhaseChanged fires on every session phase transition.
	PhaseChanged(layer string, phase SyncPhase)

	// ConflictDetected fires when a merge marks a feature conflicted.
	ConflictDetected(layer, id string)

	// SyncError fires when a cycle fails. Kind is one of the error
	// taxonomy names ("auth", "network", "parse", "server", "internal").
	SyncError(layer, kind, message string)
}

// NopEvents discards all notifications. Used when no host is attached and
// as a default in tests.
type NopEvents struct{}

func (NopEvents) FeatureChanged(string, string) {}

func (NopEvents) PhaseChanged(string, SyncPhase) {}

func (NopEvents) ConflictDetected(string, string) {}

func (NopEvents) SyncError(string, string, string) {}
