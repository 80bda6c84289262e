// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"github.com/paulmach/orb"
)

// SyncState describes how a feature in the local store relates to the last
// known remote state of the layer it belongs to.
type SyncState int

const (
	// StateClean means the feature matches the last fetched remote version
	// and carries no local modifications.
	StateClean SyncState = iota

	// StateLocallyAdded means the feature was created locally and the remote
	// endpoint has never seen it.
	StateLocallyAdded

	// StateLocallyModified means the feature exists remotely but its local
	// geometry or properties diverged from the last fetched baseline.
	StateLocallyModified

	// StateLocallyDeleted means the feature is tombstoned: it is retained in
	// the store until the deletion is confirmed by a successful push.
	StateLocallyDeleted

	// StateConflicted means the feature was edited locally while the remote
	// version moved past the baseline the edit was based on. Conflicted
	// features are excluded from pushes until resolved.
	StateConflicted
)

// String implements fmt.Stringer.
func (s SyncState) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateLocallyAdded:
		return "locally_added"
	case StateLocallyModified:
		return "locally_modified"
	case StateLocallyDeleted:
		return "locally_deleted"
	case StateConflicted:
		return "conflicted"
	default:
		return "unknown"
	}
}

// Pending reports whether the state represents a local edit awaiting a push.
// Conflicted features are not pending: they need a user decision first.
func (s SyncState) Pending() bool {
	switch s {
	case StateLocallyAdded, StateLocallyModified, StateLocallyDeleted:
		return true
	default:
		return false
	}
}

// RemoteVersion identifies one remote revision of a feature by its server
// revision counter and its content hash. The hash is the primary change
// signal: GeoJSON endpoints do not always maintain revision counters.
type RemoteVersion struct {
	Revision int64  `json:"revision"`
	Hash     string `json:"hash"`
}

// Feature is one geospatial record owned by a FeatureStore.
//
// ID is immutable and stable across fetches: it is either supplied by the
// server, derived from a geometry hash for id-less remote features, or
// generated for locally added ones. Geometry and Properties are the mutable
// payload. Revision is a local monotonic counter bumped on every accepted
// mutation, local or remote.
type Feature struct {
	ID         string
	Geometry   orb.Geometry
	Properties Properties
	Revision   int64
	State      SyncState

	// Baseline is the remote version this feature was last reconciled
	// against. For a clean feature it describes the feature's own content;
	// for a locally edited one it is the version the edit started from.
	Baseline *RemoteVersion

	// Remote holds the diverged remote copy retained for reference while the
	// feature is conflicted. Nil otherwise. A nil Remote on a conflicted
	// feature means the remote side deleted it.
	Remote *RemoteFeature

	// ConflictedFrom records which pending state the conflict interrupted
	// (added, modified or deleted), so resolving in favour of the local
	// edit can re-queue it for push. Meaningful only while State is
	// StateConflicted.
	ConflictedFrom SyncState
}

// Clone returns a deep copy of the feature. Geometry and property storage are
// duplicated so the copy can outlive subsequent store mutations.
func (f Feature) Clone() Feature {
	out := f
	if f.Geometry != nil {
		out.Geometry = orb.Clone(f.Geometry)
	}
	out.Properties = f.Properties.Clone()
	if f.Baseline != nil {
		b := *f.Baseline
		out.Baseline = &b
	}
	if f.Remote != nil {
		r := f.Remote.Clone()
		out.Remote = &r
	}
	return out
}
