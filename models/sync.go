// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// PendingEdit is one local mutation awaiting a push, captured together with
// the feature content as of the time the edit set was read. Reading the
// pending set twice without intervening edits yields identical content.
type PendingEdit struct {
	ID      string
	State   SyncState
	Feature Feature
}

// Conflict describes one feature whose local edit and remote version
// diverged. Remote is nil when the divergence is a remote deletion.
type Conflict struct {
	ID     string
	Remote *RemoteFeature
}

// Confirmation marks a pending edit whose content the remote side already
// holds (for example after a push whose response was lost). The feature is
// reset to clean against the given version without touching its content.
// Revision pins the local revision the confirmation was computed from; a
// feature edited again since then stays pending.
type Confirmation struct {
	ID       string
	Version  RemoteVersion
	Revision int64
}

// MergeResult is the complete decision set produced by one reconciliation
// pass. It is applied to the store atomically: either every decision takes
// effect or none does.
type MergeResult struct {
	// Adopt lists remote features to create or overwrite locally as clean.
	Adopt []RemoteFeature

	// Remove lists ids of clean local features the remote side deleted.
	Remove []string

	// Conflicts lists features to mark conflicted, keeping the local edit
	// and retaining the remote copy for reference.
	Conflicts []Conflict

	// Confirm lists pending edits already reflected remotely.
	Confirm []Confirmation

	// Unchanged counts features inspected and left untouched.
	Unchanged int
}

// Empty reports whether the pass produced no store mutations.
func (r MergeResult) Empty() bool {
	return len(r.Adopt) == 0 && len(r.Remove) == 0 &&
		len(r.Conflicts) == 0 && len(r.Confirm) == 0
}

// PushResult is the outcome of pushing a pending-edit set.
type PushResult struct {
	// Applied holds the ids the server confirmed. With servers that return
	// no per-feature breakdown it equals the full pushed set.
	Applied []string `json:"applied"`

	// Message is the human-readable status supplied by the server, if any.
	Message string `json:"message"`
}

// SyncPhase is the externally visible state of a layer's sync session.
type SyncPhase int

const (
	PhaseIdle SyncPhase = iota
	PhaseFetching
	PhaseMerging
	PhasePushing
	PhaseError
)

// String implements fmt.Stringer.
func (p SyncPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFetching:
		return "fetching"
	case PhaseMerging:
		return "merging"
	case PhasePushing:
		return "pushing"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}
