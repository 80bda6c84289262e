package service

import (
	"context"

	"github.com/MKhiriev/geosync/models"
)

// Merger reconciles a local store snapshot with a freshly fetched remote
// snapshot. Implementations must be pure: the same inputs always produce the
// same decisions, so reconciliation is testable without network access.
type Merger interface {
	// Reconcile classifies every feature present on either side and
	// returns the decision set to apply to the store. The local map is the
	// store snapshot taken after the fetch completed; it therefore already
	// contains edits applied while the fetch was in flight.
	Reconcile(ctx context.Context, local map[string]models.Feature, remote models.RemoteSnapshot) (models.MergeResult, error)
}

// CycleRunner is one layer's fetch→merge→push cycle, driven by the periodic
// job and by manual triggers.
type CycleRunner interface {
	// RunCycle executes at most one full cycle. A call that arrives while
	// a cycle is already active is coalesced into a no-op.
	RunCycle(ctx context.Context) error
}
