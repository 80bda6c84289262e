package store

import (
	"sort"

	"github.com/MKhiriev/geosync/models"
)

// editTracker is the derived index of feature ids in a non-clean state. It
// is owned by the FeatureStore and updated incrementally on every mutation,
// so listing pending work costs O(dirty) instead of O(all features). It
// carries no data of its own; the store remains the single source of truth.
type editTracker struct {
	dirty map[string]struct{}
}

func newEditTracker() *editTracker {
	return &editTracker{dirty: make(map[string]struct{})}
}

// observe records the state a feature settled into after a mutation.
func (t *editTracker) observe(id string, state models.SyncState) {
	if state == models.StateClean {
		delete(t.dirty, id)
		return
	}
	t.dirty[id] = struct{}{}
}

// forget drops the id from the index entirely.
func (t *editTracker) forget(id string) {
	delete(t.dirty, id)
}

// ids returns the dirty ids in sorted order.
func (t *editTracker) ids() []string {
	out := make([]string, 0, len(t.dirty))
	for id := range t.dirty {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (t *editTracker) len() int { return len(t.dirty) }
