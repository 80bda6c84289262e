// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/geosync/internal/utils"
	"github.com/MKhiriev/geosync/models"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func props(t *testing.T, kv map[string]any) models.Properties {
	t.Helper()
	p, err := models.PropertiesFromMap(kv)
	require.NoError(t, err)
	return p
}

// remote is a shorthand constructor for RemoteFeature with its content hash
// computed the same way the fetch parser does.
func remote(t *testing.T, id string, geom orb.Geometry, kv map[string]any) models.RemoteFeature {
	t.Helper()
	p := props(t, kv)
	return models.RemoteFeature{
		ID:         id,
		Geometry:   geom,
		Properties: p,
		Hash:       utils.FeatureHash(geom, p),
	}
}

// local is a shorthand constructor for a store feature in a given state,
// optionally carrying the baseline version it was last reconciled against.
func local(t *testing.T, id string, geom orb.Geometry, kv map[string]any, state models.SyncState, baseline *models.RemoteVersion) models.Feature {
	t.Helper()
	return models.Feature{
		ID:         id,
		Geometry:   geom,
		Properties: props(t, kv),
		Revision:   1,
		State:      state,
		Baseline:   baseline,
	}
}

func snapshotOf(features ...models.RemoteFeature) models.RemoteSnapshot {
	m := make(map[string]models.RemoteFeature, len(features))
	for _, f := range features {
		m[f.ID] = f
	}
	return models.RemoteSnapshot{Features: m}
}

func versionOf(rf models.RemoteFeature) *models.RemoteVersion {
	v := rf.Version()
	return &v
}

// conflicted attaches the retained remote copy to an already conflicted
// feature.
func conflicted(f models.Feature, retained models.RemoteFeature) models.Feature {
	r := retained.Clone()
	f.Remote = &r
	return f
}

// ─────────────────────────────────────────────────────────────────────────────
// Reconcile — decision matrix (table-driven)
// ─────────────────────────────────────────────────────────────────────────────

// TestMergeEngine_Reconcile_DecisionMatrix covers every cell of the
// classification table for a single feature. Each sub-test is named after the
// condition it exercises so failures are immediately self-documenting.
func TestMergeEngine_Reconcile_DecisionMatrix(t *testing.T) {
	const id = "f-1"

	var (
		geomV1 = orb.Point{30.0, 59.9}
		geomV2 = orb.Point{30.5, 59.9}
		geomV3 = orb.Point{31.0, 60.1}

		propsV1 = map[string]any{"name": "pier"}
		propsV2 = map[string]any{"name": "pier", "lights": true}
	)

	remoteV1 := remote(t, id, geomV1, propsV1)
	remoteV2 := remote(t, id, geomV2, propsV2)

	tests := []struct {
		name   string
		local  map[string]models.Feature
		remote models.RemoteSnapshot
		want   func(t *testing.T, got models.MergeResult)
	}{
		// ── Feature present only remotely ────────────────────────────────────

		{
			name:   "RemoteOnly/Adopt",
			local:  nil,
			remote: snapshotOf(remoteV1),
			want: func(t *testing.T, got models.MergeResult) {
				require.Len(t, got.Adopt, 1)
				assert.Equal(t, id, got.Adopt[0].ID)
			},
		},

		// ── Clean local feature ──────────────────────────────────────────────

		{
			name: "Clean/RemoteUnchanged/NoAction",
			local: map[string]models.Feature{
				id: local(t, id, geomV1, propsV1, models.StateClean, versionOf(remoteV1)),
			},
			remote: snapshotOf(remoteV1),
			want: func(t *testing.T, got models.MergeResult) {
				assert.True(t, got.Empty())
				assert.Equal(t, 1, got.Unchanged)
			},
		},
		{
			name: "Clean/RemoteChanged/Adopt",
			local: map[string]models.Feature{
				id: local(t, id, geomV1, propsV1, models.StateClean, versionOf(remoteV1)),
			},
			remote: snapshotOf(remoteV2),
			want: func(t *testing.T, got models.MergeResult) {
				require.Len(t, got.Adopt, 1)
				assert.Equal(t, remoteV2.Hash, got.Adopt[0].Hash)
			},
		},
		{
			name: "Clean/RemoteGone/Remove",
			local: map[string]models.Feature{
				id: local(t, id, geomV1, propsV1, models.StateClean, versionOf(remoteV1)),
			},
			remote: snapshotOf(),
			want: func(t *testing.T, got models.MergeResult) {
				assert.Equal(t, []string{id}, got.Remove)
			},
		},
		{
			name: "Clean/MissingBaseline/TreatedAsChanged",
			local: map[string]models.Feature{
				id: local(t, id, geomV1, propsV1, models.StateClean, nil),
			},
			remote: snapshotOf(remoteV1),
			want: func(t *testing.T, got models.MergeResult) {
				require.Len(t, got.Adopt, 1)
			},
		},

		// ── Locally added ────────────────────────────────────────────────────

		{
			name: "LocallyAdded/NoRemoteCollision/StaysQueued",
			local: map[string]models.Feature{
				id: local(t, id, geomV1, propsV1, models.StateLocallyAdded, nil),
			},
			remote: snapshotOf(),
			want: func(t *testing.T, got models.MergeResult) {
				assert.True(t, got.Empty())
				assert.Equal(t, 1, got.Unchanged)
			},
		},
		{
			name: "LocallyAdded/CollisionEqualContent/Confirm",
			local: map[string]models.Feature{
				id: local(t, id, geomV1, propsV1, models.StateLocallyAdded, nil),
			},
			remote: snapshotOf(remoteV1),
			want: func(t *testing.T, got models.MergeResult) {
				require.Len(t, got.Confirm, 1)
				assert.Equal(t, remoteV1.Hash, got.Confirm[0].Version.Hash)
				assert.Empty(t, got.Conflicts)
			},
		},
		{
			name: "LocallyAdded/CollisionDifferentContent/Conflict",
			local: map[string]models.Feature{
				id: local(t, id, geomV1, propsV1, models.StateLocallyAdded, nil),
			},
			remote: snapshotOf(remoteV2),
			want: func(t *testing.T, got models.MergeResult) {
				require.Len(t, got.Conflicts, 1)
				require.NotNil(t, got.Conflicts[0].Remote)
				assert.Equal(t, remoteV2.Hash, got.Conflicts[0].Remote.Hash)
			},
		},

		// ── Locally modified ─────────────────────────────────────────────────

		{
			name: "LocallyModified/RemoteAtBaseline/EditStaysQueued",
			local: map[string]models.Feature{
				id: local(t, id, geomV2, propsV1, models.StateLocallyModified, versionOf(remoteV1)),
			},
			remote: snapshotOf(remoteV1),
			want: func(t *testing.T, got models.MergeResult) {
				assert.True(t, got.Empty())
				assert.Equal(t, 1, got.Unchanged)
			},
		},
		{
			name: "LocallyModified/RemoteEqualsEdit/Confirm",
			local: map[string]models.Feature{
				id: local(t, id, geomV2, propsV2, models.StateLocallyModified, versionOf(remoteV1)),
			},
			remote: snapshotOf(remoteV2),
			want: func(t *testing.T, got models.MergeResult) {
				require.Len(t, got.Confirm, 1)
				assert.Empty(t, got.Conflicts)
			},
		},
		{
			name: "LocallyModified/RemoteDiverged/Conflict",
			local: map[string]models.Feature{
				id: local(t, id, geomV2, propsV1, models.StateLocallyModified, versionOf(remoteV1)),
			},
			remote: snapshotOf(remote(t, id, geomV3, propsV2)),
			want: func(t *testing.T, got models.MergeResult) {
				require.Len(t, got.Conflicts, 1)
				require.NotNil(t, got.Conflicts[0].Remote)
			},
		},
		{
			name: "LocallyModified/RemoteGone/ConflictWithNilRemote",
			local: map[string]models.Feature{
				id: local(t, id, geomV2, propsV1, models.StateLocallyModified, versionOf(remoteV1)),
			},
			remote: snapshotOf(),
			want: func(t *testing.T, got models.MergeResult) {
				require.Len(t, got.Conflicts, 1)
				assert.Nil(t, got.Conflicts[0].Remote)
			},
		},

		// ── Locally deleted ──────────────────────────────────────────────────

		{
			name: "LocallyDeleted/RemoteAtBaseline/TombstoneStaysQueued",
			local: map[string]models.Feature{
				id: local(t, id, geomV1, propsV1, models.StateLocallyDeleted, versionOf(remoteV1)),
			},
			remote: snapshotOf(remoteV1),
			want: func(t *testing.T, got models.MergeResult) {
				assert.True(t, got.Empty())
				assert.Equal(t, 1, got.Unchanged)
			},
		},
		{
			name: "LocallyDeleted/RemoteGone/TombstoneStaysQueued",
			local: map[string]models.Feature{
				id: local(t, id, geomV1, propsV1, models.StateLocallyDeleted, versionOf(remoteV1)),
			},
			remote: snapshotOf(),
			want: func(t *testing.T, got models.MergeResult) {
				assert.True(t, got.Empty())
			},
		},
		{
			name: "LocallyDeleted/RemoteDiverged/Conflict",
			local: map[string]models.Feature{
				id: local(t, id, geomV1, propsV1, models.StateLocallyDeleted, versionOf(remoteV1)),
			},
			remote: snapshotOf(remoteV2),
			want: func(t *testing.T, got models.MergeResult) {
				require.Len(t, got.Conflicts, 1)
				require.NotNil(t, got.Conflicts[0].Remote)
			},
		},

		// ── Already conflicted ───────────────────────────────────────────────

		{
			name: "Conflicted/RemoteStable/NoAction",
			local: map[string]models.Feature{
				id: conflicted(local(t, id, geomV2, propsV1, models.StateConflicted, versionOf(remoteV1)), remoteV2),
			},
			remote: snapshotOf(remoteV2),
			want: func(t *testing.T, got models.MergeResult) {
				assert.True(t, got.Empty())
			},
		},
		{
			name: "Conflicted/RemoteMovedAgain/RefreshRetainedCopy",
			local: map[string]models.Feature{
				id: conflicted(local(t, id, geomV2, propsV1, models.StateConflicted, versionOf(remoteV1)), remoteV1),
			},
			remote: snapshotOf(remoteV2),
			want: func(t *testing.T, got models.MergeResult) {
				require.Len(t, got.Conflicts, 1)
				require.NotNil(t, got.Conflicts[0].Remote)
				assert.Equal(t, remoteV2.Hash, got.Conflicts[0].Remote.Hash)
			},
		},
	}

	engine := NewMergeEngine()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.Reconcile(context.Background(), tc.local, tc.remote)
			require.NoError(t, err)
			tc.want(t, got)
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Determinism and cancellation
// ─────────────────────────────────────────────────────────────────────────────

func TestMergeEngine_Reconcile_DeterministicOrdering(t *testing.T) {
	engine := NewMergeEngine()

	snapshot := snapshotOf(
		remote(t, "c", orb.Point{3, 3}, nil),
		remote(t, "a", orb.Point{1, 1}, nil),
		remote(t, "b", orb.Point{2, 2}, nil),
	)

	got, err := engine.Reconcile(context.Background(), nil, snapshot)
	require.NoError(t, err)

	require.Len(t, got.Adopt, 3)
	assert.Equal(t, "a", got.Adopt[0].ID)
	assert.Equal(t, "b", got.Adopt[1].ID)
	assert.Equal(t, "c", got.Adopt[2].ID)
}

func TestMergeEngine_Reconcile_CancelledContext(t *testing.T) {
	engine := NewMergeEngine()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Reconcile(ctx, nil, snapshotOf(remote(t, "a", orb.Point{1, 1}, nil)))
	require.ErrorIs(t, err, context.Canceled)
}
