// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sort"

	"github.com/MKhiriev/geosync/internal/utils"
	"github.com/MKhiriev/geosync/models"
)

// mergeEngine is the concrete implementation of Merger. It performs a purely
// in-memory comparison of the local snapshot against the remote one; no
// storage layer or logger is required because the operation is stateless and
// produces no side effects.
type mergeEngine struct{}

// NewMergeEngine constructs a Merger ready for use.
func NewMergeEngine() Merger {
	return &mergeEngine{}
}

// Reconcile implements Merger.
//
// Every feature id present on either side is classified into exactly one
// decision. The driving signal is the content hash of the remote feature
// compared against the baseline the local feature was last reconciled
// against, not against the current local content. A remote value that
// coincidentally matches what the user already edited it to therefore never
// raises a false conflict.
//
// Decision table per local state:
//
//   - absent locally            → adopt as new (remote is the only source)
//   - clean                     → remote changed: adopt; remote gone: remove
//   - locally added             → id collision: confirm if content equal,
//     conflict otherwise; no collision: keep queued
//   - locally modified          → remote at baseline: keep edit; remote equal
//     to the edit: confirm; remote diverged or gone: conflict
//   - locally deleted           → remote at baseline or gone: keep tombstone
//     queued; remote diverged: conflict (delete intent preserved)
//   - conflicted                → refresh the retained remote copy when the
//     remote side moved again
//
// Ids are visited in sorted order and the context is checked each iteration
// so large layers can abort early.
func (m *mergeEngine) Reconcile(
	ctx context.Context,
	local map[string]models.Feature,
	remote models.RemoteSnapshot,
) (models.MergeResult, error) {
	var result models.MergeResult

	ids := make(map[string]struct{}, len(local)+len(remote.Features))
	for id := range local {
		ids[id] = struct{}{}
	}
	for id := range remote.Features {
		ids[id] = struct{}{}
	}

	ordered := make([]string, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	for _, id := range ordered {
		if err := ctx.Err(); err != nil {
			return models.MergeResult{}, err
		}

		lf, existsLocally := local[id]
		rf, existsRemotely := remote.Features[id]

		if !existsLocally {
			// The remote side has a feature the store has never seen.
			result.Adopt = append(result.Adopt, rf)
			continue
		}

		switch lf.State {
		case models.StateClean:
			if !existsRemotely {
				result.Remove = append(result.Remove, id)
				continue
			}
			if remoteAtBaseline(lf, rf) {
				result.Unchanged++
				continue
			}
			result.Adopt = append(result.Adopt, rf)

		case models.StateLocallyAdded:
			if !existsRemotely {
				result.Unchanged++ // stays queued for push
				continue
			}
			// Id collision with a remote feature. Equal content means the
			// server already holds this edit (a push response was lost).
			if rf.Hash == localContentHash(lf) {
				result.Confirm = append(result.Confirm, models.Confirmation{
					ID: id, Version: rf.Version(), Revision: lf.Revision,
				})
				continue
			}
			result.Conflicts = append(result.Conflicts, conflictWith(id, rf))

		case models.StateLocallyModified:
			if !existsRemotely {
				// The remote side deleted a feature that carries a local
				// edit. Neither side may win silently.
				result.Conflicts = append(result.Conflicts, models.Conflict{ID: id})
				continue
			}
			if remoteAtBaseline(lf, rf) {
				result.Unchanged++ // pending edit untouched
				continue
			}
			if rf.Hash == localContentHash(lf) {
				result.Confirm = append(result.Confirm, models.Confirmation{
					ID: id, Version: rf.Version(), Revision: lf.Revision,
				})
				continue
			}
			result.Conflicts = append(result.Conflicts, conflictWith(id, rf))

		case models.StateLocallyDeleted:
			if !existsRemotely || remoteAtBaseline(lf, rf) {
				result.Unchanged++ // tombstone stays queued for push
				continue
			}
			result.Conflicts = append(result.Conflicts, conflictWith(id, rf))

		case models.StateConflicted:
			if existsRemotely && (lf.Remote == nil || lf.Remote.Hash != rf.Hash) {
				result.Conflicts = append(result.Conflicts, conflictWith(id, rf))
				continue
			}
			if !existsRemotely && lf.Remote != nil {
				result.Conflicts = append(result.Conflicts, models.Conflict{ID: id})
				continue
			}
			result.Unchanged++
		}
	}

	return result, nil
}

// remoteAtBaseline reports whether the remote feature still matches the
// version the local feature was last reconciled against. A missing baseline
// counts as changed: the store has nothing to prove the contrary.
func remoteAtBaseline(lf models.Feature, rf models.RemoteFeature) bool {
	return lf.Baseline != nil && rf.Hash == lf.Baseline.Hash
}

func localContentHash(lf models.Feature) string {
	return utils.FeatureHash(lf.Geometry, lf.Properties)
}

func conflictWith(id string, rf models.RemoteFeature) models.Conflict {
	remote := rf.Clone()
	return models.Conflict{ID: id, Remote: &remote}
}
