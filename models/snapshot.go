// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"

	"github.com/paulmach/orb"
)

// RemoteFeature is one feature as parsed out of a fetched feature collection.
type RemoteFeature struct {
	ID         string
	Geometry   orb.Geometry
	Properties Properties

	// Revision is the server-side revision counter when the endpoint
	// provides one, zero otherwise. Change detection relies on Hash.
	Revision int64

	// Hash is the content hash of geometry plus properties.
	Hash string
}

// Version returns the remote version descriptor for the feature.
func (rf RemoteFeature) Version() RemoteVersion {
	return RemoteVersion{Revision: rf.Revision, Hash: rf.Hash}
}

// Clone returns a deep copy.
func (rf RemoteFeature) Clone() RemoteFeature {
	out := rf
	if rf.Geometry != nil {
		out.Geometry = orb.Clone(rf.Geometry)
	}
	out.Properties = rf.Properties.Clone()
	return out
}

// RemoteSnapshot is the parsed result of one fetch: the full remote feature
// set keyed by id, plus metadata about the fetch itself. A snapshot is
// consumed by exactly one reconciliation pass and discarded afterwards.
type RemoteSnapshot struct {
	Features  map[string]RemoteFeature
	FetchedAt time.Time

	// ContentHash is the MD5 digest of the raw response body. Two fetches
	// with equal hashes carry identical remote state, which lets a cycle
	// skip reconciliation entirely.
	ContentHash string
}
