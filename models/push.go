// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "github.com/paulmach/orb/geojson"

// Feature-collection member keys reserved for sync bookkeeping. They travel
// inside the properties object of pushed features and are stripped from
// properties when a collection is parsed.
const (
	// PushModeKey marks the intent of a pushed feature.
	PushModeKey = "__mode"
	// PushRevisionKey carries the local revision, making a retried push
	// idempotent on the server side (feature id + revision identify the edit).
	PushRevisionKey = "__revision"
)

// Push modes.
const (
	PushModeAdd    = "add"
	PushModeUpdate = "update"
	PushModeDelete = "delete"
)

// PushFeature is one member of a pushed feature collection. Added and
// updated features carry full geometry and properties; deleted features
// carry only the id and the delete marker, with a null geometry. Deletion is
// always explicit: omitting a feature means "untouched", never "deleted".
type PushFeature struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties map[string]any    `json:"properties"`
}

// PushCollection is the request body of a push: a GeoJSON feature collection
// containing only the pending edits.
type PushCollection struct {
	Type     string        `json:"type"`
	Features []PushFeature `json:"features"`
}

// NewPushCollection wraps features in a FeatureCollection envelope.
func NewPushCollection(features []PushFeature) PushCollection {
	return PushCollection{Type: "FeatureCollection", Features: features}
}
