package adapter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/MKhiriev/geosync/internal/utils"
	"github.com/MKhiriev/geosync/models"
)

// parseSnapshot decodes a fetched body into a RemoteSnapshot. Any deviation
// from the expected shape (invalid GeoJSON, a feature without geometry,
// non-scalar property values) is reported as ErrParse and leaves no partial
// result behind.
func parseSnapshot(body []byte) (models.RemoteSnapshot, error) {
	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return models.RemoteSnapshot{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	features := make(map[string]models.RemoteFeature, len(fc.Features))
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			return models.RemoteSnapshot{}, fmt.Errorf("%w: feature %d has no geometry", ErrParse, i)
		}

		revision := extractRevision(f.Properties)

		props, err := models.PropertiesFromMap(stripReservedKeys(f.Properties))
		if err != nil {
			return models.RemoteSnapshot{}, fmt.Errorf("%w: feature %d: %v", ErrParse, i, err)
		}

		id := featureID(f)
		features[id] = models.RemoteFeature{
			ID:         id,
			Geometry:   f.Geometry,
			Properties: props,
			Revision:   revision,
			Hash:       utils.FeatureHash(f.Geometry, props),
		}
	}

	return models.RemoteSnapshot{
		Features:    features,
		ContentHash: utils.BodyHash(body),
	}, nil
}

// featureID resolves the stable identity of a remote feature: the top-level
// GeoJSON id if present, else an id/fid property, else a hash derived from
// the geometry so the same shape maps to the same id across fetches.
func featureID(f *geojson.Feature) string {
	if id := normalizeID(f.ID); id != "" {
		return id
	}
	for _, key := range []string{"id", "fid"} {
		if id := normalizeID(f.Properties[key]); id != "" {
			return id
		}
	}
	return utils.GeometryID(f.Geometry)
}

func normalizeID(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	default:
		return ""
	}
}

func extractRevision(props geojson.Properties) int64 {
	switch rev := props[models.PushRevisionKey].(type) {
	case float64:
		return int64(rev)
	case string:
		n, _ := strconv.ParseInt(rev, 10, 64)
		return n
	default:
		return 0
	}
}

func stripReservedKeys(props geojson.Properties) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		if strings.HasPrefix(k, "__") {
			continue
		}
		out[k] = v
	}
	return out
}

// buildPushCollection serializes pending edits into the push request body.
func buildPushCollection(edits []models.PendingEdit) (models.PushCollection, error) {
	features := make([]models.PushFeature, 0, len(edits))
	for _, edit := range edits {
		pf, err := buildPushFeature(edit)
		if err != nil {
			return models.PushCollection{}, err
		}
		features = append(features, pf)
	}
	return models.NewPushCollection(features), nil
}

func buildPushFeature(edit models.PendingEdit) (models.PushFeature, error) {
	var mode string
	switch edit.State {
	case models.StateLocallyAdded:
		mode = models.PushModeAdd
	case models.StateLocallyModified:
		mode = models.PushModeUpdate
	case models.StateLocallyDeleted:
		mode = models.PushModeDelete
	default:
		return models.PushFeature{}, fmt.Errorf("edit %s: state %s is not pushable", edit.ID, edit.State)
	}

	pf := models.PushFeature{
		Type: "Feature",
		ID:   edit.ID,
		Properties: map[string]any{
			models.PushModeKey:     mode,
			models.PushRevisionKey: edit.Feature.Revision,
		},
	}

	// Deletions intentionally carry no geometry and no attributes: the id
	// plus the delete marker is the whole intent.
	if mode == models.PushModeDelete {
		return pf, nil
	}

	if edit.Feature.Geometry == nil {
		return models.PushFeature{}, fmt.Errorf("edit %s: pushable feature has no geometry", edit.ID)
	}
	pf.Geometry = geojson.NewGeometry(edit.Feature.Geometry)
	for _, key := range edit.Feature.Properties.Keys() {
		value, _ := edit.Feature.Properties.Get(key)
		pf.Properties[key] = value
	}

	return pf, nil
}

// parsePushResult interprets the server's push response. Servers that return
// a per-feature breakdown list applied ids explicitly; with a bare success
// response every sent edit counts as applied.
func parsePushResult(body []byte, sent []models.PendingEdit) models.PushResult {
	var result models.PushResult
	if len(body) > 0 {
		_ = json.Unmarshal(body, &result)
	}

	if len(result.Applied) == 0 {
		ids := make([]string, 0, len(sent))
		for _, edit := range sent {
			ids = append(ids, edit.ID)
		}
		result.Applied = ids
	}
	return result
}
