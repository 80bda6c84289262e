package utils

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/MKhiriev/geosync/models"
)

// BodyHash computes the MD5 digest of a raw response body, hex-encoded.
// It is used only to detect byte-identical fetches, not for integrity.
func BodyHash(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// FeatureHash computes a deterministic SHA-256 content hash over a feature's
// geometry and properties. Properties serialize in canonical order, so two
// features with equal content always hash equally regardless of how the
// content was produced.
func FeatureHash(geometry orb.Geometry, properties models.Properties) string {
	h := sha256.New()

	if geometry != nil {
		raw, err := json.Marshal(geojson.NewGeometry(geometry))
		if err == nil {
			h.Write(raw)
		}
	}
	h.Write([]byte{0})
	if raw, err := json.Marshal(properties); err == nil {
		h.Write(raw)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// GeometryID derives a stable feature id from geometry alone, for remote
// features served without an id. Identical geometries map to the same id
// across fetches.
func GeometryID(geometry orb.Geometry) string {
	h := sha256.New()
	if geometry != nil {
		if raw, err := json.Marshal(geojson.NewGeometry(geometry)); err == nil {
			h.Write(raw)
		}
	}
	return "geom-" + hex.EncodeToString(h.Sum(nil))[:32]
}
