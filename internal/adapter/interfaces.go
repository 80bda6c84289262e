package adapter

import (
	"context"

	"github.com/MKhiriev/geosync/models"
)

// RemoteClient is the transport boundary between the sync engine and a
// remote feature endpoint. Implementations must be safe for concurrent use
// by sessions of independent layers.
type RemoteClient interface {
	// Fetch issues an authenticated GET against the bookmark's URL and
	// parses the response body as a GeoJSON feature collection.
	//
	// Errors are classified via the package sentinels: ErrAuth on 401/403
	// or an expired token, ErrNetwork on connection failure or timeout
	// (after bounded retries), ErrServer on 5xx (after bounded retries),
	// ErrParse on a malformed body.
	Fetch(ctx context.Context, bookmark models.Bookmark) (models.RemoteSnapshot, error)

	// Push POSTs a feature collection containing only the given pending
	// edits. Added and modified features carry full geometry and
	// properties; deletions carry the id plus an explicit delete marker.
	//
	// A push is safe to retry: each entry is keyed by feature id and
	// revision, so re-sending an already-applied edit is a server-side
	// no-op. Error classification matches Fetch.
	Push(ctx context.Context, bookmark models.Bookmark, edits []models.PendingEdit) (models.PushResult, error)
}
