// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"strings"
	"time"
)

// Bookmark validation errors.
var (
	ErrBookmarkName     = errors.New("bookmark name must not be empty")
	ErrBookmarkURL      = errors.New("bookmark URL must use https")
	ErrBookmarkInterval = errors.New("refresh interval out of range")
)

// Refresh interval bounds. Zero disables periodic refresh entirely; a
// non-zero interval must fall within [MinRefreshInterval, MaxRefreshInterval].
const (
	MinRefreshInterval = 10 * time.Second
	MaxRefreshInterval = 3600 * time.Second
	// DefaultRefreshInterval is applied when a bookmark is created without
	// an explicit interval.
	DefaultRefreshInterval = 30 * time.Second
)

// Bookmark is a persisted named endpoint configuration used to reactivate a
// layer's synchronization after a restart. A bookmark is never mutated while
// a sync is running: activation hands the session its own copy.
type Bookmark struct {
	// Name is the unique key the bookmark is saved and loaded under.
	Name string `json:"name"`

	// URL is the HTTPS endpoint serving the layer's feature collection.
	URL string `json:"url"`

	// Token is the opaque bearer secret, empty when the endpoint is public.
	Token string `json:"token,omitempty"`

	// RefreshInterval drives the periodic fetch timer. Zero disables
	// automatic refresh; the layer then syncs only on manual triggers.
	RefreshInterval time.Duration `json:"refresh_interval_seconds"`

	// LastSyncedAt records the completion time of the last successful push,
	// nil when the bookmark has never synced.
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

// Validate checks the bookmark invariants: non-empty name, HTTPS-only URL
// and a refresh interval that is either zero or within bounds.
func (b Bookmark) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrBookmarkName
	}
	if !strings.HasPrefix(strings.ToLower(b.URL), "https://") {
		return ErrBookmarkURL
	}
	if b.RefreshInterval != 0 &&
		(b.RefreshInterval < MinRefreshInterval || b.RefreshInterval > MaxRefreshInterval) {
		return ErrBookmarkInterval
	}
	return nil
}
