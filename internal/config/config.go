// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container for geosync.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Registry holds bookmark registry storage settings.
	Registry Registry `envPrefix:"REGISTRY_"`

	// Adapter holds network settings for the remote feature endpoint client.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds defaults for layer synchronization behaviour.
	Sync Sync `envPrefix:"SYNC_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Registry holds connection settings for the bookmark registry database.
type Registry struct {
	// DSN is the SQLite path (or ":memory:") holding saved bookmarks.
	// Env: REGISTRY_DSN
	DSN string `env:"DSN"`
}

// Adapter holds network and retry settings for the outbound HTTP client.
type Adapter struct {
	// RequestTimeout is the maximum duration allowed for a single fetch or
	// push attempt.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RetryCount is the number of additional attempts made after a
	// transient network or server failure. Authentication and payload
	// errors are never retried.
	// Env: ADAPTER_RETRY_COUNT
	RetryCount int `env:"RETRY_COUNT"`

	// RetryWaitTime is the base delay before the first retry; subsequent
	// retries back off exponentially from it.
	// Env: ADAPTER_RETRY_WAIT_TIME
	RetryWaitTime time.Duration `env:"RETRY_WAIT_TIME"`

	// RetryMaxWaitTime caps the exponential backoff delay.
	// Env: ADAPTER_RETRY_MAX_WAIT_TIME
	RetryMaxWaitTime time.Duration `env:"RETRY_MAX_WAIT_TIME"`
}

// Sync holds defaults for layer synchronization.
type Sync struct {
	// RefreshInterval is the periodic fetch interval applied to bookmarks
	// saved without an explicit one. Zero disables periodic refresh.
	// Env: SYNC_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the full configuration.
//
// Sources are merged in priority order: environment variables, then
// command-line flags, then the optional JSON file referenced by either of
// the first two. Non-zero values from earlier sources win.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		build()
}
