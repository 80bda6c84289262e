package config

import "errors"

// Validation errors returned by [EngineConfig.validate] when merged
// configuration groups are incomplete or inconsistent.
var (
	// ErrInvalidAdapterConfigs indicates invalid outbound transport settings
	// (for example, a base retry delay above the backoff cap).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidSyncConfigs indicates an out-of-range default refresh
	// interval.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
