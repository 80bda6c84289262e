package config

import (
	"fmt"
	"time"

	"github.com/MKhiriev/geosync/models"
)

// Default values applied when neither environment, flags, nor the JSON file
// provide one.
const (
	DefaultRegistryDSN      = "geosync.db"
	DefaultRequestTimeout   = 15 * time.Second
	DefaultRetryCount       = 3
	DefaultRetryWaitTime    = 500 * time.Millisecond
	DefaultRetryMaxWaitTime = 10 * time.Second
)

// EngineRegistry contains bookmark registry settings for the engine.
type EngineRegistry struct {
	// DSN is the SQLite path holding saved bookmarks.
	DSN string
}

// EngineAdapter holds network settings used by the remote client.
type EngineAdapter struct {
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
	// RetryCount bounds retries of transient failures.
	RetryCount int
	// RetryWaitTime is the initial backoff delay.
	RetryWaitTime time.Duration
	// RetryMaxWaitTime caps the backoff delay.
	RetryMaxWaitTime time.Duration
}

// EngineSync holds synchronization defaults.
type EngineSync struct {
	// RefreshInterval is applied to bookmarks without an explicit interval.
	RefreshInterval time.Duration
}

// EngineConfig is the engine-facing configuration view assembled from
// [StructuredConfig] with defaults filled in.
type EngineConfig struct {
	// Registry contains bookmark storage settings.
	Registry EngineRegistry
	// Adapter contains outbound transport settings.
	Adapter EngineAdapter
	// Sync contains synchronization defaults.
	Sync EngineSync
}

// GetEngineConfig builds and validates the engine config view from the
// merged structured configuration.
func GetEngineConfig() (*EngineConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}
	return engineConfigFrom(cfg)
}

func engineConfigFrom(cfg *StructuredConfig) (*EngineConfig, error) {
	engineCfg := &EngineConfig{
		Registry: EngineRegistry{DSN: cfg.Registry.DSN},
		Adapter: EngineAdapter{
			RequestTimeout:   cfg.Adapter.RequestTimeout,
			RetryCount:       cfg.Adapter.RetryCount,
			RetryWaitTime:    cfg.Adapter.RetryWaitTime,
			RetryMaxWaitTime: cfg.Adapter.RetryMaxWaitTime,
		},
		Sync: EngineSync{RefreshInterval: cfg.Sync.RefreshInterval},
	}
	engineCfg.applyDefaults()

	return engineCfg, engineCfg.validate()
}

func (cfg *EngineConfig) applyDefaults() {
	if cfg.Registry.DSN == "" {
		cfg.Registry.DSN = DefaultRegistryDSN
	}
	if cfg.Adapter.RequestTimeout <= 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Adapter.RetryCount <= 0 {
		cfg.Adapter.RetryCount = DefaultRetryCount
	}
	if cfg.Adapter.RetryWaitTime <= 0 {
		cfg.Adapter.RetryWaitTime = DefaultRetryWaitTime
	}
	if cfg.Adapter.RetryMaxWaitTime <= 0 {
		cfg.Adapter.RetryMaxWaitTime = DefaultRetryMaxWaitTime
	}
	if cfg.Sync.RefreshInterval <= 0 {
		cfg.Sync.RefreshInterval = models.DefaultRefreshInterval
	}
}

func (cfg *EngineConfig) validate() error {
	if cfg.Adapter.RetryWaitTime > cfg.Adapter.RetryMaxWaitTime {
		return ErrInvalidAdapterConfigs
	}
	if cfg.Sync.RefreshInterval < models.MinRefreshInterval ||
		cfg.Sync.RefreshInterval > models.MaxRefreshInterval {
		return ErrInvalidSyncConfigs
	}
	return nil
}
