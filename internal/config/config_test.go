// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────────────────────────────────────
// Flags
// ─────────────────────────────────────────────────────────────────────────────

func TestParseFlags_AllValues(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-d", "bookmarks.db",
		"-request-timeout", "20s",
		"-retry-count", "5",
		"-retry-wait", "250ms",
		"-retry-max-wait", "4s",
		"-refresh-interval", "45s",
		"-config", "cfg.json",
	})
	require.NoError(t, err)

	assert.Equal(t, "bookmarks.db", cfg.Registry.DSN)
	assert.Equal(t, 20*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 5, cfg.Adapter.RetryCount)
	assert.Equal(t, 250*time.Millisecond, cfg.Adapter.RetryWaitTime)
	assert.Equal(t, 4*time.Second, cfg.Adapter.RetryMaxWaitTime)
	assert.Equal(t, 45*time.Second, cfg.Sync.RefreshInterval)
	assert.Equal(t, "cfg.json", cfg.JSONFilePath)
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	_, err := ParseFlags([]string{"-no-such-flag"})
	require.Error(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// JSON
// ─────────────────────────────────────────────────────────────────────────────

func TestParseJSON_DurationsAsStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	body := `{
		"registry": {"dsn": "json.db"},
		"adapter": {"request_timeout": "30s", "retry_count": 2, "retry_wait_time": "1s", "retry_max_wait_time": "8s"},
		"sync": {"refresh_interval": "2m"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "json.db", cfg.Registry.DSN)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 2, cfg.Adapter.RetryCount)
	assert.Equal(t, time.Second, cfg.Adapter.RetryWaitTime)
	assert.Equal(t, 8*time.Second, cfg.Adapter.RetryMaxWaitTime)
	assert.Equal(t, 2*time.Minute, cfg.Sync.RefreshInterval)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Builder precedence
// ─────────────────────────────────────────────────────────────────────────────

func TestConfigBuilder_EnvBeatsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	body := `{"registry": {"dsn": "from-json.db"}, "sync": {"refresh_interval": "5m"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("REGISTRY_DSN", "from-env.db")
	t.Setenv("CONFIG", path)

	cfg, err := newConfigBuilder().withEnv().withFlags(nil).withJSON().build()
	require.NoError(t, err)

	// env wins where set, json fills the rest
	assert.Equal(t, "from-env.db", cfg.Registry.DSN)
	assert.Equal(t, 5*time.Minute, cfg.Sync.RefreshInterval)
}

// ─────────────────────────────────────────────────────────────────────────────
// Engine view
// ─────────────────────────────────────────────────────────────────────────────

func TestEngineConfigFrom_Defaults(t *testing.T) {
	cfg, err := engineConfigFrom(&StructuredConfig{})
	require.NoError(t, err)

	assert.Equal(t, DefaultRegistryDSN, cfg.Registry.DSN)
	assert.Equal(t, DefaultRequestTimeout, cfg.Adapter.RequestTimeout)
	assert.Equal(t, DefaultRetryCount, cfg.Adapter.RetryCount)
	assert.Equal(t, DefaultRetryWaitTime, cfg.Adapter.RetryWaitTime)
	assert.Equal(t, DefaultRetryMaxWaitTime, cfg.Adapter.RetryMaxWaitTime)
	assert.Equal(t, 30*time.Second, cfg.Sync.RefreshInterval)
}

func TestEngineConfigFrom_RejectsInvertedBackoff(t *testing.T) {
	src := &StructuredConfig{}
	src.Adapter.RetryWaitTime = 20 * time.Second
	src.Adapter.RetryMaxWaitTime = time.Second

	_, err := engineConfigFrom(src)
	assert.ErrorIs(t, err, ErrInvalidAdapterConfigs)
}

func TestEngineConfigFrom_RejectsOutOfRangeInterval(t *testing.T) {
	src := &StructuredConfig{}
	src.Sync.RefreshInterval = 2 * time.Hour

	_, err := engineConfigFrom(src)
	assert.ErrorIs(t, err, ErrInvalidSyncConfigs)
}
