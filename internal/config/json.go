package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly duration parsing, so config files can write intervals as
// "30s" or "5m".
type StructuredJSONConfig struct {
	Registry struct {
		DSN string `json:"dsn"`
	} `json:"registry,omitempty"`

	Adapter struct {
		RequestTimeout   Duration `json:"request_timeout"`
		RetryCount       int      `json:"retry_count"`
		RetryWaitTime    Duration `json:"retry_wait_time"`
		RetryMaxWaitTime Duration `json:"retry_max_wait_time"`
	} `json:"adapter,omitempty"`

	Sync struct {
		RefreshInterval Duration `json:"refresh_interval"`
	} `json:"sync,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Registry: Registry{
			DSN: jsonCfg.Registry.DSN,
		},
		Adapter: Adapter{
			RequestTimeout:   time.Duration(jsonCfg.Adapter.RequestTimeout),
			RetryCount:       jsonCfg.Adapter.RetryCount,
			RetryWaitTime:    time.Duration(jsonCfg.Adapter.RetryWaitTime),
			RetryMaxWaitTime: time.Duration(jsonCfg.Adapter.RetryMaxWaitTime),
		},
		Sync: Sync{
			RefreshInterval: time.Duration(jsonCfg.Sync.RefreshInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as plain nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}
