package config

import (
	"flag"
	"time"
)

// ParseFlags parses configuration flags from args (normally os.Args[1:]).
//
// Flags:
//
//	-d registry database path (SQLite)
//	-c/-config json file path with configs
//	-request-timeout outbound request timeout (e.g., "30s", "1m")
//	-retry-count transient failure retry count
//	-retry-wait base retry backoff delay
//	-retry-max-wait backoff delay cap
//	-refresh-interval default layer refresh interval
//
// Unknown flags produce an error instead of terminating the process, so the
// engine can be embedded in hosts that own the command line.
func ParseFlags(args []string) (*StructuredConfig, error) {
	var registryDSN string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var retryCount int
	var retryWait time.Duration
	var retryMaxWait time.Duration
	var refreshInterval time.Duration

	fs := flag.NewFlagSet("geosync", flag.ContinueOnError)
	fs.StringVar(&registryDSN, "d", "", "Bookmark registry database path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.IntVar(&retryCount, "retry-count", 0, "Transient failure retry count")
	fs.DurationVar(&retryWait, "retry-wait", 0, "Base retry backoff delay")
	fs.DurationVar(&retryMaxWait, "retry-max-wait", 0, "Retry backoff delay cap")
	fs.DurationVar(&refreshInterval, "refresh-interval", 0, "Default layer refresh interval")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		Registry: Registry{
			DSN: registryDSN,
		},
		Adapter: Adapter{
			RequestTimeout:   requestTimeout,
			RetryCount:       retryCount,
			RetryWaitTime:    retryWait,
			RetryMaxWaitTime: retryMaxWait,
		},
		Sync: Sync{
			RefreshInterval: refreshInterval,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
