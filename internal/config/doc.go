// Package config provides configuration loading, merging, and validation
// facilities for the geosync engine.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources fill fields earlier ones left zero):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry points are [GetStructuredConfig] for the raw merged
// configuration and [GetEngineConfig] for the defaulted, validated view the
// engine consumes.
package config
