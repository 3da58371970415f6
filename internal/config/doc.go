// Package config loads and validates the configuration of the sales
// reporting tool.
//
// # Configuration Sources
//
// Configuration is built from the following sources, later sources winning:
//
//  1. Default values (see Default)
//  2. The configuration file (JSON, or YAML for .yaml/.yml)
//  3. Environment variables prefixed with SALES_
//  4. Command-line overrides
//
// A configuration file is required. When no path is given, config.json,
// config.yaml, config.yml and the same names under configs/ are tried in
// that order.
//
// # Environment Variables
//
//	SALES_INPUT_PATH=data/sales.csv
//	SALES_OUTPUT_DIRECTORY=reports
//	SALES_INVALID_ROWS=skip
//	SALES_CHART_TITLE="Daily Revenue"
//	SALES_LOGGING_LEVEL=debug
//	SALES_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Date Formats
//
// date_format and timestamp_format accept either Go layouts ("2006-01-02")
// or strftime directives ("%Y-%m-%d"); the latter are converted by
// ToGoLayout during loading.
//
// # Usage
//
//	cfg, err := config.Load("config.json", config.Overrides{})
//	if err != nil {
//	    return err
//	}
//	paths, err := cfg.GetPaths()
package config
