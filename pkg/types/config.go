// Copyright crimson206, 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "nbdigest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// DownloadDelay is the delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// NotebooksDir is the directory downloaded notebooks are written to.
	NotebooksDir string `json:"notebooks_dir" yaml:"notebooks_dir"`
}

// ParseConfig holds settings for the parse stage.
type ParseConfig struct {
	// NotebooksDir is the directory scanned in batch mode.
	NotebooksDir string `json:"notebooks_dir" yaml:"notebooks_dir"`

	// ParsedDir is the directory parsed JSON is written to in batch mode.
	// When empty, each result is written next to its source notebook.
	ParsedDir string `json:"parsed_dir" yaml:"parsed_dir"`

	// RemoveSource deletes each source notebook after a successful parse.
	// Deletion failures are reported as warnings, never as errors.
	RemoveSource bool `json:"remove_source" yaml:"remove_source"`
}

// IndexConfig holds settings for the index stage.
type IndexConfig struct {
	// IndexDir is the directory holding the SQLite database and exports.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// ParsedDir is the directory scanned for parsed JSON during ingestion.
	ParsedDir string `json:"parsed_dir" yaml:"parsed_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch FetchConfig `json:"fetch" yaml:"fetch"`
	Parse ParseConfig `json:"parse" yaml:"parse"`
	Index IndexConfig `json:"index" yaml:"index"`
}
