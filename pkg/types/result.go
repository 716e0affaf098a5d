// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared between the tagprint
// pipeline, the run ledger and the CLI.
package types

import "time"

// FileStatus is the outcome of converting one file.
type FileStatus string

const (
	FileConverted FileStatus = "converted"
	FileFailed    FileStatus = "failed"
)

// FileResult records what happened to one input file.
type FileResult struct {
	// Name is the file name, identical in the input and output directories.
	Name string `json:"name" yaml:"name"`

	Status FileStatus `json:"status" yaml:"status"`

	// Kind classifies a failure: decode, io, invalid_parameter or unsupported.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Error is the failure message, empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Format is the decoded source format (png, jpeg, gif, bmp).
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// WidthPx and HeightPx are the output pixel dimensions.
	WidthPx  int `json:"width_px,omitempty" yaml:"width_px,omitempty"`
	HeightPx int `json:"height_px,omitempty" yaml:"height_px,omitempty"`

	Duration time.Duration `json:"duration" yaml:"duration"`
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int

	// Files is sorted by name.
	Files []FileResult
}

// Total returns the total number of image files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// AllFailed reports whether there was at least one file and none converted.
func (r BatchResult) AllFailed() bool {
	return r.Failed > 0 && r.Converted == 0
}
