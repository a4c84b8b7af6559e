/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package variantstore

import "runtime"

// Version information set by build flags
var (
	// Version is the semantic version of variantstore
	Version = "0.1.0"

	// GitCommit is the git commit hash (set by build flags)
	GitCommit = "unknown"

	// BuildDate is the build date (set by build flags)
	BuildDate = "unknown"

	// GoVersion is the Go version used to build
	GoVersion = runtime.Version()
)

// VersionInfo contains version information
type VersionInfo struct {
	Version    string `json:"version" yaml:"version"`
	GitCommit  string `json:"gitCommit" yaml:"gitCommit"`
	BuildDate  string `json:"buildDate" yaml:"buildDate"`
	GoVersion  string `json:"goVersion" yaml:"goVersion"`
	BlobFormat string `json:"blobFormat" yaml:"blobFormat"`
}

// GetVersionInfo returns the version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:    Version,
		GitCommit:  GitCommit,
		BuildDate:  BuildDate,
		GoVersion:  GoVersion,
		BlobFormat: blobFormat,
	}
}
