// ============================================================================
// PostText - Markup Compiler
// ============================================================================
//
// Package:     version
// Description: Central version information for the posttext binary
// Author:      Mike Stoffels
// Created:     2026-09-30
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version of the compiler. Overridden at build time via
// -ldflags "-X github.com/msto63/posttext/pkg/core/version.Version=..."
var Version = "0.1.0"

// Build metadata, set via -ldflags
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info describes the running binary
type Info struct {
	Version   string `yaml:"version"`
	Commit    string `yaml:"commit"`
	BuildDate string `yaml:"build_date"`
	GoVersion string `yaml:"go_version"`
	Platform  string `yaml:"platform"`
}

// Get returns the version info of the running binary
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a one-line summary
func (i Info) String() string {
	return fmt.Sprintf("posttext %s (commit %s, built %s, %s %s)",
		i.Version, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}
