package campaigner

import (
	"fmt"
	"runtime"
)

// Version information for the campaigner tool.
// These values are injected during build time via ldflags.
// The values below are fallbacks for development builds.
var (
	// Version is the semantic version of the tool.
	Version = "dev"

	// GitCommit is the git commit hash when the binary was built.
	GitCommit = "unknown"

	// BuildDate is the date when the binary was built.
	BuildDate = "unknown"
)

// VersionInfo contains detailed version information.
type VersionInfo struct {
	// Version is the semantic version of the tool.
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"git_commit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"build_date"`

	// GoVersion is the Go version used for building.
	GoVersion string `json:"go_version"`

	// Platform is the target platform (GOOS/GOARCH).
	Platform string `json:"platform"`
}

// GetVersionInfo returns detailed version information.
func GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a human-readable version string.
func (v *VersionInfo) String() string {
	return fmt.Sprintf("campaigner %s (commit %s, built %s, %s, %s)",
		v.Version, v.GitCommit, v.BuildDate, v.GoVersion, v.Platform)
}

// UserAgent returns a User-Agent string for HTTP collaborators.
func (v *VersionInfo) UserAgent() string {
	return "campaigner/" + v.Version
}
