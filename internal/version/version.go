package version

import (
	"runtime"
	"runtime/debug"
	"slices"
)

var version = "dev"

// ReportFormat identifies the ruff invocation whose output this tool ingests.
const ReportFormat = "ruff check --output-format=json"

// Version returns the current version string. Development builds carry the
// VCS revision as a suffix when build info provides one.
func Version() string {
	if version == "dev" {
		if commit := Commit(); commit != "" {
			return version + " (" + commit + ")"
		}
	}
	return version
}

// RawVersion returns the semantic version string without any suffix.
func RawVersion() string {
	return version
}

// Commit returns the short VCS revision from build info.
func Commit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	idx := slices.IndexFunc(info.Settings, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.revision"
	})
	if idx < 0 {
		return ""
	}
	val := info.Settings[idx].Value
	if len(val) > 12 {
		return val[:12]
	}
	return val
}

// GoVersion returns the Go toolchain version used for the build.
func GoVersion() string {
	return runtime.Version()
}

// Info holds structured version information for machine-readable output.
type Info struct {
	Version      string   `json:"version"`
	ReportFormat string   `json:"reportFormat"`
	Platform     Platform `json:"platform"`
	GoVersion    string   `json:"goVersion"`
	GitCommit    string   `json:"gitCommit,omitempty"`
}

// Platform describes the OS and architecture.
type Platform struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// GetInfo returns structured version information.
func GetInfo() Info {
	return Info{
		Version:      RawVersion(),
		ReportFormat: ReportFormat,
		Platform: Platform{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
		GoVersion: GoVersion(),
		GitCommit: Commit(),
	}
}
