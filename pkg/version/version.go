// Package version holds build metadata injected with -ldflags.
package version

import "runtime/debug"

//nolint:gochecknoglobals // set at build time via -ldflags -X
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

// GetVersion returns the build version, falling back to the module version
// recorded by go install.
func GetVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

// GetCommit returns the VCS revision, or "" when unknown.
func GetCommit() string {
	if commit != "" {
		return commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return ""
}

// GetBuildDate returns the build timestamp, or "" when unknown.
func GetBuildDate() string {
	return buildDate
}
