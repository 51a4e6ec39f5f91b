// Package version holds build metadata set through -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// GetVersionInfo is the long form printed by "liftlog version".
func GetVersionInfo() string {
	platform := runtime.GOOS + "/" + runtime.GOARCH
	if Version == "dev" {
		return fmt.Sprintf("liftlog dev (%s)", platform)
	}
	return fmt.Sprintf("liftlog %s (commit: %s, built: %s, %s)", Version, Commit, Date, platform)
}

// GetShortVersion is reported by the API health check.
func GetShortVersion() string {
	return "liftlog " + Version
}
