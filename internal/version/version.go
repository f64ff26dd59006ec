// Package version reports build information.
package version

import "fmt"

// These variables are set at build time using ldflags.
// Example: go build -ldflags "-X github.com/abdullathedruid/splitmux/internal/version.GitSHA=$(git rev-parse --short HEAD)"
var (
	// Version is the release tag, or "dev" for local builds.
	Version = "dev"
	// GitSHA is the git commit SHA (short form) at build time.
	GitSHA = "unknown"
)

// Short returns a short version string suitable for display.
func Short() string {
	return Version
}

// String returns the version with the commit it was built from.
func String() string {
	return fmt.Sprintf("%s (%s)", Version, GitSHA)
}
