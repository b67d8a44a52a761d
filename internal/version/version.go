// Package version holds build-time version information, set via ldflags.
package version

// Version is the release version, overridden at build time.
var Version = "dev"

// Commit is the git commit hash, overridden at build time.
var Commit = "unknown"
