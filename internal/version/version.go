// Package version holds the build version, set at link time.
package version

// Version is overridden by the release pipeline via ldflags.
var Version = "dev"
