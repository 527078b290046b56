// Package version holds the xdsketch release, set with -ldflags at build time.
package version

var Version = "v0.1.0-HEAD"
