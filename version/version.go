// Package version carries the build version, set with
// -ldflags "-X github.com/battlesnakeio/classic/version.Version=...".
package version

// Version of the binary.
var Version = "dev"
