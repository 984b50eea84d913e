// Package version exposes the knowbite release number embedded at build time.
package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var versionContent string

// Name is the program name printed alongside the version.
const Name = "knowbite"

// Get returns the current version, with whitespace trimmed.
func Get() string {
	return strings.TrimSpace(versionContent)
}

// String returns "knowbite version X.Y.Z".
func String() string {
	return Name + " version " + Get()
}
