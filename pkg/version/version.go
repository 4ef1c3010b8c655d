// Package version records build metadata for the csvfang binary.
//
// The variables are overridden at release time via -ldflags, for example:
//
//	go build -ldflags "-X github.com/Sumatoshi-tech/csvfang/pkg/version.Version=v1.2.0"
package version

import "fmt"

// Build metadata, overridden at link time. The defaults identify a
// development build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns a one-line human-readable version description.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
