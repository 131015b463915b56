// Package version provides build-time version information.
package version

// Name is the application name shown in titles.
const Name = "SmartCalc"

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version
	Version = "1.0.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// String returns the name and version, e.g. "SmartCalc v1.0.0".
func String() string {
	return Name + " v" + Version
}
