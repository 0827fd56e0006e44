// Package version carries build metadata set through -ldflags, e.g.
//
//	go build -ldflags "-X github.com/pysugar/account-tabs/internal/version.Version=v0.2.0"
package version

var (
	// Version is the semantic version of the application.
	Version = "dev"

	// Commit is the git commit hash.
	Commit = "none"

	// BuildTime is the timestamp of the build.
	BuildTime = "unknown"
)

// String renders the build metadata on one line.
func String() string {
	return Version + " (" + Commit + ", built " + BuildTime + ")"
}
