// Package buildinfo carries version metadata stamped in at link time, e.g.
//
//	go build -ldflags "-X github.com/cleared-dev/saldo/internal/buildinfo.Version=v0.3.0"
package buildinfo

var (
	// Version is the release tag.
	Version = "dev"
	// Commit is the source revision.
	Commit = "none"
	// Date is the build time.
	Date = "unknown"
)
