// Package buildinfo holds version information set at build time with
//
//	-ldflags "-X github.com/hubworks/ledger/internal/buildinfo.Version=..."
package buildinfo

var (
	Version = "0.0.0"
	Commit  = "none"
	Date    = "unknown"
)
