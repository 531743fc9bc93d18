// Package env holds build-time version metadata, overridden via
// -ldflags "-X github.com/scafiti/gofff/internal/env.Version=..." by the
// release build.
package env

var (
	Version    = "dev"
	CommitHash = "none"
	BuildTime  = "unknown"
)
