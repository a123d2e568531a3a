// Package constant defines immutable application-level identifiers and defaults.
package constant

const (
	// Squidlr is the canonical application identifier used for filesystem paths, env prefixes and CLI branding.
	Squidlr = "squidlr"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is the desktop browser User-Agent sent to origin platforms.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, overridden with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
