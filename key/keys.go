// Package key defines the canonical set of configuration identifiers.
package key

// HTTP server.
const (
	ServerAddress         = "server.address"
	ServerCorsOrigins     = "server.cors_origins"
	ServerShutdownTimeout = "server.shutdown_timeout"
)

// Content cache.
const (
	CacheBackend    = "cache.backend"
	CacheTTLMinutes = "cache.ttl_minutes"
)

// Redis connection, used when cache.backend is "redis".
const (
	RedisAddress  = "redis.address"
	RedisPassword = "redis.password"
	RedisDB       = "redis.db"
)

// Telemetry sinks. Empty values disable the sink.
const (
	TelemetryNatsURL      = "telemetry.nats_url"
	TelemetryNatsSubject  = "telemetry.nats_subject"
	TelemetryOtlpEndpoint = "telemetry.otlp_endpoint"
)

// Streaming and upstream networking.
const (
	StreamBufferSize      = "stream.buffer_size"
	NetworkTLSFingerprint = "network.tls_fingerprint"
	TwitterMaxDepth       = "twitter.max_depth"
)

// Logging.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI.
const (
	CliColored        = "cli.colored"
	CliVersionCheck   = "cli.version_check"
	CliURLSuggestions = "cli.url_suggestions"
	IconsVariant      = "icons.variant"
)

// Downloads.
const (
	DownloadsOpenWith = "downloads.open_with"
	DownloadsHistory  = "downloads.history"
)
