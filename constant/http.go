package constant

// Response headers and media types of the HTTP surface.
const (
	HeaderPlatform     = "X-Squidlr-Platform"
	MediaTypeJSON      = "application/json"
	MediaTypeProblem   = "application/problem+json"
	MediaTypeVideo     = "video/mp4"
	StatusClientClosed = 499
)
