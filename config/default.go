// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/color"
	"github.com/squidlr/squidlr/constant"
	"github.com/squidlr/squidlr/key"
	"github.com/squidlr/squidlr/style"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Squidlr + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.ServerAddress, ":8080", "Address the HTTP server listens on")
	register(key.ServerCorsOrigins, []string{"*"}, "Origins allowed to call the HTTP API from a browser")
	register(key.ServerShutdownTimeout, 10, "Seconds to wait for in-flight requests on shutdown")
	register(key.CacheBackend, "memory", "Where resolved content is cached.\nAvailable options are: memory, redis, file")
	register(key.CacheTTLMinutes, 60, "Minutes a resolved content result (or a cacheable failure) is kept")
	register(key.RedisAddress, "localhost:6379", "Redis address, used when cache.backend is redis")
	register(key.RedisPassword, "", "Redis password")
	register(key.RedisDB, 0, "Redis database index")
	register(key.TelemetryNatsURL, "", "NATS server to publish content events to.\nEmpty disables publishing")
	register(key.TelemetryNatsSubject, "squidlr.events", "NATS subject for content events")
	register(key.TelemetryOtlpEndpoint, "", "OTLP gRPC endpoint for traces.\nEmpty disables tracing")
	register(key.StreamBufferSize, 64*1024, "Size in bytes of the pooled buffers used when proxying video streams")
	register(key.NetworkTLSFingerprint, true, "Use a browser TLS fingerprint for platforms that block the Go TLS stack")
	register(key.TwitterMaxDepth, 5, "How many quoted or linked tweets are followed before giving up")
	register(key.LogsWrite, false, "Write logs to a daily file.\nWhen disabled logs go to stderr")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Check for a newer release when running the version command")
	register(key.CliURLSuggestions, true, "Suggest previously resolved URLs in shell completions")
	register(key.DownloadsOpenWith, "", "Application used by download --open.\nEmpty uses the system default")
	register(key.DownloadsHistory, true, "Record finished downloads, see the history command")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, nerd (nerd-font required)")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
