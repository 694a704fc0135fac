package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/oascompose/document"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Input and output limits.
	MaxInlineSize int64
	MaxSources    int
	ResultLimit   int
	MaxLimit      int

	// Composition defaults.
	DuplicatePolicy document.DuplicatePolicy
	OpenAPIVersion  document.OASVersion
	OutputFormat    string

	// Validate tool defaults.
	ValidateNoWarnings bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASCOMPOSE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("OASCOMPOSE_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("OASCOMPOSE_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("OASCOMPOSE_CACHE_FILE_TTL", 15*time.Minute),
		CacheContentTTL:    envDuration("OASCOMPOSE_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("OASCOMPOSE_CACHE_SWEEP_INTERVAL", 60*time.Second),
		MaxInlineSize:      int64(envInt("OASCOMPOSE_MAX_INLINE_SIZE", 10*1024*1024)),
		MaxSources:         envInt("OASCOMPOSE_MAX_SOURCES", 20),
		ResultLimit:        envInt("OASCOMPOSE_RESULT_LIMIT", 100),
		MaxLimit:           envInt("OASCOMPOSE_MAX_LIMIT", 1000),
		DuplicatePolicy:    envPolicy("OASCOMPOSE_DUPLICATE_POLICY"),
		OpenAPIVersion:     envVersion("OASCOMPOSE_OPENAPI_VERSION"),
		OutputFormat:       envFormat("OASCOMPOSE_OUTPUT_FORMAT"),
		ValidateNoWarnings: envBool("OASCOMPOSE_VALIDATE_NO_WARNINGS", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func envPolicy(key string) document.DuplicatePolicy {
	v := os.Getenv(key)
	if v == "" {
		return document.PolicyMergeTagsAndResponses
	}
	p, err := document.ParseDuplicatePolicy(v)
	if err != nil {
		slog.Warn("invalid duplicate policy env var, using default", "key", key, "value", v)
		return document.PolicyMergeTagsAndResponses
	}
	return p
}

// envVersion returns "" when unset, meaning "keep the first source's version".
func envVersion(key string) document.OASVersion {
	v := os.Getenv(key)
	if v == "" {
		return ""
	}
	version, err := document.ParseVersion(v)
	if err != nil {
		slog.Warn("invalid OpenAPI version env var, ignoring", "key", key, "value", v)
		return ""
	}
	return version
}

func envFormat(key string) string {
	switch v := os.Getenv(key); v {
	case "":
		return "yaml"
	case "json", "yaml":
		return v
	default:
		slog.Warn("invalid output format env var, using default", "key", key, "value", v, "default", "yaml")
		return "yaml"
	}
}
