package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/oascompose/document"
)

// clearEnv clears all OASCOMPOSE_* env vars to isolate tests from the ambient environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OASCOMPOSE_CACHE_ENABLED", "OASCOMPOSE_CACHE_MAX_SIZE",
		"OASCOMPOSE_CACHE_FILE_TTL", "OASCOMPOSE_CACHE_CONTENT_TTL",
		"OASCOMPOSE_CACHE_SWEEP_INTERVAL", "OASCOMPOSE_MAX_INLINE_SIZE",
		"OASCOMPOSE_MAX_SOURCES", "OASCOMPOSE_RESULT_LIMIT", "OASCOMPOSE_MAX_LIMIT",
		"OASCOMPOSE_DUPLICATE_POLICY", "OASCOMPOSE_OPENAPI_VERSION",
		"OASCOMPOSE_OUTPUT_FORMAT", "OASCOMPOSE_VALIDATE_NO_WARNINGS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 15*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Equal(t, 20, c.MaxSources)
	assert.Equal(t, 100, c.ResultLimit)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.Equal(t, document.PolicyMergeTagsAndResponses, c.DuplicatePolicy)
	assert.Empty(t, c.OpenAPIVersion)
	assert.Equal(t, "yaml", c.OutputFormat)
	assert.False(t, c.ValidateNoWarnings)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OASCOMPOSE_CACHE_ENABLED", "false")
	t.Setenv("OASCOMPOSE_CACHE_MAX_SIZE", "50")
	t.Setenv("OASCOMPOSE_CACHE_FILE_TTL", "30m")
	t.Setenv("OASCOMPOSE_CACHE_CONTENT_TTL", "10m")
	t.Setenv("OASCOMPOSE_CACHE_SWEEP_INTERVAL", "30s")
	t.Setenv("OASCOMPOSE_MAX_INLINE_SIZE", "5242880")
	t.Setenv("OASCOMPOSE_MAX_SOURCES", "5")
	t.Setenv("OASCOMPOSE_RESULT_LIMIT", "20")
	t.Setenv("OASCOMPOSE_MAX_LIMIT", "500")
	t.Setenv("OASCOMPOSE_DUPLICATE_POLICY", "reject")
	t.Setenv("OASCOMPOSE_OPENAPI_VERSION", "3.0")
	t.Setenv("OASCOMPOSE_OUTPUT_FORMAT", "json")
	t.Setenv("OASCOMPOSE_VALIDATE_NO_WARNINGS", "true")

	c := loadConfig()

	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 50, c.CacheMaxSize)
	assert.Equal(t, 30*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 10*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 30*time.Second, c.CacheSweepInterval)
	assert.Equal(t, int64(5242880), c.MaxInlineSize)
	assert.Equal(t, 5, c.MaxSources)
	assert.Equal(t, 20, c.ResultLimit)
	assert.Equal(t, 500, c.MaxLimit)
	assert.Equal(t, document.PolicyReject, c.DuplicatePolicy)
	assert.Equal(t, document.Version30, c.OpenAPIVersion)
	assert.Equal(t, "json", c.OutputFormat)
	assert.True(t, c.ValidateNoWarnings)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("OASCOMPOSE_CACHE_ENABLED", "maybe")
	t.Setenv("OASCOMPOSE_CACHE_MAX_SIZE", "-3")
	t.Setenv("OASCOMPOSE_CACHE_FILE_TTL", "soon")
	t.Setenv("OASCOMPOSE_DUPLICATE_POLICY", "ignore")
	t.Setenv("OASCOMPOSE_OPENAPI_VERSION", "2.0")
	t.Setenv("OASCOMPOSE_OUTPUT_FORMAT", "xml")

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, document.PolicyMergeTagsAndResponses, c.DuplicatePolicy)
	assert.Empty(t, c.OpenAPIVersion)
	assert.Equal(t, "yaml", c.OutputFormat)
}
