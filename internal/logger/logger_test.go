package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_TRACING_ENABLED", "true")
	t.Setenv("LOG_TRACING_SAMPLE_RATIO", "0.25")
	t.Setenv("LOG_TRACING_PRETTY", "")

	cfg := LoadConfigFromEnv()
	assert.Equal(t, "DEBUG", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.TracingEnabled)
	assert.InDelta(t, 0.25, cfg.TraceSample, 1e-9)
	assert.False(t, cfg.TracePretty)
}

func TestTracingOffByDefault(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "")
	t.Setenv("LOG_TRACING_SAMPLE_RATIO", "")
	cfg := LoadConfigFromEnv()
	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, 1.0, cfg.TraceSample)
}

func TestParseRatio(t *testing.T) {
	assert.Equal(t, 0.5, parseRatio(" 0.5 "))
	assert.Equal(t, 1.0, parseRatio("1"))
	assert.Equal(t, 1.0, parseRatio("0"))
	assert.Equal(t, 1.0, parseRatio("1.5"))
	assert.Equal(t, 1.0, parseRatio("half"))
}
