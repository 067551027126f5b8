package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/dna-testing-api/internal/config"
)

func TestNewLoggerProductionWritesJSON(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)
	log.Info().Str("sample_id", "S-1").Msg("payment created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "payment created", entry["message"])
	assert.Equal(t, "dna-testing-api", entry["service"])
	assert.Equal(t, "production", entry["environment"])
	assert.Equal(t, "S-1", entry["sample_id"])
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)
	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestLoggerServiceWithoutLicense(t *testing.T) {
	service := NewLoggerService(config.DefaultObservabilityConfig())

	assert.Nil(t, service.GetApplication())
	assert.NotPanics(t, service.Shutdown)

	var nilService *LoggerService
	assert.Nil(t, nilService.GetApplication())
}

func TestWithTraceContextWithoutTransaction(t *testing.T) {
	base := zerolog.Nop()
	assert.Equal(t, base, WithTraceContext(base, nil))
}

func TestLevelMapping(t *testing.T) {
	tests := []struct {
		in    string
		level zerolog.Level
		pgx   tracelog.LogLevel
	}{
		{"debug", zerolog.DebugLevel, tracelog.LogLevelDebug},
		{"info", zerolog.InfoLevel, tracelog.LogLevelInfo},
		{"WARN", zerolog.WarnLevel, tracelog.LogLevelWarn},
		{"error", zerolog.ErrorLevel, tracelog.LogLevelError},
		{"bogus", zerolog.InfoLevel, tracelog.LogLevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			level := ParseLevel(tt.in)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.pgx, GetPgxTraceLogLevel(level))
		})
	}
}
