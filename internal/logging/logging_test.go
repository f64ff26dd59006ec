package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{" WARN ", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SPLITMUX_LOG_LEVEL", "debug")
	t.Setenv("SPLITMUX_LOG_FORMAT", "json")

	cfg := ApplyEnv(DefaultConfig())

	assert.Equal(t, zerolog.DebugLevel, cfg.Level)
	assert.Equal(t, "json", cfg.Format)
}

func TestApplyEnv_IgnoresUnknownValues(t *testing.T) {
	t.Setenv("SPLITMUX_LOG_LEVEL", "chatty")
	t.Setenv("SPLITMUX_LOG_FORMAT", "xml")

	cfg := ApplyEnv(DefaultConfig())

	assert.Equal(t, zerolog.InfoLevel, cfg.Level)
	assert.Equal(t, "console", cfg.Format)
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = "json"

	logger := WithComponent(NewWithWriter(cfg, &buf), "pane")
	logger.Info().Str("axis", "vertical").Msg("split leaf")
	logger.Debug().Msg("filtered")

	out := buf.String()
	assert.Contains(t, out, `"component":"pane"`)
	assert.Contains(t, out, `"axis":"vertical"`)
	assert.NotContains(t, out, "filtered")
}

func TestNew_WritesFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.File = filepath.Join(t.TempDir(), "logs", "splitmux.log")

	logger, closer, err := New(cfg)
	require.NoError(t, err)
	logger.Info().Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello"))
}

func TestNew_NoFileIsDisabled(t *testing.T) {
	logger, closer, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
	assert.NoError(t, closer.Close())
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = "json"
	ctx := WithContext(context.Background(), NewWithWriter(cfg, &buf))

	FromContext(ctx).Info().Msg("from context")

	assert.Contains(t, buf.String(), "from context")
}
