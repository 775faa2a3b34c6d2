package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_SetsGlobalLevel(t *testing.T) {
	require.NoError(t, Configure("warn", "text"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestConfigure_InvalidLevelDefaultsToInfo(t *testing.T) {
	require.NoError(t, Configure("definitely-not-a-level", "text"))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestConfigure_JSONFormatEmitsStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(zerolog.ConsoleWriter{Out: &buf})
	t.Cleanup(func() { SetWriter(zerolog.ConsoleWriter{Out: os.Stderr}) })

	require.NoError(t, Configure("info", "json"))
	log.Info().Str("k", "v").Msg("hello")

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "{"), "expected JSON output, got %q", line)
	assert.Contains(t, line, `"k":"v"`)
}

func TestVerbosityLevel(t *testing.T) {
	assert.Equal(t, "info", VerbosityLevel(0, "info"))
	assert.Equal(t, "debug", VerbosityLevel(1, "info"))
	assert.Equal(t, "trace", VerbosityLevel(2, "info"))
	assert.Equal(t, "trace", VerbosityLevel(5, "info"))
}
