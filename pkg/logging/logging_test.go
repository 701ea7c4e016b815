package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriter(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":  zerolog.DebugLevel,
		" INFO ": zerolog.InfoLevel,
		"error":  zerolog.ErrorLevel,
		"":       zerolog.WarnLevel,
		"loud":   zerolog.WarnLevel,
	}
	for in, want := range cases {
		var buf bytes.Buffer
		require.Equal(t, want, SetupWithWriter(in, &buf).GetLevel(), "level %q", in)
	}
}

func TestSetupWithWriter_Filters(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter("warn", &buf)
	logger.Info().Msg("quiet")
	logger.Warn().Str("token", "abc").Msg("loud")

	out := buf.String()
	require.NotContains(t, out, "quiet")
	require.Contains(t, out, "loud")
	require.Contains(t, out, "token=abc")
}
