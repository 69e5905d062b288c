package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"trace", LevelTrace},
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestSplitHandlerRoutesByLevel(t *testing.T) {
	var out, errs bytes.Buffer
	logger := slog.New(splitHandler{
		out:  slog.NewTextHandler(&out, &slog.HandlerOptions{Level: LevelTrace}),
		errs: slog.NewTextHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	})

	logger.Info("device attached")
	logger.Error("device lost")

	assert.Contains(t, out.String(), "device attached")
	assert.NotContains(t, out.String(), "device lost")
	assert.Contains(t, errs.String(), "device lost")
	assert.NotContains(t, errs.String(), "device attached")
}

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hidra.log")

	logger, raw, closers, err := Setup(Options{Level: "debug", File: path})
	require.NoError(t, err)
	require.NotNil(t, raw)

	logger.Debug("scan tick")
	logger.Error("read failed")
	CloseAll(closers)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scan tick")
	assert.Contains(t, string(data), "read failed")
}

func TestSetupRawFileReceivesHexDumps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.log")

	_, raw, closers, err := Setup(Options{Level: "info", RawFile: path})
	require.NoError(t, err)

	raw.Log(true, []byte{0x81, 0x02})
	CloseAll(closers)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "D->H")
	assert.Contains(t, string(data), "81 02")
}
