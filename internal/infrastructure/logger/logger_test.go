package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelOf(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, levelOf(tt.in))
		})
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backoffice.log")

	log, err := New(&Config{Level: "info", Format: "json", Output: path, Service: "backoffice"})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("Realizations generated")
	require.NoError(t, Sync(log))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, `"msg":"Realizations generated"`)
	assert.Contains(t, out, `"service":"backoffice"`)
	assert.NotContains(t, out, "hidden")
}

func TestNew_StdStreams(t *testing.T) {
	for _, out := range []string{"", "stdout", "STDERR"} {
		log, err := New(&Config{Format: "console", Output: out})
		require.NoError(t, err, out)
		assert.NotNil(t, log)
	}

	_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}
