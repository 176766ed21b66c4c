package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default config", DefaultConfig(), false},
		{"json to stdout", Config{Level: "debug", Format: "json", Output: "stdout"}, false},
		{"file output", Config{Level: "warn", Format: "console", Output: filepath.Join(t.TempDir(), "immodoc.log")}, false},
		{"unknown level", Config{Level: "loud"}, true},
		{"unwritable file", Config{Output: filepath.Join(t.TempDir(), "absent", "x.log")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestAutoFormatIsJSONWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWriter(&buf, "auto", "info")
	require.NoError(t, err)

	logger.Info("document generated", zap.String("file", "contrat-Diop.pdf"))
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "document generated", entry["msg"])
	assert.Equal(t, "contrat-Diop.pdf", entry["file"])
	assert.Equal(t, "info", entry["level"])
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWriter(&buf, "console", "debug")
	require.NoError(t, err)

	logger.Debug("template invalidated")
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "template invalidated")
}

func TestContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	logger := zap.NewExample()
	ctx := WithContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}
