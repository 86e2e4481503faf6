package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

// TestNewWithWriter_JSON json格式输出结构化字段
func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(config.LogConfig{Level: "info", Format: "json"}, &buf)

	l.Debug("不应输出")
	l.Error("ledger append failed", slog.Uint64("book_id", 1), slog.Int("quantity", 2))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "ledger append failed", entry["msg"])
	assert.Equal(t, float64(1), entry["book_id"])
	assert.Equal(t, float64(2), entry["quantity"])
}

// TestNewWithWriter_Console console格式输出key=value
func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(config.LogConfig{Level: "debug", Format: "console"}, &buf)

	l.Debug("purchase rejected", slog.String("outcome", "insufficient_stock"))
	assert.Contains(t, buf.String(), "outcome=insufficient_stock")
	assert.Contains(t, buf.String(), "level=DEBUG")
}
