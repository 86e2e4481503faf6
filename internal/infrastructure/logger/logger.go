package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/config"
)

// New 根据配置创建结构化日志，并设置为slog默认Logger
// 返回的cleanup用于关闭日志文件
func New(cfg *config.Config) (*slog.Logger, func(), error) {
	w, cleanup, err := openOutput(cfg.Log.Output)
	if err != nil {
		return nil, nil, err
	}

	l := NewWithWriter(cfg.Log, w)
	slog.SetDefault(l)
	return l, cleanup, nil
}

// NewWithWriter 使用指定Writer创建Logger
// format=json输出JSON，其他输出key=value文本
func NewWithWriter(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.EnableCaller,
	}

	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// ParseLevel 解析日志级别，未知级别按info处理
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openOutput(output string) (io.Writer, func(), error) {
	switch output {
	case "", "stdout":
		return os.Stdout, func() {}, nil
	case "stderr":
		return os.Stderr, func() {}, nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
