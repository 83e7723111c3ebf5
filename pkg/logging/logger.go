// Package logging builds the diagnostic logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where and how much the diagnostic logger writes.
type Options struct {
	Level        string // "debug", "info", "warn" or "error"
	File         string // log file; empty disables the file sink
	Stderr       bool   // also write to stderr
	Redact       bool   // pass file output through a RedactingWriter
	DownloadPath string // redacted when Redact is set
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " | "
	return cfg
}

// New creates the logger. The returned closer releases the log file.
func New(opts Options) (*zap.Logger, io.Closer, error) {
	level := ParseLevel(opts.Level)
	encoder := zapcore.NewConsoleEncoder(encoderConfig())

	var cores []zapcore.Core
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0750); err != nil {
			return nil, nil, fmt.Errorf("could not create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640) // #nosec G304 G302
		if err != nil {
			return nil, nil, fmt.Errorf("could not open log file: %w", err)
		}
		closer = f
		var sink zapcore.WriteSyncer = f
		if opts.Redact {
			sink = NewRedactingWriter(f, opts.DownloadPath)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(sink), level))
	}
	if opts.Stderr {
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.Lock(os.Stderr), level))
	}
	if len(cores) == 0 {
		return zap.NewNop(), closer, nil
	}
	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
