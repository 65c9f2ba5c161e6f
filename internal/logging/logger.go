// Package logging builds the zap loggers used across the CLI and the
// analysis engine.
package logging

import (
	"errors"
	"fmt"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger writing to w.
func New(cfg *Config, w zapcore.WriteSyncer) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.Lock(w), cfg.Level)
	var opts []zap.Option
	if cfg.Caller {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger { return zap.NewNop() }

// newEncoder creates JSON or console encoder.
func newEncoder(format string) zapcore.Encoder {
	if format == "console" {
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.TimeKey = ""
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(encoderCfg)
}

// Sync flushes the logger, ignoring the harmless errors returned when the
// sink is a terminal.
func Sync(l *zap.Logger) error {
	err := l.Sync()
	if err != nil && isStdoutSyncError(err) {
		return nil
	}
	return err
}

// On Linux, syncing stdout/stderr returns EINVAL or ENOTTY.
func isStdoutSyncError(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EINVAL || errno == syscall.ENOTTY
	}
	return false
}
