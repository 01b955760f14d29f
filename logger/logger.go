// Package logger exposes the two loggers used by the styling engine.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// ProgressLogger logs the main steps of the styling process:
	// parsing sheets, building the rule index, styling the document.
	ProgressLogger *zap.SugaredLogger

	// WarningLogger emits a warning for each non fatal error, like dropped
	// rules, ignored declarations or invalid computed values.
	WarningLogger *zap.SugaredLogger
)

func init() {
	SetCore(defaultCore(zapcore.InfoLevel))
}

func defaultCore(level zapcore.Level) zapcore.Core {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(os.Stderr), level)
}

// SetCore redirects both loggers to [core].
func SetCore(core zapcore.Core) {
	base := zap.New(core)
	ProgressLogger = base.Named("webstyle.progress").Sugar()
	WarningLogger = base.Named("webstyle.warning").Sugar()
}

// SetLevel resets the loggers to the default stderr output,
// filtered at [level] ("debug", "info", "warn", "error").
func SetLevel(level string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return err
	}
	SetCore(defaultCore(lvl))
	return nil
}

// Discard silences both loggers.
func Discard() { SetCore(zapcore.NewNopCore()) }
