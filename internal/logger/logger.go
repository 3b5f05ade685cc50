// Package logger holds the process-wide structured logger.
package logger

import (
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger. It discards everything until Initialize is
// called.
var Logger *zap.SugaredLogger

func init() {
	Logger = zap.NewNop().Sugar()
}

// Options selects the logger output.
type Options struct {
	// Level is one of debug, info, warn or error.
	Level string
	// JSON switches to zap's production JSON encoding.
	JSON bool
}

// Initialize replaces the global logger. Logs go to stderr so that expanded
// source written to stdout stays clean.
func Initialize(opts Options) error {
	level, err := zapcore.ParseLevel(defaultLevel(opts.Level))
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", opts.Level)
	}

	var zl *zap.Logger
	if opts.JSON {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.OutputPaths = []string{"stderr"}
		zl, err = cfg.Build()
		if err != nil {
			return errors.Wrap(err, "build json logger")
		}
	} else {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.TimeKey = ""
		enc.CallerKey = ""
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zl = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(enc),
			zapcore.AddSync(os.Stderr),
			level,
		))
	}

	Logger = zl.Sugar()
	return nil
}

func defaultLevel(level string) string {
	if level == "" {
		return "warn"
	}
	return level
}

// Named returns a child of the global logger.
func Named(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// Cleanup flushes buffered entries.
func Cleanup() {
	_ = Logger.Sync()
}
