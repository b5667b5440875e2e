// Package logging builds the zap.Logger used across the engine, keyed off
// the CLI's --log-level flag (SPEC_FULL.md §6).
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Levels recognised by --log-level, ordered least to most verbose. TRACE
// has no zapcore equivalent and is mapped to Debug; it exists so operators
// coming from other csvw validators can reuse their usual flag value.
const (
	LevelOff   = "OFF"
	LevelError = "ERROR"
	LevelWarn  = "WARN"
	LevelInfo  = "INFO"
	LevelDebug = "DEBUG"
	LevelTrace = "TRACE"
)

// New builds a console-encoded zap.Logger at the given level. An empty
// level means INFO; an unrecognised level is an error.
func New(level string) (*zap.Logger, error) {
	switch strings.ToUpper(level) {
	case LevelOff:
		return zap.NewNop(), nil
	case LevelError:
		return buildLogger(zapcore.ErrorLevel)
	case LevelWarn:
		return buildLogger(zapcore.WarnLevel)
	case LevelInfo, "":
		return buildLogger(zapcore.InfoLevel)
	case LevelDebug, LevelTrace:
		return buildLogger(zapcore.DebugLevel)
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
}

func buildLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	cfg.EncoderConfig.TimeKey = "" // timestamps add noise to validator output
	return cfg.Build()
}
