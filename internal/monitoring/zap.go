package monitoring

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log formats accepted by NewLogger.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewLogger builds a zap logger. Text output uses the development encoder
// (human-readable, colour-free); json uses the production encoder.
func NewLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch strings.ToLower(format) {
	case FormatJSON:
		cfg = zap.NewProductionConfig()
	case FormatText, "":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("invalid log format %q, must be %s or %s", format, FormatText, FormatJSON)
	}
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// UseZap routes Logf through l at info level.
func UseZap(l *zap.Logger) {
	SetLogger(l.Sugar().Infof)
}

// StreamWriters adapts l to the ops/diag/trace writers taken by the
// decoder's SetLogWriters: ops at warn, diag at info, trace at debug.
// Streams below the logger's level are returned as nil so the decoder
// skips formatting them.
func StreamWriters(l *zap.Logger) (ops, diag, trace io.Writer) {
	return streamWriter(l, zapcore.WarnLevel), streamWriter(l, zapcore.InfoLevel), streamWriter(l, zapcore.DebugLevel)
}

func streamWriter(l *zap.Logger, lvl zapcore.Level) io.Writer {
	if !l.Core().Enabled(lvl) {
		return nil
	}
	std, err := zap.NewStdLogAt(l, lvl)
	if err != nil {
		return nil
	}
	return std.Writer()
}
