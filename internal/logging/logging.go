// Package logging creates named zap loggers for the command line tools. Logs
// go to stderr: colored console output on a terminal, JSON otherwise or when
// LEXICON_LOG_FMT=json.
package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

func encoder() zapcore.Encoder {
	envfmt := strings.TrimSpace(strings.ToLower(os.Getenv("LEXICON_LOG_FMT")))

	cfg := zap.NewProductionEncoderConfig()
	cfg.MessageKey = "msg"
	cfg.LevelKey = "lvl"
	cfg.TimeKey = "ts"
	cfg.NameKey = "log"
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}

	if !term.IsTerminal(int(os.Stderr.Fd())) || envfmt == "json" {
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// New creates a logger named subsystem that logs at level and above.
func New(subsystem, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logger %s: %w", subsystem, err)
	}
	core := zapcore.NewCore(encoder(), zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(lvl))
	return zap.New(core).Named(subsystem), nil
}
