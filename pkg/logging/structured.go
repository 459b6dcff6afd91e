package logging

import (
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps both slog and zap loggers so packages can use whichever
// interface fits: the training loop logs through slog, hot paths through zap.
type Logger struct {
	slog *slog.Logger
	zap  *zap.Logger
}

// Config holds logging configuration
type Config struct {
	Level     string
	Format    string // "json" or "console"
	Output    string // "stdout" or "stderr"
	AddCaller bool
}

// NewLogger creates a new structured logger
func NewLogger(config Config) (*Logger, error) {
	slogHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseSlogLevel(config.Level),
	})

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = parseZapLevel(config.Level)
	if config.Format != "" {
		zapConfig.Encoding = config.Format
	}
	if config.Output != "" {
		zapConfig.OutputPaths = []string{config.Output}
		zapConfig.ErrorOutputPaths = []string{config.Output}
	}
	zapConfig.DisableCaller = !config.AddCaller

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		slog: slog.New(slogHandler),
		zap:  zapLogger,
	}, nil
}

func parseSlogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseZapLevel(level string) zap.AtomicLevel {
	switch level {
	case "debug":
		return zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
}

// WithRun tags both loggers with the training run identifier.
func (l *Logger) WithRun(runID string) *Logger {
	return &Logger{
		slog: l.slog.With("run_id", runID),
		zap:  l.zap.With(zap.String("run_id", runID)),
	}
}

// WithCell tags both loggers with a (domain, difficulty) cell.
func (l *Logger) WithCell(domain string, difficulty int) *Logger {
	return &Logger{
		slog: l.slog.With("domain", domain, "difficulty", difficulty),
		zap:  l.zap.With(zap.String("domain", domain), zap.Int("difficulty", difficulty)),
	}
}

// Slog returns the slog view of the logger.
func (l *Logger) Slog() *slog.Logger { return l.slog }

// Zap returns the zap view of the logger.
func (l *Logger) Zap() *zap.Logger { return l.zap }

// Sync flushes buffered log entries.
func (l *Logger) Sync() error { return l.zap.Sync() }
