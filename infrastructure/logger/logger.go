// Package logger owns the process-wide zap logger. Production builds write
// JSON lines to a size-rotated file; everything else logs to the console.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	globalLogger *zap.Logger
	once         sync.Once
)

// Config controls how the process logger is built.
type Config struct {
	Environment string // "development", "testing" or "production"
	Level       string // zap level name

	// Rotated-file settings, production only
	Filename   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// DefaultConfig returns the logger settings for an environment name.
func DefaultConfig(env string) *Config {
	switch env {
	case "production", "prod":
		return &Config{
			Environment: "production",
			Level:       "info",
			Filename:    "logs/taskkeep.log",
			MaxSize:     100,
			MaxBackups:  10,
			MaxAge:      30,
			Compress:    true,
		}
	case "testing", "test":
		return &Config{Environment: "testing", Level: "debug"}
	default:
		return &Config{Environment: "development", Level: "debug"}
	}
}

// Init builds the global logger once. Later calls are no-ops.
func Init(cfg *Config) error {
	var err error
	once.Do(func() {
		var built *zap.Logger
		if cfg.Environment == "production" {
			built, err = buildFile(cfg)
		} else {
			built, err = buildConsole(cfg)
		}
		if err == nil {
			globalLogger = built
		}
	})
	return err
}

// InitFromEnv builds the global logger from APP_ENV, with LOG_LEVEL and
// LOG_FILE overrides.
func InitFromEnv() error {
	cfg := DefaultConfig(os.Getenv("APP_ENV"))
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		cfg.Filename = file
	}
	return Init(cfg)
}

func levelFor(name string) zapcore.Level {
	if l, err := zapcore.ParseLevel(name); err == nil {
		return l
	}
	return zapcore.InfoLevel
}

func buildFile(cfg *Config) (*zap.Logger, error) {
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	})

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.LowercaseLevelEncoder
	enc.EncodeCaller = zapcore.ShortCallerEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), sink, levelFor(cfg.Level))
	return zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(
			zap.String("environment", cfg.Environment),
			zap.String("service", "taskkeep"),
		),
	), nil
}

func buildConsole(cfg *Config) (*zap.Logger, error) {
	c := zap.NewDevelopmentConfig()
	c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	c.Level = zap.NewAtomicLevelAt(levelFor(cfg.Level))
	return c.Build(zap.AddCallerSkip(1))
}

// Get returns the global logger, or a no-op logger before Init.
func Get() *zap.Logger {
	if globalLogger != nil {
		return globalLogger
	}
	return zap.NewNop()
}

// Named returns a child of the global logger with the given name.
func Named(name string) *zap.Logger {
	return Get().Named(name)
}

// With returns a child of the global logger carrying the given fields.
func With(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

// Sync flushes buffered entries.
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// Debug logs at debug level on the global logger.
func Debug(msg string, fields ...zap.Field) {
	Get().Debug(msg, fields...)
}

// Info logs at info level on the global logger.
func Info(msg string, fields ...zap.Field) {
	Get().Info(msg, fields...)
}

// Warn logs at warn level on the global logger.
func Warn(msg string, fields ...zap.Field) {
	Get().Warn(msg, fields...)
}

// Error logs at error level on the global logger.
func Error(msg string, fields ...zap.Field) {
	Get().Error(msg, fields...)
}

// Fatal logs at fatal level and exits.
func Fatal(msg string, fields ...zap.Field) {
	Get().Fatal(msg, fields...)
}
