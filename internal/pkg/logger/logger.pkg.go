package logger

import (
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
	Debug   *log.Logger
	HTTP    *log.Logger

	base *zap.Logger
	mu   sync.RWMutex
)

func init() {
	// Usable before Setup so packages and tests never hit nil loggers.
	Use(zap.NewNop())
}

// Setup builds the process logger. APP_ENV=production switches to the JSON
// encoder, anything else gets the development console encoder.
func Setup() {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		l = zap.NewExample()
		l.Warn("falling back to example logger", zap.Error(err))
	}
	Use(l)
}

// Use swaps the backing zap logger and rebuilds the std loggers on top of it.
func Use(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()

	base = l
	Info = stdAt(l.Named("app"), zapcore.InfoLevel)
	Warning = stdAt(l.Named("app"), zapcore.WarnLevel)
	Error = stdAt(l.Named("app"), zapcore.ErrorLevel)
	Debug = stdAt(l.Named("app"), zapcore.DebugLevel)
	HTTP = stdAt(l.Named("http"), zapcore.InfoLevel)
}

// L returns the structured logger for call sites that log fields.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Sync flushes buffered entries; call on shutdown.
func Sync() {
	_ = L().Sync()
}

func stdAt(l *zap.Logger, level zapcore.Level) *log.Logger {
	std, err := zap.NewStdLogAt(l, level)
	if err != nil {
		return zap.NewStdLog(l)
	}
	return std
}
