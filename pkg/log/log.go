// Package log provides the logging functionality for nfptool.
package log

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger *toolLogger
var nopLogger = zap.NewNop().Sugar()

func init() {
	Logger = CreateLoggerWithConfig(DefaultLoggerConfig())
}

func DefaultLoggerConfig() *zap.Config {
	c := zap.NewProductionConfig()
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return &c
}

// CreateLoggerWithLumberjack writes JSON logs to a rotated file.
// The watcher owns the terminal, so a log file keeps diagnostics off screen.
func CreateLoggerWithLumberjack(logFile string, maxSize int, logLevel zapcore.Level) *toolLogger {
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    maxSize, // megabytes
		MaxBackups: 3,
		MaxAge:     7,    // days
		Compress:   true, // compress the rotated files
	})

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		w,
		logLevel,
	)
	return NewLogger(zap.New(core, zap.AddCaller()))
}

func ParseLogLevel(logLevel string) (zap.AtomicLevel, error) {
	zapLvl := zap.NewAtomicLevel() // info level by default
	if logLevel != "" && logLevel != "info" {
		var err error
		zapLvl, err = zap.ParseAtomicLevel(logLevel)
		if err != nil {
			return zap.AtomicLevel{}, err
		}
	}
	return zapLvl, nil
}

func CreateLogger(logLevel zap.AtomicLevel, logFile string) *toolLogger {
	if logFile != "" {
		return CreateLoggerWithLumberjack(logFile, 64, logLevel.Level())
	}

	lCfg := DefaultLoggerConfig()
	lCfg.Level = logLevel
	if term.IsTerminal(int(os.Stderr.Fd())) {
		lCfg = ConsoleLoggerConfig(logLevel)
	}
	return CreateLoggerWithConfig(lCfg)
}

// ConsoleLoggerConfig is a human readable config for an interactive stderr.
// JSON stays the default when stderr is piped or redirected.
func ConsoleLoggerConfig(logLevel zap.AtomicLevel) *zap.Config {
	c := zap.NewDevelopmentConfig()
	c.Level = logLevel
	c.Development = false
	c.DisableStacktrace = true
	c.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return &c
}

func CreateLoggerWithConfig(config *zap.Config) *toolLogger {
	if config == nil {
		config = DefaultLoggerConfig()
	}

	l, err := config.Build()
	if err != nil {
		panic(err)
	}

	return NewLogger(l)
}

// NewLogger wraps a zap logger. Call sites are reported as the caller of
// the wrapper methods, not the wrapper itself.
func NewLogger(l *zap.Logger) *toolLogger {
	return newToolLogger(l.WithOptions(zap.AddCallerSkip(1)).Sugar())
}

type toolLogger struct {
	logger atomic.Pointer[zap.SugaredLogger]
}

func newToolLogger(logger *zap.SugaredLogger) *toolLogger {
	l := &toolLogger{}
	l.set(logger)
	return l
}

func (l *toolLogger) get() *zap.SugaredLogger {
	if l == nil {
		return nopLogger
	}
	logger := l.logger.Load()
	if logger == nil {
		return nopLogger
	}
	return logger
}

func (l *toolLogger) set(logger *zap.SugaredLogger) {
	if logger == nil {
		logger = nopLogger
	}
	l.logger.Store(logger)
}

func (l *toolLogger) Debugw(msg string, keysAndValues ...interface{}) {
	l.get().Debugw(msg, keysAndValues...)
}

func (l *toolLogger) Infow(msg string, keysAndValues ...interface{}) {
	l.get().Infow(msg, keysAndValues...)
}

func (l *toolLogger) Warnw(msg string, keysAndValues ...interface{}) {
	l.get().Warnw(msg, keysAndValues...)
}

func (l *toolLogger) Desugar() *zap.Logger {
	return l.get().Desugar()
}
