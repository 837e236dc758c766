package log

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zap implements Logger with zap as the underlying logging library.
type Zap struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	level  Level
}

// enforce compilation error
var _ Logger = (*Zap)(nil)

// NewZap creates a zap-backed logger writing console-encoded output at the
// given level to the given writers.
func NewZap(level Level, writers ...io.Writer) *Zap {
	syncers := make([]zapcore.WriteSyncer, 0, len(writers))
	for _, w := range writers {
		syncers = append(syncers, zapcore.AddSync(w))
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(syncers...),
		toZapLevel(level),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return &Zap{
		logger: logger,
		sugar:  logger.Sugar(),
		level:  level,
	}
}

// Debug logs a message at debug level.
func (z *Zap) Debug(v ...any) { z.sugar.Debug(v...) }

// Debugf logs a formatted message at debug level.
func (z *Zap) Debugf(format string, v ...any) { z.sugar.Debugf(format, v...) }

// Info logs a message at info level.
func (z *Zap) Info(v ...any) { z.sugar.Info(v...) }

// Infof logs a formatted message at info level.
func (z *Zap) Infof(format string, v ...any) { z.sugar.Infof(format, v...) }

// Warn logs a message at warn level.
func (z *Zap) Warn(v ...any) { z.sugar.Warn(v...) }

// Warnf logs a formatted message at warn level.
func (z *Zap) Warnf(format string, v ...any) { z.sugar.Warnf(format, v...) }

// Error logs a message at error level.
func (z *Zap) Error(v ...any) { z.sugar.Error(v...) }

// Errorf logs a formatted message at error level.
func (z *Zap) Errorf(format string, v ...any) { z.sugar.Errorf(format, v...) }

// LogLevel returns the logger's level.
func (z *Zap) LogLevel() Level { return z.level }

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
