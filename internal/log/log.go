package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	DebugLevel = zap.DebugLevel // -1
	InfoLevel  = zap.InfoLevel  // 0, default level
	WarnLevel  = zap.WarnLevel  // 1
	ErrorLevel = zap.ErrorLevel // 2
)

// Logger modes accepted by New.
const (
	ModeDebug   = "Debug"
	ModeRelease = "Release"
	ModeQuiet   = "Quiet"
)

type Field = zap.Field

// field constructors re-exported from zap so callers don't import it
var (
	Int      = zap.Int
	String   = zap.String
	Strings  = zap.Strings
	Duration = zap.Duration
	Err      = zap.Error

	Info = func(msg string, fields ...zap.Field) {
		if stdLogger != nil {
			stdLogger.Info(msg, fields...)
		}
	}
	Warn = func(msg string, fields ...zap.Field) {
		if stdLogger != nil {
			stdLogger.Warn(msg, fields...)
		}
	}
	Error = func(msg string, fields ...zap.Field) {
		if stdLogger != nil {
			stdLogger.Error(msg, fields...)
		}
	}
	Debug = func(msg string, fields ...zap.Field) {
		if stdLogger != nil {
			stdLogger.Debug(msg, fields...)
		}
	}
)

type Logger struct {
	*zap.Logger // zap ensure that zap.Logger is safe for concurrent use
	level       Level
}

// Level reports the minimum level the logger was built with.
func (l *Logger) Level() Level {
	return l.level
}

func Default() *Logger {
	return stdLogger
}

// SetDefault replaces the package-level logger used by Info, Debug, etc.
func SetDefault(l *Logger) {
	stdLogger = l
}

var stdLogger *Logger

var LogFileName string

func Clear() {
	Sync()
	if LogFileName != "" {
		_ = os.RemoveAll(LogFileName)
	}
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "ts",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    "func",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// New create a new logger (not support log rotating).
//
// Debug logs everything to stdout with callers. Release logs info and above
// to stdout and everything to a temporary file. Quiet discards all output.
func New(logType string) *Logger {
	switch logType {
	case ModeDebug:
		consoleCore := zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			DebugLevel,
		)
		return &Logger{
			Logger: zap.New(consoleCore, zap.AddCaller()),
			level:  DebugLevel}
	case ModeQuiet:
		return NewNop()
	}

	LogFileName = os.TempDir() + fmt.Sprintf("/.tablehint_%s.log", time.Now().Format(time.RFC3339))
	logFile, err := os.OpenFile(LogFileName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig()), zapcore.AddSync(os.Stdout), InfoLevel),
	}
	if err == nil {
		fileEncoderCfg := consoleEncoderConfig()
		fileEncoderCfg.EncodeCaller = nil
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(fileEncoderCfg), zapcore.AddSync(logFile), DebugLevel))
	}
	return &Logger{
		Logger: zap.New(zapcore.NewTee(cores...)),
		level:  DebugLevel}
}

// NewWriter builds a console logger writing to w at the given level. It backs
// the advisory log channels and tests.
func NewWriter(w io.Writer, level Level) *Logger {
	cfg := consoleEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), level)
	return &Logger{Logger: zap.New(core), level: level}
}

func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop(), level: ErrorLevel}
}

func Sync() error {
	if stdLogger != nil {
		return stdLogger.Sync()
	}
	return nil
}

func InitLog(logType string) {
	stdLogger = New(logType)
}
