package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Emoji = "\U0001F9EA" + " apicase:"

const logFile = "apicase-logs.txt"

// LogCfg is kept global so ChangeLogLevel can rebuild the same logger.
var LogCfg zap.Config

var osOpenFile = os.OpenFile

var consoleWriter io.Writer = os.Stdout

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(Emoji + " " + t.Format(time.RFC3339) + " ")
}

// SetConsoleWriter redirects the console half of the logger, mostly for tests.
func SetConsoleWriter(w io.Writer) {
	consoleWriter = w
}

// New builds the process logger: colour console output plus a plain log file.
func New() (*zap.Logger, *os.File, error) {
	_ = zap.RegisterEncoder("colorConsole", func(config zapcore.EncoderConfig) (zapcore.Encoder, error) {
		return NewColor(config), nil
	})

	LogCfg = zap.NewDevelopmentConfig()
	LogCfg.Encoding = "colorConsole"
	LogCfg.EncoderConfig.EncodeTime = customTimeEncoder
	LogCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	LogCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	LogCfg.DisableStacktrace = true
	LogCfg.EncoderConfig.EncodeCaller = nil

	f, err := osOpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open the log file: %v", err)
	}

	logger, err := build(f)
	if err != nil {
		return nil, nil, err
	}
	currentFile = f
	return logger, f, nil
}

func build(f *os.File) (*zap.Logger, error) {
	consoleEnc := NewColor(LogCfg.EncoderConfig)
	fileCfg := LogCfg.EncoderConfig
	fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	fileEnc := zapcore.NewConsoleEncoder(fileCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.AddSync(consoleWriter), LogCfg.Level),
	}
	if f != nil {
		cores = append(cores, zapcore.NewCore(fileEnc, zapcore.AddSync(f), LogCfg.Level))
	}

	opts := []zap.Option{}
	if !LogCfg.DisableStacktrace {
		opts = append(opts, zap.AddStacktrace(zap.ErrorLevel))
	}
	if LogCfg.EncoderConfig.EncodeCaller != nil {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(zapcore.NewTee(cores...), opts...), nil
}

var currentFile *os.File

// ChangeLogLevel rebuilds the logger at level, keeping the same log file.
func ChangeLogLevel(level zapcore.Level) (*zap.Logger, error) {
	LogCfg.Level = zap.NewAtomicLevelAt(level)
	if level == zap.DebugLevel {
		LogCfg.DisableStacktrace = false
		LogCfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	}

	logger, err := build(currentFile)
	if err != nil {
		return nil, fmt.Errorf("failed to build config for logger: %v", err)
	}
	return logger, nil
}
