// Copyright (c) 2025-2026 VoiceScribe Authors
//
// Licensed under the MIT License. See LICENSE for details.

package commons

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the application-wide logging contract. Every component receives
// one through its constructor; nothing logs through a package-level logger.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

type loggerOptions struct {
	name  string
	path  string
	level string
}

// Option configures NewApplicationLogger.
type Option func(*loggerOptions)

// Name sets the service name used for the log file and the "service" field.
func Name(name string) Option {
	return func(o *loggerOptions) { o.name = name }
}

// Path sets the directory the rotating log file is written to.
func Path(path string) Option {
	return func(o *loggerOptions) { o.path = path }
}

// Level sets the minimum level: debug, info, warn or error.
func Level(level string) Option {
	return func(o *loggerOptions) { o.level = level }
}

// NewApplicationLogger builds the zap-backed application logger: JSON output
// to a size-rotated file plus console output to stderr.
func NewApplicationLogger(opts ...Option) (Logger, error) {
	options := &loggerOptions{
		name:  "voicescribe",
		path:  ".",
		level: "info",
	}
	for _, opt := range opts {
		opt(options)
	}

	level := zapcore.InfoLevel
	switch strings.ToLower(options.level) {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn", "warning":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(options.path, options.name+".log"),
		MaxSize:    100, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), fileWriter, level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(os.Stderr), level),
	)

	logger := zap.New(core, zap.AddCaller()).
		With(zap.String("service", options.name)).
		Sugar()
	return logger, nil
}
