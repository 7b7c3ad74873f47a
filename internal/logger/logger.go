// Package logger provides logging for the PaperBoi CLI.
//
// A Logger writes to two sinks: the console (stderr), which shows warnings
// and errors unless verbose mode is enabled, and an optional daily log file
// under the error_log directory, which records everything from info up.
// Loggers are constructed explicitly and passed to the services that need
// them.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures a Logger.
type Options struct {
	// Verbose enables debug and info output on the console.
	Verbose bool

	// Console receives console output. Defaults to os.Stderr.
	Console io.Writer

	// LogDir enables the daily log file when non-empty.
	LogDir string

	// Now supplies the date used in the log file name. Defaults to time.Now.
	Now func() time.Time
}

// Logger is a leveled, printf-style logger backed by zap.
type Logger struct {
	sugar   *zap.SugaredLogger
	console zap.AtomicLevel
	file    *os.File
}

// New creates a logger from opts.
func New(opts Options) (*Logger, error) {
	if opts.Console == nil {
		opts.Console = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	l := &Logger{console: zap.NewAtomicLevelAt(consoleLevel(opts.Verbose))}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig()), zapcore.Lock(zapcore.AddSync(opts.Console)), l.console),
	}

	if opts.LogDir != "" {
		if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		path := filepath.Join(opts.LogDir, FileName(opts.Now()))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		l.file = f
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig()), zapcore.AddSync(f), zap.InfoLevel))
	}

	l.sugar = zap.New(zapcore.NewTee(cores...)).Sugar()
	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar(), console: zap.NewAtomicLevelAt(zap.FatalLevel)}
}

// FileName returns the daily log file name for t.
func FileName(t time.Time) string {
	return "error_log_" + t.Format("20060102") + ".log"
}

func consoleLevel(verbose bool) zapcore.Level {
	if verbose {
		return zap.DebugLevel
	}
	return zap.WarnLevel
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		LevelKey:   "level",
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
		EncodeLevel: func(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + lvl.CapitalString() + "]")
		},
		ConsoleSeparator: " ",
	}
}

func fileEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// SetVerbose enables or disables verbose console output.
func (l *Logger) SetVerbose(v bool) {
	l.console.SetLevel(consoleLevel(v))
}

// IsVerbose returns true if verbose mode is enabled.
func (l *Logger) IsVerbose() bool {
	return l.console.Enabled(zap.DebugLevel)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

// Section logs a section header at debug level.
func (l *Logger) Section(name string) {
	l.sugar.Debugf("=== %s ===", name)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

// Warn logs a warning.
func (l *Logger) Warn(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

// Error logs an error.
func (l *Logger) Error(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

// Close flushes buffered entries and closes the log file.
func (l *Logger) Close() error {
	_ = l.sugar.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
