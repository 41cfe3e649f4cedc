// Package log provides structured, leveled logging for the kingview
// application. It supports plain-text and JSON output, key/value fields,
// optional mirroring to a log file, and a debug gate.
package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"kingview/internal/errors"
)

var (
	isDebug = false
	logger  = NewLogger()
	mu      sync.Mutex
)

// Field is a single key/value pair attached to a log entry
type Field struct {
	Key   string
	Value interface{}
}

// F creates a log field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes leveled log entries to an output writer and, optionally,
// mirrors them to a file.
type Logger struct {
	out    io.Writer
	file   *os.File
	json   bool
	fields []Field
}

// Option configures a Logger
type Option func(*Logger)

// WithOutput sets the primary output writer (default os.Stdout)
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.out = w
	}
}

// WithJSON switches the logger to JSON output
func WithJSON() Option {
	return func(l *Logger) {
		l.json = true
	}
}

// WithFile mirrors log output to the given file in addition to the
// primary writer. Errors opening the file are reported on stderr and
// the option is ignored.
func WithFile(path string) Option {
	return func(l *Logger) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log: cannot open %s: %v\n", path, err)
			return
		}
		l.file = f
	}
}

// NewLogger creates a logger with the given options
func NewLogger(opts ...Option) *Logger {
	l := &Logger{out: os.Stdout}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Configure replaces the package-level logger
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// SetDebug toggles debug-level output globally
func SetDebug(debug bool) {
	isDebug = debug
}

// With returns a copy of the logger carrying additional fields
func (l *Logger) With(fields ...Field) *Logger {
	combined := make([]Field, 0, len(l.fields)+len(fields))
	combined = append(combined, l.fields...)
	combined = append(combined, fields...)
	return &Logger{out: l.out, file: l.file, json: l.json, fields: combined}
}

// WithContext is a placeholder for context-aware logging
func (l *Logger) WithContext(_ interface{}) *Logger {
	return l
}

// Info logs an informational message
func (l *Logger) Info(msg string) { l.log("INFO", msg) }

// Infof logs a formatted informational message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log("INFO", fmt.Sprintf(format, args...))
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) { l.log("WARN", msg) }

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log("WARN", fmt.Sprintf(format, args...))
}

// Error logs an error message
func (l *Logger) Error(msg string) { l.log("ERROR", msg) }

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log("ERROR", fmt.Sprintf(format, args...))
}

// Debug logs a message when debug output is enabled
func (l *Logger) Debug(msg string) {
	if isDebug {
		l.log("DEBUG", msg)
	}
}

// Debugf logs a formatted message when debug output is enabled
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug {
		l.log("DEBUG", fmt.Sprintf(format, args...))
	}
}

func (l *Logger) log(level, msg string) {
	mu.Lock()
	defer mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	caller := callerInfo()

	var line string
	if l.json {
		entry := map[string]interface{}{
			"timestamp": timestamp,
			"level":     level,
			"message":   msg,
			"caller":    caller,
		}
		for _, f := range l.fields {
			entry[f.Key] = f.Value
		}
		data, err := json.Marshal(entry)
		if err != nil {
			data = []byte(fmt.Sprintf(`{"level":"ERROR","message":"log marshal failed: %v"}`, err))
		}
		line = string(data) + "\n"
	} else {
		line = fmt.Sprintf("[%s] %s %s: %s", timestamp, caller, level, msg)
		for _, f := range l.fields {
			line += fmt.Sprintf(" %s=%v", f.Key, f.Value)
		}
		line += "\n"
	}

	fmt.Fprint(l.out, line)
	if l.file != nil {
		fmt.Fprint(l.file, line)
	}
}

// callerInfo walks up the stack to the first frame outside this package
func callerInfo() string {
	for skip := 3; skip < 10; skip++ {
		_, file, line, ok := runtime.Caller(skip)
		if !ok {
			break
		}
		if filepath.Base(file) != "logger.go" {
			return fmt.Sprintf("%s:%d", filepath.Base(file), line)
		}
	}
	return "???"
}

// LogWithFields returns the global logger with the given fields attached
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the global logger with the error and its
// application-specific attributes (kind, path, param) attached as fields.
func LogWithError(err error) *Logger {
	fields := []Field{F("error", err)}
	if err == nil {
		return logger.With(fields...)
	}

	var kinded interface{ Kind() errors.ErrorKind }
	if errors.As(err, &kinded) {
		fields = append(fields, F("error_kind", int(kinded.Kind())))
	}
	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var decErr *errors.DecodeError
	if errors.As(err, &decErr) && decErr.Path() != "" {
		fields = append(fields, F("path", decErr.Path()))
	}
	var scanErr *errors.ScanError
	if errors.As(err, &scanErr) && scanErr.Folder() != "" {
		fields = append(fields, F("folder", scanErr.Folder()))
	}
	var cfgErr *errors.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Param() != "" {
		fields = append(fields, F("param", cfgErr.Param()))
	}
	return logger.With(fields...)
}

// LogError logs an error message with the error's attributes attached
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}

// Info logs an informational message on the global logger
func Info(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debug logs a debug message on the global logger
func Debug(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Debugf logs a formatted debug message on the global logger
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Warn logs a warning message on the global logger
func Warn(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// Warnf logs a formatted warning message on the global logger
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// Error logs an error message on the global logger
func Error(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// Errorf logs a formatted error message on the global logger
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}
