// Copyright 2025 The c2pa-go Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var _ Logger = (*DefaultLogger)(nil)

// FileOptions routes log output to a size-rotated file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int // MaxSizeMB before rotation; 0 means 100.
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// LoggerOptions configures a DefaultLogger.
type LoggerOptions struct {
	Level LogLevel
	// Format is ignored when Formatter is set.
	Format    LogFormat
	Formatter Formatter
	// Output defaults to os.Stderr. File takes precedence when set.
	Output io.Writer
	File   *FileOptions
	// TimeFormat and ShowLevel configure the text formatter.
	TimeFormat string
	ShowLevel  bool
}

// DefaultLoggerOptions returns info-level text output on stderr.
func DefaultLoggerOptions() LoggerOptions {
	return LoggerOptions{
		Level:  LevelInfo,
		Format: FormatText,
		Output: os.Stderr,
	}
}

// DefaultLogger writes formatted entries to an io.Writer. It is safe for
// concurrent use; derived loggers share the writer and its lock.
type DefaultLogger struct {
	out    *sharedWriter
	level  LogLevel
	format Formatter
	fields map[string]interface{}
}

type sharedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLogger returns a text logger on stderr at debug level when verbose,
// info level otherwise.
func NewLogger(verbose bool) *DefaultLogger {
	opts := DefaultLoggerOptions()
	if verbose {
		opts.Level = LevelDebug
	}
	return NewLoggerWithOptions(opts)
}

// NewLoggerWithOptions builds a DefaultLogger from opts.
func NewLoggerWithOptions(opts LoggerOptions) *DefaultLogger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.File != nil && opts.File.Path != "" {
		out = &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
		}
	}

	formatter := opts.Formatter
	if formatter == nil {
		switch opts.Format {
		case FormatJSON:
			formatter = &JSONFormatter{TimeFormat: opts.TimeFormat}
		default:
			formatter = &TextFormatter{TimeFormat: opts.TimeFormat, ShowLevel: opts.ShowLevel}
		}
	}

	return &DefaultLogger{
		out:    &sharedWriter{w: out},
		level:  opts.Level,
		format: formatter,
	}
}

// WithFields returns a logger that adds fields to every entry.
func (l *DefaultLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &DefaultLogger{out: l.out, level: l.level, format: l.format, fields: merged}
}

// WithField returns a logger that adds key=value to every entry.
func (l *DefaultLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// SetLevel changes the minimum level of l. Derived loggers keep their own.
func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.level = level
}

func (l *DefaultLogger) GetLevel() LogLevel {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	return l.level
}

// SetOutput replaces the writer for l and every logger derived from it.
func (l *DefaultLogger) SetOutput(w io.Writer) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.w = w
}

// Close closes the underlying writer when it is a rotated log file.
func (l *DefaultLogger) Close() error {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	if c, ok := l.out.w.(*lumberjack.Logger); ok {
		return c.Close()
	}
	return nil
}

func (l *DefaultLogger) log(level LogLevel, format string, args ...interface{}) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if level < l.level || l.level == LevelSilent {
		return
	}

	data, err := l.format.Format(LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   fmt.Sprintf(format, args...),
		Fields:    l.fields,
	})
	if err != nil {
		fmt.Fprintf(l.out.w, "logging error: %v\n", err)
		return
	}
	_, _ = l.out.w.Write(data)
}

func (l *DefaultLogger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

func (l *DefaultLogger) Debugln(msg string) { l.log(LevelDebug, "%s", msg) }

func (l *DefaultLogger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

func (l *DefaultLogger) Infoln(msg string) { l.log(LevelInfo, "%s", msg) }

func (l *DefaultLogger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

func (l *DefaultLogger) Warnln(msg string) { l.log(LevelWarn, "%s", msg) }

func (l *DefaultLogger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

func (l *DefaultLogger) Errorln(msg string) { l.log(LevelError, "%s", msg) }

// Silent reports whether debug output is suppressed.
func (l *DefaultLogger) Silent() bool {
	return !l.IsLevelEnabled(LevelDebug)
}

// IsLevelEnabled reports whether a message at level would be written.
func (l *DefaultLogger) IsLevelEnabled(level LogLevel) bool {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	return l.level != LevelSilent && level >= l.level
}
