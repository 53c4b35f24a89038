// Package log is the structured logger used across browsd. It wraps logrus
// and keeps a process-wide default logger that Configure can replace.
package log

import (
	"context"
	"io"
	"os"

	"browsd/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Option configures a Logger.
type Option func(*options)

type options struct {
	out   io.Writer
	json  bool
	file  string
	level logrus.Level
}

// WithOutput sends log output to w.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to JSON formatted entries.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile additionally appends log output to the named file.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithLevel sets the minimum level. Accepts logrus level names.
func WithLevel(level string) Option {
	return func(o *options) {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			o.level = lvl
		}
	}
}

// Logger is a thin wrapper around a logrus entry.
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

// NewLogger builds a logger. Output defaults to stdout in text format.
func NewLogger(opts ...Option) *Logger {
	o := &options{out: os.Stdout, level: logrus.InfoLevel}
	for _, opt := range opts {
		opt(o)
	}

	l := logrus.New()
	l.SetLevel(o.level)
	if isDebug {
		l.SetLevel(logrus.DebugLevel)
	}

	if o.json {
		l.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	lg := &Logger{}
	out := o.out
	if o.file != "" {
		f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			lg.file = f
			out = io.MultiWriter(o.out, f)
		}
	}
	l.SetOutput(out)
	lg.entry = logrus.NewEntry(l)
	return lg
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	if logger != nil && logger.file != nil {
		logger.file.Close()
	}
	logger = NewLogger(opts...)
}

// SetDebug toggles debug output on the package-level logger.
func SetDebug(debug bool) {
	isDebug = debug
	if debug {
		logger.entry.Logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.entry.Logger.SetLevel(logrus.InfoLevel)
	}
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data), file: l.file}
}

// WithContext is accepted for API symmetry; no values are read from ctx yet.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	return &Logger{entry: l.entry.WithContext(ctx), file: l.file}
}

func (l *Logger) Debug(msg string)                          { l.entry.Debug(msg) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Info(msg string)                           { l.entry.Info(msg) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warn(msg string)                           { l.entry.Warn(msg) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Error(msg string)                          { l.entry.Error(msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// LogWithFields returns the package logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError attaches err and whatever typed context it carries.
func LogWithError(err error) *Logger {
	if err == nil {
		return logger.With(F("error", "<nil>"))
	}

	fields := []Field{F("error", err.Error())}

	var watchErr *errors.WatchError
	var fileErr *errors.FileError
	var configErr *errors.ConfigError
	var appErr *errors.ApplicationError
	switch {
	case errors.As(err, &watchErr):
		fields = append(fields, F("error_kind", int(watchErr.Kind())), F("path", watchErr.Path()))
	case errors.As(err, &fileErr):
		fields = append(fields, F("error_kind", int(fileErr.Kind())), F("path", fileErr.Path()))
	case errors.As(err, &configErr):
		fields = append(fields, F("error_kind", int(configErr.Kind())), F("param", configErr.Param()))
	case errors.As(err, &appErr):
		fields = append(fields, F("error_kind", int(appErr.Kind())))
	}
	return logger.With(fields...)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}

func Info(format string, args ...interface{}) {
	logger.entry.Infof(format, args...)
}

// Infof logs a formatted message
func Infof(format string, args ...interface{}) {
	logger.entry.Infof(format, args...)
}

// Debug logs a message with arguments
func Debug(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.entry.Debug(msg)
		return
	}
	logger.entry.Debugf(msg+": %v", args...)
}

// Debugf logs a formatted message
func Debugf(format string, args ...interface{}) {
	logger.entry.Debugf(format, args...)
}

// Warn logs a warning message with arguments
func Warn(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.entry.Warn(msg)
		return
	}
	logger.entry.Warnf(msg+": %v", args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.entry.Warnf(format, args...)
}

// Error logs an error message with arguments
func Error(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.entry.Error(msg)
		return
	}
	logger.entry.Errorf(msg+": %v", args...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.entry.Errorf(format, args...)
}
