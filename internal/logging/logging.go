// Package logging provides the process logger: logrus with a nested formatter,
// writing to stderr and, optionally, to a rotating file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *logrus.Logger
	mu     sync.Mutex
)

// TraceIDKey is the field under which ErrorWithTraceID records its id.
const TraceIDKey = "trace_id"

type Fields = logrus.Fields

// Options controls where and how verbosely the logger writes.
type Options struct {
	Level string // debug, info, warn, error; empty means info
	Dir   string // directory for the rotating log file
	File  bool   // also write to Dir
	// Output replaces stderr as the console sink. Used by tests.
	Output io.Writer
}

// New builds a logger from opts without touching the package logger.
func New(opts Options) *logrus.Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	l.SetFormatter(&formatter.Formatter{
		NoColors:        opts.Output != nil,
		TimestampFormat: "02 Jan 06 - 15:04:05",
		HideKeys:        false,
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
		},
	})

	var console io.Writer = os.Stderr
	if opts.Output != nil {
		console = opts.Output
	}
	writers := []io.Writer{console}

	if opts.File && opts.Dir != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, fmt.Sprintf("voxbot-%s.log", time.Now().Format("2006-01-02"))),
			LocalTime:  true,
			Compress:   true,
			MaxSize:    20,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}

	l.SetOutput(io.MultiWriter(writers...))
	l.SetReportCaller(true)
	return l
}

// Init replaces the package logger. Call it once at startup.
func Init(opts Options) *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger = New(opts)
	return logger
}

// Logger returns the package logger, creating a default one if Init was never called.
func Logger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = New(Options{})
	}
	return logger
}

func entry(fields Fields) *logrus.Entry {
	if fields == nil {
		fields = Fields{}
	}
	return Logger().WithFields(fields)
}

func Debug(fields Fields, msg string) {
	entry(fields).Debug(msg)
}

func Info(fields Fields, msg string) {
	entry(fields).Info(msg)
}

func Warn(fields Fields, msg string) {
	entry(fields).Warn(msg)
}

func Error(fields Fields, msg string) {
	entry(fields).Error(msg)
}

// ErrorWithTraceID logs msg at error level tagged with a trace id and returns
// the id. An existing trace_id field is reused.
func ErrorWithTraceID(fields Fields, msg string) string {
	if fields == nil {
		fields = Fields{}
	}

	traceID, _ := fields[TraceIDKey].(string)
	if traceID == "" {
		id, err := uuid.NewRandom()
		if err != nil {
			Error(Fields{"error": err.Error()}, "[logging.ErrorWithTraceID] failed to generate trace ID")
			traceID = "unknown"
		} else {
			traceID = id.String()
		}
	}

	fields[TraceIDKey] = traceID
	entry(fields).Error(msg)
	return traceID
}
