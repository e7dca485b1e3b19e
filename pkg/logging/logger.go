package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

const fileMode = 0644

// AppName is stamped on every JSON log line.
const AppName = "blobaudit"

type PrettyPrint interface {
	PrettyPrint(writer io.Writer)
}

// Logger represents a logging interface.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Log(args ...any)
	Logf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Notice(args ...any)
	Noticef(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	ChangeLevel(level Level)
}

type logger struct {
	level      Level
	normalOut  io.Writer
	errorOut   io.Writer
	isTerminal bool
	lock       chan struct{}
	exit       func(code int)
}

type logEntry struct {
	Level   Level     `json:"level"`
	Time    time.Time `json:"time"`
	Message any       `json:"message"`
	App     string    `json:"app"`
}

func (l *logger) log(level Level, format string, args []any) {
	if level < l.level {
		return
	}

	out := l.normalOut
	if level >= ERROR {
		out = l.errorOut
	}

	entry := logEntry{
		Level: level,
		Time:  time.Now(),
		App:   AppName,
	}

	switch {
	case len(args) == 1 && format == "":
		entry.Message = args[0]
	case len(args) != 1 && format == "":
		entry.Message = args
	case format != "":
		entry.Message = fmt.Sprintf(format, args...)
	}

	if err, ok := entry.Message.(error); ok {
		entry.Message = err.Error()
	}

	if l.isTerminal {
		l.prettyPrint(&entry, out)
	} else {
		_ = json.NewEncoder(out).Encode(entry)
	}
}

func (l *logger) Debug(args ...any) {
	l.log(DEBUG, "", args)
}

func (l *logger) Debugf(format string, args ...any) {
	l.log(DEBUG, format, args)
}

func (l *logger) Info(args ...any) {
	l.log(INFO, "", args)
}

func (l *logger) Infof(format string, args ...any) {
	l.log(INFO, format, args)
}

func (l *logger) Notice(args ...any) {
	l.log(NOTICE, "", args)
}

func (l *logger) Noticef(format string, args ...any) {
	l.log(NOTICE, format, args)
}

func (l *logger) Warn(args ...any) {
	l.log(WARN, "", args)
}

func (l *logger) Warnf(format string, args ...any) {
	l.log(WARN, format, args)
}

func (l *logger) Log(args ...any) {
	l.log(INFO, "", args)
}

func (l *logger) Logf(format string, args ...any) {
	l.log(INFO, format, args)
}

func (l *logger) Error(args ...any) {
	l.log(ERROR, "", args)
}

func (l *logger) Errorf(format string, args ...any) {
	l.log(ERROR, format, args)
}

func (l *logger) Fatal(args ...any) {
	l.log(FATAL, "", args)

	l.exit(1)
}

func (l *logger) Fatalf(format string, args ...any) {
	l.log(FATAL, format, args)

	l.exit(1)
}

func (l *logger) prettyPrint(e *logEntry, out io.Writer) {
	// a single line is written with several Fprint calls, so concurrent writers must not interleave.
	l.lock <- struct{}{}
	defer func() {
		<-l.lock
	}()

	fmt.Fprintf(out, "\u001B[38;5;%dm%s\u001B[0m [%s] ", e.Level.color(), e.Level.String()[0:4], e.Time.Format(time.TimeOnly))

	if fn, ok := e.Message.(PrettyPrint); ok {
		fn.PrettyPrint(out)
	} else {
		fmt.Fprintf(out, "%v\n", e.Message)
	}
}

// NewLogger creates a new logger instance with the specified logging level.
func NewLogger(level Level) Logger {
	return New(level, os.Stdout, os.Stderr)
}

// New creates a logger writing INFO and below to out and ERROR and above to errOut.
func New(level Level, out, errOut io.Writer) Logger {
	l := &logger{
		level:     level,
		normalOut: out,
		errorOut:  errOut,
		lock:      make(chan struct{}, 1),
		exit:      os.Exit,
	}

	l.isTerminal = checkIfTerminal(l.normalOut)

	return l
}

// NewFileLogger creates a new logger instance with logging to a file.
func NewFileLogger(path string, level Level) Logger {
	l := &logger{
		level:     level,
		normalOut: io.Discard,
		errorOut:  io.Discard,
		lock:      make(chan struct{}, 1),
		exit:      os.Exit,
	}

	if path == "" {
		return l
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return l
	}

	l.normalOut = f
	l.errorOut = f

	return l
}

func checkIfTerminal(w io.Writer) bool {
	switch v := w.(type) {
	case *os.File:
		return term.IsTerminal(int(v.Fd()))
	default:
		return false
	}
}

func (l *logger) ChangeLevel(level Level) {
	l.level = level
}

// LogLevelResponder is an interface that provides a method to get the log level.
type LogLevelResponder interface {
	LogLevel() Level
}

// GetLogLevelForError returns the log level for the given error.
// If the error implements [LogLevelResponder], its log level is returned.
// Otherwise, the default log level "error" is returned.
func GetLogLevelForError(err error) Level {
	level := ERROR

	if e, ok := err.(LogLevelResponder); ok {
		level = e.LogLevel()
	}

	return level
}
