package logging

import (
	"fmt"
	"io"
	"os"
)

// MockLogger prints plain messages without timestamps or JSON framing. Fatal does not exit.
type MockLogger struct {
	level  Level
	out    io.Writer
	errOut io.Writer
}

func NewMockLogger(level Level) Logger {
	return &MockLogger{
		level:  level,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

func (m *MockLogger) log(level Level, format string, args []any) {
	if level < m.level {
		return
	}

	out := m.out
	if level >= ERROR {
		out = m.errOut
	}

	var message any

	switch {
	case len(args) == 1 && format == "":
		message = args[0]
	case len(args) != 1 && format == "":
		message = args
	case format != "":
		message = fmt.Sprintf(format, args...)
	}

	fmt.Fprintf(out, "%v\n", message)
}

func (m *MockLogger) Debug(args ...any) {
	m.log(DEBUG, "", args)
}

func (m *MockLogger) Debugf(format string, args ...any) {
	m.log(DEBUG, format, args)
}

func (m *MockLogger) Info(args ...any) {
	m.log(INFO, "", args)
}

func (m *MockLogger) Infof(format string, args ...any) {
	m.log(INFO, format, args)
}

func (m *MockLogger) Notice(args ...any) {
	m.log(NOTICE, "", args)
}

func (m *MockLogger) Noticef(format string, args ...any) {
	m.log(NOTICE, format, args)
}

func (m *MockLogger) Warn(args ...any) {
	m.log(WARN, "", args)
}

func (m *MockLogger) Warnf(format string, args ...any) {
	m.log(WARN, format, args)
}

func (m *MockLogger) Log(args ...any) {
	m.log(INFO, "", args)
}

func (m *MockLogger) Logf(format string, args ...any) {
	m.log(INFO, format, args)
}

func (m *MockLogger) Error(args ...any) {
	m.log(ERROR, "", args)
}

func (m *MockLogger) Errorf(format string, args ...any) {
	m.log(ERROR, format, args)
}

func (m *MockLogger) Fatal(args ...any) {
	m.log(FATAL, "", args)
}

func (m *MockLogger) Fatalf(format string, args ...any) {
	m.log(FATAL, format, args)
}

func (m *MockLogger) ChangeLevel(level Level) {
	m.level = level
}
