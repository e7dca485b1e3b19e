package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Log(t *testing.T) {
	var out, errOut bytes.Buffer

	logger := New(DEBUG, &out, &errOut)
	logger.Log("hello info log!")

	assertMessageInJSONLog(t, out.String(), "hello info log!")
	assert.Empty(t, errOut.String())
}

func TestLogger_Logf(t *testing.T) {
	var out, errOut bytes.Buffer

	logger := New(DEBUG, &out, &errOut)
	logger.Logf("%s %d", "listed", 3)

	assertMessageInJSONLog(t, out.String(), "listed 3")
}

func TestLogger_PlainMethodsDoNotFormat(t *testing.T) {
	tests := []struct {
		args []any
		want any
	}{
		{[]any{"50%d done"}, "50%d done"},
		{[]any{"100%", "done"}, []any{"100%", "done"}},
		{[]any{errors.New("bad %s")}, "bad %s"},
	}

	for i, tc := range tests {
		var out, errOut bytes.Buffer

		New(DEBUG, &out, &errOut).Info(tc.args...)

		var l struct {
			Message any `json:"message"`
		}

		require.NoError(t, json.Unmarshal(out.Bytes(), &l), "TEST[%d], Failed.\n", i)
		assert.Equal(t, tc.want, l.Message, "TEST[%d], Failed.\n", i)
	}
}

func TestMockLogger_PlainMethodsDoNotFormat(t *testing.T) {
	var out, errOut bytes.Buffer

	m := &MockLogger{level: DEBUG, out: &out, errOut: &errOut}

	m.Warn("50%d done")
	m.Warnf("%d%% done", 50)
	m.Error("a", "b")

	assert.Equal(t, "50%d done\n50% done\n", out.String())
	assert.Equal(t, "[a b]\n", errOut.String())
}

func TestLogger_ErrorGoesToErrorOutput(t *testing.T) {
	var out, errOut bytes.Buffer

	logger := New(DEBUG, &out, &errOut)
	logger.Error(errors.New("listing failed"))

	assertMessageInJSONLog(t, errOut.String(), "listing failed")
	assert.Empty(t, out.String())
}

func TestLogger_LevelFiltering(t *testing.T) {
	var out, errOut bytes.Buffer

	logger := New(WARN, &out, &errOut)
	logger.Debug("hidden")
	logger.Infof("hidden %v", 1)
	logger.Warn("shown")

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	assertMessageInJSONLog(t, string(lines[0]), "shown")

	logger.ChangeLevel(DEBUG)
	logger.Debug("now shown")

	assert.Contains(t, out.String(), "now shown")
}

func TestLogger_FatalExits(t *testing.T) {
	var out, errOut bytes.Buffer

	code := 0

	l := New(INFO, &out, &errOut).(*logger)
	l.exit = func(c int) { code = c }

	l.Fatalf("missing %s", "AZURE_STORAGE_ACCOUNT_NAME")

	assert.Equal(t, 1, code)
	assertMessageInJSONLog(t, errOut.String(), "missing AZURE_STORAGE_ACCOUNT_NAME")
}

func TestNewFileLogger_EmptyPathDiscards(t *testing.T) {
	logger := NewFileLogger("", INFO)

	assert.NotPanics(t, func() { logger.Info("nothing") })
}

func TestGetLogLevelForError(t *testing.T) {
	assert.Equal(t, ERROR, GetLogLevelForError(errors.New("plain")))
	assert.Equal(t, WARN, GetLogLevelForError(warnErr{}))
}

type warnErr struct{}

func (warnErr) Error() string   { return "warn" }
func (warnErr) LogLevel() Level { return WARN }

func assertMessageInJSONLog(t *testing.T, logLine, expectation string) {
	t.Helper()

	var l struct {
		Level   string `json:"level"`
		Message string `json:"message"`
		App     string `json:"app"`
	}

	require.NoError(t, json.Unmarshal([]byte(logLine), &l))

	assert.Equal(t, expectation, l.Message)
	assert.Equal(t, AppName, l.App)
}
