package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blobaudit.dev/pkg/logging"
	"blobaudit.dev/pkg/terminal"
)

func TestNewRequest(t *testing.T) {
	r := NewRequest([]string{"check", "", "tables", "-report=out.csv", "--html=r.html", "-yes", "-", "-empty="})

	assert.Equal(t, "check tables", r.Command())
	assert.Equal(t, "out.csv", r.Param("report"))
	assert.Equal(t, "r.html", r.Param("html"))
	assert.True(t, r.Bool("yes"))
	assert.False(t, r.Bool("no"))
	assert.Equal(t, "fallback", r.ParamOrDefault("empty", "fallback"))
	assert.Equal(t, "fallback", r.ParamOrDefault("absent", "fallback"))

	v, ok := r.Lookup("empty")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = r.Lookup("absent")
	assert.False(t, ok)

	v, err := r.Require("report")
	require.NoError(t, err)
	assert.Equal(t, "out.csv", v)

	tests := []string{"absent", "empty", "yes"}

	for i, key := range tests {
		_, err := r.Require(key)

		assert.Equal(t, MissingParam{Name: key}, err, "TEST[%d], Failed.\n", i)
	}
}

func newTestApp() (*App, *bytes.Buffer) {
	var buf bytes.Buffer

	out := terminal.NewWithIO(strings.NewReader(""), &buf)

	return New(out, logging.NewMockLogger(logging.FATAL)), &buf
}

func TestApp_Routing(t *testing.T) {
	app, buf := newTestApp()

	var called string

	handler := func(name string) Handler {
		return func(c *Context) (any, error) {
			called = name
			return "ran " + name + " " + c.Param("path"), nil
		}
	}

	app.SubCommand("check", handler("check"))
	app.SubCommand("check tables", handler("tables"))
	app.SubCommand("list|ls", handler("list"))

	tests := []struct {
		args   []string
		called string
		code   int
	}{
		{[]string{"check"}, "check", 0},
		{[]string{"check", "tables", "-path=a/"}, "tables", 0},
		{[]string{"ls"}, "list", 0},
		{[]string{"listing"}, "", 1},
		{nil, "", 1},
	}

	for i, tc := range tests {
		called = ""
		buf.Reset()

		code := app.Run(context.Background(), tc.args)

		assert.Equal(t, tc.code, code, "TEST[%d], Failed.\n%v", i, tc.args)
		assert.Equal(t, tc.called, called, "TEST[%d], Failed.\n%v", i, tc.args)
	}

	buf.Reset()
	app.Run(context.Background(), []string{"check", "tables", "-path=a/"})
	assert.Equal(t, "ran tables a/\n", buf.String())
}

func TestApp_Errors(t *testing.T) {
	app, buf := newTestApp()

	app.SubCommand("fail", func(*Context) (any, error) { return nil, errors.New("boom") })
	app.SubCommand("need", func(c *Context) (any, error) {
		_, err := c.Require("term")
		return nil, err
	})

	assert.Equal(t, 1, app.Run(context.Background(), []string{"fail"}))
	assert.Contains(t, buf.String(), "boom")

	assert.Equal(t, 2, app.Run(context.Background(), []string{"need"}))
	assert.Contains(t, buf.String(), "missing parameter -term=<value>")

	buf.Reset()
	app.Run(context.Background(), []string{"nope"})
	assert.Contains(t, buf.String(), `unknown command "nope"`)
	assert.Contains(t, buf.String(), "Available commands:")
}

func TestApp_Help(t *testing.T) {
	app, buf := newTestApp()

	app.SubCommand("scan", func(*Context) (any, error) { return nil, nil },
		AddDescription("scan every Datafeed folder"), AddHelp("usage: scan [-mode=dim|param]"))
	app.SubCommand("list", func(*Context) (any, error) { return nil, nil }, AddDescription("list a folder"))

	assert.Equal(t, 0, app.Run(context.Background(), []string{"help"}))
	assert.Contains(t, buf.String(), "scan every Datafeed folder")
	assert.Contains(t, buf.String(), "list a folder")

	buf.Reset()
	assert.Equal(t, 0, app.Run(context.Background(), []string{"scan", "-h"}))
	assert.Equal(t, "scan every Datafeed folder\n\nusage: scan [-mode=dim|param]\n", buf.String())
}
