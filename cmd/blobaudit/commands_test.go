package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blobaudit.dev/pkg/blobstore"
	"blobaudit.dev/pkg/blobstore/memory"
	"blobaudit.dev/pkg/cli"
	"blobaudit.dev/pkg/config"
	"blobaudit.dev/pkg/datafeed"
	"blobaudit.dev/pkg/logging"
	"blobaudit.dev/pkg/report"
	"blobaudit.dev/pkg/terminal"
)

type testCLI struct {
	app      *cli.App
	out      *bytes.Buffer
	connects int
}

func newTestCLI(t *testing.T, settings *config.Settings, connectErr error) *testCLI {
	t.Helper()

	store := memory.New()
	require.NoError(t, memory.SeedDemo(store))

	tc := &testCLI{out: &bytes.Buffer{}}
	tc.app = cli.New(terminal.NewWithIO(strings.NewReader(""), tc.out), logging.NewMockLogger(logging.FATAL))

	register(tc.app, &commands{
		settings: settings,
		connect: func(context.Context) (blobstore.Store, error) {
			tc.connects++

			if connectErr != nil {
				return nil, connectErr
			}

			return store, nil
		},
	})

	return tc
}

func (tc *testCLI) run(args ...string) int {
	return tc.app.Run(context.Background(), args)
}

func TestCommands_ConnectOnDemand(t *testing.T) {
	tests := []struct {
		args     []string
		code     int
		connects int
	}{
		{[]string{"help"}, 0, 0},
		{[]string{"search", "-h"}, 0, 0},
		{[]string{"bogus"}, 1, 0},
		{[]string{}, 1, 0},
		{[]string{"search"}, 2, 0},
		{[]string{"search", "-term=Dim"}, 0, 1},
	}

	for i, tc := range tests {
		c := newTestCLI(t, &config.Settings{Container: "30-projects"}, nil)

		assert.Equal(t, tc.code, c.run(tc.args...), "TEST[%d], Failed.\n%v", i, tc.args)
		assert.Equal(t, tc.connects, c.connects, "TEST[%d], Failed.\n%v", i, tc.args)
	}
}

func TestCommands_ConnectFailure(t *testing.T) {
	c := newTestCLI(t, &config.Settings{Container: "30-projects"}, errors.New("dial failed"))

	assert.Equal(t, 1, c.run("search", "-term=Dim"))
	assert.Equal(t, 1, c.connects)
	assert.Contains(t, c.out.String(), `could not connect to container "30-projects": dial failed`)
}

func writeScanReport(t *testing.T) string {
	t.Helper()

	tables := []datafeed.Table{
		{Path: "m/Datafeed/", Source: datafeed.SourceExcel, Name: "DimDate", Columns: []string{"DateKey", "Year"}},
		{Path: "m/Datafeed/", Source: datafeed.SourceParquet, Name: "FactSales", Columns: []string{"Amount"}},
		{Path: "x/Datafeed/", Source: datafeed.SourceExcel, Name: "DimDate", Columns: []string{"DateKey"}},
	}

	path := filepath.Join(t.TempDir(), "report.csv")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, report.WriteTables(f, tables))
	require.NoError(t, f.Close())

	return path
}

func TestCommands_CheckSchema(t *testing.T) {
	path := writeScanReport(t)
	html := filepath.Join(t.TempDir(), "schema.html")

	tests := []struct {
		desc     string
		settings *config.Settings
		args     []string
		want     string
	}{
		{"no exclusions", &config.Settings{}, nil, "DimDate @ x/Datafeed/\n  Missing: Year"},
		{"settings exclusion", &config.Settings{SchemaExclude: []string{"x/"}}, nil, "2 OF 2 TABLES CONSISTENT (100.0%)"},
		{"flag overrides settings", &config.Settings{SchemaExclude: []string{"x/"}}, []string{"-exclude="},
			"1 OF 2 TABLES CONSISTENT (50.0%)"},
		{"flag exclusion", &config.Settings{}, []string{"-exclude=x/,y/"}, "2 OF 2 TABLES CONSISTENT (100.0%)"},
	}

	for i, tc := range tests {
		c := newTestCLI(t, tc.settings, nil)

		args := append([]string{"check", "schema", "-report=" + path, "-html=" + html}, tc.args...)

		assert.Equal(t, 0, c.run(args...), "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.Contains(t, c.out.String(), tc.want, "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.Zero(t, c.connects, "TEST[%d], Failed.\n%s", i, tc.desc)
	}

	b, err := os.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Datafeed Table Column Validation")
}

func TestCommands_CheckSchema_MissingReport(t *testing.T) {
	c := newTestCLI(t, &config.Settings{}, nil)

	assert.Equal(t, 2, c.run("check", "schema"))
	assert.Contains(t, c.out.String(), "missing parameter -report=<value>")
}
