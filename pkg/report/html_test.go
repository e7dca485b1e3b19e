package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blobaudit.dev/pkg/consistency"
	"blobaudit.dev/pkg/datafeed"
	"blobaudit.dev/pkg/filetable"
)

var generated = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func demoTables() []datafeed.Table {
	return []datafeed.Table{
		{Path: "m/Datafeed/", Source: datafeed.SourceExcel, Name: "DimDate", Columns: []string{"DateKey", "Year"}},
		{Path: "m/Datafeed/", Source: datafeed.SourceParquet, Name: "FactSales", Columns: []string{"Amount"}},
		{Path: "x/Datafeed/", Source: datafeed.SourceExcel, Name: "DimDate", Columns: []string{"DateKey"}},
		{Path: "x/Datafeed/", Source: datafeed.SourceExcel, Name: "<Scratch>"},
	}
}

func TestRowsHTML(t *testing.T) {
	rows := []filetable.Row{
		{Name: "a.csv", FileType: "csv", SizeMB: 1.25, LastModified: generated, FullPath: "p/a.csv"},
		{Name: "<b>.txt", FileType: "txt", SizeMB: 0.5, FullPath: "p/<b>.txt"},
	}

	var buf bytes.Buffer

	require.NoError(t, RowsHTML(&buf, "p/", rows, generated))

	out := buf.String()
	assert.Contains(t, out, "<title>Blob File Inventory</title>")
	assert.Contains(t, out, "Generated 2024-05-01 12:00:00 UTC")
	assert.Contains(t, out, "<td>a.csv</td>")
	assert.Contains(t, out, `<div class="number">1.75</div>`)
	assert.Contains(t, out, "&lt;b&gt;.txt")
	assert.NotContains(t, out, "<b>.txt")
	assert.Contains(t, out, `class="data-table"`)
}

func TestResultsHTML_ExtraPolicy(t *testing.T) {
	results := []consistency.Result{{
		Expectation: "alpha", Path: "a/Datafeed/", Status: consistency.StatusConsistent,
		Outcomes: []consistency.Outcome{{
			Category: consistency.CategoryExcel, Present: []string{"DimDate"}, Extra: []string{"Scratch"},
		}},
	}}

	tests := []struct {
		desc      string
		policy    consistency.ExtraPolicy
		hasExtras bool
	}{
		{"warn shows extras", consistency.ExtraWarn, true},
		{"ignore hides extras", consistency.ExtraIgnore, false},
	}

	for i, tc := range tests {
		var buf bytes.Buffer

		err := ResultsHTML(&buf, &consistency.Report{Policy: tc.policy, Generated: generated, Results: results})

		require.NoError(t, err, "TEST[%d], Failed.\n%s", i, tc.desc)

		out := buf.String()
		assert.Contains(t, out, "alpha", "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.Contains(t, out, `<span class="badge consistent">consistent</span>`, "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.Equal(t, tc.hasExtras, bytes.Contains(buf.Bytes(), []byte("Scratch")), "TEST[%d], Failed.\n%s", i, tc.desc)
	}
}

func TestTablesHTML(t *testing.T) {
	rep := consistency.CompareTables(demoTables(), []string{"m/Datafeed/"})

	var buf bytes.Buffer

	require.NoError(t, TablesHTML(&buf, rep, generated))

	out := buf.String()
	assert.Contains(t, out, "Master Path 1")
	assert.Contains(t, out, "FactSales")
	assert.Contains(t, out, "&lt;Scratch&gt;")
}

func TestColumnsHTML(t *testing.T) {
	rep := consistency.CompareColumns(demoTables(), []string{"m/Datafeed/"})

	var buf bytes.Buffer

	require.NoError(t, ColumnsHTML(&buf, rep, generated))

	out := buf.String()
	assert.Contains(t, out, "DimDate")
	assert.Contains(t, out, "Missing: ")
	assert.Contains(t, out, "not held by any master path")
}

func TestSchemaHTML(t *testing.T) {
	tests := []struct {
		desc    string
		tables  []datafeed.Table
		want    []string
		wantNot []string
	}{
		{"instances differ", demoTables(),
			[]string{"<title>Datafeed Table Column Validation</title>", "DimDate", "Missing: ", "Extra: ",
				`<span class="tag extra">Year</span>`},
			[]string{"Every table declares the same columns"}},
		{"all consistent", demoTables()[:2],
			[]string{"Every table declares the same columns wherever it appears."},
			[]string{"Missing: "}},
	}

	for i, tc := range tests {
		var buf bytes.Buffer

		require.NoError(t, SchemaHTML(&buf, consistency.ValidateColumns(tc.tables), generated), "TEST[%d], Failed.\n%s", i, tc.desc)

		for _, s := range tc.want {
			assert.Contains(t, buf.String(), s, "TEST[%d], Failed.\n%s", i, tc.desc)
		}

		for _, s := range tc.wantNot {
			assert.NotContains(t, buf.String(), s, "TEST[%d], Failed.\n%s", i, tc.desc)
		}
	}
}
