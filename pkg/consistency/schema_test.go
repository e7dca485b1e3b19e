package consistency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blobaudit.dev/pkg/datafeed"
)

const testArea = "0000_test_parquet/"

func TestValidateColumns(t *testing.T) {
	tables := []datafeed.Table{
		{Path: "a/Datafeed", Source: datafeed.SourceExcel, Name: "DimA", Columns: []string{"ID", "Name"}},
		{Path: "b/Datafeed", Source: datafeed.SourceExcel, Name: "DimA", Columns: []string{"ID", "Name", "Code"}},
		{Path: "c/Datafeed", Source: datafeed.SourceExcel, Name: "DimA", Columns: []string{"ID"}},
		{Path: "a/Datafeed", Source: datafeed.SourceExcel, Name: "DimB", Columns: []string{"X", "Y"}},
		{Path: "b/Datafeed", Source: datafeed.SourceExcel, Name: "DimB", Columns: []string{"Y", "X"}},
		{Path: "c/Datafeed", Source: datafeed.SourceParquet, Name: "F.parquet", Columns: []string{"K"}},
	}

	rep := ValidateColumns(tables)

	require.Len(t, rep.Tables, 3)
	assert.Zero(t, rep.Skipped)

	dimA := rep.Tables[0]
	assert.Equal(t, "DimA", dimA.Name)
	assert.False(t, dimA.Consistent())
	assert.Equal(t, []string{"ID"}, dimA.Common)
	assert.Equal(t, []string{"Code", "ID", "Name"}, dimA.All)
	assert.Equal(t, []string{"Code", "Name"}, dimA.Unique())
	assert.Equal(t, 3, dimA.Instances)

	require.Len(t, dimA.Paths, 3)

	testCases := []struct {
		path    string
		missing []string
		extra   []string
	}{
		{"a/Datafeed", []string{"Code"}, []string{"Name"}},
		{"b/Datafeed", []string{}, []string{"Code", "Name"}},
		{"c/Datafeed", []string{"Code", "Name"}, []string{}},
	}

	for i, tc := range testCases {
		p := dimA.Paths[i]

		assert.Equal(t, tc.path, p.Path, "TEST[%d], Failed.\n%s", i, tc.path)
		assert.Equal(t, tc.missing, p.Missing, "TEST[%d], Failed.\n%s", i, tc.path)
		assert.Equal(t, tc.extra, p.Extra, "TEST[%d], Failed.\n%s", i, tc.path)
	}

	assert.True(t, rep.Tables[1].Consistent(), "column order does not matter")
	assert.Empty(t, rep.Tables[1].Paths)
	assert.True(t, rep.Tables[2].Consistent(), "a single instance is consistent")

	assert.Equal(t, 2, rep.ConsistentTables())
	assert.InDelta(t, 66.7, rep.ConsistencyPct(), 1e-9)
	require.Len(t, rep.Inconsistent(), 1)
	assert.Equal(t, "DimA", rep.Inconsistent()[0].Name)
}

func TestValidateColumns_Exclude(t *testing.T) {
	tables := []datafeed.Table{
		{Path: "0000_test_parquet/x/Datafeed", Source: datafeed.SourceExcel, Name: "DimA", Columns: []string{"Scratch"}},
		{Path: "p/Datafeed", Source: datafeed.SourceExcel, Name: "DimA", Columns: []string{"ID"}},
		{Path: "q/Datafeed", Source: datafeed.SourceExcel, Name: "DimA", Columns: []string{"ID"}},
	}

	testCases := []struct {
		desc       string
		exclude    []string
		skipped    int
		consistent bool
	}{
		{"default prefix", []string{testArea}, 1, true},
		{"no prefix", nil, 0, false},
		{"empty prefix ignored", []string{""}, 0, false},
	}

	for i, tc := range testCases {
		rep := ValidateColumns(tables, tc.exclude...)

		assert.Equal(t, tc.skipped, rep.Skipped, "TEST[%d], Failed.\n%s", i, tc.desc)
		require.Len(t, rep.Tables, 1, "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.Equal(t, tc.consistent, rep.Tables[0].Consistent(), "TEST[%d], Failed.\n%s", i, tc.desc)
	}
}

func TestValidateColumns_Demo(t *testing.T) {
	rep := ValidateColumns(demoTables(t), testArea)

	assert.Positive(t, rep.Skipped)
	assert.NotEmpty(t, rep.Tables)

	for _, ts := range rep.Tables {
		assert.True(t, ts.Consistent(), ts.Name)
	}

	assert.Zero(t, (&SchemaReport{}).ConsistencyPct())
}
