package consistency

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mastersFile = `
master_paths:
  - /0000_test_parquet/100007-16_Showcase/Report Documentation/Datafeed/
  - 999999_WeitereKDdec/128019_18_Ruegenwalder_Welle4/Report Documentation/Datafeed
expectations:
  - name: Showcase
    root: 0000_test_parquet/100007-16_Showcase
    expected:
      excel: [DimBrand, DimDate]
      parquet: [FactSales.parquet]
  - name: Direct
    root: A/B/Datafeed
    expected:
      excel: [DimX, DimY]
`

func TestParseMasters(t *testing.T) {
	m, err := ParseMasters([]byte(mastersFile))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"0000_test_parquet/100007-16_Showcase/Report Documentation/Datafeed",
		"999999_WeitereKDdec/128019_18_Ruegenwalder_Welle4/Report Documentation/Datafeed",
	}, m.MasterPaths)

	require.Len(t, m.Expectations, 2)
	assert.Equal(t, "Showcase", m.Expectations[0].Name)
	assert.Equal(t, []string{"DimBrand", "DimDate"}, m.Expectations[0].Expected[CategoryExcel])
	assert.Equal(t, []string{"FactSales.parquet"}, m.Expectations[0].Expected[CategoryParquet])
	assert.Empty(t, m.Expectations[1].Expected[CategoryParquet])
}

func TestParseMasters_Invalid(t *testing.T) {
	testCases := []struct {
		desc string
		data string
		msg  string
	}{
		{"bad yaml", "expectations: [", "parsing masters file"},
		{"missing name and root", "expectations:\n  - expected:\n      excel: [A]\n", "expectation 1: expectation has no name"},
	}

	for i, tc := range testCases {
		_, err := ParseMasters([]byte(tc.data))

		require.Error(t, err, "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.Contains(t, err.Error(), tc.msg, "TEST[%d], Failed.\n%s", i, tc.desc)
	}

	_, err := ParseMasters([]byte("expectations:\n  - name: x\n"))
	assert.ErrorIs(t, err, errNoRoot)
}

func TestLoadMasters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "masters.yaml")

	require.NoError(t, os.WriteFile(path, []byte(mastersFile), 0o600))

	m, err := LoadMasters(path)
	require.NoError(t, err)
	assert.Len(t, m.Expectations, 2)

	_, err = LoadMasters(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExpectation_DatafeedPath(t *testing.T) {
	testCases := []struct {
		root string
		path string
	}{
		{"A/B/Datafeed", "A/B/Datafeed"},
		{"/A/B/datafeed/", "A/B/datafeed"},
		{"0000_test_parquet/100007-16_Showcase", "0000_test_parquet/100007-16_Showcase/Report Documentation/Datafeed"},
		{"proj/", "proj/Report Documentation/Datafeed"},
	}

	for i, tc := range testCases {
		assert.Equal(t, tc.path, Expectation{Root: tc.root}.DatafeedPath(), "TEST[%d], Failed.\n%s", i, tc.root)
	}
}
