package blobstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathHelpers(t *testing.T) {
	testCases := []struct {
		desc   string
		fn     func(string) string
		input  string
		output string
	}{
		{"clean strips leading slash", Clean, "/a/b/", "a/b/"},
		{"clean trims spaces", Clean, "  a/b ", "a/b"},
		{"ensure dir adds slash", EnsureDir, "a/b", "a/b/"},
		{"ensure dir keeps single slash", EnsureDir, "a/b//", "a/b/"},
		{"ensure dir root", EnsureDir, "/", ""},
		{"parent of file", Parent, "a/b/c.xlsx", "a/b/"},
		{"parent of folder", Parent, "a/b/", "a/"},
		{"parent of top level", Parent, "a", ""},
		{"base of folder", Base, "a/b/", "b"},
		{"base of file", Base, "a/b/c.parquet", "c.parquet"},
		{"ext lower-cased", Ext, "a/Report.XLSX", "xlsx"},
		{"ext of multi dot name", Ext, "a/archive.tar.gz", "gz"},
		{"ext missing", Ext, "a/README", ""},
	}

	for i, tc := range testCases {
		assert.Equal(t, tc.output, tc.fn(tc.input), "TEST[%d], Failed.\n%s", i, tc.desc)
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "a/b/c", Join("a/", "/b", "", "c"))
	assert.Empty(t, Join("", "/"))
}

func TestSegments(t *testing.T) {
	assert.Equal(t, []string{"a", "Report Documentation", "Datafeed"}, Segments("/a//Report Documentation/Datafeed/"))
	assert.Nil(t, Segments(""))
}

func TestEntry_IsMarker(t *testing.T) {
	assert.True(t, Entry{Kind: KindFolder, Path: "a/"}.IsMarker())
	assert.True(t, Entry{Kind: KindFile, Path: "a/empty.txt"}.IsMarker())
	assert.True(t, Entry{Kind: KindFile, Size: 4, Path: "a/b/"}.IsMarker())
	assert.False(t, Entry{Kind: KindFile, Size: 4, Path: "a/b.csv"}.IsMarker())
}
