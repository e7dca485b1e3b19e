package consistency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	testCases := []struct {
		desc     string
		expected []string
		found    []string
		present  []string
		missing  []string
		extra    []string
	}{
		{"partial overlap", []string{"DimX", "DimY"}, []string{"DimX", "DimZ"},
			[]string{"DimX"}, []string{"DimY"}, []string{"DimZ"}},
		{"empty listing", []string{"DimB", "DimA"}, nil,
			[]string{}, []string{"DimA", "DimB"}, []string{}},
		{"exact match", []string{"A", "B"}, []string{"B", "A"},
			[]string{"A", "B"}, []string{}, []string{}},
		{"nothing expected", nil, []string{"Z"},
			[]string{}, []string{}, []string{"Z"}},
		{"duplicates collapse", []string{"A", "A"}, []string{"A", "B", "B"},
			[]string{"A"}, []string{}, []string{"B"}},
	}

	for i, tc := range testCases {
		out := Compare(tc.expected, tc.found)

		assert.Equal(t, tc.present, out.Present, "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.Equal(t, tc.missing, out.Missing, "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.Equal(t, tc.extra, out.Extra, "TEST[%d], Failed.\n%s", i, tc.desc)
	}
}

func TestCompare_Partition(t *testing.T) {
	inputs := [][2][]string{
		{{"a", "b", "c"}, {"b", "c", "d", "e"}},
		{{}, {"x"}},
		{{"x", "y"}, {}},
		{{"same"}, {"same"}},
	}

	for i, in := range inputs {
		out := Compare(in[0], in[1])

		union := toSet(append(append([]string{}, in[0]...), in[1]...))
		seen := make(map[string]int)

		for _, list := range [][]string{out.Present, out.Missing, out.Extra} {
			for _, n := range list {
				seen[n]++
			}
		}

		assert.Len(t, seen, len(union), "TEST[%d], Failed.", i)

		for n := range union {
			assert.Equal(t, 1, seen[n], "TEST[%d], Failed.\n%s must be in exactly one list", i, n)
		}
	}
}
