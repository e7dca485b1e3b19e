package consistency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"blobaudit.dev/pkg/blobstore"
	"blobaudit.dev/pkg/blobstore/memory"
	"blobaudit.dev/pkg/datafeed"
	"blobaudit.dev/pkg/logging"
)

var errBoom = errors.New("boom")

type statusCounter map[string]int

func (s statusCounter) ObserveCheck(status string) {
	s[status]++
}

func exampleStore(t *testing.T) *memory.Store {
	t.Helper()

	s := memory.New()

	dimX, err := memory.SheetWorkbook([]memory.Table{
		{Name: "DimX", Columns: []string{"ID"}},
		{Name: "DimZ", Columns: []string{"ID"}},
	})
	require.NoError(t, err)

	s.Put("A/B/Datafeed/DimManager.xlsx", dimX)
	s.Mkdir("Empty/Report Documentation/Datafeed")

	return s
}

func newChecker(store blobstore.Store, policy ExtraPolicy, m Metrics) *Checker {
	logger := logging.NewMockLogger(logging.FATAL)
	scanner := datafeed.NewScanner(store, datafeed.ModeDim, logger, nil)

	return NewChecker(scanner, policy, logger, m)
}

func TestChecker_Check_Example(t *testing.T) {
	m := statusCounter{}
	c := newChecker(exampleStore(t), ExtraFail, m)

	res := c.Check(context.Background(), Expectation{
		Name:     "example",
		Root:     "A/B/Datafeed",
		Expected: map[Category][]string{CategoryExcel: {"DimX", "DimY"}},
	})

	assert.Equal(t, StatusInconsistent, res.Status)
	assert.Equal(t, "A/B/Datafeed", res.Path)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, Outcome{
		Category: CategoryExcel,
		Present:  []string{"DimX"},
		Missing:  []string{"DimY"},
		Extra:    []string{"DimZ"},
	}, res.Outcomes[0])
	assert.Equal(t, 1, m[string(StatusInconsistent)])
}

func TestChecker_Check_ExtraPolicy(t *testing.T) {
	exp := Expectation{
		Name:     "extras only",
		Root:     "A/B/Datafeed",
		Expected: map[Category][]string{CategoryExcel: {"DimX"}},
	}

	testCases := []struct {
		policy   ExtraPolicy
		status   Status
		warnings int
	}{
		{ExtraFail, StatusInconsistent, 0},
		{ExtraWarn, StatusConsistent, 1},
		{ExtraIgnore, StatusConsistent, 0},
	}

	for i, tc := range testCases {
		res := newChecker(exampleStore(t), tc.policy, nil).Check(context.Background(), exp)

		assert.Equal(t, tc.status, res.Status, "TEST[%d], Failed.\n%s", i, tc.policy)
		assert.Len(t, res.Warnings, tc.warnings, "TEST[%d], Failed.\n%s", i, tc.policy)
		assert.Equal(t, []string{"DimZ"}, res.Outcomes[0].Extra, "TEST[%d], Failed.\n%s", i, tc.policy)
	}
}

func TestChecker_Check_EmptyListing(t *testing.T) {
	res := newChecker(exampleStore(t), ExtraFail, nil).Check(context.Background(), Expectation{
		Name: "empty",
		Root: "Empty",
		Expected: map[Category][]string{
			CategoryExcel:   {"DimA", "DimB"},
			CategoryParquet: {"FactA.parquet"},
		},
	})

	assert.Equal(t, StatusInconsistent, res.Status)
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, []string{"DimA", "DimB"}, res.Outcomes[0].Missing)
	assert.Equal(t, []string{"FactA.parquet"}, res.Outcomes[1].Missing)

	_, _, extra := res.Counts()
	assert.Zero(t, extra)
}

func TestChecker_Check_ExactMatch(t *testing.T) {
	res := newChecker(exampleStore(t), ExtraFail, nil).Check(context.Background(), Expectation{
		Name:     "exact",
		Root:     "A/B/Datafeed",
		Expected: map[Category][]string{CategoryExcel: {"DimZ", "DimX"}},
	})

	assert.Equal(t, StatusConsistent, res.Status)

	present, missing, extra := res.Counts()
	assert.Equal(t, 2, present)
	assert.Zero(t, missing)
	assert.Zero(t, extra)
}

func TestChecker_Check_RootMissing(t *testing.T) {
	res := newChecker(exampleStore(t), ExtraFail, nil).Check(context.Background(), Expectation{
		Name:     "gone",
		Root:     "Nowhere",
		Expected: map[Category][]string{CategoryExcel: {"DimA"}},
	})

	assert.Equal(t, StatusRootMissing, res.Status)
	assert.Empty(t, res.Outcomes)
	assert.NotEmpty(t, res.Error)
}

func TestChecker_CheckAll_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := blobstore.NewMockStore(ctrl)
	denied := blobstore.NewError(blobstore.KindAccessDenied, "walk", "P1/Datafeed/", errBoom)

	store.EXPECT().Walk(gomock.Any(), "P1/Datafeed/").Return(nil, denied)
	store.EXPECT().Walk(gomock.Any(), "P2/Datafeed/").Return(nil, errBoom)
	store.EXPECT().Walk(gomock.Any(), "P3/Datafeed/").Return([]blobstore.Entry{
		{Name: "FactA.parquet", Path: "P3/Datafeed/FactA.parquet", Size: 10},
	}, nil)
	store.EXPECT().Download(gomock.Any(), "P3/Datafeed/FactA.parquet").DoAndReturn(
		func(context.Context, string) ([]byte, error) {
			return memory.ParquetFile("FactA", []string{"ID"})
		})

	c := newChecker(store, ExtraFail, nil)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	rep := c.CheckAll(context.Background(), []Expectation{
		{Name: "p1", Root: "P1/Datafeed", Expected: map[Category][]string{CategoryExcel: {"A"}}},
		{Name: "p2", Root: "P2/Datafeed", Expected: map[Category][]string{CategoryExcel: {"A"}}},
		{Name: "p3", Root: "P3/Datafeed", Expected: map[Category][]string{CategoryParquet: {"FactA.parquet"}}},
	})

	require.Len(t, rep.Results, 3)
	assert.Equal(t, fixed, rep.Generated)

	assert.Equal(t, StatusError, rep.Results[0].Status)
	assert.Equal(t, "access denied", rep.Results[0].ErrorKind)

	assert.Equal(t, StatusError, rep.Results[1].Status)
	assert.Empty(t, rep.Results[1].ErrorKind)

	assert.Equal(t, StatusConsistent, rep.Results[2].Status)

	assert.False(t, rep.OK())
	assert.Equal(t, map[Status]int{StatusError: 2, StatusConsistent: 1}, rep.Tally())
}

func TestChecker_Check_UnreadableSource(t *testing.T) {
	fact, err := memory.ParquetFile("FactA", []string{"ID"})
	require.NoError(t, err)

	dims, err := memory.SheetWorkbook([]memory.Table{{Name: "DimA", Columns: []string{"ID"}}})
	require.NoError(t, err)

	denied := blobstore.NewError(blobstore.KindAccessDenied, "download", "X/Datafeed/DimManager.xlsx", errBoom)

	tests := []struct {
		desc       string
		setup      func(s *memory.Store)
		expected   map[Category][]string
		status     Status
		kind       string
		unverified []string
		missing    []string
	}{
		{"corrupt workbook", func(s *memory.Store) {
			s.Put("X/Datafeed/DimManager.xlsx", []byte("garbage"))
		}, map[Category][]string{CategoryExcel: {"DimA", "DimB"}}, StatusError, "", []string{"DimA", "DimB"}, []string{}},
		{"denied workbook", func(s *memory.Store) {
			s.Put("X/Datafeed/DimManager.xlsx", dims)
			s.Fail("X/Datafeed/DimManager.xlsx", denied)
		}, map[Category][]string{CategoryExcel: {"DimA"}}, StatusError, "access denied", []string{"DimA"}, []string{}},
		{"corrupt parquet", func(s *memory.Store) {
			s.Put("X/Datafeed/FactA.parquet", []byte("garbage"))
		}, map[Category][]string{CategoryParquet: {"FactA.parquet"}}, StatusError, "", []string{"FactA.parquet"}, []string{}},
		{"failure hides nothing expected", func(s *memory.Store) {
			s.Put("X/Datafeed/DimManager.xlsx", []byte("garbage"))
			s.Put("X/Datafeed/FactA.parquet", fact)
		}, map[Category][]string{CategoryParquet: {"FactA.parquet"}}, StatusConsistent, "", nil, nil},
	}

	for i, tc := range tests {
		s := memory.New()
		tc.setup(s)

		res := newChecker(s, ExtraFail, nil).Check(context.Background(), Expectation{
			Name:     "x",
			Root:     "X/Datafeed",
			Expected: tc.expected,
		})

		assert.Equal(t, tc.status, res.Status, "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.Equal(t, tc.kind, res.ErrorKind, "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.NotEmpty(t, res.Warnings, "TEST[%d], Failed.\n%s", i, tc.desc)

		if tc.status != StatusError {
			assert.Empty(t, res.Error, "TEST[%d], Failed.\n%s", i, tc.desc)
			continue
		}

		assert.Contains(t, res.Error, "could not read X/Datafeed/", "TEST[%d], Failed.\n%s", i, tc.desc)
		require.Len(t, res.Outcomes, 1, "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.Equal(t, tc.unverified, res.Outcomes[0].Unverified, "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.Equal(t, tc.missing, res.Outcomes[0].Missing, "TEST[%d], Failed.\n%s", i, tc.desc)
	}
}

func TestChecker_Check_UnreadableAndInconsistent(t *testing.T) {
	s := memory.New()
	s.Put("X/Datafeed/DimManager.xlsx", []byte("garbage"))

	res := newChecker(s, ExtraFail, nil).Check(context.Background(), Expectation{
		Name: "x",
		Root: "X/Datafeed",
		Expected: map[Category][]string{
			CategoryExcel:   {"DimA"},
			CategoryParquet: {"FactA.parquet"},
		},
	})

	assert.Equal(t, StatusError, res.Status)
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, []string{"DimA"}, res.Outcomes[0].Unverified)
	assert.Equal(t, []string{"FactA.parquet"}, res.Outcomes[1].Missing)

	_, missing, _ := res.Counts()
	assert.Equal(t, 1, missing)
}

func TestParseExtraPolicy(t *testing.T) {
	p, err := ParseExtraPolicy(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, ExtraWarn, p)

	p, err = ParseExtraPolicy("")
	require.NoError(t, err)
	assert.Equal(t, ExtraFail, p)

	_, err = ParseExtraPolicy("drop")
	assert.Error(t, err)
}
