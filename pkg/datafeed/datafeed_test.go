package datafeed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"blobaudit.dev/pkg/blobstore"
	"blobaudit.dev/pkg/blobstore/memory"
)

var errBoom = errors.New("boom")

func TestDiscover(t *testing.T) {
	s := memory.New()
	s.Put("p1/Report Documentation/Datafeed/DimManager.xlsx", []byte("x"))
	s.Put("p1/Report Documentation/Datafeed/sub/FactA.parquet", []byte("x"))
	s.Put("p2/DATAFEED/FactB.parquet", []byte("x"))
	s.Mkdir("p3/Report Documentation/datafeed")
	s.Put("p4/notes/datafeed", []byte("a file named like the folder"))
	s.Put("p5/Other/readme.txt", []byte("x"))

	folders, err := Discover(context.Background(), s, "")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"p1/Report Documentation/Datafeed/",
		"p2/DATAFEED/",
		"p3/Report Documentation/datafeed/",
	}, folders)
}

func TestDiscover_WalkError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := blobstore.NewMockStore(ctrl)

	store.EXPECT().Walk(gomock.Any(), "root/").Return(nil, errBoom)

	_, err := Discover(context.Background(), store, "root/")

	assert.ErrorIs(t, err, errBoom)
}

func TestParseMode(t *testing.T) {
	testCases := []struct {
		input string
		mode  Mode
		err   bool
	}{
		{"", ModeDim, false},
		{"dim", ModeDim, false},
		{" PARAM ", ModeParam, false},
		{"other", "", true},
	}

	for i, tc := range testCases {
		mode, err := ParseMode(tc.input)

		assert.Equal(t, tc.mode, mode, "TEST[%d], Failed.\n%s", i, tc.input)
		assert.Equal(t, tc.err, err != nil, "TEST[%d], Failed.\n%s", i, tc.input)
	}
}

func TestIsDatafeedFolder(t *testing.T) {
	assert.True(t, IsDatafeedFolder("A/B/Datafeed"))
	assert.True(t, IsDatafeedFolder("A/B/datafeed/"))
	assert.False(t, IsDatafeedFolder("A/B/Datafeeds"))
}
