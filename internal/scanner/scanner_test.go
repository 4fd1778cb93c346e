package scanner

import (
	"context"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s3ferry/s3ferry/errors"
	"github.com/s3ferry/s3ferry/internal/testutil"
)

func newTestTree(t *testing.T) *billy.FS {
	t.Helper()
	memfs := billy.NewInMemoryFS()
	testutil.WriteTree(t, memfs, map[string]string{
		"/data/a.txt":     "alpha",
		"/data/b.log":     "bravo",
		"/data/sub/c.txt": "charlie",
		"/data/sub/d.tmp": "delta",
	})
	return memfs
}

func TestScanner_Scan(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{
			name: "no filters yields every file",
			want: []string{"/data/a.txt", "/data/b.log", "/data/sub/c.txt", "/data/sub/d.tmp"},
		},
		{
			name:    "include narrows to matching files",
			include: []string{`\.txt$`},
			want:    []string{"/data/a.txt", "/data/sub/c.txt"},
		},
		{
			name:    "exclude removes matching files",
			exclude: []string{`\.tmp$`, `\.log$`},
			want:    []string{"/data/a.txt", "/data/sub/c.txt"},
		},
		{
			name:    "exclusion wins over inclusion",
			include: []string{`\.txt$`},
			exclude: []string{`sub/`},
			want:    []string{"/data/a.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := New(newTestTree(t))
			filters, err := NewFilterSet(tt.include, tt.exclude)
			require.NoError(t, err)

			files, err := sc.Scan(context.Background(), "/data", filters)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, files)
		})
	}
}

func TestScanner_ScanIsIdempotent(t *testing.T) {
	sc := New(newTestTree(t))
	filters, err := NewFilterSet([]string{`\.txt$`}, nil)
	require.NoError(t, err)

	first, err := sc.Scan(context.Background(), "/data", filters)
	require.NoError(t, err)
	second, err := sc.Scan(context.Background(), "/data", filters)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, second, 2)
}

func TestScanner_MissingRoot(t *testing.T) {
	sc := New(billy.NewInMemoryFS())

	_, err := sc.Scan(context.Background(), "/nope", nil)
	require.Error(t, err)
	assert.True(t, errors.IsDirectoryNotFound(err))
	assert.Contains(t, err.Error(), "/nope")
}

func TestScanner_RootIsAFile(t *testing.T) {
	memfs := billy.NewInMemoryFS()
	testutil.WriteTree(t, memfs, map[string]string{"/data": "not a directory"})
	sc := New(memfs)

	_, err := sc.Scan(context.Background(), "/data", nil)
	require.Error(t, err)
	assert.True(t, errors.IsDirectoryNotFound(err))
}

func TestScanner_CheckRootPassesForDirectory(t *testing.T) {
	sc := New(newTestTree(t))
	assert.NoError(t, sc.CheckRoot("/data"))
	assert.Error(t, sc.CheckRoot("/missing"))
}

func TestScanner_CancelledContext(t *testing.T) {
	sc := New(newTestTree(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sc.Scan(ctx, "/data", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
