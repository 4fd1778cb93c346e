package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s3ferry/s3ferry/errors"
)

func TestFilterSet_Match(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		path    string
		want    bool
	}{
		{
			name: "no patterns passes everything",
			path: "/data/file.txt",
			want: true,
		},
		{
			name:    "include match",
			include: []string{`\.txt$`},
			path:    "/data/file.txt",
			want:    true,
		},
		{
			name:    "include miss",
			include: []string{`\.txt$`},
			path:    "/data/file.log",
			want:    false,
		},
		{
			name:    "any include is enough",
			include: []string{`\.log$`, `\.txt$`},
			path:    "/data/file.txt",
			want:    true,
		},
		{
			name:    "exclude match drops the path",
			exclude: []string{`\.tmp$`},
			path:    "/data/file.tmp",
			want:    false,
		},
		{
			name:    "exclusion wins over inclusion",
			include: []string{`\.txt$`},
			exclude: []string{`draft`},
			path:    "/data/draft/file.txt",
			want:    false,
		},
		{
			name:    "search is unanchored over the full path",
			include: []string{`data`},
			path:    "/srv/data/file.bin",
			want:    true,
		},
		{
			name:    "directory fragments match anywhere in the path",
			exclude: []string{`node_modules/`},
			path:    "/app/node_modules/pkg/index.js",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewFilterSet(tt.include, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, set.Match(tt.path))
		})
	}
}

func TestFilterSet_NilPassesEverything(t *testing.T) {
	var set *FilterSet
	assert.True(t, set.Match("/any/path/at/all"))
}

func TestNewFilterSet_BadPattern(t *testing.T) {
	t.Run("include", func(t *testing.T) {
		_, err := NewFilterSet([]string{`[unclosed`}, nil)
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
	})

	t.Run("exclude", func(t *testing.T) {
		_, err := NewFilterSet(nil, []string{`(?P<bad`})
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
	})
}
