package testutil

import (
	"path/filepath"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/stretchr/testify/require"
)

// WriteTree materializes the given path→content map on the filesystem,
// creating parent directories as needed. Paths should be absolute.
func WriteTree(t *testing.T, filesystem fs.Filesystem, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, filesystem.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, filesystem.WriteFile(path, []byte(content), 0o644))
	}
}
