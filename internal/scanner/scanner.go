package scanner

import (
	"context"
	"fmt"
	"os"

	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/s3ferry/s3ferry/errors"
)

// Scanner enumerates upload candidates under a directory root.
type Scanner struct {
	filesystem fs.Filesystem
}

// New creates a scanner that walks the provided filesystem.
func New(filesystem fs.Filesystem) *Scanner {
	return &Scanner{filesystem: filesystem}
}

// CheckRoot verifies that root exists and is a directory. It is called
// before any enumeration or store session is created so a missing source
// directory fails the run up front.
func (s *Scanner) CheckRoot(root string) error {
	info, err := s.filesystem.Stat(root)
	if err != nil || !info.IsDir() {
		return errors.NewError("scan", errors.ErrDirectoryNotFound).
			WithMessage(fmt.Sprintf("directory %q does not exist", root))
	}
	return nil
}

// Scan walks root and returns the paths of every file that passes the
// filter, in traversal order, as a single complete pass. Directories are
// never yielded. Running Scan twice over an unchanged tree returns the
// same set.
func (s *Scanner) Scan(ctx context.Context, root string, filters *FilterSet) ([]string, error) {
	if err := s.CheckRoot(root); err != nil {
		return nil, err
	}

	var files []string

	err := s.filesystem.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		// Check if context is cancelled
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !filters.Match(path) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.NewError("scan", fmt.Errorf("failed to walk directory %s: %w", root, err))
	}

	return files, nil
}
