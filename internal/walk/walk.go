// Package walk enumerates the regular files below a directory.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// ErrNotDir is returned when the walk root is not a directory.
var ErrNotDir = errors.New("walk: not a directory")

// Files returns the regular files below dir as slash-separated paths
// relative to dir, in lexical order. Empty directories contribute nothing
// and symbolic links are not followed.
//
// The context can be used for cancellation of long walks.
func Files(ctx context.Context, dir string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, dir)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	var files []string
	err = fs.WalkDir(root.FS(), ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			logger.Debug("skipped symlink", "dir", dir, "path", path)
			return nil
		}
		if !d.Type().IsRegular() {
			logger.Debug("skipped non-regular file", "dir", dir, "path", path)
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
