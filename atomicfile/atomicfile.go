// Package atomicfile writes files so that readers observe either the old
// content or the new content, never a partial write.
//
// Data goes to a sibling "<name>.tmp" file which is synced to stable storage
// and then renamed over the destination. The rename is the only step that
// makes the new content visible under the final name.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempSuffix is appended to the destination name for the staging file.
const TempSuffix = ".tmp"

// TempPath returns the staging path used when writing path.
func TempPath(path string) string {
	return path + TempSuffix
}

// Write atomically replaces path with data. The parent directory must exist.
// On failure the staging file is removed and the destination is untouched.
func Write(path string, data []byte, perm os.FileMode) (err error) {
	tmp := TempPath(path)

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing %s: %w", tmp, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp, err)
	}

	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", filepath.Base(tmp), path, err)
	}

	syncDir(filepath.Dir(path))
	return nil
}

// syncDir flushes the directory entry for the rename. Not all platforms
// support fsync on directories, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
