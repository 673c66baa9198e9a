package fsops

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
)

// ErrNotDirectory is returned when a tree operation is given a file.
var ErrNotDirectory = errors.New("not a directory")

// MoveFile renames src to dst, replacing dst if it exists. When the rename
// crosses filesystems it falls back to copy and remove.
func MoveFile(src, dst string) error {
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err := CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// Exists reports whether path exists. Errors other than not-exist count as existing.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !os.IsNotExist(err)
}
