package fsops

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyTree recursively copies src into dst, creating dst if needed. Existing
// files under dst are overwritten; files present only in dst are left alone.
// Directory and file permission bits are mirrored from the source.
func CopyTree(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !srcInfo.IsDir() {
		return &fs.PathError{Op: "copy", Path: src, Err: ErrNotDirectory}
	}

	// The directory stays owner-writable while its children are copied and
	// gets the source mode afterwards, so read-only trees copy like cp -r.
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	if err := os.Chmod(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.IsDir():
			if err := CopyTree(srcPath, dstPath); err != nil {
				return err
			}
		case entry.Type()&fs.ModeSymlink != 0:
			if err := copySymlink(srcPath, dstPath); err != nil {
				return err
			}
		default:
			if err := CopyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return os.Chmod(dst, srcInfo.Mode().Perm())
}

// CopyFile copies a single regular file, truncating dst if it exists and
// preserving the source permissions.
func CopyFile(src, dst string) error {
	srcFile, err := os.Open(src) // #nosec G304 -- paths come from configuration
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm()) // #nosec G304 -- paths come from configuration
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}

	// OpenFile only applies the mode on create.
	return os.Chmod(dst, srcInfo.Mode().Perm())
}

func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Symlink(target, dst)
}
