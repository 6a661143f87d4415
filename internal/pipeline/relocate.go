package pipeline

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sourceplane/wheelhouse/internal/paths"
)

// moveFile moves src to dst, replacing dst. Falls back to copy and remove
// when a rename is not possible (e.g. across filesystems).
func moveFile(src, dst string) error {
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return renameErr
	}

	if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("%v; copy fallback: %w", renameErr, err)
	}
	return os.Remove(src)
}

func copyFile(src, dst string, perm fs.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if perm == 0 {
		perm = paths.DefaultFileMode
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

// isMissing reports whether err means the source artifact no longer exists.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
