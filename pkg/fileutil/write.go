package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/MacroPower/cordova-set-version/pkg/cdverrors"
)

// DefaultFileMode is used when the target file does not exist yet.
const DefaultFileMode fs.FileMode = 0o644

// File is a path and the contents to write to it.
type File struct {
	Path string
	Data []byte
}

// WriteFile replaces the file at path with data. The data is written to a
// temporary file in the same directory and renamed over path, so readers see
// either the old or the new contents. The mode of an existing file is kept.
func WriteFile(path string, data []byte) error {
	return WriteFiles(File{Path: path, Data: data})
}

// WriteFiles replaces several files like [WriteFile]. Every file is first
// written to its temporary file; if any of them fails, all temporary files
// are removed and no target is touched. The renames then run in order. A
// failing rename stops the remaining ones, so files before it are already
// replaced; renames within one filesystem fail only in rare cases such as a
// concurrently removed directory.
func WriteFiles(files ...File) error {
	tmps := make([]string, 0, len(files))

	cleanup := func() {
		for _, tmp := range tmps {
			_ = os.Remove(tmp) //nolint:errcheck // Best-effort cleanup.
		}
	}

	for _, f := range files {
		tmp, err := stage(f.Path, f.Data)
		if err != nil {
			cleanup()

			return fmt.Errorf("%w %q: %w", cdverrors.ErrWriteFile, f.Path, err)
		}

		tmps = append(tmps, tmp)
	}

	for i, f := range files {
		if err := os.Rename(tmps[i], f.Path); err != nil {
			tmps = tmps[i:]
			cleanup()

			return fmt.Errorf("%w %q: %w", cdverrors.ErrWriteFile, f.Path, err)
		}
	}

	return nil
}

// stage writes data to a new temporary file next to path and returns its
// name.
func stage(path string, data []byte) (string, error) {
	mode := DefaultFileMode

	fi, err := os.Stat(path)
	switch {
	case err == nil:
		if fi.IsDir() {
			return "", errors.New("is a directory")
		}

		mode = fi.Mode().Perm()
	case !errors.Is(err, fs.ErrNotExist):
		return "", err //nolint:wrapcheck // Wrapped by the caller.
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("create temporary name: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), id))

	if err := writeSync(tmp, data, mode); err != nil {
		_ = os.Remove(tmp) //nolint:errcheck // Best-effort cleanup.

		return "", err
	}

	return tmp, nil
}

func writeSync(path string, data []byte, mode fs.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode) //nolint:gosec // path is derived from the target file.
	if err != nil {
		return err //nolint:wrapcheck // Wrapped by the caller.
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close() //nolint:errcheck // The write error takes precedence.

		return err //nolint:wrapcheck // Wrapped by the caller.
	}

	if err := f.Sync(); err != nil {
		_ = f.Close() //nolint:errcheck // The sync error takes precedence.

		return err //nolint:wrapcheck // Wrapped by the caller.
	}

	// The umask may have narrowed the mode at creation.
	if err := f.Chmod(mode); err != nil {
		_ = f.Close() //nolint:errcheck // The chmod error takes precedence.

		return err //nolint:wrapcheck // Wrapped by the caller.
	}

	return f.Close() //nolint:wrapcheck // Wrapped by the caller.
}

// Exists reports whether path exists and is a regular file.
func Exists(path string) bool {
	fi, err := os.Lstat(path)
	if err != nil || fi.IsDir() {
		return false
	}

	return true
}
