package cookiestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SafeCopy copies a SQLite cookie store, with its -wal and -shm files when
// present, into a fresh temporary directory so it can be read while the
// browser holds the original. It returns the path of the copied database
// and a cleanup func the caller must run.
func SafeCopy(srcPath string) (string, func(), error) {
	if err := checkFile(srcPath); err != nil {
		return "", nil, err
	}
	tempDir, err := os.MkdirTemp("", "cookiemaster-store-*")
	if err != nil {
		return "", nil, fmt.Errorf("error: cannot create temp directory: %w", err)
	}
	cleanup := func() { os.RemoveAll(tempDir) }

	dst := filepath.Join(tempDir, filepath.Base(srcPath))
	if err := copyFile(srcPath, dst); err != nil {
		cleanup()
		return "", nil, err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if _, err := os.Stat(srcPath + suffix); err == nil {
			// The main file alone is still readable.
			_ = copyFile(srcPath+suffix, dst+suffix)
		}
	}
	return dst, cleanup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("error: cannot open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("error: cannot create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("error: cannot copy %s: %w", src, err)
	}
	return out.Close()
}
