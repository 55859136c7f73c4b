package file

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempFilePrefix marks the temporary files used during atomic writes. The
// watcher filters filesystem events on this prefix so a store's own writes
// never surface as half-written snapshots.
const TempFilePrefix = "marl-tmp-"

// writeFileAtomic replaces the store file without ever exposing a partial
// write: data goes to a temp file in the target's directory (rename is only
// atomic within one filesystem), then the temp file is moved over the
// target.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	return nil
}
