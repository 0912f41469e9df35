package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
)

// WriteFile stores p at path atomically: a temp file in the same directory
// is written, synced and renamed over path. Readers never see a partial file.
func WriteFile(path string, p Profile) error {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return err
	}
	return writeAtomic(path, buf.Bytes())
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %v: %w", path, err, internalerr.ErrIOFailure)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %v: %w", tmpName, err, internalerr.ErrIOFailure)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync %s: %v: %w", tmpName, err, internalerr.ErrIOFailure)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %v: %w", tmpName, err, internalerr.ErrIOFailure)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %v: %w", tmpName, err, internalerr.ErrIOFailure)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename to %s: %v: %w", path, err, internalerr.ErrIOFailure)
	}
	return nil
}

// ReadFile loads a profile artifact. A missing file is internalerr.ErrNotFound,
// other read errors internalerr.ErrIOFailure, and bad JSON
// internalerr.ErrMalformedInput.
func ReadFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("profile %s: %w", path, internalerr.ErrNotFound)
		}
		return nil, fmt.Errorf("read profile %s: %v: %w", path, err, internalerr.ErrIOFailure)
	}
	p, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Exists reports whether a profile artifact is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
