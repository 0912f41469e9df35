// Package filestore keeps one profile artifact per wine in a directory:
// <dir>/wine_<id>_data.json.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/vinograph/internal/logger"
	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
	"github.com/cognicore/vinograph/pkg/vinograph/profile"
)

const (
	filePrefix = "wine_"
	fileSuffix = "_data.json"
)

// Store implements store.Store on top of profile files.
type Store struct {
	dir string
}

// Open creates dir if needed and returns a store rooted there.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile dir %s: %v: %w", dir, err, internalerr.ErrIOFailure)
	}
	return &Store{dir: dir}, nil
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Dir returns the root directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the artifact path for a wine.
func (s *Store) Path(wineID string) string {
	return filepath.Join(s.dir, FileName(wineID))
}

// FileName is the artifact file name for a wine.
func FileName(wineID string) string {
	return filePrefix + wineID + fileSuffix
}

// GetProfile reads a wine's artifact. A corrupt artifact is logged and
// reported as internalerr.ErrNotFound so callers rebuild it.
func (s *Store) GetProfile(ctx context.Context, wineID string) (profile.Profile, error) {
	if err := validID(wineID); err != nil {
		return nil, err
	}
	path := s.Path(wineID)
	p, err := profile.ReadFile(path)
	if errors.Is(err, internalerr.ErrMalformedInput) {
		logger.FromContext(ctx).Warn("ignoring corrupt profile artifact",
			zap.String("wine_id", wineID),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("profile %s: %w", wineID, internalerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// PutProfile writes a wine's artifact atomically.
func (s *Store) PutProfile(ctx context.Context, wineID string, p profile.Profile) error {
	if err := validID(wineID); err != nil {
		return err
	}
	return profile.WriteFile(s.Path(wineID), p)
}

// DeleteProfile removes a wine's artifact. Deleting a missing artifact is not
// an error.
func (s *Store) DeleteProfile(ctx context.Context, wineID string) error {
	if err := validID(wineID); err != nil {
		return err
	}
	err := os.Remove(s.Path(wineID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete profile %s: %v: %w", wineID, err, internalerr.ErrIOFailure)
	}
	return nil
}

// ListProfiles returns the wine ids that have an artifact, sorted.
func (s *Store) ListProfiles(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %v: %w", s.dir, err, internalerr.ErrIOFailure)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		if id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// validID rejects ids that would escape the store directory.
func validID(wineID string) error {
	if wineID == "" || strings.ContainsAny(wineID, `/\`) || wineID == "." || wineID == ".." {
		return fmt.Errorf("wine id %q: %w", wineID, internalerr.ErrMalformedInput)
	}
	return nil
}
