package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/cognicore/vinograph/internal/logger"
	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
)

// DecodeStats summarizes a catalog read.
type DecodeStats struct {
	Records   int
	Accepted  int
	Malformed int
	NoID      int
	Duplicate int
}

// Decode reads wine records from r. Records are separated by newlines or
// simply concatenated ("}{"). Malformed records, records without an id and
// repeated ids are skipped; the first occurrence of an id wins.
func Decode(ctx context.Context, r io.Reader) ([]Wine, DecodeStats, error) {
	var stats DecodeStats
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, stats, fmt.Errorf("read catalog: %v: %w", err, internalerr.ErrIOFailure)
	}
	data = bytes.ReplaceAll(data, []byte("}{"), []byte("}\n{"))

	log := logger.FromContext(ctx)
	seen := make(map[WineID]bool)
	var wines []Wine
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		stats.Records++

		var w Wine
		if err := json.Unmarshal(line, &w); err != nil {
			stats.Malformed++
			log.Warn("skipping malformed catalog record", zap.Int("line", i+1), zap.Error(err))
			continue
		}
		if w.ID == "" {
			stats.NoID++
			continue
		}
		if seen[w.ID] {
			stats.Duplicate++
			continue
		}
		seen[w.ID] = true
		stats.Accepted++
		wines = append(wines, w)
	}
	return wines, stats, nil
}

// Load reads a catalog file.
func Load(ctx context.Context, path string) ([]Wine, DecodeStats, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, DecodeStats{}, fmt.Errorf("open catalog %s: %w", path, internalerr.ErrNotFound)
		}
		return nil, DecodeStats{}, fmt.Errorf("open catalog %s: %v: %w", path, err, internalerr.ErrIOFailure)
	}
	defer f.Close()

	wines, stats, err := Decode(ctx, f)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", path, err)
	}
	logger.FromContext(ctx).Debug("catalog loaded",
		zap.String("path", path),
		zap.Int("wines", stats.Accepted),
		zap.Int("malformed", stats.Malformed))
	return wines, stats, nil
}

// Find returns the wine with the given id.
func Find(wines []Wine, id WineID) (Wine, bool) {
	for _, w := range wines {
		if w.ID == id {
			return w, true
		}
	}
	return Wine{}, false
}
