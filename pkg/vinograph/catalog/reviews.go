package catalog

import (
	"errors"
	"fmt"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cognicore/vinograph/pkg/vinograph/ingest"
	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
)

// MinReviews is the review count at or below which a wine is not analysed.
const MinReviews = 3

// Eligible reports whether a wine with count reviews has enough text to
// build a profile.
func Eligible(count int) bool { return count > MinReviews }

// ReviewFileName is the raw review file name for a wine.
func ReviewFileName(id WineID) string {
	return "wine_" + string(id) + "_clean.jsonl"
}

// ReviewCounter counts raw review lines per wine and remembers the answer in
// a bounded LRU cache.
type ReviewCounter struct {
	dir   string
	cache *lru.Cache[WineID, int]
}

// NewReviewCounter creates a counter over the raw review directory.
func NewReviewCounter(dir string, size int) (*ReviewCounter, error) {
	if size <= 0 {
		size = 4096
	}
	c, err := lru.New[WineID, int](size)
	if err != nil {
		return nil, fmt.Errorf("review count cache: %w", err)
	}
	return &ReviewCounter{dir: dir, cache: c}, nil
}

// Path returns the raw review file for a wine.
func (rc *ReviewCounter) Path(id WineID) string {
	return filepath.Join(rc.dir, ReviewFileName(id))
}

// Count returns the number of reviews on file for a wine. A wine without a
// review file has zero reviews.
func (rc *ReviewCounter) Count(id WineID) (int, error) {
	if n, ok := rc.cache.Get(id); ok {
		return n, nil
	}
	n, err := ingest.CountLines(rc.Path(id))
	if errors.Is(err, internalerr.ErrNotFound) {
		n, err = 0, nil
	}
	if err != nil {
		return 0, err
	}
	rc.cache.Add(id, n)
	return n, nil
}

// Forget drops a cached count, e.g. after new reviews were fetched.
func (rc *ReviewCounter) Forget(id WineID) {
	rc.cache.Remove(id)
}

// Cached returns how many counts are currently held.
func (rc *ReviewCounter) Cached() int { return rc.cache.Len() }
