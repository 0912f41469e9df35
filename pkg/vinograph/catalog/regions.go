package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
)

// RegionMap maps a winery key (lower-cased, trimmed) to its browse path:
// country first, then regions from broad to narrow.
type RegionMap map[string][]string

// Representative ratings: a winery is shown through a wine rated in this band
// when it has one.
const (
	repRatingMin = 3.8
	repRatingMax = 4.0
)

// WineryKey normalizes a winery name for RegionMap lookups.
func WineryKey(winery string) string {
	return strings.ToLower(strings.TrimSpace(winery))
}

// BuildRegionMap adds a path for every winery missing from existing and
// returns the merged map plus the number of wineries added. Entries already
// in existing are preserved untouched so manual edits survive rebuilds.
//
// counts reports a wine's review count; nil uses the source's own count.
func BuildRegionMap(wines []Wine, counts func(Wine) int, existing RegionMap) (RegionMap, int) {
	if counts == nil {
		counts = Wine.ReviewsCount
	}
	out := make(RegionMap, len(existing))
	for k, v := range existing {
		out[k] = append([]string(nil), v...)
	}

	var order []string
	groups := make(map[string][]Wine)
	for _, w := range wines {
		key := WineryKey(w.Winery)
		if key == "" {
			continue
		}
		if _, ok := out[key]; ok {
			continue
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], w)
	}

	for _, key := range order {
		rep := representative(groups[key], counts)
		out[key] = regionPath(rep)
	}
	return out, len(order)
}

// representative prefers the most reviewed wine in the rating band, then the
// most reviewed wine overall, then the first wine.
func representative(wines []Wine, counts func(Wine) int) Wine {
	best, bestCount := -1, -1
	inBand := false
	for i, w := range wines {
		n := counts(w)
		r := w.RatingValue()
		band := r >= repRatingMin && r <= repRatingMax
		switch {
		case band && !inBand:
			inBand = true
			best, bestCount = i, n
		case band == inBand && n > bestCount:
			best, bestCount = i, n
		}
	}
	return wines[best]
}

// regionPath builds [country, regions...]. A last region ending in "cru" is a
// classification rather than a place and is dropped, as are regions that
// merely repeat the country.
func regionPath(w Wine) []string {
	country := w.CountryOrUnknown()
	regions := []string(w.Region)
	if n := len(regions); n > 0 && strings.HasSuffix(strings.ToLower(strings.TrimSpace(regions[n-1])), "cru") {
		regions = regions[:n-1]
	}
	path := []string{country}
	for _, r := range regions {
		r = strings.TrimSpace(r)
		if r == "" || strings.EqualFold(r, country) {
			continue
		}
		path = append(path, r)
	}
	return path
}

// Wineries returns the map keys sorted.
func (m RegionMap) Wineries() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadRegionMap reads a region map. A missing file is an empty map.
func LoadRegionMap(path string) (RegionMap, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return RegionMap{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read region map %s: %v: %w", path, err, internalerr.ErrIOFailure)
	}
	m := RegionMap{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode region map %s: %v: %w", path, err, internalerr.ErrMalformedInput)
	}
	return m, nil
}

// SaveRegionMap writes m atomically as indented JSON.
func SaveRegionMap(path string, m RegionMap) error {
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("encode region map: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".regions-*.tmp")
	if err != nil {
		return fmt.Errorf("save region map %s: %v: %w", path, err, internalerr.ErrIOFailure)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save region map %s: %v: %w", path, err, internalerr.ErrIOFailure)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("save region map %s: %v: %w", path, err, internalerr.ErrIOFailure)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save region map %s: %v: %w", path, err, internalerr.ErrIOFailure)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("save region map %s: %v: %w", path, err, internalerr.ErrIOFailure)
	}
	return nil
}
