// Package profile holds the per-wine flavor profile and its on-disk form.
package profile

import "sort"

// Series is every mention of one flavor across a wine's reviews.
// X[i] is a narrative position in [0,1], W[i] its weight. Count is the number
// of reviews that mention the flavor at least once.
type Series struct {
	X     []float64 `json:"x"`
	W     []float64 `json:"w"`
	Count int       `json:"count"`
}

// Len is the number of mentions.
func (s Series) Len() int { return len(s.X) }

// Profile maps a canonical flavor key (or trigger word) to its mentions.
type Profile map[string]Series

// Keys returns the profile keys sorted.
func (p Profile) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Empty reports whether the profile has no flavors.
func (p Profile) Empty() bool { return len(p) == 0 }

// Clone returns a deep copy.
func (p Profile) Clone() Profile {
	if p == nil {
		return nil
	}
	out := make(Profile, len(p))
	for k, s := range p {
		out[k] = Series{
			X:     append([]float64(nil), s.X...),
			W:     append([]float64(nil), s.W...),
			Count: s.Count,
		}
	}
	return out
}
