// Package similarity compares flavor profiles and ranks a catalog against a
// target wine.
package similarity

import (
	"math"
	"sort"

	"github.com/cognicore/vinograph/pkg/vinograph/catalog"
	"github.com/cognicore/vinograph/pkg/vinograph/profile"
)

// Phase is a coarse bucket of the tasting timeline.
type Phase string

const (
	Early Phase = "early"
	Mid   Phase = "mid"
	Late  Phase = "late"
)

// Phase boundaries on the [0,1] timeline.
const (
	earlyBefore = 0.33
	midBefore   = 0.66
)

// PhaseOf buckets a timeline position.
func PhaseOf(x float64) Phase {
	switch {
	case x < earlyBefore:
		return Early
	case x < midBefore:
		return Mid
	default:
		return Late
	}
}

// Key is the vector dimension for a flavor in a phase, e.g. "cherry_early".
func Key(flavor string, ph Phase) string {
	return flavor + "_" + string(ph)
}

// Vector is a sparse flavor-and-phase weight vector.
type Vector map[string]float64

// Vectorize sums each mention's weight under its flavor-phase key. The same
// flavor in different phases lands in different dimensions.
func Vectorize(p profile.Profile) Vector {
	v := make(Vector)
	for flavor, s := range p {
		n := len(s.X)
		if len(s.W) < n {
			n = len(s.W)
		}
		for i := 0; i < n; i++ {
			v[Key(flavor, PhaseOf(s.X[i]))] += s.W[i]
		}
	}
	return v
}

// Norm is the Euclidean norm, summed in key order.
func (v Vector) Norm() float64 {
	t := 0.0
	for _, k := range v.Keys() {
		t += v[k] * v[k]
	}
	return math.Sqrt(t)
}

// Total is the summed weight, in key order.
func (v Vector) Total() float64 {
	t := 0.0
	for _, k := range v.Keys() {
		t += v[k]
	}
	return t
}

// Keys returns the dimensions sorted.
func (v Vector) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Structure holds a wine's optional structural scores (0-100).
type Structure struct {
	Body      *float64
	Tannin    *float64
	Sweetness *float64
	Acidity   *float64
}

// StructureOf reads the structural scores of a catalog record.
func StructureOf(w catalog.Wine) Structure {
	return Structure{Body: w.Body, Tannin: w.Tannin, Sweetness: w.Sweetness, Acidity: w.Acidity}
}

func (s Structure) fields() [4]*float64 {
	return [4]*float64{s.Body, s.Tannin, s.Sweetness, s.Acidity}
}

// Defined returns the names of the scores that are present.
func (s Structure) Defined() []string {
	names := [4]string{"body", "tannin", "sweetness", "acidity"}
	var out []string
	for i, f := range s.fields() {
		if f != nil {
			out = append(out, names[i])
		}
	}
	return out
}

// SameStructure reports whether a and b define exactly the same set of
// scores. A superset or subset does not match.
func SameStructure(a, b Structure) bool {
	af, bf := a.fields(), b.fields()
	for i := range af {
		if (af[i] == nil) != (bf[i] == nil) {
			return false
		}
	}
	return true
}

// StructureScore is 1 minus the mean absolute difference over the scores both
// wines define, divided by 100 and floored at 0. It is 1 when there is
// nothing to compare.
func StructureScore(target, cand Structure) float64 {
	tf, cf := target.fields(), cand.fields()
	diff, n := 0.0, 0
	for i := range tf {
		if tf[i] == nil || cf[i] == nil {
			continue
		}
		diff += math.Abs(*tf[i] - *cf[i])
		n++
	}
	if n == 0 {
		return 1
	}
	return math.Max(0, 1-diff/float64(n)/100)
}
