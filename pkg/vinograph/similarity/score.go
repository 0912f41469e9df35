package similarity

import (
	"fmt"
	"math"

	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
)

// Config holds the scoring weights and the flavor cutoff.
type Config struct {
	FlavorWeight    float64 `yaml:"flavor_weight"`
	StructureWeight float64 `yaml:"structure_weight"`
	// Cutoff drops candidates whose flavor score is below it.
	Cutoff  float64 `yaml:"cutoff"`
	Workers int     `yaml:"workers"`
}

// DefaultConfig favours precision: only very close flavor matches survive.
func DefaultConfig() Config {
	return Config{
		FlavorWeight:    0.7,
		StructureWeight: 0.3,
		Cutoff:          0.90,
		Workers:         8,
	}
}

// Validate checks the weights and cutoff.
func (c Config) Validate() error {
	if c.FlavorWeight < 0 || c.StructureWeight < 0 || c.FlavorWeight+c.StructureWeight <= 0 {
		return fmt.Errorf("similarity weights %v/%v: %w", c.FlavorWeight, c.StructureWeight, internalerr.ErrInvalidConfig)
	}
	if c.Cutoff < 0 || c.Cutoff > 1 {
		return fmt.Errorf("similarity cutoff %v outside [0,1]: %w", c.Cutoff, internalerr.ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("similarity workers %d: %w", c.Workers, internalerr.ErrInvalidConfig)
	}
	return nil
}

// Comparison is the flavor half of a score with the keys that produced it.
type Comparison struct {
	Cosine     float64
	AlienRatio float64
	Flavor     float64
	Shared     []string // dimensions present in both vectors, sorted
	Alien      []string // candidate dimensions absent from the target, sorted
}

// Compare computes cosine similarity over the shared dimensions, normalized
// by each vector's full norm, then scales it by the share of candidate
// weight that the target also carries. Sums run in key order so equal inputs
// always give bit-identical scores; Flavor is clamped to [0,1].
func Compare(target, cand Vector) Comparison {
	var c Comparison
	dot := 0.0
	alien := 0.0
	for _, k := range cand.Keys() {
		w := cand[k]
		if tw, ok := target[k]; ok {
			dot += tw * w
			c.Shared = append(c.Shared, k)
		} else {
			alien += w
			c.Alien = append(c.Alien, k)
		}
	}
	if len(c.Shared) == 0 {
		if len(cand) > 0 {
			c.AlienRatio = 1
		}
		return c
	}

	tn, cn := target.Norm(), cand.Norm()
	if tn == 0 || cn == 0 {
		return c
	}
	c.Cosine = dot / (tn * cn)
	if total := cand.Total(); total > 0 {
		c.AlienRatio = alien / total
	}
	c.Flavor = clamp01(c.Cosine * (1 - c.AlienRatio))
	return c
}

// FlavorScore is Compare(target, cand).Flavor.
func FlavorScore(target, cand Vector) float64 {
	return Compare(target, cand).Flavor
}

// ScoreBreakdown is one candidate's full score.
type ScoreBreakdown struct {
	Comparison
	Structure float64
	Final     float64
}

// Scorer combines flavor and structure into a final score.
type Scorer struct {
	cfg Config
}

// NewScorer creates a scorer.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Config returns the scorer's settings.
func (s *Scorer) Config() Config { return s.cfg }

// Score compares a candidate with the target. ok is false when the flavor
// score falls under the cutoff; the breakdown is still filled in.
func (s *Scorer) Score(target, cand Vector, ts, cs Structure) (ScoreBreakdown, bool) {
	b := ScoreBreakdown{Comparison: Compare(target, cand)}
	if b.Flavor < s.cfg.Cutoff {
		return b, false
	}
	b.Structure = StructureScore(ts, cs)
	b.Final = clamp01(s.cfg.FlavorWeight*b.Flavor + s.cfg.StructureWeight*b.Structure)
	return b, true
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
