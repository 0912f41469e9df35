// Package extract turns tasting notes into a time-positioned flavor profile.
//
// Every note is read as a short narrative: anchor words ("nose", "palate",
// "finish") move a clock forward, and each recognized flavor is stamped with
// its position on that clock and a weight scaled by a nearby intensity
// modifier. Flavors mentioned in too few reviews are dropped, and booster
// words that dominate the reviews ("earthy", "fruity") amplify whole
// categories.
package extract

import (
	"fmt"
	"math"
	"sort"

	"github.com/cognicore/vinograph/pkg/vinograph/ingest"
	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
	"github.com/cognicore/vinograph/pkg/vinograph/lexicon"
	"github.com/cognicore/vinograph/pkg/vinograph/profile"
)

// Config holds the extraction constants.
type Config struct {
	BaseWeight      float64 `yaml:"base_weight"`      // weight of an unmodified mention
	NoiseMinimum    float64 `yaml:"noise_minimum"`    // absolute floor on review count
	NoiseFraction   float64 `yaml:"noise_fraction"`   // fraction of the average review count
	BoostSaturation float64 `yaml:"boost_saturation"` // count/avg ratio above which boosting stops growing
	BoostSlope      float64 `yaml:"boost_slope"`      // multiplier gain per unit of ratio above 1
	PosDecimals     int     `yaml:"position_decimals"`
	WeightDecimals  int     `yaml:"weight_decimals"`
}

// DefaultConfig returns the standard extraction constants.
func DefaultConfig() Config {
	return Config{
		BaseWeight:      0.5,
		NoiseMinimum:    2,
		NoiseFraction:   0.3,
		BoostSaturation: 2.0,
		BoostSlope:      0.5,
		PosDecimals:     3,
		WeightDecimals:  2,
	}
}

// Mention is one recognized flavor occurrence in a note.
type Mention struct {
	Key      string
	Position float64
	Weight   float64
}

// Extractor builds profiles. It holds no mutable state and is safe for
// concurrent use.
type Extractor struct {
	lex     *lexicon.Lexicon
	matcher *ingest.Matcher
	cfg     Config
}

// New creates an extractor over lex.
func New(lex *lexicon.Lexicon, cfg Config) *Extractor {
	return &Extractor{lex: lex, matcher: ingest.NewMatcher(lex), cfg: cfg}
}

// Mentions scans a single note and returns its flavor mentions in order.
// Positions and weights are rounded to the configured decimals.
func (e *Extractor) Mentions(note string) []Mention {
	tokens := ingest.NormalizeAll(ingest.Tokenize(note))
	total := len(tokens)

	var (
		out       []Mention
		baseTime  = 0.0
		baseIndex = 0
	)
	for i := 0; i < total; {
		term, step, ok := e.matcher.Match(tokens, i)

		// the clock only moves forward
		if at, isAnchor := e.lex.Anchor(tokens[i]); isAnchor && at >= baseTime {
			baseTime = at
			baseIndex = i
		}

		if ok {
			out = append(out, Mention{
				Key:      term.Key,
				Position: round(e.position(i, total, baseTime, baseIndex), e.cfg.PosDecimals),
				Weight:   round(e.weight(tokens, i), e.cfg.WeightDecimals),
			})
		}
		i += step
	}
	return out
}

func (e *Extractor) position(i, total int, baseTime float64, baseIndex int) float64 {
	section := total - baseIndex - 1
	if section < 1 {
		section = 1
	}
	ratio := float64(i-baseIndex) / float64(section)
	pos := baseTime + ratio*(1-baseTime)
	return math.Min(math.Max(pos, 0), 1)
}

// weight applies the modifier immediately before the mention, or failing
// that the one two tokens back ("very ripe cherry").
func (e *Extractor) weight(tokens []string, i int) float64 {
	w := e.cfg.BaseWeight
	if i > 0 {
		if m, ok := e.lex.Intensity(tokens[i-1]); ok {
			return w * m
		}
		if i > 1 {
			if m, ok := e.lex.Intensity(tokens[i-2]); ok {
				return w * m
			}
		}
	}
	return w
}

// Extract builds a wine's profile from its reviews. It returns
// internalerr.ErrInsufficientData when there are no reviews or when nothing
// survives the noise filter.
func (e *Extractor) Extract(reviews []ingest.Review) (profile.Profile, error) {
	if len(reviews) == 0 {
		return nil, fmt.Errorf("no reviews: %w", internalerr.ErrInsufficientData)
	}

	raw := make(map[string]*profile.Series)
	counts := make(map[string]int)
	for _, rv := range reviews {
		seen := make(map[string]struct{})
		for _, m := range e.Mentions(rv.Note) {
			s, ok := raw[m.Key]
			if !ok {
				s = &profile.Series{}
				raw[m.Key] = s
			}
			s.X = append(s.X, m.Position)
			s.W = append(s.W, m.Weight)
			seen[m.Key] = struct{}{}
		}
		for k := range seen {
			counts[k]++
		}
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("no flavor mentions in %d reviews: %w", len(reviews), internalerr.ErrInsufficientData)
	}

	avg := e.averageCount(counts)
	threshold := math.Max(e.cfg.NoiseMinimum, avg*e.cfg.NoiseFraction)
	boosts := e.categoryBoosts(counts, avg)

	out := make(profile.Profile)
	for k, s := range raw {
		if float64(counts[k]) < threshold {
			continue
		}
		weights := s.W
		if mult := e.boostFor(k, boosts); mult > 1 {
			weights = make([]float64, len(s.W))
			for i, w := range s.W {
				weights[i] = round(w*mult, e.cfg.WeightDecimals)
			}
		}
		out[k] = profile.Series{X: s.X, W: weights, Count: counts[k]}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("all %d flavors below noise threshold %.2f: %w", len(counts), threshold, internalerr.ErrInsufficientData)
	}
	return out, nil
}

// averageCount is the mean review count over every mentioned key, triggers
// included. Keys are summed in sorted order so the result does not depend on
// map iteration.
func (e *Extractor) averageCount(counts map[string]int) float64 {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sum := 0
	for _, k := range keys {
		sum += counts[k]
	}
	return float64(sum) / float64(len(keys))
}

// categoryBoosts computes a multiplier per category from over-mentioned
// triggers. Counts are taken before noise filtering.
func (e *Extractor) categoryBoosts(counts map[string]int, avg float64) map[string]float64 {
	boosts := make(map[string]float64)
	for _, tr := range e.lex.Triggers() {
		c := float64(counts[tr.Key])
		if c <= avg {
			continue
		}
		ratio := math.Min(c/avg, e.cfg.BoostSaturation)
		mult := 1 + (ratio-1)*e.cfg.BoostSlope
		for _, cat := range tr.Categories {
			if mult > boosts[cat] {
				boosts[cat] = mult
			}
		}
	}
	return boosts
}

func (e *Extractor) boostFor(key string, boosts map[string]float64) float64 {
	f, ok := e.lex.Flavor(key)
	if !ok {
		return 1
	}
	if m, ok := boosts[f.Category]; ok {
		return m
	}
	return 1
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
