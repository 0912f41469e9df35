// Package curve turns a flavor profile into stacked streamgraph bands.
//
// Every flavor becomes a smooth density curve over the tasting timeline
// (a Gaussian per mention), sharpened and scaled by how often reviewers
// mention it. The strongest flavors are selected, grouped by category and
// stacked around a zero baseline. Blur layers and labels are returned as
// plain data so any renderer can draw them.
package curve

import (
	"math"
	"sort"
	"strings"

	"github.com/cognicore/vinograph/pkg/vinograph/lexicon"
	"github.com/cognicore/vinograph/pkg/vinograph/profile"
)

// Set is a ready-to-draw stack of bands sampled on X.
type Set struct {
	Fidelity Fidelity
	X        []float64
	Total    []float64 // stack thickness at each X
	Bands    []Band    // bottom to top

	// Masks holds the cohesion mask per category, in [0,1]. Only the full
	// fidelity computes them.
	Masks map[string][]float64
}

// Empty reports whether there is nothing to draw.
func (s Set) Empty() bool { return len(s.Bands) == 0 }

// Keys returns the band keys bottom to top.
func (s Set) Keys() []string {
	keys := make([]string, len(s.Bands))
	for i, b := range s.Bands {
		keys[i] = b.Key
	}
	return keys
}

// Band is one flavor's layer in the stack.
type Band struct {
	Key      string
	Category string
	Color    lexicon.Color
	Values   []float64 // thickness
	Lower    []float64
	Upper    []float64
	Mass     float64
	Blur     []BlurLayer
	Label    Label
}

// BlurLayer is a translucent halo drawn behind a band. The scale series
// expand the band's half-thickness on the side shared with a neighbour of the
// same category; they are 1 on sides facing another category.
type BlurLayer struct {
	Factor    float64
	Alpha     float64
	ScaleDown []float64
	ScaleUp   []float64
}

// Bounds returns the halo's lower and upper edges for band b.
func (l BlurLayer) Bounds(b Band) (lower, upper []float64) {
	lower = make([]float64, len(b.Values))
	upper = make([]float64, len(b.Values))
	for i, v := range b.Values {
		center := b.Lower[i] + v/2
		radius := v / 2
		lower[i] = center - radius*l.ScaleDown[i]
		upper[i] = center + radius*l.ScaleUp[i]
	}
	return lower, upper
}

// Label places a band's name at its thickest point.
type Label struct {
	Text      string
	Index     int
	X         float64
	Y         float64 // band centre line at Index
	Thickness float64
	FontSize  int
	TextColor lexicon.Color
	Slope     float64 // centre line slope around Index, data units
	Angle     float64 // degrees, clamped to the layout's max angle
	Visible   bool
}

// Synthesizer builds curve sets. It is safe for concurrent use.
type Synthesizer struct {
	lex *lexicon.Lexicon
	cfg Config
}

// New creates a synthesizer.
func New(lex *lexicon.Lexicon, cfg Config) *Synthesizer {
	return &Synthesizer{lex: lex, cfg: cfg}
}

// Synthesize builds the band stack for p at fidelity f. An empty or nil
// profile, or one where no flavor qualifies, yields an empty Set.
func (s *Synthesizer) Synthesize(p profile.Profile, f Fidelity) Set {
	keys := s.Plan(p)
	if len(keys) == 0 {
		return Set{Fidelity: f}
	}
	return s.render(p, keys, f)
}

// Plan selects and orders the flavors to draw. The plan is always made on the
// full-fidelity curves so every fidelity shows the same flavors in the same
// order.
func (s *Synthesizer) Plan(p profile.Profile) []string {
	if len(p) == 0 {
		return nil
	}
	params := s.cfg.Full
	x := grid(params)
	maxCount := maxCount(p)

	var cands []candidate
	for _, k := range p.Keys() {
		if s.lex.IsTrigger(k) {
			continue
		}
		values, peak := sculpt(x, p[k], maxCount, params)
		if values == nil || peak <= params.PeakFloor {
			continue
		}
		cands = append(cands, candidate{key: k, values: values, mass: sum(values)})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].mass > cands[j].mass })

	selected := s.selectBands(cands)
	ordered := groupByCategory(selected, noseIndex(params, s.cfg.Layout.NosePosition))

	keys := make([]string, len(ordered))
	for i, c := range ordered {
		keys[i] = c.key
	}
	return keys
}

type candidate struct {
	key      string
	category string
	values   []float64
	mass     float64
}

// selectBands keeps the heaviest flavors under the total and per-category
// caps. Flavors the lexicon cannot color are skipped without using a slot.
func (s *Synthesizer) selectBands(cands []candidate) []candidate {
	layout := s.cfg.Layout
	perCat := make(map[string]int)
	var out []candidate
	for _, c := range cands {
		if len(out) >= layout.MaxBands {
			break
		}
		f, ok := s.lex.Flavor(c.key)
		if !ok {
			continue
		}
		if perCat[f.Category] >= layout.MaxPerCategory {
			continue
		}
		perCat[f.Category]++
		c.category = f.Category
		out = append(out, c)
	}
	return out
}

// groupByCategory orders categories by summed mass and, inside a category,
// flavors by their height at the nose so early aromas sit together.
func groupByCategory(cands []candidate, nose int) []candidate {
	var order []string
	groups := make(map[string][]candidate)
	mass := make(map[string]float64)
	for _, c := range cands {
		if _, ok := groups[c.category]; !ok {
			order = append(order, c.category)
		}
		groups[c.category] = append(groups[c.category], c)
		mass[c.category] += c.mass
	}
	sort.SliceStable(order, func(i, j int) bool { return mass[order[i]] > mass[order[j]] })

	out := make([]candidate, 0, len(cands))
	for _, cat := range order {
		items := groups[cat]
		sort.SliceStable(items, func(i, j int) bool { return items[i].values[nose] > items[j].values[nose] })
		out = append(out, items...)
	}
	return out
}

func (s *Synthesizer) render(p profile.Profile, keys []string, f Fidelity) Set {
	params := s.cfg.Params(f)
	x := grid(params)
	n := len(x)
	maxCount := maxCount(p)

	bands := make([]Band, 0, len(keys))
	total := make([]float64, n)
	for _, k := range keys {
		fl, _ := s.lex.Flavor(k)
		values, _ := sculpt(x, p[k], maxCount, params)
		if values == nil {
			values = make([]float64, n)
		}
		for i, v := range values {
			total[i] += v
		}
		bands = append(bands, Band{
			Key:      k,
			Category: fl.Category,
			Color:    fl.Color,
			Values:   values,
			Mass:     sum(values),
		})
	}

	// centre the stack on zero
	bottom := make([]float64, n)
	for i, t := range total {
		bottom[i] = -t / 2
	}
	for bi := range bands {
		b := &bands[bi]
		b.Lower = append([]float64(nil), bottom...)
		for i, v := range b.Values {
			bottom[i] += v
		}
		b.Upper = append([]float64(nil), bottom...)
	}

	set := Set{Fidelity: f, X: x, Total: total, Bands: bands}
	if len(params.BlurFactors) > 0 {
		set.Masks = cohesionMasks(bands, n)
		addBlur(bands, set.Masks, params)
	}
	if params.Labels {
		s.addLabels(set)
	}
	return set
}

// cohesionMasks is, per category, the normalized product of its member
// curves: it is zero wherever any member vanishes. A single-member category
// uses its own normalized curve.
func cohesionMasks(bands []Band, n int) map[string][]float64 {
	members := make(map[string][][]float64)
	var order []string
	for _, b := range bands {
		if _, ok := members[b.Category]; !ok {
			order = append(order, b.Category)
		}
		members[b.Category] = append(members[b.Category], b.Values)
	}

	masks := make(map[string][]float64, len(order))
	for _, cat := range order {
		curves := members[cat]
		mask := make([]float64, n)
		if len(curves) > 1 {
			for i := range mask {
				prod := 1.0
				for _, c := range curves {
					prod *= c[i]
				}
				mask[i] = prod
			}
			if m := maxOf(mask); m > 1e-9 {
				scale(mask, 1/m)
			} else {
				mask = make([]float64, n)
			}
		} else {
			copy(mask, curves[0])
			if m := maxOf(mask); m > 0 {
				scale(mask, 1/m)
			}
		}
		masks[cat] = mask
	}
	return masks
}

func addBlur(bands []Band, masks map[string][]float64, params Params) {
	layers := len(params.BlurFactors)
	if len(params.BlurAlphas) < layers {
		layers = len(params.BlurAlphas)
	}
	for bi := range bands {
		b := &bands[bi]
		mask := masks[b.Category]
		prevSame := bi > 0 && bands[bi-1].Category == b.Category
		nextSame := bi < len(bands)-1 && bands[bi+1].Category == b.Category

		b.Blur = make([]BlurLayer, layers)
		for li := 0; li < layers; li++ {
			factor := params.BlurFactors[li]
			layer := BlurLayer{
				Factor:    factor,
				Alpha:     params.BlurAlphas[li],
				ScaleDown: make([]float64, len(b.Values)),
				ScaleUp:   make([]float64, len(b.Values)),
			}
			for i, m := range mask {
				layer.ScaleDown[i] = 1
				layer.ScaleUp[i] = 1
				if prevSame {
					layer.ScaleDown[i] = 1 + (factor-1)*m
				}
				if nextSame {
					layer.ScaleUp[i] = 1 + (factor-1)*m
				}
			}
			b.Blur[li] = layer
		}
	}
}

func (s *Synthesizer) addLabels(set Set) {
	layout := s.cfg.Layout
	minThickness := maxOf(set.Total) * layout.LabelMinFraction
	n := len(set.X)

	for bi := range set.Bands {
		b := &set.Bands[bi]
		peak := argmax(b.Values)
		center := func(i int) float64 { return b.Lower[i] + b.Values[i]/2 }
		thickness := b.Values[peak]

		prev := peak - layout.LabelSlopeWindow
		if prev < 0 {
			prev = 0
		}
		next := peak + layout.LabelSlopeWindow
		if next > n-1 {
			next = n - 1
		}
		slope := 0.0
		if next > prev {
			slope = (center(next) - center(prev)) / (set.X[next] - set.X[prev])
		}
		angle := math.Atan(slope) * 180 / math.Pi
		angle = math.Max(-layout.LabelMaxAngle, math.Min(layout.LabelMaxAngle, angle))

		font := int(9 + thickness*thickness*11)
		if font < 8 {
			font = 8
		}
		if font > 20 {
			font = 20
		}

		b.Label = Label{
			Text:      strings.ToUpper(b.Key),
			Index:     peak,
			X:         set.X[peak],
			Y:         center(peak),
			Thickness: thickness,
			FontSize:  font,
			TextColor: b.Color.Contrast(layout.TextContrast),
			Slope:     slope,
			Angle:     angle,
			Visible:   thickness > 0 && thickness >= minThickness,
		}
	}
}

// sculpt sums one Gaussian per mention, then normalizes by the peak, raises
// to the sharpen power and scales by rank. It also returns the raw peak.
func sculpt(x []float64, s profile.Series, maxCount int, params Params) ([]float64, float64) {
	if len(s.X) == 0 || len(s.X) != len(s.W) {
		return nil, 0
	}
	raw := make([]float64, len(x))
	for j, mu := range s.X {
		w := s.W[j]
		for i, xi := range x {
			d := (xi - mu) / params.Sigma
			raw[i] += w * math.Exp(-0.5*d*d)
		}
	}
	peak := maxOf(raw)
	if peak <= 0 {
		return raw, peak
	}

	ratio := 0.0
	if maxCount > 0 {
		ratio = float64(s.Count) / float64(maxCount)
	}
	rank := interp(ratio, params.RankX, params.RankY)
	for i, v := range raw {
		raw[i] = math.Pow(v/peak, params.Sharpen) * rank
	}
	return raw, peak
}

// maxCount is the largest review count in the profile, triggers included.
func maxCount(p profile.Profile) int {
	m := 0
	for _, s := range p {
		if s.Count > m {
			m = s.Count
		}
	}
	return m
}

func grid(params Params) []float64 {
	n := params.Points
	if n < 2 {
		n = 2
	}
	x := make([]float64, n)
	step := (params.XMax - params.XMin) / float64(n-1)
	for i := range x {
		x[i] = params.XMin + float64(i)*step
	}
	x[n-1] = params.XMax
	return x
}

// noseIndex is the grid index of the nose position.
func noseIndex(params Params, nose float64) int {
	n := params.Points
	idx := int(float64(n) * (nose - params.XMin) / (params.XMax - params.XMin))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// interp is piecewise-linear interpolation clamped to the end values.
func interp(v float64, xs, ys []float64) float64 {
	if len(xs) == 0 || len(xs) != len(ys) {
		return 1
	}
	if v <= xs[0] {
		return ys[0]
	}
	last := len(xs) - 1
	if v >= xs[last] {
		return ys[last]
	}
	for i := 1; i <= last; i++ {
		if v <= xs[i] {
			x0, x1 := xs[i-1], xs[i]
			if x1 == x0 {
				return ys[i]
			}
			t := (v - x0) / (x1 - x0)
			return ys[i-1] + t*(ys[i]-ys[i-1])
		}
	}
	return ys[last]
}

func sum(vs []float64) float64 {
	t := 0.0
	for _, v := range vs {
		t += v
	}
	return t
}

func maxOf(vs []float64) float64 {
	m := 0.0
	for i, v := range vs {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

func argmax(vs []float64) int {
	best := 0
	for i, v := range vs {
		if v > vs[best] {
			best = i
		}
	}
	return best
}

func scale(vs []float64, f float64) {
	for i := range vs {
		vs[i] *= f
	}
}
