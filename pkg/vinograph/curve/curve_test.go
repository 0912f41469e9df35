package curve

import (
	"math"
	"reflect"
	"testing"

	"github.com/cognicore/vinograph/pkg/vinograph/lexicon"
	"github.com/cognicore/vinograph/pkg/vinograph/profile"
)

func newSynth() *Synthesizer {
	return New(lexicon.Default(), DefaultConfig())
}

func series(count int, pos ...float64) profile.Series {
	w := make([]float64, len(pos))
	for i := range w {
		w[i] = 0.5
	}
	return profile.Series{X: pos, W: w, Count: count}
}

func TestSynthesizeEmpty(t *testing.T) {
	s := newSynth()
	for _, p := range []profile.Profile{nil, {}} {
		for _, f := range []Fidelity{Full, Thumbnail} {
			set := s.Synthesize(p, f)
			if !set.Empty() {
				t.Errorf("Synthesize(%v, %s) should be empty", p, f)
			}
			if set.Fidelity != f {
				t.Errorf("fidelity = %s, want %s", set.Fidelity, f)
			}
		}
	}
}

func TestSynthesizeSkipsTriggersAndUnknown(t *testing.T) {
	s := newSynth()
	p := profile.Profile{
		"earthy":      series(9, 0.2, 0.3),
		"unobtainium": series(9, 0.5),
		"cherry":      series(5, 0.1),
	}
	set := s.Synthesize(p, Full)
	if got := set.Keys(); !reflect.DeepEqual(got, []string{"cherry"}) {
		t.Errorf("keys = %v, want [cherry]", got)
	}
}

func TestSynthesizePeakFloor(t *testing.T) {
	s := newSynth()
	p := profile.Profile{
		"cherry": series(5, 0.1),
		"oak":    {X: []float64{0.9}, W: []float64{0.05}, Count: 5},
	}
	set := s.Synthesize(p, Full)
	if got := set.Keys(); !reflect.DeepEqual(got, []string{"cherry"}) {
		t.Errorf("keys = %v; oak's raw peak 0.05 is below the floor", got)
	}
}

func TestSynthesizePerCategoryCap(t *testing.T) {
	s := newSynth()
	p := profile.Profile{}
	for _, k := range []string{"caramel", "butterscotch", "chocolate", "toast", "coffee", "mocha"} {
		p[k] = series(5, 0.5)
	}
	p["cherry"] = series(5, 0.1)

	set := s.Synthesize(p, Full)
	toasted := 0
	for _, b := range set.Bands {
		if b.Category == "Toasted" {
			toasted++
		}
	}
	if toasted != 4 {
		t.Errorf("Toasted bands = %d, want 4", toasted)
	}
	if len(set.Bands) != 5 {
		t.Errorf("bands = %d, want 5", len(set.Bands))
	}
}

func TestSynthesizeTotalCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout.MaxBands = 3
	s := New(lexicon.Default(), cfg)

	p := profile.Profile{
		"cherry":  series(10, 0.1),
		"lemon":   series(9, 0.2),
		"oak":     series(8, 0.8),
		"vanilla": series(7, 0.5),
		"plum":    series(6, 0.4),
	}
	set := s.Synthesize(p, Full)
	if len(set.Bands) != 3 {
		t.Fatalf("bands = %d, want 3", len(set.Bands))
	}
	for _, b := range set.Bands {
		if b.Key == "plum" || b.Key == "vanilla" {
			t.Errorf("lighter flavor %s should not be selected", b.Key)
		}
	}
}

func TestSynthesizeGrouping(t *testing.T) {
	s := newSynth()
	p := profile.Profile{
		"strawberry": series(10, 0.9, 0.9, 0.9),
		"cherry":     series(10, 0.15),
		"chocolate":  series(5, 0.5),
	}
	want := []string{"cherry", "strawberry", "chocolate"}

	full := s.Synthesize(p, Full)
	if got := full.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("full keys = %v, want %v", got, want)
	}
	thumb := s.Synthesize(p, Thumbnail)
	if got := thumb.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("thumbnail keys = %v, want %v", got, want)
	}
	if len(thumb.X) != 100 || len(full.X) != 600 {
		t.Errorf("grid sizes = %d/%d, want 600/100", len(full.X), len(thumb.X))
	}
}

func TestSynthesizeStacking(t *testing.T) {
	s := newSynth()
	p := profile.Profile{
		"cherry":    series(10, 0.1, 0.2),
		"plum":      series(8, 0.3),
		"chocolate": series(6, 0.9),
	}
	set := s.Synthesize(p, Full)
	if set.Empty() {
		t.Fatal("empty set")
	}

	first := set.Bands[0]
	last := set.Bands[len(set.Bands)-1]
	for i, tot := range set.Total {
		if math.Abs(first.Lower[i]+tot/2) > 1e-9 {
			t.Fatalf("bottom at %d = %v, want %v", i, first.Lower[i], -tot/2)
		}
		if math.Abs(last.Upper[i]-tot/2) > 1e-9 {
			t.Fatalf("top at %d = %v, want %v", i, last.Upper[i], tot/2)
		}
	}
	for _, b := range set.Bands {
		for i, v := range b.Values {
			if v < 0 {
				t.Fatalf("%s: negative thickness %v", b.Key, v)
			}
			if math.Abs(b.Upper[i]-b.Lower[i]-v) > 1e-9 {
				t.Fatalf("%s: band height mismatch at %d", b.Key, i)
			}
		}
	}
}

func TestSynthesizeTopRankPeaksAtOne(t *testing.T) {
	s := newSynth()
	set := s.Synthesize(profile.Profile{"cherry": series(4, 0.5)}, Full)
	peak := set.Bands[0].Values[set.Bands[0].Label.Index]
	if math.Abs(peak-1) > 1e-3 {
		t.Errorf("top-ranked flavor peak = %v, want ~1", peak)
	}
}

// A band planned just above the peak floor may fall under it on the coarse
// grid; it is still normalized like every other band.
func TestSynthesizeWeakBandSameScaleAtBothFidelities(t *testing.T) {
	s := newSynth()
	p := profile.Profile{"cherry": {X: []float64{0.5}, W: []float64{0.1002}, Count: 4}}

	thumbX := grid(s.cfg.Thumbnail)
	if _, peak := sculpt(thumbX, profile.Series{X: []float64{0.5}, W: []float64{0.1002}, Count: 4}, 4, s.cfg.Thumbnail); peak > s.cfg.Full.PeakFloor {
		t.Fatalf("coarse raw peak = %v, want at or under the floor", peak)
	}

	for _, f := range []Fidelity{Full, Thumbnail} {
		set := s.Synthesize(p, f)
		if len(set.Bands) != 1 {
			t.Fatalf("%s: bands = %d, want 1", f, len(set.Bands))
		}
		if got := maxOf(set.Bands[0].Values); math.Abs(got-1) > 1e-9 {
			t.Errorf("%s: band peak = %v, want 1", f, got)
		}
	}
}

func TestSynthesizeBlurOnlyBetweenSameCategory(t *testing.T) {
	s := newSynth()
	p := profile.Profile{
		"cherry":     series(10, 0.3),
		"strawberry": series(10, 0.35),
		"chocolate":  series(4, 0.8),
	}
	set := s.Synthesize(p, Full)
	if len(set.Bands) != 3 {
		t.Fatalf("bands = %v", set.Keys())
	}

	lower, upper, other := set.Bands[0], set.Bands[1], set.Bands[2]
	if lower.Category != upper.Category || other.Category == lower.Category {
		t.Fatalf("unexpected order %v", set.Keys())
	}
	if len(lower.Blur) != 5 {
		t.Fatalf("blur layers = %d, want 5", len(lower.Blur))
	}

	layer := lower.Blur[0]
	if maxOf(layer.ScaleUp) <= 1 {
		t.Error("bottom band should expand upward into its same-category neighbour")
	}
	if maxOf(layer.ScaleDown) != 1 {
		t.Error("bottom band has no neighbour below and must not expand down")
	}
	if maxOf(upper.Blur[0].ScaleDown) <= 1 {
		t.Error("second band should expand downward")
	}
	if maxOf(upper.Blur[0].ScaleUp) != 1 {
		t.Error("second band faces another category above and must not expand up")
	}
	for _, l := range other.Blur {
		if maxOf(l.ScaleUp) != 1 || maxOf(l.ScaleDown) != 1 {
			t.Error("lone category band must not expand")
		}
	}

	mask := set.Masks[lower.Category]
	if m := maxOf(mask); math.Abs(m-1) > 1e-9 {
		t.Errorf("mask max = %v, want 1", m)
	}

	lo, hi := layer.Bounds(lower)
	for i := range lo {
		if lo[i] > lower.Lower[i]+1e-9 || hi[i] < lower.Upper[i]-1e-9 {
			t.Fatalf("halo must enclose the band at %d", i)
		}
	}
}

func TestSynthesizeThumbnailHasNoDecorations(t *testing.T) {
	s := newSynth()
	p := profile.Profile{"cherry": series(10, 0.3), "strawberry": series(10, 0.35)}
	set := s.Synthesize(p, Thumbnail)
	if set.Masks != nil {
		t.Error("thumbnail should not compute masks")
	}
	for _, b := range set.Bands {
		if len(b.Blur) != 0 {
			t.Errorf("%s: thumbnail band has blur layers", b.Key)
		}
		if b.Label.Text != "" {
			t.Errorf("%s: thumbnail band has a label", b.Key)
		}
	}
}

func TestSynthesizeLabels(t *testing.T) {
	s := newSynth()
	p := profile.Profile{
		"cherry":    series(20, 0.1, 0.15, 0.2),
		"chocolate": series(1, 0.9),
	}
	set := s.Synthesize(p, Full)
	for _, b := range set.Bands {
		l := b.Label
		if l.FontSize < 8 || l.FontSize > 20 {
			t.Errorf("%s: font size %d out of range", b.Key, l.FontSize)
		}
		if math.Abs(l.Angle) > 55 {
			t.Errorf("%s: angle %v not clamped", b.Key, l.Angle)
		}
		if l.X != set.X[l.Index] {
			t.Errorf("%s: label X does not match index", b.Key)
		}
	}

	byKey := map[string]Band{}
	for _, b := range set.Bands {
		byKey[b.Key] = b
	}
	if l := byKey["cherry"].Label; !l.Visible || l.Text != "CHERRY" {
		t.Errorf("cherry label = %+v", l)
	}
	// count ratio 0.05 gives a rank weight of 0.12, above 2% of the stack
	if !byKey["chocolate"].Label.Visible {
		t.Errorf("chocolate label should be visible: %+v", byKey["chocolate"].Label)
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	s := newSynth()
	p := profile.Profile{
		"cherry": series(10, 0.1, 0.2),
		"plum":   series(10, 0.1, 0.2),
		"oak":    series(10, 0.8),
		"lemon":  series(10, 0.8),
	}
	a := s.Synthesize(p, Full)
	b := s.Synthesize(p, Full)
	if !reflect.DeepEqual(a, b) {
		t.Error("Synthesize is not deterministic")
	}
}

func TestInterp(t *testing.T) {
	cfg := DefaultConfig().Full
	tests := []struct {
		v, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.03, 0},
		{0.09, 0.35},
		{0.5, 0.7},
		{0.75, 0.85},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := interp(tt.v, cfg.RankX, cfg.RankY); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("interp(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestParseFidelity(t *testing.T) {
	if f, ok := ParseFidelity("thumb"); !ok || f != Thumbnail {
		t.Errorf("ParseFidelity(thumb) = %v, %v", f, ok)
	}
	if _, ok := ParseFidelity("poster"); ok {
		t.Error("unknown fidelity should not parse")
	}
}
