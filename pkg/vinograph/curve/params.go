package curve

// Fidelity selects the sampling resolution and decoration level.
type Fidelity int

const (
	// Full is the detailed view: fine grid, blur layers, labels.
	Full Fidelity = iota
	// Thumbnail is the coarse card view: no blur, no labels.
	Thumbnail
)

func (f Fidelity) String() string {
	switch f {
	case Full:
		return "full"
	case Thumbnail:
		return "thumbnail"
	default:
		return "unknown"
	}
}

// ParseFidelity maps "full" and "thumbnail" (or "thumb") to a Fidelity.
func ParseFidelity(s string) (Fidelity, bool) {
	switch s {
	case "full", "":
		return Full, true
	case "thumbnail", "thumb":
		return Thumbnail, true
	default:
		return Full, false
	}
}

// Params are the rendering constants for one fidelity.
type Params struct {
	Points int     `yaml:"points"`
	XMin   float64 `yaml:"x_min"`
	XMax   float64 `yaml:"x_max"`
	Sigma  float64 `yaml:"sigma"`

	// PeakFloor drops flavors whose raw summed curve never reaches it.
	PeakFloor float64 `yaml:"peak_floor"`
	Sharpen   float64 `yaml:"sharpen"`

	// RankX/RankY map count/maxCount to a height scale (piecewise linear,
	// clamped at both ends).
	RankX []float64 `yaml:"rank_x"`
	RankY []float64 `yaml:"rank_y"`

	BlurFactors []float64 `yaml:"blur_factors"`
	BlurAlphas  []float64 `yaml:"blur_alphas"`

	Labels bool `yaml:"labels"`
}

// Layout are the selection and ordering rules shared by every fidelity.
type Layout struct {
	MaxBands       int     `yaml:"max_bands"`
	MaxPerCategory int     `yaml:"max_per_category"`
	NosePosition   float64 `yaml:"nose_position"`

	// LabelMinFraction hides labels on bands thinner than this fraction of
	// the tallest stack.
	LabelMinFraction float64 `yaml:"label_min_fraction"`
	LabelSlopeWindow int     `yaml:"label_slope_window"`
	LabelMaxAngle    float64 `yaml:"label_max_angle"`
	TextContrast     float64 `yaml:"text_contrast"`
}

// Config bundles both fidelities and the shared layout.
type Config struct {
	Full      Params `yaml:"full"`
	Thumbnail Params `yaml:"thumbnail"`
	Layout    Layout `yaml:"layout"`
}

// DefaultConfig returns the standard streamgraph constants.
func DefaultConfig() Config {
	return Config{
		Full: Params{
			Points:      600,
			XMin:        -0.2,
			XMax:        1.2,
			Sigma:       0.1,
			PeakFloor:   0.1,
			Sharpen:     3,
			RankX:       []float64{0, 0.03, 0.08, 0.1, 0.33, 0.5, 1},
			RankY:       []float64{0, 0, 0.3, 0.4, 0.6, 0.7, 1},
			BlurFactors: []float64{2.0, 1.9, 1.8, 1.4, 1.2},
			BlurAlphas:  []float64{0.1, 0.2, 0.25, 0.3, 0.36},
			Labels:      true,
		},
		Thumbnail: Params{
			Points:    100,
			XMin:      -0.2,
			XMax:      1.2,
			Sigma:     0.1,
			PeakFloor: 0.1,
			Sharpen:   3,
			RankX:     []float64{0, 0.33, 0.5, 1},
			RankY:     []float64{0.4, 0.5, 0.8, 1},
		},
		Layout: Layout{
			MaxBands:         30,
			MaxPerCategory:   4,
			NosePosition:     0.15,
			LabelMinFraction: 0.02,
			LabelSlopeWindow: 10,
			LabelMaxAngle:    55,
			TextContrast:     0.6,
		},
	}
}

// Params returns the constants for f.
func (c Config) Params(f Fidelity) Params {
	if f == Thumbnail {
		return c.Thumbnail
	}
	return c.Full
}
