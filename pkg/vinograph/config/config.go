package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/vinograph/pkg/vinograph/curve"
	"github.com/cognicore/vinograph/pkg/vinograph/extract"
	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
	"github.com/cognicore/vinograph/pkg/vinograph/similarity"
)

// Store backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is the whole vinograph configuration file
type Config struct {
	Paths      Paths             `yaml:"paths"`
	Store      Store             `yaml:"store"`
	Lexicon    Lexicon           `yaml:"lexicon"`
	Extract    extract.Config    `yaml:"extract"`
	Curve      curve.Config      `yaml:"curve"`
	Similarity similarity.Config `yaml:"similarity"`
	Logging    Logging           `yaml:"logging"`
	HTTP       HTTP              `yaml:"http"`
}

// Paths locates the on-disk inputs and artifacts
type Paths struct {
	Catalog   string `yaml:"catalog"`    // wine metadata JSONL
	Reviews   string `yaml:"reviews"`    // directory of wine_<id>_clean.jsonl
	Profiles  string `yaml:"profiles"`   // directory of wine_<id>_data.json
	RegionMap string `yaml:"region_map"` // winery -> region path JSON
}

// Store selects the profile cache backend
type Store struct {
	Backend         string `yaml:"backend"`
	SQLitePath      string `yaml:"sqlite_path"`
	ReviewCacheSize int    `yaml:"review_cache_size"`
}

// Lexicon points at an optional YAML overlay on the built-in aroma wheel
type Lexicon struct {
	Overlay string `yaml:"overlay"`
}

// Logging configures the zap logger
type Logging struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level"`
}

// HTTP configures the read-only API served by `vinograph serve`
type HTTP struct {
	Addr            string `yaml:"addr"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_sec"`
	DefaultTopK     int    `yaml:"default_top_k"`
}

// Default returns a configuration with every field set
func Default() *Config {
	return &Config{
		Paths: Paths{
			Catalog:   "wine_metadata.jsonl",
			Reviews:   "cleaned",
			Profiles:  "data",
			RegionMap: "winery_category_map.json",
		},
		Store: Store{
			Backend:         BackendFile,
			SQLitePath:      "vinograph.db",
			ReviewCacheSize: 4096,
		},
		Extract:    extract.DefaultConfig(),
		Curve:      curve.DefaultConfig(),
		Similarity: similarity.DefaultConfig(),
		Logging:    Logging{Env: "local", Level: "info"},
		HTTP: HTTP{
			Addr:            ":8080",
			ReadTimeoutSec:  10,
			WriteTimeoutSec: 30,
			ShutdownSec:     10,
			DefaultTopK:     10,
		},
	}
}

// Load reads a YAML config file. Keys missing from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %v: %w", path, err, internalerr.ErrIOFailure)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults, then validates
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %v: %w", err, internalerr.ErrInvalidConfig)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills zero-valued fields, so a partially built Config is
// usable.
func (c *Config) ApplyDefaults() {
	d := Default()

	if c.Paths.Catalog == "" {
		c.Paths.Catalog = d.Paths.Catalog
	}
	if c.Paths.Reviews == "" {
		c.Paths.Reviews = d.Paths.Reviews
	}
	if c.Paths.Profiles == "" {
		c.Paths.Profiles = d.Paths.Profiles
	}
	if c.Paths.RegionMap == "" {
		c.Paths.RegionMap = d.Paths.RegionMap
	}

	if c.Store.Backend == "" {
		c.Store.Backend = d.Store.Backend
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = d.Store.SQLitePath
	}
	if c.Store.ReviewCacheSize == 0 {
		c.Store.ReviewCacheSize = d.Store.ReviewCacheSize
	}

	if c.Extract == (extract.Config{}) {
		c.Extract = d.Extract
	}
	if c.Curve.Full.Points == 0 {
		c.Curve.Full = d.Curve.Full
	}
	if c.Curve.Thumbnail.Points == 0 {
		c.Curve.Thumbnail = d.Curve.Thumbnail
	}
	if c.Curve.Layout == (curve.Layout{}) {
		c.Curve.Layout = d.Curve.Layout
	}
	if c.Similarity == (similarity.Config{}) {
		c.Similarity = d.Similarity
	}
	if c.Similarity.Workers == 0 {
		c.Similarity.Workers = d.Similarity.Workers
	}

	if c.Logging.Env == "" {
		c.Logging.Env = d.Logging.Env
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = d.HTTP.Addr
	}
	if c.HTTP.ReadTimeoutSec == 0 {
		c.HTTP.ReadTimeoutSec = d.HTTP.ReadTimeoutSec
	}
	if c.HTTP.WriteTimeoutSec == 0 {
		c.HTTP.WriteTimeoutSec = d.HTTP.WriteTimeoutSec
	}
	if c.HTTP.ShutdownSec == 0 {
		c.HTTP.ShutdownSec = d.HTTP.ShutdownSec
	}
	if c.HTTP.DefaultTopK == 0 {
		c.HTTP.DefaultTopK = d.HTTP.DefaultTopK
	}
}

// Validate checks every section
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("store backend %q: %w", c.Store.Backend, internalerr.ErrInvalidConfig)
	}
	if c.Store.ReviewCacheSize < 0 {
		return fmt.Errorf("review cache size %d: %w", c.Store.ReviewCacheSize, internalerr.ErrInvalidConfig)
	}

	switch c.Logging.Env {
	case "prod", "local", "dev":
	default:
		return fmt.Errorf("logging env %q: %w", c.Logging.Env, internalerr.ErrInvalidConfig)
	}

	if c.HTTP.ReadTimeoutSec < 0 || c.HTTP.WriteTimeoutSec < 0 || c.HTTP.ShutdownSec < 0 || c.HTTP.DefaultTopK < 0 {
		return fmt.Errorf("http timeouts and top_k must not be negative: %w", internalerr.ErrInvalidConfig)
	}

	if err := validateExtract(c.Extract); err != nil {
		return err
	}
	for _, f := range []curve.Fidelity{curve.Full, curve.Thumbnail} {
		if err := validateParams(f, c.Curve.Params(f)); err != nil {
			return err
		}
	}
	if err := validateLayout(c.Curve.Layout); err != nil {
		return err
	}
	return c.Similarity.Validate()
}

func validateExtract(e extract.Config) error {
	switch {
	case e.BaseWeight <= 0:
		return fmt.Errorf("extract base_weight %v: %w", e.BaseWeight, internalerr.ErrInvalidConfig)
	case e.NoiseMinimum < 0 || e.NoiseFraction < 0:
		return fmt.Errorf("extract noise filter %v/%v: %w", e.NoiseMinimum, e.NoiseFraction, internalerr.ErrInvalidConfig)
	case e.BoostSaturation < 1 || e.BoostSlope < 0:
		return fmt.Errorf("extract boost %v/%v: %w", e.BoostSaturation, e.BoostSlope, internalerr.ErrInvalidConfig)
	case e.PosDecimals < 0 || e.WeightDecimals < 0:
		return fmt.Errorf("extract decimals %d/%d: %w", e.PosDecimals, e.WeightDecimals, internalerr.ErrInvalidConfig)
	}
	return nil
}

func validateParams(f curve.Fidelity, p curve.Params) error {
	switch {
	case p.Points < 2:
		return fmt.Errorf("curve %s points %d: %w", f, p.Points, internalerr.ErrInvalidConfig)
	case p.XMax <= p.XMin:
		return fmt.Errorf("curve %s range [%v,%v]: %w", f, p.XMin, p.XMax, internalerr.ErrInvalidConfig)
	case p.Sigma <= 0:
		return fmt.Errorf("curve %s sigma %v: %w", f, p.Sigma, internalerr.ErrInvalidConfig)
	case len(p.RankX) != len(p.RankY) || len(p.RankX) == 0:
		return fmt.Errorf("curve %s rank breakpoints %d/%d: %w", f, len(p.RankX), len(p.RankY), internalerr.ErrInvalidConfig)
	case len(p.BlurFactors) != len(p.BlurAlphas):
		return fmt.Errorf("curve %s blur layers %d/%d: %w", f, len(p.BlurFactors), len(p.BlurAlphas), internalerr.ErrInvalidConfig)
	}
	for i := 1; i < len(p.RankX); i++ {
		if p.RankX[i] < p.RankX[i-1] {
			return fmt.Errorf("curve %s rank_x not ascending: %w", f, internalerr.ErrInvalidConfig)
		}
	}
	return nil
}

func validateLayout(l curve.Layout) error {
	if l.MaxBands <= 0 || l.MaxPerCategory <= 0 {
		return fmt.Errorf("curve layout caps %d/%d: %w", l.MaxBands, l.MaxPerCategory, internalerr.ErrInvalidConfig)
	}
	if l.LabelSlopeWindow < 0 || l.LabelMaxAngle < 0 {
		return fmt.Errorf("curve label settings: %w", internalerr.ErrInvalidConfig)
	}
	return nil
}
