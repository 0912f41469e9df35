package lexicon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
)

// Overlay is the YAML form of lexicon additions.
//
//	flavors:
//	  - category: Spice
//	    color: "#CC783B"
//	    words: [pepper, black pepper, peppery]
//	triggers:
//	  - words: [spicy]
//	    categories: [Spice]
//	anchors:
//	  midpalate: 0.5
//	intensity:
//	  whiff: 0.2
type Overlay struct {
	Flavors []struct {
		Category string   `yaml:"category"`
		Color    string   `yaml:"color"`
		Words    []string `yaml:"words"`
	} `yaml:"flavors"`
	Triggers []struct {
		Words      []string `yaml:"words"`
		Categories []string `yaml:"categories"`
	} `yaml:"triggers"`
	Anchors   map[string]float64 `yaml:"anchors"`
	Intensity map[string]float64 `yaml:"intensity"`
}

// LoadFromYAML reads an overlay file and applies it on top of base.
// A nil base starts from an empty lexicon.
func LoadFromYAML(path string, base *Lexicon) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %v: %w", path, err, internalerr.ErrIOFailure)
	}
	return ParseYAML(data, base)
}

// ParseYAML applies a YAML overlay to a copy of base. base is not modified.
func ParseYAML(data []byte, base *Lexicon) (*Lexicon, error) {
	var ov Overlay
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("parse lexicon yaml: %v: %w", err, internalerr.ErrInvalidConfig)
	}
	if err := ov.Validate(); err != nil {
		return nil, err
	}

	var lex *Lexicon
	if base == nil {
		lex = New()
	} else {
		lex = base.Clone()
	}
	for _, f := range ov.Flavors {
		c, _ := ParseHex(f.Color)
		lex.AddFlavor(f.Category, c, f.Words...)
	}
	for _, t := range ov.Triggers {
		lex.AddTrigger(t.Categories, t.Words...)
	}
	for w, v := range ov.Anchors {
		lex.SetAnchor(w, v)
	}
	for w, v := range ov.Intensity {
		lex.SetIntensity(w, v)
	}
	return lex, nil
}

// Validate checks the overlay for entries the extractor cannot use.
func (ov *Overlay) Validate() error {
	for i, f := range ov.Flavors {
		if f.Category == "" {
			return fmt.Errorf("flavors[%d]: category is required: %w", i, internalerr.ErrInvalidConfig)
		}
		if len(normalizeWords(f.Words)) == 0 {
			return fmt.Errorf("flavors[%d]: at least one word is required: %w", i, internalerr.ErrInvalidConfig)
		}
		if _, err := ParseHex(f.Color); err != nil {
			return fmt.Errorf("flavors[%d]: %v: %w", i, err, internalerr.ErrInvalidConfig)
		}
	}
	for i, t := range ov.Triggers {
		if len(normalizeWords(t.Words)) == 0 {
			return fmt.Errorf("triggers[%d]: at least one word is required: %w", i, internalerr.ErrInvalidConfig)
		}
		if len(t.Categories) == 0 {
			return fmt.Errorf("triggers[%d]: at least one category is required: %w", i, internalerr.ErrInvalidConfig)
		}
	}
	for w, v := range ov.Anchors {
		if v < 0 || v > 1 {
			return fmt.Errorf("anchor %q = %v: must be in [0,1]: %w", w, v, internalerr.ErrInvalidConfig)
		}
	}
	for w, v := range ov.Intensity {
		if v <= 0 || v > 1 {
			return fmt.Errorf("intensity %q = %v: must be in (0,1]: %w", w, v, internalerr.ErrInvalidConfig)
		}
	}
	return nil
}
