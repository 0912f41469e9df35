package config

import (
	"context"
	"fmt"

	"github.com/cognicore/vinograph/pkg/vinograph/catalog"
	"github.com/cognicore/vinograph/pkg/vinograph/curve"
	"github.com/cognicore/vinograph/pkg/vinograph/extract"
	"github.com/cognicore/vinograph/pkg/vinograph/lexicon"
	"github.com/cognicore/vinograph/pkg/vinograph/similarity"
	"github.com/cognicore/vinograph/pkg/vinograph/store"
	"github.com/cognicore/vinograph/pkg/vinograph/store/filestore"
	"github.com/cognicore/vinograph/pkg/vinograph/store/memstore"
	"github.com/cognicore/vinograph/pkg/vinograph/store/sqlite"
)

// Loader builds the runtime components described by a Config
type Loader struct {
	Config *Config
}

// Components holds everything the engine needs
type Components struct {
	Lexicon     *lexicon.Lexicon
	Extractor   *extract.Extractor
	Synthesizer *curve.Synthesizer
	Scorer      *similarity.Scorer
	Ranker      *similarity.Ranker
	Store       store.Store
	Reviews     *catalog.ReviewCounter
}

// Close releases the store.
func (c *Components) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// Load constructs the components. The caller owns the returned store.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = Default()
	}

	// Load lexicon
	lex := lexicon.Default()
	if cfg.Lexicon.Overlay != "" {
		var err error
		lex, err = lexicon.LoadFromYAML(cfg.Lexicon.Overlay, lex)
		if err != nil {
			return nil, fmt.Errorf("load lexicon overlay: %w", err)
		}
	}

	scorer := similarity.NewScorer(cfg.Similarity)
	comp := &Components{
		Lexicon:     lex,
		Extractor:   extract.New(lex, cfg.Extract),
		Synthesizer: curve.New(lex, cfg.Curve),
		Scorer:      scorer,
		Ranker:      similarity.NewRanker(scorer),
	}

	reviews, err := catalog.NewReviewCounter(cfg.Paths.Reviews, cfg.Store.ReviewCacheSize)
	if err != nil {
		return nil, err
	}
	comp.Reviews = reviews

	// Open store
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	comp.Store = st
	return comp, nil
}

// OpenStore opens the profile store selected by cfg.Store.Backend
func OpenStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case BackendFile, "":
		st, err := filestore.Open(cfg.Paths.Profiles)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return st, nil
	case BackendSQLite:
		st, err := sqlite.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return st, nil
	case BackendMemory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
