// Package vinograph turns wine reviews into flavor timelines, streamgraph
// curves and similarity recommendations.
package vinograph

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/vinograph/internal/logger"
	"github.com/cognicore/vinograph/internal/metrics"
	"github.com/cognicore/vinograph/pkg/vinograph/cards"
	"github.com/cognicore/vinograph/pkg/vinograph/catalog"
	"github.com/cognicore/vinograph/pkg/vinograph/config"
	"github.com/cognicore/vinograph/pkg/vinograph/curve"
	"github.com/cognicore/vinograph/pkg/vinograph/extract"
	"github.com/cognicore/vinograph/pkg/vinograph/ingest"
	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
	"github.com/cognicore/vinograph/pkg/vinograph/maintenance"
	"github.com/cognicore/vinograph/pkg/vinograph/profile"
	"github.com/cognicore/vinograph/pkg/vinograph/similarity"
	"github.com/cognicore/vinograph/pkg/vinograph/store"
)

// Engine is the main facade
type Engine struct {
	store     store.Store
	extractor *extract.Extractor
	synth     *curve.Synthesizer
	ranker    *similarity.Ranker
	cards     *cards.Builder
	reviewDir string
}

// Options configures an Engine
type Options struct {
	Store       store.Store
	Extractor   *extract.Extractor
	Synthesizer *curve.Synthesizer
	Ranker      *similarity.Ranker
	ReviewDir   string // directory of wine_<id>_clean.jsonl files
}

// New creates an Engine with the given dependencies
func New(opts Options) *Engine {
	return &Engine{
		store:     opts.Store,
		extractor: opts.Extractor,
		synth:     opts.Synthesizer,
		ranker:    opts.Ranker,
		cards:     cards.New(),
		reviewDir: opts.ReviewDir,
	}
}

// FromComponents wires an Engine from loaded configuration
func FromComponents(c *config.Components, cfg *config.Config) *Engine {
	return New(Options{
		Store:       c.Store,
		Extractor:   c.Extractor,
		Synthesizer: c.Synthesizer,
		Ranker:      c.Ranker,
		ReviewDir:   cfg.Paths.Reviews,
	})
}

// Close releases the store
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Store returns the profile store
func (e *Engine) Store() store.Store { return e.store }

// BuildProfile extracts a profile from reviews. It returns
// internalerr.ErrInsufficientData when nothing survives extraction.
func (e *Engine) BuildProfile(reviews []ingest.Review) (profile.Profile, error) {
	start := time.Now()
	p, err := e.extractor.Extract(reviews)
	metrics.ExtractDuration.Observe(time.Since(start).Seconds())
	switch {
	case errors.Is(err, internalerr.ErrInsufficientData):
		metrics.ProfilesBuiltTotal.WithLabelValues("insufficient").Inc()
	case err != nil:
		metrics.ProfilesBuiltTotal.WithLabelValues("error").Inc()
	default:
		metrics.ProfilesBuiltTotal.WithLabelValues("ok").Inc()
	}
	return p, err
}

// LoadOrBuildProfile returns the profile stored at profilePath, building it
// from rawPath only when the artifact does not exist yet. The raw reviews are
// never read on a hit. A corrupt artifact counts as missing and is rebuilt.
// When extraction yields nothing no artifact is written.
func (e *Engine) LoadOrBuildProfile(ctx context.Context, rawPath, profilePath string) (profile.Profile, error) {
	log := logger.FromContext(ctx)

	if profile.Exists(profilePath) {
		p, err := profile.ReadFile(profilePath)
		if err == nil {
			metrics.ProfileCacheTotal.WithLabelValues("hit").Inc()
			return p, nil
		}
		if !errors.Is(err, internalerr.ErrMalformedInput) {
			return nil, err
		}
		log.Warn("rebuilding corrupt profile artifact", zap.String("path", profilePath), zap.Error(err))
	}
	metrics.ProfileCacheTotal.WithLabelValues("miss").Inc()

	reviews, _, err := ingest.LoadReviews(ctx, rawPath)
	if err != nil {
		return nil, err
	}
	p, err := e.BuildProfile(reviews)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rawPath, err)
	}
	if err := profile.WriteFile(profilePath, p); err != nil {
		return nil, err
	}
	log.Debug("profile built", zap.String("path", profilePath), zap.Int("flavors", len(p)))
	return p, nil
}

// ProfileFor returns a wine's profile from the store, extracting and storing
// it on a miss. A wine without a review file has no profile and yields
// internalerr.ErrInsufficientData (also matching internalerr.ErrNotFound).
func (e *Engine) ProfileFor(ctx context.Context, id catalog.WineID) (profile.Profile, error) {
	p, err := e.store.GetProfile(ctx, id.String())
	if err == nil {
		metrics.ProfileCacheTotal.WithLabelValues("hit").Inc()
		return p, nil
	}
	if !errors.Is(err, internalerr.ErrNotFound) {
		return nil, err
	}
	metrics.ProfileCacheTotal.WithLabelValues("miss").Inc()

	rawPath := filepath.Join(e.reviewDir, catalog.ReviewFileName(id))
	reviews, _, err := ingest.LoadReviews(ctx, rawPath)
	if errors.Is(err, internalerr.ErrNotFound) {
		return nil, fmt.Errorf("wine %s has no reviews: %w: %w", id, internalerr.ErrInsufficientData, internalerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	p, err = e.BuildProfile(reviews)
	if err != nil {
		return nil, fmt.Errorf("wine %s: %w", id, err)
	}
	if err := e.store.PutProfile(ctx, id.String(), p); err != nil {
		return nil, err
	}
	return p, nil
}

// SynthesizeCurves builds the streamgraph bands for a profile
func (e *Engine) SynthesizeCurves(p profile.Profile, f curve.Fidelity) curve.Set {
	return e.synth.Synthesize(p, f)
}

// CurvesFor loads or builds a wine's profile and synthesizes its curves
func (e *Engine) CurvesFor(ctx context.Context, id catalog.WineID, f curve.Fidelity) (curve.Set, error) {
	p, err := e.ProfileFor(ctx, id)
	if err != nil {
		return curve.Set{Fidelity: f}, err
	}
	return e.SynthesizeCurves(p, f), nil
}

// Rank orders pool by similarity to target. The target's profile is built
// if needed; candidates are compared only when a profile is already stored.
func (e *Engine) Rank(ctx context.Context, target catalog.Wine, pool []catalog.Wine) (similarity.Result, error) {
	tp, err := e.ProfileFor(ctx, target.ID)
	if err != nil {
		if errors.Is(err, internalerr.ErrInsufficientData) {
			return similarity.Result{Target: target}, err
		}
		return similarity.Result{Target: target}, fmt.Errorf("target profile: %w", err)
	}
	src := similarity.SourceFunc(func(ctx context.Context, id catalog.WineID) (profile.Profile, error) {
		return e.store.GetProfile(ctx, id.String())
	})
	return e.ranker.Rank(ctx, target, tp, pool, src)
}

// Recommend ranks pool and turns the top k matches into cards (all matches
// when k <= 0). Nothing is persisted; see SaveCards.
func (e *Engine) Recommend(ctx context.Context, target catalog.Wine, pool []catalog.Wine, k int) ([]cards.Card, similarity.Result, error) {
	res, err := e.Rank(ctx, target, pool)
	if err != nil {
		return nil, res, err
	}
	matches := res.Matches
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return e.cards.BuildAll(matches), res, nil
}

// SaveCards replaces the cards stored for target with out. It reports false
// when the store does not keep cards.
func (e *Engine) SaveCards(ctx context.Context, target catalog.WineID, out []cards.Card) (bool, error) {
	cs, ok := e.store.(store.CardStore)
	if !ok {
		return false, nil
	}
	stored := make([]store.Card, 0, len(out))
	for _, c := range out {
		sc, err := c.ToStore(target.String())
		if err != nil {
			return true, err
		}
		stored = append(stored, sc)
	}
	if err := cs.ReplaceCards(ctx, target.String(), stored); err != nil {
		return true, fmt.Errorf("save cards for %s: %w", target, err)
	}
	return true, nil
}

// Rebuild regenerates stored profiles for wines
func (e *Engine) Rebuild(ctx context.Context, wines []catalog.Wine, force bool) (maintenance.Result, error) {
	r := &maintenance.Rebuilder{Store: e.store, Extractor: e.extractor, ReviewDir: e.reviewDir}
	return r.Rebuild(ctx, wines, force)
}
