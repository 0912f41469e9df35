package maintenance

import (
	"context"
	"errors"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cognicore/vinograph/internal/logger"
	"github.com/cognicore/vinograph/internal/metrics"
	"github.com/cognicore/vinograph/pkg/vinograph/catalog"
	"github.com/cognicore/vinograph/pkg/vinograph/extract"
	"github.com/cognicore/vinograph/pkg/vinograph/ingest"
	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
	"github.com/cognicore/vinograph/pkg/vinograph/store"
)

// Rebuilder regenerates stored profiles, typically after the lexicon changed.
type Rebuilder struct {
	Store     store.Store
	Extractor *extract.Extractor
	ReviewDir string
}

// Result summarizes a rebuild run.
type Result struct {
	Processed    int
	Skipped      int // profile already present
	Rebuilt      int
	Missing      int // no review file
	Insufficient int // reviews yield no profile
	Errors       int
}

// Rebuild walks wines in order. Without force, wines that already have a
// profile are skipped. With force, every wine is re-extracted and a wine
// whose reviews no longer yield a profile loses its stale one. A failing
// wine is counted and never stops the run.
func (r *Rebuilder) Rebuild(ctx context.Context, wines []catalog.Wine, force bool) (Result, error) {
	var res Result
	if r.Store == nil || r.Extractor == nil {
		return res, errors.New("rebuilder: invalid configuration")
	}
	log := logger.FromContext(ctx)

	for _, w := range wines {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Processed++
		id := w.ID.String()

		if !force {
			_, err := r.Store.GetProfile(ctx, id)
			if err == nil {
				res.Skipped++
				continue
			}
			if !errors.Is(err, internalerr.ErrNotFound) {
				log.Warn("profile lookup failed", zap.String("wine_id", id), zap.Error(err))
				res.Errors++
				continue
			}
		}

		path := filepath.Join(r.ReviewDir, catalog.ReviewFileName(w.ID))
		reviews, _, err := ingest.LoadReviews(ctx, path)
		if errors.Is(err, internalerr.ErrNotFound) {
			res.Missing++
			continue
		}
		if err != nil {
			log.Warn("reading reviews failed", zap.String("wine_id", id), zap.Error(err))
			res.Errors++
			continue
		}

		p, err := r.Extractor.Extract(reviews)
		if errors.Is(err, internalerr.ErrInsufficientData) {
			metrics.ProfilesBuiltTotal.WithLabelValues("insufficient").Inc()
			res.Insufficient++
			if force {
				if err := r.Store.DeleteProfile(ctx, id); err != nil {
					log.Warn("dropping stale profile failed", zap.String("wine_id", id), zap.Error(err))
				}
			}
			continue
		}
		if err != nil {
			metrics.ProfilesBuiltTotal.WithLabelValues("error").Inc()
			res.Errors++
			continue
		}
		if err := r.Store.PutProfile(ctx, id, p); err != nil {
			metrics.ProfilesBuiltTotal.WithLabelValues("error").Inc()
			log.Warn("storing profile failed", zap.String("wine_id", id), zap.Error(err))
			res.Errors++
			continue
		}
		metrics.ProfilesBuiltTotal.WithLabelValues("ok").Inc()
		res.Rebuilt++
	}

	log.Info("rebuild finished",
		zap.Int("processed", res.Processed),
		zap.Int("rebuilt", res.Rebuilt),
		zap.Int("skipped", res.Skipped),
		zap.Int("errors", res.Errors))
	return res, nil
}
