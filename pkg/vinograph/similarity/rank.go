package similarity

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/vinograph/internal/logger"
	"github.com/cognicore/vinograph/internal/metrics"
	"github.com/cognicore/vinograph/pkg/vinograph/catalog"
	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
	"github.com/cognicore/vinograph/pkg/vinograph/profile"
)

// ProfileSource supplies candidate profiles. A missing profile is reported
// as internalerr.ErrNotFound or internalerr.ErrInsufficientData.
type ProfileSource interface {
	Profile(ctx context.Context, id catalog.WineID) (profile.Profile, error)
}

// SourceFunc adapts a function to ProfileSource.
type SourceFunc func(ctx context.Context, id catalog.WineID) (profile.Profile, error)

// Profile implements ProfileSource.
func (f SourceFunc) Profile(ctx context.Context, id catalog.WineID) (profile.Profile, error) {
	return f(ctx, id)
}

// Match is one ranked candidate.
type Match struct {
	Wine  catalog.Wine
	Score ScoreBreakdown
}

// Stats counts what happened to every wine in the pool.
type Stats struct {
	Pool        int
	Self        int
	Gated       int // structural scores defined differently
	NoProfile   int
	Failed      int // profile could not be loaded
	BelowCutoff int
	Matched     int
}

// Result is a finished ranking. An empty Matches with a nil error means the
// ranking ran and nothing passed.
type Result struct {
	Target  catalog.Wine
	Matches []Match
	Stats   Stats
}

// Ranker scores a pool of candidates against a target in parallel.
type Ranker struct {
	scorer *Scorer
}

// NewRanker creates a ranker.
func NewRanker(s *Scorer) *Ranker {
	return &Ranker{scorer: s}
}

type outcome int

const (
	outPending outcome = iota
	outSelf
	outGated
	outNoProfile
	outFailed
	outBelowCutoff
	outMatched
)

type slot struct {
	outcome outcome
	score   ScoreBreakdown
}

// Rank orders pool by similarity to target. Candidates are gated on their
// structure before their profile is loaded; a candidate whose profile cannot
// be loaded is left out without failing the ranking. Matches are sorted by
// final score descending, ties in pool order.
//
// An empty target profile returns internalerr.ErrInsufficientData.
func (r *Ranker) Rank(ctx context.Context, target catalog.Wine, targetProfile profile.Profile, pool []catalog.Wine, src ProfileSource) (Result, error) {
	res := Result{Target: target}
	tv := Vectorize(targetProfile)
	if len(tv) == 0 {
		return res, fmt.Errorf("rank %s: %w", target.ID, internalerr.ErrInsufficientData)
	}
	ts := StructureOf(target)
	log := logger.FromContext(ctx)

	slots := make([]slot, len(pool))
	g, gctx := errgroup.WithContext(ctx)
	workers := r.scorer.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for i := range pool {
		i := i
		cand := pool[i]
		if cand.ID == target.ID {
			slots[i].outcome = outSelf
			continue
		}
		cs := StructureOf(cand)
		if !SameStructure(ts, cs) {
			slots[i].outcome = outGated
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := src.Profile(gctx, cand.ID)
			switch {
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				return err
			case errors.Is(err, internalerr.ErrNotFound) || errors.Is(err, internalerr.ErrInsufficientData):
				slots[i].outcome = outNoProfile
				return nil
			case err != nil:
				log.Warn("skipping candidate", zap.String("wine_id", cand.ID.String()), zap.Error(err))
				slots[i].outcome = outFailed
				return nil
			}
			cv := Vectorize(p)
			if len(cv) == 0 {
				slots[i].outcome = outNoProfile
				return nil
			}
			b, ok := r.scorer.Score(tv, cv, ts, cs)
			if !ok {
				slots[i].outcome = outBelowCutoff
				return nil
			}
			slots[i] = slot{outcome: outMatched, score: b}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, fmt.Errorf("rank %s: %w", target.ID, err)
	}

	res.Stats.Pool = len(pool)
	for i, s := range slots {
		switch s.outcome {
		case outSelf:
			res.Stats.Self++
		case outGated:
			res.Stats.Gated++
			metrics.RankCandidatesTotal.WithLabelValues("gated").Inc()
		case outNoProfile:
			res.Stats.NoProfile++
			metrics.RankCandidatesTotal.WithLabelValues("no_profile").Inc()
		case outFailed:
			res.Stats.Failed++
			metrics.RankCandidatesTotal.WithLabelValues("failed").Inc()
		case outBelowCutoff:
			res.Stats.BelowCutoff++
			metrics.RankCandidatesTotal.WithLabelValues("below_cutoff").Inc()
		case outMatched:
			res.Stats.Matched++
			metrics.RankCandidatesTotal.WithLabelValues("matched").Inc()
			res.Matches = append(res.Matches, Match{Wine: pool[i], Score: s.score})
		}
	}
	sort.SliceStable(res.Matches, func(a, b int) bool {
		return res.Matches[a].Score.Final > res.Matches[b].Score.Final
	})

	log.Debug("ranking finished",
		zap.String("target", target.ID.String()),
		zap.Int("pool", res.Stats.Pool),
		zap.Int("matched", res.Stats.Matched),
		zap.Int("gated", res.Stats.Gated))
	return res, nil
}
