package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"github.com/cognicore/vinograph/pkg/vinograph/cards"
	"github.com/cognicore/vinograph/pkg/vinograph/catalog"
	"github.com/cognicore/vinograph/pkg/vinograph/curve"
	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
	"github.com/cognicore/vinograph/pkg/vinograph/profile"
	"github.com/cognicore/vinograph/pkg/vinograph/similarity"
)

func runProfile(ctx context.Context, args []string, out io.Writer) error {
	fs, configPath := newFlagSet("profile")
	var (
		id      = fs.String("id", "", "Wine id (uses the configured review and profile stores)")
		rawPath = fs.String("raw", "", "Raw review JSONL (with -out, memoizes to an explicit artifact)")
		outPath = fs.String("out", "", "Profile artifact path for -raw")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" && *rawPath == "" {
		return errors.New("--id or --raw required")
	}
	if *rawPath != "" && *outPath == "" {
		return errors.New("--out required with --raw")
	}

	a, cleanup, err := buildEngine(ctx, *configPath)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx = a.context(ctx)

	var p profile.Profile
	if *rawPath != "" {
		p, err = a.engine.LoadOrBuildProfile(ctx, *rawPath, *outPath)
	} else {
		p, err = a.engine.ProfileFor(ctx, catalog.WineID(*id))
	}
	if err != nil {
		return err
	}
	if err := profile.Encode(out, p); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return nil
}

func runCurves(ctx context.Context, args []string, out io.Writer) error {
	fs, configPath := newFlagSet("curves")
	var (
		id       = fs.String("id", "", "Wine id (required)")
		fidelity = fs.String("fidelity", "full", "full or thumbnail")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("--id required")
	}
	f, ok := curve.ParseFidelity(*fidelity)
	if !ok {
		return fmt.Errorf("unknown fidelity %q", *fidelity)
	}

	a, cleanup, err := buildEngine(ctx, *configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	set, err := a.engine.CurvesFor(a.context(ctx), catalog.WineID(*id), f)
	if err != nil {
		return err
	}
	printCurves(out, *id, set)
	return nil
}

func printCurves(out io.Writer, id string, set curve.Set) {
	if set.Empty() {
		fmt.Fprintf(out, "Wine %s: nothing to draw.\n", id)
		return
	}
	fmt.Fprintf(out, "Wine %s: %d bands on %d points (%s)\n", id, len(set.Bands), len(set.X), set.Fidelity)
	// top of the stack first, the way it is drawn
	for i := len(set.Bands) - 1; i >= 0; i-- {
		b := set.Bands[i]
		fmt.Fprintf(out, "  %-16s %-12s %s  mass %.3f", b.Key, b.Category, b.Color.Hex(), b.Mass)
		if b.Label.Visible {
			fmt.Fprintf(out, "  label %q at x=%.2f (%dpt, %.0f°)", b.Label.Text, b.Label.X, b.Label.FontSize, b.Label.Angle)
		}
		fmt.Fprintln(out)
	}
}

func runSimilar(ctx context.Context, args []string, out io.Writer) error {
	fs, configPath := newFlagSet("similar")
	var (
		id   = fs.String("id", "", "Target wine id (required)")
		topK = fs.Int("k", 5, "Number of recommendations (0 = all)")
		save = fs.Bool("save", false, "Replace the target's stored cards with these")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("--id required")
	}

	a, cleanup, err := buildEngine(ctx, *configPath)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx = a.context(ctx)

	wines, _, err := catalog.Load(ctx, a.cfg.Paths.Catalog)
	if err != nil {
		return err
	}
	target, ok := catalog.Find(wines, catalog.WineID(*id))
	if !ok {
		return fmt.Errorf("wine %s is not in the catalog: %w", *id, internalerr.ErrNotFound)
	}

	recs, res, err := a.engine.Recommend(ctx, target, wines, *topK)
	if err != nil {
		return err
	}
	printCards(out, recs, res.Stats)

	if *save {
		kept, err := a.engine.SaveCards(ctx, target.ID, recs)
		if err != nil {
			return err
		}
		if !kept {
			fmt.Fprintf(out, "Store backend %q does not keep cards; nothing saved.\n", a.cfg.Store.Backend)
		} else {
			fmt.Fprintf(out, "Saved %d cards for wine %s\n", len(recs), target.ID)
		}
	}
	return nil
}

func printCards(out io.Writer, cs []cards.Card, stats similarity.Stats) {
	if len(cs) == 0 {
		fmt.Fprintln(out, "No similar wines found.")
	}
	for i, card := range cs {
		fmt.Fprintf(out, "\n--- Card %d: %s ---\n", i+1, card.Title)
		for _, bullet := range card.Bullets {
			fmt.Fprintln(out, "  •", bullet)
		}

		fmt.Fprintln(out, "\nScore Breakdown:")
		keys := make([]string, 0, len(card.ScoreBreakdown))
		for k := range card.ScoreBreakdown {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  %s: %.2f\n", k, card.ScoreBreakdown[k])
		}
	}
	fmt.Fprintf(out, "\n%d of %d wines matched (%d gated, %d without profile, %d below cutoff, %d failed)\n",
		stats.Matched, stats.Pool-stats.Self, stats.Gated, stats.NoProfile, stats.BelowCutoff, stats.Failed)
}

func runSearch(ctx context.Context, args []string, out io.Writer) error {
	fs, configPath := newFlagSet("search")
	query := fs.String("q", "", "Search text (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *query == "" {
		return errors.New("--q required")
	}

	a, cleanup, err := buildEngine(ctx, *configPath)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx = a.context(ctx)

	wines, _, err := catalog.Load(ctx, a.cfg.Paths.Catalog)
	if err != nil {
		return err
	}
	hits := catalog.Search(wines, *query)
	if len(hits) == 0 {
		fmt.Fprintln(out, "No wines found.")
		return nil
	}
	for _, w := range hits {
		status := "ready"
		n, err := a.comp.Reviews.Count(w.ID)
		if err != nil {
			a.log.Warn("counting reviews failed", zap.String("wine_id", w.ID.String()), zap.Error(err))
			status = "unknown"
		} else if !catalog.Eligible(n) {
			status = fmt.Sprintf("disabled (%d reviews)", n)
		}
		fmt.Fprintf(out, "%-10s %-40s %-24s %s\n", w.ID, w.Name, w.Winery, status)
	}
	return nil
}

func runRegions(ctx context.Context, args []string, out io.Writer) error {
	fs, configPath := newFlagSet("regions")
	var (
		outPath     = fs.String("out", "", "Region map path (defaults to paths.region_map)")
		reviewFiles = fs.Bool("review-files", false, "Count reviews from raw files instead of catalog metadata")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, cleanup, err := buildEngine(ctx, *configPath)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx = a.context(ctx)

	path := *outPath
	if path == "" {
		path = a.cfg.Paths.RegionMap
	}

	wines, _, err := catalog.Load(ctx, a.cfg.Paths.Catalog)
	if err != nil {
		return err
	}
	existing, err := catalog.LoadRegionMap(path)
	if err != nil {
		return err
	}

	var counts func(catalog.Wine) int
	if *reviewFiles {
		counts = func(w catalog.Wine) int {
			n, err := a.comp.Reviews.Count(w.ID)
			if err != nil {
				return 0
			}
			return n
		}
	}
	m, added := catalog.BuildRegionMap(wines, counts, existing)
	if err := catalog.SaveRegionMap(path, m); err != nil {
		return err
	}
	fmt.Fprintf(out, "Added %d wineries (%d total) to %s\n", added, len(m), path)
	return nil
}

func runRebuild(ctx context.Context, args []string, out io.Writer) error {
	fs, configPath := newFlagSet("rebuild")
	force := fs.Bool("force", false, "Re-extract wines that already have a profile")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, cleanup, err := buildEngine(ctx, *configPath)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx = a.context(ctx)

	wines, _, err := catalog.Load(ctx, a.cfg.Paths.Catalog)
	if err != nil {
		return err
	}
	res, err := a.engine.Rebuild(ctx, wines, *force)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Processed %d: rebuilt %d, skipped %d, no reviews %d, insufficient %d, errors %d\n",
		res.Processed, res.Rebuilt, res.Skipped, res.Missing, res.Insufficient, res.Errors)
	return nil
}
