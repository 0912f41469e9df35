package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/cognicore/vinograph/pkg/vinograph/analytics"
	"github.com/cognicore/vinograph/pkg/vinograph/ingest"
)

func runCoverage(ctx context.Context, args []string, out io.Writer) error {
	fs, configPath := newFlagSet("coverage")
	var (
		minSupport = fs.Int("min-support", 3, "Minimum notes a candidate must appear in")
		maxDF      = fs.Float64("max-df", 40, "Drop candidates found in more than this percent of notes (0 = no ceiling)")
		limit      = fs.Int("limit", 25, "Number of candidates to print")
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

	files, err := filepath.Glob(filepath.Join(a.cfg.Paths.Reviews, "wine_*_clean.jsonl"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no review files under %s", a.cfg.Paths.Reviews)
	}
	sort.Strings(files)

	an := analytics.NewAnalyzer(a.comp.Lexicon, nil)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		reviews, _, err := ingest.LoadReviews(ctx, path)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			a.log.Warn("skipping review file", zap.String("path", path), zap.Error(err))
			continue
		}
		for _, r := range reviews {
			an.Process(r.Note)
		}
	}

	stats := an.Snapshot()
	fmt.Fprintf(out, "%d notes in %d files, %.1f%% with at least one flavor\n",
		stats.TotalNotes, len(files), 100*stats.Coverage())

	fmt.Fprintln(out, "\nMost mentioned flavors:")
	for _, c := range stats.TopFlavors(10) {
		fmt.Fprintf(out, "  %-20s %6d notes (%.1f%%)\n", c.Term, c.DF, c.DFPercent)
	}

	cands := stats.Candidates(int64(*minSupport), *maxDF, *limit)
	if len(cands) == 0 {
		fmt.Fprintln(out, "\nNo unknown terms above the support threshold.")
		return nil
	}
	fmt.Fprintln(out, "\nFrequent terms the lexicon does not know:")
	for _, c := range cands {
		fmt.Fprintf(out, "  %-20s %6d notes (%.1f%%)\n", c.Term, c.DF, c.DFPercent)
	}
	return nil
}
