package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cognicore/vinograph/internal/logger"
	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
)

func TestReadReviewsSkipsMalformed(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ctx := logger.ContextWithLogger(context.Background(), zap.New(core))

	input := strings.Join([]string{
		`{"cleaned_note": "Cherry on the nose", "rating": 4}`,
		`not json at all`,
		``,
		`{"cleaned_note": ""}`,
		`{"other": "field"}`,
		`{"cleaned_note": "Long finish with chocolate"}`,
	}, "\n")

	reviews, stats, err := ReadReviews(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadReviews: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("got %d reviews, want 2", len(reviews))
	}
	if reviews[1].Note != "Long finish with chocolate" {
		t.Errorf("second note = %q", reviews[1].Note)
	}
	if stats.Lines != 5 || stats.Accepted != 2 || stats.Malformed != 1 || stats.Empty != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if logs.FilterMessage("skipping malformed review line").Len() != 1 {
		t.Errorf("expected one malformed-line warning, got %d entries", logs.Len())
	}
}

func TestReadReviewsStripsMarkup(t *testing.T) {
	input := `{"cleaned_note": "Cherry<br>vanilla &amp; <b>oak</b>"}`
	reviews, _, err := ReadReviews(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadReviews: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Note != "Cherry vanilla & oak" {
		t.Errorf("reviews = %+v", reviews)
	}
}

func TestReadReviewsSkipsOversizeLine(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ctx := logger.ContextWithLogger(context.Background(), zap.New(core))

	huge := `{"cleaned_note": "` + strings.Repeat("x", maxLineSize) + `"}`
	input := strings.Join([]string{
		`{"cleaned_note": "Cherry on the nose"}`,
		huge,
		`{"cleaned_note": "Plum on the finish"}`,
	}, "\n") + "\n"

	reviews, stats, err := ReadReviews(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadReviews: %v", err)
	}
	if len(reviews) != 2 || reviews[1].Note != "Plum on the finish" {
		t.Fatalf("reviews = %+v", reviews)
	}
	if stats.Lines != 3 || stats.Malformed != 1 || stats.Accepted != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if logs.FilterMessage("skipping oversize review line").Len() != 1 {
		t.Errorf("expected one oversize warning, got %d entries", logs.Len())
	}

	path := filepath.Join(t.TempDir(), "wine_9_clean.jsonl")
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}
	if n, err := CountLines(path); err != nil || n != 3 {
		t.Errorf("CountLines = %d, %v", n, err)
	}
}

func TestStripMarkupPlainText(t *testing.T) {
	in := "Plain note, no tags"
	if got := StripMarkup(in); got != in {
		t.Errorf("StripMarkup(%q) = %q", in, got)
	}
}

func TestLoadReviews(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wine_1.json")
	data := `{"cleaned_note": "plum"}` + "\n" + `{"cleaned_note": "prune"}` + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	reviews, stats, err := LoadReviews(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadReviews: %v", err)
	}
	if len(reviews) != 2 || stats.Accepted != 2 {
		t.Errorf("reviews = %d, stats = %+v", len(reviews), stats)
	}

	n, err := CountLines(path)
	if err != nil || n != 2 {
		t.Errorf("CountLines = %d, %v", n, err)
	}
}

func TestLoadReviewsMissingFile(t *testing.T) {
	_, _, err := LoadReviews(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, internalerr.ErrIOFailure) {
		t.Errorf("err = %v, want ErrIOFailure", err)
	}
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
