package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/vinograph/internal/logger"
	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
)

// Review is one tasting note. Only the cleaned note text is used; every other
// field on the line is ignored.
type Review struct {
	Note string `json:"cleaned_note"`
}

// ReadStats summarizes a review stream.
type ReadStats struct {
	Lines     int // non-blank lines seen
	Accepted  int
	Malformed int // lines that are not a JSON object
	Empty     int // objects with no note text
}

// maxLineSize caps a single review line. Notes are short, but scraped
// exports occasionally carry very long HTML blobs.
const maxLineSize = 4 << 20

// lineReader yields newline-delimited lines. A line longer than max is
// drained and flagged instead of failing the whole stream.
type lineReader struct {
	br  *bufio.Reader
	max int
	buf []byte
}

func newLineReader(r io.Reader, max int) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, 64*1024), max: max}
}

// next returns the next line and whether it exceeded the cap (its content is
// then dropped). It returns io.EOF once the input is exhausted.
func (lr *lineReader) next() ([]byte, bool, error) {
	lr.buf = lr.buf[:0]
	oversize := false
	for {
		frag, isPrefix, err := lr.br.ReadLine()
		if err != nil {
			return nil, false, err
		}
		if !oversize {
			if len(lr.buf)+len(frag) > lr.max {
				oversize = true
				lr.buf = lr.buf[:0]
			} else {
				lr.buf = append(lr.buf, frag...)
			}
		}
		if !isPrefix {
			return lr.buf, oversize, nil
		}
	}
}

// ReadReviews reads newline-delimited JSON reviews from r. Malformed lines,
// oversize lines and lines without a note are skipped with a warning; they
// never fail the read.
func ReadReviews(ctx context.Context, r io.Reader) ([]Review, ReadStats, error) {
	log := logger.FromContext(ctx)
	var (
		reviews []Review
		stats   ReadStats
	)

	lr := newLineReader(r, maxLineSize)
	lineNo := 0
	for {
		raw, oversize, err := lr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read reviews: %v: %w", err, internalerr.ErrIOFailure)
		}
		lineNo++
		if lineNo%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}
		if oversize {
			stats.Lines++
			stats.Malformed++
			log.Warn("skipping oversize review line", zap.Int("line", lineNo), zap.Int("limit", maxLineSize))
			continue
		}
		line := strings.TrimSpace(string(raw))
		if line == "" {
			continue
		}
		stats.Lines++

		var rv Review
		if err := json.Unmarshal([]byte(line), &rv); err != nil {
			stats.Malformed++
			log.Warn("skipping malformed review line", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		rv.Note = StripMarkup(rv.Note)
		if strings.TrimSpace(rv.Note) == "" {
			stats.Empty++
			continue
		}
		stats.Accepted++
		reviews = append(reviews, rv)
	}
	return reviews, stats, nil
}

// LoadReviews reads a review file. Open and read errors are reported as
// internalerr.ErrIOFailure; a missing file additionally matches
// internalerr.ErrNotFound.
func LoadReviews(ctx context.Context, path string) ([]Review, ReadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ReadStats{}, fmt.Errorf("open reviews %s: %w: %w", path, internalerr.ErrNotFound, internalerr.ErrIOFailure)
		}
		return nil, ReadStats{}, fmt.Errorf("open reviews %s: %v: %w", path, err, internalerr.ErrIOFailure)
	}
	defer f.Close()

	reviews, stats, err := ReadReviews(ctx, f)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", path, err)
	}
	if stats.Malformed > 0 {
		logger.FromContext(ctx).Info("review file had malformed lines",
			zap.String("path", path),
			zap.Int("malformed", stats.Malformed),
			zap.Int("accepted", stats.Accepted))
	}
	return reviews, stats, nil
}

// CountLines counts non-blank lines in a review file without decoding them.
func CountLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("open reviews %s: %w", path, internalerr.ErrNotFound)
		}
		return 0, fmt.Errorf("open reviews %s: %v: %w", path, err, internalerr.ErrIOFailure)
	}
	defer f.Close()

	n := 0
	lr := newLineReader(f, maxLineSize)
	for {
		raw, oversize, err := lr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, fmt.Errorf("count reviews %s: %v: %w", path, err, internalerr.ErrIOFailure)
		}
		if oversize || len(bytes.TrimSpace(raw)) > 0 {
			n++
		}
	}
	return n, nil
}
