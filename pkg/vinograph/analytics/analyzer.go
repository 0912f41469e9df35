// Package analytics measures how well the lexicon covers a review corpus and
// surfaces frequent words it does not know yet.
package analytics

import (
	"sort"
	"strings"
	"unicode"

	"github.com/cognicore/vinograph/pkg/vinograph/ingest"
	"github.com/cognicore/vinograph/pkg/vinograph/lexicon"
)

// DefaultStopwords are function and filler words that never become flavors.
var DefaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "from",
	"has", "have", "in", "is", "it", "its", "of", "on", "or", "so", "that",
	"the", "this", "to", "too", "very", "was", "with", "wine", "good", "nice",
	"great", "some", "bit", "little", "lots", "more", "not", "quite", "really",
}

// Analyzer aggregates note-level lexicon coverage. It is not safe for
// concurrent use; feed it from one goroutine.
type Analyzer struct {
	lex     *lexicon.Lexicon
	matcher *ingest.Matcher
	stop    map[string]struct{}

	totalNotes   int64
	coveredNotes int64
	tokenDF      map[string]int64 // unknown words, counted once per note
	bigramDF     map[string]int64 // adjacent unknown words, "a b"
	flavorDF     map[string]int64
}

// NewAnalyzer creates an analyzer over lex. A nil stopwords slice uses
// DefaultStopwords.
func NewAnalyzer(lex *lexicon.Lexicon, stopwords []string) *Analyzer {
	if stopwords == nil {
		stopwords = DefaultStopwords
	}
	stop := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stop[ingest.Normalize(w)] = struct{}{}
	}
	return &Analyzer{
		lex:      lex,
		matcher:  ingest.NewMatcher(lex),
		stop:     stop,
		tokenDF:  make(map[string]int64),
		bigramDF: make(map[string]int64),
		flavorDF: make(map[string]int64),
	}
}

// Process consumes one review note.
func (a *Analyzer) Process(note string) {
	tokens := ingest.NormalizeAll(ingest.Tokenize(ingest.StripMarkup(note)))
	a.totalNotes++

	// unknown[i] marks a token the lexicon does not explain
	unknown := make([]bool, len(tokens))
	flavors := make(map[string]struct{})
	for i := 0; i < len(tokens); {
		term, step, ok := a.matcher.Match(tokens, i)
		if ok {
			if term.Kind == lexicon.KindFlavor {
				flavors[term.Key] = struct{}{}
			}
			i += step
			continue
		}
		unknown[i] = a.candidate(tokens[i])
		i++
	}

	if len(flavors) > 0 {
		a.coveredNotes++
	}
	for k := range flavors {
		a.flavorDF[k]++
	}

	seen := make(map[string]struct{})
	for i, tok := range tokens {
		if !unknown[i] {
			continue
		}
		if _, ok := seen[tok]; !ok {
			seen[tok] = struct{}{}
			a.tokenDF[tok]++
		}
		if i+1 < len(tokens) && unknown[i+1] {
			bg := tok + " " + tokens[i+1]
			if _, ok := seen[bg]; !ok {
				seen[bg] = struct{}{}
				a.bigramDF[bg]++
			}
		}
	}
}

// candidate reports whether an unmatched token could name a flavor.
func (a *Analyzer) candidate(tok string) bool {
	if len([]rune(tok)) < 3 {
		return false
	}
	if _, ok := a.stop[tok]; ok {
		return false
	}
	if _, ok := a.lex.Anchor(tok); ok {
		return false
	}
	if _, ok := a.lex.Intensity(tok); ok {
		return false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) && r != '-' {
			return false
		}
	}
	return true
}

// Stats exposes the aggregated counts.
type Stats struct {
	TotalNotes   int64
	CoveredNotes int64 // notes with at least one flavor
	TokenDF      map[string]int64
	BigramDF     map[string]int64
	FlavorDF     map[string]int64
}

// Snapshot returns a copy of the accumulated statistics.
func (a *Analyzer) Snapshot() Stats {
	return Stats{
		TotalNotes:   a.totalNotes,
		CoveredNotes: a.coveredNotes,
		TokenDF:      copyCounts(a.tokenDF),
		BigramDF:     copyCounts(a.bigramDF),
		FlavorDF:     copyCounts(a.flavorDF),
	}
}

// Coverage is the share of notes yielding at least one flavor.
func (s Stats) Coverage() float64 {
	if s.TotalNotes == 0 {
		return 0
	}
	return float64(s.CoveredNotes) / float64(s.TotalNotes)
}

// Candidate is a term ranked by how many notes contain it.
type Candidate struct {
	Term      string
	DF        int64
	DFPercent float64
}

// Candidates returns unknown words and word pairs seen in at least
// minSupport notes, most frequent first. Terms present in more than
// maxDFPercent of notes behave like function words and are dropped
// (maxDFPercent <= 0 disables the ceiling). limit <= 0 returns everything.
func (s Stats) Candidates(minSupport int64, maxDFPercent float64, limit int) []Candidate {
	var out []Candidate
	add := func(counts map[string]int64) {
		for term, df := range counts {
			if df < minSupport {
				continue
			}
			c := s.candidateOf(term, df)
			if maxDFPercent > 0 && c.DFPercent > maxDFPercent {
				continue
			}
			out = append(out, c)
		}
	}
	add(s.TokenDF)
	add(s.BigramDF)
	return rank(out, limit)
}

// TopFlavors returns the flavors mentioned in the most notes.
func (s Stats) TopFlavors(limit int) []Candidate {
	out := make([]Candidate, 0, len(s.FlavorDF))
	for k, df := range s.FlavorDF {
		out = append(out, s.candidateOf(k, df))
	}
	return rank(out, limit)
}

func (s Stats) candidateOf(term string, df int64) Candidate {
	c := Candidate{Term: term, DF: df}
	if s.TotalNotes > 0 {
		c.DFPercent = 100 * float64(df) / float64(s.TotalNotes)
	}
	return c
}

// rank sorts by DF descending; multi-word terms win ties, then alphabetical.
func rank(cs []Candidate, limit int) []Candidate {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].DF != cs[j].DF {
			return cs[i].DF > cs[j].DF
		}
		wi, wj := strings.Count(cs[i].Term, " "), strings.Count(cs[j].Term, " ")
		if wi != wj {
			return wi > wj
		}
		return cs[i].Term < cs[j].Term
	})
	if limit > 0 && len(cs) > limit {
		cs = cs[:limit]
	}
	return cs
}

func copyCounts(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
