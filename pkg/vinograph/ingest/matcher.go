package ingest

import (
	"strings"

	"github.com/cognicore/vinograph/pkg/vinograph/lexicon"
)

// Matcher recognizes lexicon terms in a normalized token stream using greedy
// longest match: a two-word phrase wins over its first word, then the single
// word, then a crude singular form.
type Matcher struct {
	lex *lexicon.Lexicon
}

// NewMatcher creates a matcher over lex.
func NewMatcher(lex *lexicon.Lexicon) *Matcher {
	return &Matcher{lex: lex}
}

// Match tries to recognize a term starting at tokens[i]. tokens must already
// be normalized. step is how many tokens the match consumed (1 or 2); it is 1
// when nothing matched.
func (m *Matcher) Match(tokens []string, i int) (lexicon.Term, int, bool) {
	if i < 0 || i >= len(tokens) {
		return lexicon.Term{}, 1, false
	}
	word := tokens[i]

	if i+1 < len(tokens) {
		if term, ok := m.lex.Lookup(word + " " + tokens[i+1]); ok {
			return term, 2, true
		}
	}
	if word == "" {
		return lexicon.Term{}, 1, false
	}
	if term, ok := m.lex.Lookup(word); ok {
		return term, 1, true
	}

	// plural fallback: "cherries" -> "cherry", "plums" -> "plum"
	switch {
	case strings.HasSuffix(word, "ies"):
		if term, ok := m.lex.Lookup(strings.TrimSuffix(word, "ies") + "y"); ok {
			return term, 1, true
		}
	case strings.HasSuffix(word, "s"):
		if term, ok := m.lex.Lookup(strings.TrimRight(word, "s")); ok {
			return term, 1, true
		}
	}
	return lexicon.Term{}, 1, false
}
