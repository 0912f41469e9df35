package ingest

import (
	"reflect"
	"testing"

	"github.com/cognicore/vinograph/pkg/vinograph/lexicon"
)

func matchAll(m *Matcher, text string) []string {
	tokens := NormalizeAll(Tokenize(text))
	var keys []string
	for i := 0; i < len(tokens); {
		term, step, ok := m.Match(tokens, i)
		if ok {
			keys = append(keys, term.Key)
		}
		i += step
	}
	return keys
}

func TestMatcherBigramPrecedence(t *testing.T) {
	m := NewMatcher(lexicon.Default())

	got := matchAll(m, "Green bell pepper and black pepper, then pepper.")
	want := []string{"capsicum", "pepper", "pepper"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("matches = %v, want %v", got, want)
	}
}

func TestMatcherBigramConsumesSecondWord(t *testing.T) {
	m := NewMatcher(lexicon.Default())
	tokens := NormalizeAll(Tokenize("bell pepper"))

	term, step, ok := m.Match(tokens, 0)
	if !ok || term.Key != "capsicum" || step != 2 {
		t.Errorf("Match = %+v, step %d, ok %v; want capsicum step 2", term, step, ok)
	}
}

func TestMatcherPlurals(t *testing.T) {
	m := NewMatcher(lexicon.Default())

	tests := []struct {
		word string
		want string
	}{
		{"cherries", "cherry"},
		{"Plums,", "plum"},
		{"raspberries!", "raspberry"},
		{"cloves", "clove"},
		{"truffles", "truffle"},
	}
	for _, tt := range tests {
		term, _, ok := m.Match([]string{Normalize(tt.word)}, 0)
		if !ok || term.Key != tt.want {
			t.Errorf("Match(%q) = %+v, %v; want %q", tt.word, term, ok, tt.want)
		}
	}
}

func TestMatcherTriggers(t *testing.T) {
	m := NewMatcher(lexicon.Default())

	term, step, ok := m.Match([]string{"red", "fruit"}, 0)
	if !ok || term.Kind != lexicon.KindTrigger || term.Key != "red fruit" || step != 2 {
		t.Errorf("Match(red fruit) = %+v, step %d, ok %v", term, step, ok)
	}
}

func TestMatcherNoMatch(t *testing.T) {
	m := NewMatcher(lexicon.Default())
	tokens := []string{"a", "", "wine"}
	for i := range tokens {
		if _, step, ok := m.Match(tokens, i); ok || step != 1 {
			t.Errorf("Match(%q) should not match, step %d", tokens[i], step)
		}
	}
	if _, _, ok := m.Match(tokens, 5); ok {
		t.Error("out of range index should not match")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Cherry.", "cherry"},
		{"(oak)", "oak"},
		{`"vanilla"`, "vanilla"},
		{"finish:", "finish"},
		{"...", ""},
		{"don't", "don't"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
