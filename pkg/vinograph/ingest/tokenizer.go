package ingest

import "strings"

// trimSet is the punctuation stripped from both ends of a token.
const trimSet = `.,!?;:"'()`

// Tokenize splits a note on whitespace. Tokens keep their punctuation so
// positions line up with the raw text; use Normalize before lookups.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Normalize lower-cases a token and trims surrounding punctuation.
func Normalize(tok string) string {
	return strings.Trim(strings.ToLower(tok), trimSet)
}

// NormalizeAll normalizes every token.
func NormalizeAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = Normalize(t)
	}
	return out
}
