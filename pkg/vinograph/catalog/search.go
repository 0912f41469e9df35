package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s, strips accents (ö -> o, é -> e) and trims spaces.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(strings.ToLower(out))
}

// Search returns the wines whose name, winery or region contains query after
// folding both sides. A blank query matches nothing. Catalog order is kept.
func Search(wines []Wine, query string) []Wine {
	q := Fold(query)
	if q == "" {
		return nil
	}
	var out []Wine
	for _, w := range wines {
		if strings.Contains(Fold(w.Name), q) ||
			strings.Contains(Fold(w.Winery), q) ||
			strings.Contains(Fold(w.Region.Join(" ")), q) {
			out = append(out, w)
		}
	}
	return out
}
