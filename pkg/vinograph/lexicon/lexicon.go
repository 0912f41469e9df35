package lexicon

import (
	"sort"
	"strings"
)

// Kind tags what a surface word resolves to.
type Kind int

const (
	// KindFlavor is a renderable flavor with a category and color.
	KindFlavor Kind = iota
	// KindTrigger is a category booster word ("earthy", "fruity"). It is
	// counted during extraction but never rendered as a band.
	KindTrigger
)

func (k Kind) String() string {
	switch k {
	case KindFlavor:
		return "flavor"
	case KindTrigger:
		return "trigger"
	default:
		return "unknown"
	}
}

// Term is the result of resolving a surface word.
type Term struct {
	Kind Kind
	Key  string // canonical flavor key or trigger word
}

// Flavor is a canonical flavor entry.
type Flavor struct {
	Key      string
	Category string
	Color    Color
}

// Trigger amplifies every flavor in Categories when it is over-mentioned.
type Trigger struct {
	Key        string
	Categories []string
}

// Lexicon stores the wine tasting vocabulary:
//   - Flavors: canonical key -> category and display color
//   - Aliases: surface word (or two-word phrase) -> canonical key
//   - Triggers: booster words -> categories they amplify
//   - Anchors: words that move the narrative clock (nose, palate, finish)
//   - Intensity: modifiers that scale a mention's weight
//
// A Lexicon is built once and then only read, so it is safe to share between
// goroutines after construction.
type Lexicon struct {
	flavors  map[string]Flavor
	triggers map[string]Trigger

	// surface word -> term
	aliases map[string]Term

	// canonical/trigger key -> surface words pointing at it
	// Example: "chocolate" -> ["chocolate", "cocoa"]
	variants map[string][]string

	anchors   map[string]float64
	intensity map[string]float64
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		flavors:   make(map[string]Flavor),
		triggers:  make(map[string]Trigger),
		aliases:   make(map[string]Term),
		variants:  make(map[string][]string),
		anchors:   make(map[string]float64),
		intensity: make(map[string]float64),
	}
}

// AddFlavor registers a flavor. The first word is the canonical key, the rest
// are aliases. If the canonical key already exists its old aliases are removed
// first, so every canonical key keeps exactly one category and color.
func (l *Lexicon) AddFlavor(category string, color Color, words ...string) {
	words = normalizeWords(words)
	if len(words) == 0 {
		return
	}
	key := words[0]
	l.dropKey(key)
	delete(l.triggers, key)

	l.flavors[key] = Flavor{Key: key, Category: category, Color: color}
	l.bind(Term{Kind: KindFlavor, Key: key}, words)
}

// AddTrigger registers a booster. The first word is the trigger key.
func (l *Lexicon) AddTrigger(categories []string, words ...string) {
	words = normalizeWords(words)
	if len(words) == 0 {
		return
	}
	key := words[0]
	l.dropKey(key)
	delete(l.flavors, key)

	cats := make([]string, len(categories))
	copy(cats, categories)
	l.triggers[key] = Trigger{Key: key, Categories: cats}
	l.bind(Term{Kind: KindTrigger, Key: key}, words)
}

// SetAnchor maps a word to a normalized narrative position in [0,1].
func (l *Lexicon) SetAnchor(word string, pos float64) {
	l.anchors[strings.ToLower(strings.TrimSpace(word))] = pos
}

// SetIntensity maps a modifier word to a weight multiplier in (0,1].
func (l *Lexicon) SetIntensity(word string, mult float64) {
	l.intensity[strings.ToLower(strings.TrimSpace(word))] = mult
}

func (l *Lexicon) bind(term Term, words []string) {
	for _, w := range words {
		// A surface word moving to a new key must leave its old variant list.
		if prev, ok := l.aliases[w]; ok && prev.Key != term.Key {
			l.variants[prev.Key] = removeString(l.variants[prev.Key], w)
		}
		l.aliases[w] = term
	}
	l.variants[term.Key] = words
}

func (l *Lexicon) dropKey(key string) {
	for _, w := range l.variants[key] {
		if t, ok := l.aliases[w]; ok && t.Key == key {
			delete(l.aliases, w)
		}
	}
	delete(l.variants, key)
}

// Lookup resolves a normalized surface word or two-word phrase.
func (l *Lexicon) Lookup(word string) (Term, bool) {
	t, ok := l.aliases[word]
	return t, ok
}

// Flavor returns the renderable entry for a canonical key.
func (l *Lexicon) Flavor(key string) (Flavor, bool) {
	f, ok := l.flavors[key]
	return f, ok
}

// IsTrigger reports whether key is a category booster rather than a flavor.
func (l *Lexicon) IsTrigger(key string) bool {
	_, ok := l.triggers[key]
	return ok
}

// Anchor returns the narrative position for an anchor word.
func (l *Lexicon) Anchor(word string) (float64, bool) {
	v, ok := l.anchors[word]
	return v, ok
}

// Intensity returns the multiplier for a modifier word.
func (l *Lexicon) Intensity(word string) (float64, bool) {
	v, ok := l.intensity[word]
	return v, ok
}

// Triggers returns all boosters sorted by key.
func (l *Lexicon) Triggers() []Trigger {
	out := make([]Trigger, 0, len(l.triggers))
	for _, t := range l.triggers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Variants returns every surface word mapped to key (including key itself).
func (l *Lexicon) Variants(key string) []string {
	v := l.variants[key]
	out := make([]string, len(v))
	copy(out, v)
	return out
}

// Clone returns an independent copy.
func (l *Lexicon) Clone() *Lexicon {
	c := New()
	for k, v := range l.flavors {
		c.flavors[k] = v
	}
	for k, v := range l.triggers {
		cats := make([]string, len(v.Categories))
		copy(cats, v.Categories)
		c.triggers[k] = Trigger{Key: v.Key, Categories: cats}
	}
	for k, v := range l.aliases {
		c.aliases[k] = v
	}
	for k, v := range l.variants {
		words := make([]string, len(v))
		copy(words, v)
		c.variants[k] = words
	}
	for k, v := range l.anchors {
		c.anchors[k] = v
	}
	for k, v := range l.intensity {
		c.intensity[k] = v
	}
	return c
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() Stats {
	cats := make(map[string]struct{})
	for _, f := range l.flavors {
		cats[f.Category] = struct{}{}
	}
	return Stats{
		Flavors:    len(l.flavors),
		Categories: len(cats),
		Aliases:    len(l.aliases),
		Triggers:   len(l.triggers),
		Anchors:    len(l.anchors),
		Modifiers:  len(l.intensity),
	}
}

// Stats holds statistics about lexicon contents.
type Stats struct {
	Flavors    int // canonical flavor keys
	Categories int // distinct flavor categories
	Aliases    int // surface words, including canonical keys
	Triggers   int
	Anchors    int
	Modifiers  int
}

func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.Join(strings.Fields(strings.ToLower(w)), " ")
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func removeString(in []string, s string) []string {
	out := in[:0]
	for _, v := range in {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
