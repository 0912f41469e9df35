package cards

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/vinograph/pkg/vinograph/similarity"
	"github.com/cognicore/vinograph/pkg/vinograph/store"
)

// maxNotes caps the flavor notes listed in one bullet.
const maxNotes = 5

// Builder constructs explainable recommendation cards
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates a new card builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Card is one recommended wine with the reasons it was picked
type Card struct {
	ID             string
	WineID         string
	Title          string
	Bullets        []string
	ScoreBreakdown map[string]float64
	Explain        Explain
}

// Explain lists the flavor-phase dimensions behind the score
type Explain struct {
	SharedKeys []string
	AlienKeys  []string
}

// Build creates a card for a ranked match
func (b *Builder) Build(m similarity.Match) Card {
	w := m.Wine
	s := m.Score

	title := w.Name
	if title == "" {
		title = "Wine " + w.ID.String()
	}

	card := Card{
		ID:     b.newID(),
		WineID: w.ID.String(),
		Title:  title,
		ScoreBreakdown: map[string]float64{
			"final":       s.Final,
			"flavor":      s.Flavor,
			"cosine":      s.Cosine,
			"alien_ratio": s.AlienRatio,
			"structure":   s.Structure,
		},
		Explain: Explain{
			SharedKeys: append([]string{}, s.Shared...),
			AlienKeys:  append([]string{}, s.Alien...),
		},
	}

	if origin := origin(w.Winery, w.Country, w.Region); origin != "" {
		card.Bullets = append(card.Bullets, origin)
	}
	card.Bullets = append(card.Bullets, fmt.Sprintf("Match %.0f%% (flavor %.0f%%, structure %.0f%%)",
		s.Final*100, s.Flavor*100, s.Structure*100))
	if len(s.Shared) > 0 {
		card.Bullets = append(card.Bullets, "Shared notes: "+describe(s.Shared))
	}
	if len(s.Alien) > 0 {
		card.Bullets = append(card.Bullets, "Also shows: "+describe(s.Alien))
	}
	// the structure gate guarantees both wines define the same scores
	if defined := similarity.StructureOf(w).Defined(); len(defined) > 0 {
		card.Bullets = append(card.Bullets, "Structure compared on "+strings.Join(defined, ", "))
	}
	return card
}

// BuildAll creates one card per match, keeping the ranking order
func (b *Builder) BuildAll(matches []similarity.Match) []Card {
	out := make([]Card, 0, len(matches))
	for _, m := range matches {
		out = append(out, b.Build(m))
	}
	return out
}

// ToStore converts a card for persistence under the target wine
func (c Card) ToStore(targetID string) (store.Card, error) {
	score, err := json.Marshal(c.ScoreBreakdown)
	if err != nil {
		return store.Card{}, fmt.Errorf("encode card score: %w", err)
	}
	return store.Card{
		ID:        c.ID,
		WineID:    targetID,
		Title:     c.Title,
		Bullets:   append([]string{}, c.Bullets...),
		Sources:   []string{c.WineID},
		ScoreJSON: string(score),
	}, nil
}

// ulid's monotonic entropy is not safe for concurrent use.
func (b *Builder) newID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ulid.MustNew(ulid.Now(), b.entropy).String()
}

func origin(winery, country string, region []string) string {
	var parts []string
	if winery != "" {
		parts = append(parts, winery)
	}
	place := append([]string{}, region...)
	if country != "" && (len(place) == 0 || !strings.EqualFold(place[0], country)) {
		place = append([]string{country}, place...)
	}
	if len(place) > 0 {
		parts = append(parts, strings.Join(place, " / "))
	}
	return strings.Join(parts, ", ")
}

var phaseNames = map[similarity.Phase]string{
	similarity.Early: "nose",
	similarity.Mid:   "palate",
	similarity.Late:  "finish",
}

// describe turns "cherry_early" keys into "cherry (nose)".
func describe(keys []string) string {
	n := len(keys)
	if n > maxNotes {
		n = maxNotes
	}
	notes := make([]string, 0, n+1)
	for _, k := range keys[:n] {
		notes = append(notes, noteName(k))
	}
	if extra := len(keys) - n; extra > 0 {
		notes = append(notes, fmt.Sprintf("+%d more", extra))
	}
	return strings.Join(notes, ", ")
}

func noteName(key string) string {
	i := strings.LastIndexByte(key, '_')
	if i < 0 {
		return key
	}
	flavor, phase := key[:i], similarity.Phase(key[i+1:])
	if name, ok := phaseNames[phase]; ok {
		return flavor + " (" + name + ")"
	}
	return key
}
