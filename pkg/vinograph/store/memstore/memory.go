package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
	"github.com/cognicore/vinograph/pkg/vinograph/profile"
	"github.com/cognicore/vinograph/pkg/vinograph/store"
)

// Store is an in-memory implementation of store.Store and store.CardStore
// for tests.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]profile.Profile
	cards    map[string]store.Card
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		profiles: make(map[string]profile.Profile),
		cards:    make(map[string]store.Card),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// GetProfile returns a copy of the stored profile.
func (s *Store) GetProfile(ctx context.Context, wineID string) (profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[wineID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", wineID, internalerr.ErrNotFound)
	}
	return p.Clone(), nil
}

// PutProfile stores a copy of p.
func (s *Store) PutProfile(ctx context.Context, wineID string, p profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[wineID] = p.Clone()
	return nil
}

// DeleteProfile removes a profile. Deleting a missing profile is not an error.
func (s *Store) DeleteProfile(ctx context.Context, wineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.profiles, wineID)
	return nil
}

// ListProfiles returns stored wine ids, sorted.
func (s *Store) ListProfiles(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// UpsertCard inserts or replaces a card by ID.
func (s *Store) UpsertCard(ctx context.Context, c store.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cards[c.ID] = copyCard(c)
	return nil
}

// ReplaceCards swaps the cards stored for a target wine.
func (s *Store) ReplaceCards(ctx context.Context, wineID string, cards []store.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.cards {
		if c.WineID == wineID {
			delete(s.cards, id)
		}
	}
	for _, c := range cards {
		c.WineID = wineID
		s.cards[c.ID] = copyCard(c)
	}
	return nil
}

// GetCardsForWine returns up to k cards for a target wine, newest first.
func (s *Store) GetCardsForWine(ctx context.Context, wineID string, k int) ([]store.Card, error) {
	if k <= 0 {
		k = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Card
	for _, c := range s.cards {
		if c.WineID == wineID {
			out = append(out, copyCard(c))
		}
	}
	// ulid ids sort by creation time
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func copyCard(c store.Card) store.Card {
	c.Bullets = append([]string(nil), c.Bullets...)
	c.Sources = append([]string(nil), c.Sources...)
	return c
}
