package store

import (
	"context"

	"github.com/cognicore/vinograph/pkg/vinograph/profile"
)

// Store persists wine flavor profiles keyed by wine id. It is the
// memoization cache in front of extraction: a profile present in the store
// is never rebuilt unless explicitly invalidated.
type Store interface {
	Close() error

	// GetProfile returns internalerr.ErrNotFound when the wine has no
	// usable profile.
	GetProfile(ctx context.Context, wineID string) (profile.Profile, error)
	PutProfile(ctx context.Context, wineID string, p profile.Profile) error
	DeleteProfile(ctx context.Context, wineID string) error
	ListProfiles(ctx context.Context) ([]string, error)
}

// CardStore is implemented by stores that also keep recommendation cards.
type CardStore interface {
	UpsertCard(ctx context.Context, c Card) error
	// ReplaceCards drops every card stored for wineID and saves cards in
	// their place.
	ReplaceCards(ctx context.Context, wineID string, cards []Card) error
	GetCardsForWine(ctx context.Context, wineID string, k int) ([]Card, error)
}

// Card is a stored recommendation card.
type Card struct {
	ID        string
	WineID    string // the target the recommendation was made for
	Title     string
	Bullets   []string
	Sources   []string // candidate wine ids backing the card
	ScoreJSON string
}
