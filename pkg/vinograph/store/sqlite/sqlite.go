package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
	"github.com/cognicore/vinograph/pkg/vinograph/profile"
	"github.com/cognicore/vinograph/pkg/vinograph/store"
)

// sqliteStore implements store.Store and store.CardStore using SQLite.
type sqliteStore struct {
	db *sql.DB
}

// Store is the concrete type returned by OpenSQLite; it satisfies both
// store.Store and store.CardStore.
type Store interface {
	store.Store
	store.CardStore
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (Store, error) {
	// busy_timeout goes in the DSN so every pooled connection gets it
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS profiles (
	wine_id TEXT PRIMARY KEY,
	body TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cards (
	id TEXT PRIMARY KEY,
	wine_id TEXT NOT NULL,
	title TEXT,
	bullets TEXT,
	sources TEXT,
	score_json TEXT
);

CREATE INDEX IF NOT EXISTS idx_cards_wine ON cards(wine_id);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// GetProfile loads and decodes a stored profile.
func (s *sqliteStore) GetProfile(ctx context.Context, wineID string) (profile.Profile, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM profiles WHERE wine_id = ?`, wineID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", wineID, internalerr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %v: %w", wineID, err, internalerr.ErrIOFailure)
	}
	p, err := profile.Unmarshal([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", wineID, err)
	}
	return p, nil
}

// PutProfile inserts or replaces a profile.
func (s *sqliteStore) PutProfile(ctx context.Context, wineID string, p profile.Profile) error {
	body, err := profile.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO profiles (wine_id, body, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(wine_id) DO UPDATE SET
	body=excluded.body,
	updated_at=excluded.updated_at;
`, wineID, string(body), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put profile %s: %v: %w", wineID, err, internalerr.ErrIOFailure)
	}
	return nil
}

// DeleteProfile removes a profile. Deleting a missing profile is not an error.
func (s *sqliteStore) DeleteProfile(ctx context.Context, wineID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE wine_id = ?`, wineID); err != nil {
		return fmt.Errorf("delete profile %s: %v: %w", wineID, err, internalerr.ErrIOFailure)
	}
	return nil
}

// ListProfiles returns stored wine ids, sorted.
func (s *sqliteStore) ListProfiles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT wine_id FROM profiles ORDER BY wine_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const upsertCardSQL = `
INSERT INTO cards (id, wine_id, title, bullets, sources, score_json)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	wine_id=excluded.wine_id,
	title=excluded.title,
	bullets=excluded.bullets,
	sources=excluded.sources,
	score_json=excluded.score_json;
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertCard(ctx context.Context, db execer, c store.Card) error {
	bulletsJSON, err := json.Marshal(c.Bullets)
	if err != nil {
		return err
	}
	sourcesJSON, err := json.Marshal(c.Sources)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, upsertCardSQL, c.ID, c.WineID, c.Title, string(bulletsJSON), string(sourcesJSON), c.ScoreJSON)
	return err
}

// UpsertCard inserts or replaces a card by ID.
func (s *sqliteStore) UpsertCard(ctx context.Context, c store.Card) error {
	return upsertCard(ctx, s.db, c)
}

// ReplaceCards swaps the cards stored for a target wine in one transaction.
func (s *sqliteStore) ReplaceCards(ctx context.Context, wineID string, cards []store.Card) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE wine_id = ?;`, wineID); err != nil {
		return err
	}
	for _, c := range cards {
		c.WineID = wineID
		if err := upsertCard(ctx, tx, c); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetCardsForWine returns up to k cards for a target wine, newest first.
func (s *sqliteStore) GetCardsForWine(ctx context.Context, wineID string, k int) ([]store.Card, error) {
	if k <= 0 {
		k = 10
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, wine_id, title, bullets, sources, score_json
FROM cards
WHERE wine_id = ?
ORDER BY id DESC
LIMIT ?;
`, wineID, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []store.Card
	for rows.Next() {
		var c store.Card
		var bulletsJSON, sourcesJSON string
		if err := rows.Scan(&c.ID, &c.WineID, &c.Title, &bulletsJSON, &sourcesJSON, &c.ScoreJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(bulletsJSON), &c.Bullets); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &c.Sources); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
