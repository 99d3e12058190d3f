// Package leaderboard persists retired players to PostgreSQL, per spec
// §6/§4.4 step 2, grounded on database.h's DatabaseManager: ensure the
// table exists, append one row per retirement, and serve the paginated,
// sorted query backing GET /api/v1/game/records.
package leaderboard

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Record is one retired player's result.
type Record struct {
	Name       string
	Score      int64
	PlayTimeMs float64
}

// Store wraps a PostgreSQL connection pool.
type Store struct {
	db *sql.DB
}

// Open connects to the database at dbURL and ensures the schema exists.
func Open(ctx context.Context, dbURL string) (*Store, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS retired_players (
			id UUID PRIMARY KEY,
			name VARCHAR(100),
			score INT,
			play_time_ms DOUBLE PRECISION
		)
	`); err != nil {
		return fmt.Errorf("create retired_players table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS retired_players_sort_idx
		ON retired_players (score DESC, play_time_ms ASC, name ASC)
	`); err != nil {
		return fmt.Errorf("create retired_players index: %w", err)
	}
	return nil
}

// Append inserts one retired player's result under a fresh uuid, per spec
// §4.4 step 2.
func (s *Store) Append(ctx context.Context, name string, score int64, playTimeMs float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO retired_players (id, name, score, play_time_ms) VALUES ($1, $2, $3, $4)`,
		uuid.New(), name, score, playTimeMs,
	)
	if err != nil {
		return fmt.Errorf("insert retired player: %w", err)
	}
	return nil
}

// Query returns up to maxItems records starting at offset start, ordered
// by score descending, play time ascending, name ascending, per spec §6.
func (s *Store) Query(ctx context.Context, start, maxItems int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, score, play_time_ms
		FROM retired_players
		ORDER BY score DESC, play_time_ms ASC, name ASC
		LIMIT $1 OFFSET $2
	`, maxItems, start)
	if err != nil {
		return nil, fmt.Errorf("query retired players: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, maxItems)
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Name, &r.Score, &r.PlayTimeMs); err != nil {
			return nil, fmt.Errorf("scan retired player row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
