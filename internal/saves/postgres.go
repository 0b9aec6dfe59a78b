package saves

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps saves in game.saves, one row per slot.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (p *PGStore) EnsureSchema(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `
		CREATE SCHEMA IF NOT EXISTS game;
		CREATE TABLE IF NOT EXISTS game.saves (
			slot       text PRIMARY KEY,
			blob       text NOT NULL,
			saved_at   timestamptz NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure saves schema: %w", err)
	}
	return nil
}

func (p *PGStore) Save(ctx context.Context, slot, blob string) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	_, err := p.db.Exec(ctx, `
		INSERT INTO game.saves (slot, blob, saved_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slot) DO UPDATE SET blob = $2, saved_at = now()
	`, slot, blob)
	return err
}

func (p *PGStore) Load(ctx context.Context, slot string) (string, error) {
	if err := ValidateSlot(slot); err != nil {
		return "", err
	}
	var blob string
	err := p.db.QueryRow(ctx, `SELECT blob FROM game.saves WHERE slot = $1`, slot).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNoSave
	}
	if err != nil {
		return "", err
	}
	return blob, nil
}

func (p *PGStore) List(ctx context.Context) ([]Slot, error) {
	rows, err := p.db.Query(ctx, `
		SELECT slot, saved_at, length(blob)
		FROM game.saves
		ORDER BY slot
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Slot{}
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.Name, &s.SavedAt, &s.Size); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
