package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, raw string) (string, error) {
	query := `
		SELECT scope_name
		FROM scope_aliases
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var scope string

	err := s.db.QueryRowContext(ctx, query, raw).Scan(&scope)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding alias: %w", err)
	}

	return scope, nil
}

func (s *Store) Save(ctx context.Context, pattern, scopeName string) error {
	query := `
		INSERT INTO scope_aliases (raw_pattern, scope_name, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT ((LOWER(raw_pattern))) DO UPDATE
		SET scope_name = EXCLUDED.scope_name, created_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query, pattern, scopeName)
	if err != nil {
		return fmt.Errorf("saving alias: %w", err)
	}

	return nil
}
