package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on the kv_blobs table created by the
// migrations in /migrations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error) {
	query := `
		INSERT INTO kv_blobs (key, content_type, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (key)
		DO UPDATE SET
			content_type = EXCLUDED.content_type,
			data = EXCLUDED.data,
			updated_at = now()
	`

	if _, err := s.pool.Exec(ctx, query, key, contentType, data); err != nil {
		return 0, fmt.Errorf("failed to put object: %w", err)
	}
	return int64(len(data)), nil
}

func (s *PostgresStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT data FROM kv_blobs WHERE key = $1`

	var data []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return data, nil
}

func (s *PostgresStore) DeleteObject(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM kv_blobs WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
