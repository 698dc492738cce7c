package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore backs the embedding cache with a PostgreSQL table and also
// persists run records and score results for later inspection.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool, verifies it, and ensures the
// schema exists.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS embedding_cache (
			key TEXT PRIMARY KEY,
			vector FLOAT8[] NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS scoring_runs (
			id UUID PRIMARY KEY,
			profile_name TEXT,
			status TEXT NOT NULL DEFAULT 'running',
			started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS score_results (
			run_id UUID NOT NULL REFERENCES scoring_runs(id),
			candidate_id TEXT NOT NULL,
			fit_score FLOAT8 NOT NULL,
			result JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (run_id, candidate_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// Get returns cached vectors for the keys that exist.
func (s *PostgresStore) Get(ctx context.Context, keys []string) (map[string][]float64, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key, vector FROM embedding_cache WHERE key = ANY($1)`, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding cache: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]float64, len(keys))
	for rows.Next() {
		var key string
		var vec []float64
		if err := rows.Scan(&key, &vec); err != nil {
			return nil, fmt.Errorf("failed to scan cache row: %w", err)
		}
		out[key] = vec
	}
	return out, rows.Err()
}

// Put inserts vectors, leaving existing keys untouched so concurrent
// duplicate writes stay idempotent.
func (s *PostgresStore) Put(ctx context.Context, entries map[string][]float64) error {
	for key, vec := range entries {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO embedding_cache (key, vector) VALUES ($1, $2)
			 ON CONFLICT (key) DO NOTHING`,
			key, vec)
		if err != nil {
			return fmt.Errorf("failed to write embedding cache: %w", err)
		}
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// CreateRun records the start of a scoring run and returns its ID.
func (s *PostgresStore) CreateRun(ctx context.Context, profileName string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scoring_runs (id, profile_name, status) VALUES ($1, $2, 'running')`,
		id, profileName)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a scoring run finished with the given status.
func (s *PostgresStore) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE scoring_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// SaveResult persists one score result for a run. Re-saving the same
// candidate overwrites the previous record.
func (s *PostgresStore) SaveResult(ctx context.Context, runID uuid.UUID, candidateID string, fitScore float64, result any) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO score_results (run_id, candidate_id, fit_score, result)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, candidate_id) DO UPDATE SET fit_score = $3, result = $4, created_at = NOW()`,
		runID, candidateID, fitScore, payload)
	if err != nil {
		return fmt.Errorf("failed to save result for %s: %w", candidateID, err)
	}
	return nil
}
