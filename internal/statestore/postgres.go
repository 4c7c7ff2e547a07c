package statestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
)

// PostgresStore is a Postgres-backed Store for hosts that need run state to
// survive a process restart. It drives the standard database/sql interface
// through the pgx stdlib driver rather than a pgx-native pool, so it
// composes with any other database/sql tooling a host already has.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgresStore opens a connection pool against dsn and verifies the
// expected schema exists. Callers own the returned store's lifecycle and
// must call Close when done with it.
func OpenPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres state store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres state store: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS fluxion_run_results (
	run_id       TEXT PRIMARY KEY,
	pipeline_key TEXT NOT NULL,
	status       TEXT NOT NULL,
	result_json  JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS fluxion_step_results (
	run_id   TEXT NOT NULL,
	step_key TEXT NOT NULL,
	result_json JSONB NOT NULL,
	PRIMARY KEY (run_id, step_key)
);
`
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("ensure state store schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) SaveResult(ctx context.Context, result *corepipeline.ExecutionResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal execution result: %w", err)
	}

	const stmt = `
INSERT INTO fluxion_run_results (run_id, pipeline_key, status, result_json)
VALUES ($1, $2, $3, $4)
ON CONFLICT (run_id) DO UPDATE SET
	pipeline_key = EXCLUDED.pipeline_key,
	status = EXCLUDED.status,
	result_json = EXCLUDED.result_json
`
	_, err = s.db.ExecContext(ctx, stmt, result.RunID, result.PipelineKey, string(result.Status), payload)
	if err != nil {
		return fmt.Errorf("save execution result: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadResult(ctx context.Context, runID string) (*corepipeline.ExecutionResult, bool, error) {
	const query = `SELECT result_json FROM fluxion_run_results WHERE run_id = $1`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, runID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load execution result: %w", err)
	}

	var result corepipeline.ExecutionResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode execution result: %w", err)
	}
	return &result, true, nil
}

func (s *PostgresStore) UpdateStep(ctx context.Context, runID, stepKey string, result corepipeline.StepResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal step result: %w", err)
	}

	const stmt = `
INSERT INTO fluxion_step_results (run_id, step_key, result_json)
VALUES ($1, $2, $3)
ON CONFLICT (run_id, step_key) DO UPDATE SET result_json = EXCLUDED.result_json
`
	_, err = s.db.ExecContext(ctx, stmt, runID, stepKey, payload)
	if err != nil {
		return fmt.Errorf("update step result: %w", err)
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
