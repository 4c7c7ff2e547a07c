// Package statestore implements the optional state store capability a host
// may wrap around an engine run: persisting the terminal ExecutionResult,
// reloading it by run ID, and recording individual step outcomes as they
// land. The core engine never calls into this package directly.
package statestore

import (
	"context"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
)

// Store persists pipeline run state. Implementations must be safe for
// concurrent use; a host may be watching several runs at once.
type Store interface {
	// SaveResult persists a run's terminal ExecutionResult.
	SaveResult(ctx context.Context, result *corepipeline.ExecutionResult) error
	// LoadResult retrieves a previously saved ExecutionResult by run ID.
	// The second return value is false if no such run was saved.
	LoadResult(ctx context.Context, runID string) (*corepipeline.ExecutionResult, bool, error)
	// UpdateStep records one step's result for an in-flight or completed
	// run, so a watching host can observe progress before the run ends.
	UpdateStep(ctx context.Context, runID, stepKey string, result corepipeline.StepResult) error
}
