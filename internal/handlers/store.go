package handlers

import (
	"context"

	"github.com/qaforge/exercise-e2e/internal/models"
	"github.com/qaforge/exercise-e2e/internal/repository"
)

// RunStore reads run history. *repository.RunRepository implements it.
type RunStore interface {
	ListRuns(ctx context.Context, limit int) ([]repository.RunSummary, error)
	GetRun(ctx context.Context, id string) (*models.Run, error)
	ListResults(ctx context.Context, runID string) ([]*models.ScenarioResult, error)
}
