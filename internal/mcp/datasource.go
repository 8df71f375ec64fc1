package mcp

import (
	"context"

	"github.com/meltforce/repbook/internal/models"
	"github.com/meltforce/repbook/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and client.Client (remote via REST API) satisfy this interface.
type DataSource interface {
	ListExercises(ctx context.Context, userID int) ([]models.Exercise, error)
	ListWorkoutHistory(ctx context.Context, userID int) ([]models.Workout, error)
	ListAllWorkouts(ctx context.Context, userID int) ([]models.Workout, error)
	ExerciseHistory(ctx context.Context, userID int, exerciseID string) ([]models.Workout, error)
	ListEntries(ctx context.Context, userID int) ([]models.Workout, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
