package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/repbook/internal/models"
)

// ErrNotFound is returned when a row the caller named does not exist.
var ErrNotFound = errors.New("not found")

// ListExercises returns all exercise definitions for a user, sorted by name.
func (db *DB) ListExercises(ctx context.Context, userID int) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, category, description, created_at, updated_at, usage_count
		 FROM exercises
		 WHERE user_id = $1
		 ORDER BY name ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		ex, err := scanExercise(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, ex)
	}
	return result, rows.Err()
}

// CreateExercise inserts a new exercise definition and returns it.
func (db *DB) CreateExercise(ctx context.Context, userID int, name string, category models.ExerciseCategory, description string) (models.Exercise, error) {
	id := uuid.NewString()
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (id, user_id, name, category, description)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, name, category, description, created_at, updated_at, usage_count`,
		id, userID, name, category, description)

	ex, err := scanExercise(row.Scan)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("inserting exercise: %w", err)
	}
	db.notifyExerciseWatchers(ctx, userID)
	return ex, nil
}

// UpdateExercise rewrites the mutable fields of an exercise definition.
// Returns ErrNotFound when the exercise does not exist for this user.
func (db *DB) UpdateExercise(ctx context.Context, userID int, id string, name string, category models.ExerciseCategory, description string) (models.Exercise, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE exercises
		 SET name = $3, category = $4, description = $5, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, name, category, description, created_at, updated_at, usage_count`,
		id, userID, name, category, description)

	ex, err := scanExercise(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Exercise{}, ErrNotFound
		}
		return models.Exercise{}, fmt.Errorf("updating exercise: %w", err)
	}
	db.notifyExerciseWatchers(ctx, userID)
	return ex, nil
}

// DeleteExercise removes an exercise definition. Workout history keeps its
// denormalized name and category copies, so past records are unaffected.
func (db *DB) DeleteExercise(ctx context.Context, userID int, id string) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM exercises WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	db.notifyExerciseWatchers(ctx, userID)
	return nil
}

// IncrementExerciseUsage bumps the usage counter on an exercise. Incrementing
// an exercise that no longer exists is not an error: the definition may have
// been deleted while a workout referencing it was still open.
func (db *DB) IncrementExerciseUsage(ctx context.Context, userID int, exerciseID string) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE exercises
		 SET usage_count = usage_count + 1, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		exerciseID, userID)
	if err != nil {
		return fmt.Errorf("incrementing exercise usage: %w", err)
	}
	if tag.RowsAffected() > 0 {
		db.notifyExerciseWatchers(ctx, userID)
	}
	return nil
}

// SubscribeExercises registers a callback that receives the user's full
// exercise list after every exercise mutation. The returned cancel func
// unregisters it.
func (db *DB) SubscribeExercises(userID int, fn func([]models.Exercise)) func() {
	db.watchMu.Lock()
	db.watchSeq++
	token := db.watchSeq
	if db.watchers[userID] == nil {
		db.watchers[userID] = make(map[int]func([]models.Exercise))
	}
	db.watchers[userID][token] = fn
	db.watchMu.Unlock()

	return func() {
		db.watchMu.Lock()
		delete(db.watchers[userID], token)
		db.watchMu.Unlock()
	}
}

// notifyExerciseWatchers pushes the current exercise list to every subscriber
// for the user. Failures to load the list drop the notification; the next
// mutation retries.
func (db *DB) notifyExerciseWatchers(ctx context.Context, userID int) {
	db.watchMu.Lock()
	fns := make([]func([]models.Exercise), 0, len(db.watchers[userID]))
	for _, fn := range db.watchers[userID] {
		fns = append(fns, fn)
	}
	db.watchMu.Unlock()

	if len(fns) == 0 {
		return
	}
	exercises, err := db.ListExercises(ctx, userID)
	if err != nil {
		return
	}
	for _, fn := range fns {
		fn(exercises)
	}
}

func scanExercise(scan func(dest ...any) error) (models.Exercise, error) {
	var (
		ex                   models.Exercise
		createdAt, updatedAt time.Time
	)
	err := scan(&ex.ID, &ex.Name, &ex.Category, &ex.Description, &createdAt, &updatedAt, &ex.UsageCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Exercise{}, err
		}
		return models.Exercise{}, fmt.Errorf("scanning exercise: %w", err)
	}
	ex.CreatedAt = createdAt.UnixMilli()
	ex.UpdatedAt = updatedAt.UnixMilli()
	return ex, nil
}
